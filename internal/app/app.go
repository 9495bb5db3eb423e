// Package app wires configuration, the session, the catalog client and the
// form engine into the operations the command-line tools expose.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/gourmich/recipeform/config"
	"github.com/gourmich/recipeform/internal/client"
	"github.com/gourmich/recipeform/internal/database"
	"github.com/gourmich/recipeform/internal/draftstore"
	"github.com/gourmich/recipeform/internal/favorites"
	"github.com/gourmich/recipeform/internal/form"
	"github.com/gourmich/recipeform/internal/imagestore"
	"github.com/gourmich/recipeform/internal/logger"
	"github.com/gourmich/recipeform/internal/session"
)

const sessionKeyPrefix = "recipeform:session:"

// App holds the wired components. Drafts and Images are nil when their
// backends are not configured.
type App struct {
	Config      *config.Config
	Log         *slog.Logger
	Sessions    *session.Provider
	Client      *client.Client
	Coordinator *form.Coordinator
	Favorites   *favorites.Manager
	Drafts      draftstore.Store
	Images      *imagestore.Uploader

	redis *redis.Client
}

// New connects every configured backend. Call Close when done.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	if cfg.UsesRedis() {
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
	}

	var store session.Store = session.NewMemoryStore()
	if cfg.SessionBackend == config.BackendRedis {
		store = session.NewRedisStore(a.redis, sessionKeyPrefix, cfg.SessionTTL)
	}
	a.Sessions = session.NewProvider(store, log)

	c, err := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.APITimeout),
		client.WithRateLimit(cfg.APIRateLimitRPS, cfg.APIRateLimitBurst),
		client.WithTokenSource(a.Sessions),
		client.WithLogger(log),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	a.Client = c
	a.Coordinator = form.NewCoordinator(c, a.Sessions, log)
	a.Favorites = favorites.NewManager(c, a.Sessions, log)

	drafts, err := draftstore.Open(cfg, a.redis, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open draft store: %w", err)
	}
	a.Drafts = drafts

	if cfg.S3BucketName != "" {
		s3c, err := cfg.NewS3Client(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Images = imagestore.New(s3c, cfg.S3BucketName, cfg.ImageBaseURL(), log)
	}

	return a, nil
}

// Close releases backend connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn("closing redis failed", "error", err)
		}
		a.redis = nil
	}
}

func (a *App) formOptions(categories []string) []form.Option {
	return []form.Option{form.WithCategories(categories), form.WithLogger(a.Log)}
}

// NewLogger builds the process logger from cfg. Production logs JSON unless
// LOG_FORMAT says otherwise.
func NewLogger(cfg *config.Config) *slog.Logger {
	format := cfg.LogFormat
	if format == "" && cfg.IsProduction() {
		format = logger.FormatJSON
	}
	return logger.New(logger.Config{
		Format:      format,
		Environment: string(cfg.Environment),
		Level:       logger.ParseLevel(cfg.LogLevel),
	})
}
