package draftstore

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/gourmich/recipeform/config"
	"github.com/gourmich/recipeform/internal/database"
)

// Open builds the store selected by cfg.DraftBackend. It returns a nil Store
// when autosave is disabled. rdb is only used by the redis backend.
func Open(cfg *config.Config, rdb *redis.Client, log *slog.Logger) (Store, error) {
	switch cfg.DraftBackend {
	case config.BackendNone, "":
		return nil, nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("draft backend %q needs a redis client", cfg.DraftBackend)
		}
		return NewRedisStore(rdb, cfg.DraftTTL), nil
	case config.BackendSQLite, config.BackendPostgres:
		db, err := database.Open(cfg.DraftBackend, cfg.DraftDSN, log)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db, cfg.DraftTTL, log)
	default:
		return nil, fmt.Errorf("unknown draft backend %q", cfg.DraftBackend)
	}
}
