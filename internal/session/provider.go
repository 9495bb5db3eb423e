// Package session holds the signed-in user's token and name.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	keyToken    = "token"
	keyUsername = "username"
)

var (
	ErrEmptyToken     = errors.New("session: empty token")
	ErrNotInitialized = errors.New("session: provider not initialized")
)

// Provider reads and writes the current session. It is safe for concurrent use.
type Provider struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// NewProvider returns a provider backed by store.
func NewProvider(store Store, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	return &Provider{store: store, log: log, now: time.Now}
}

// Save stores a freshly issued token and the name it was issued to.
func (p *Provider) Save(ctx context.Context, token, username string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := p.store.Set(ctx, keyToken, token); err != nil {
		return err
	}
	if err := p.store.Set(ctx, keyUsername, username); err != nil {
		return err
	}
	p.log.Info("session saved", "username", username)
	return nil
}

// Token returns the stored bearer token.
func (p *Provider) Token(ctx context.Context) (string, bool) {
	return p.get(ctx, keyToken)
}

// CurrentUsername returns the signed-in user's name.
func (p *Provider) CurrentUsername(ctx context.Context) (string, bool) {
	return p.get(ctx, keyUsername)
}

func (p *Provider) get(ctx context.Context, key string) (string, bool) {
	v, ok, err := p.store.Get(ctx, key)
	if err != nil {
		p.log.Warn("session store read failed", "key", key, "error", err)
		return "", false
	}
	return v, ok && v != ""
}

// IsLoggedIn reports whether a token is stored and, when it is a JWT with an
// expiry, not yet expired. The signature is not checked; the server does that.
func (p *Provider) IsLoggedIn(ctx context.Context) bool {
	token, ok := p.Token(ctx)
	if !ok {
		return false
	}
	exp, err := expiry(token)
	if err != nil {
		// opaque token
		return true
	}
	return exp.IsZero() || p.now().Before(exp)
}

// Clear signs the user out.
func (p *Provider) Clear(ctx context.Context) error {
	if err := p.store.Delete(ctx, keyToken, keyUsername); err != nil {
		return err
	}
	p.log.Info("session cleared")
	return nil
}

// expiry returns the exp claim of an unverified JWT, or zero when absent.
func expiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

var (
	defaultMu       sync.RWMutex
	defaultProvider *Provider
)

// Init installs p as the process-wide provider.
func Init(p *Provider) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultProvider = p
}

// Default returns the process-wide provider.
func Default() (*Provider, error) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultProvider == nil {
		return nil, ErrNotInitialized
	}
	return defaultProvider, nil
}

// Teardown removes the process-wide provider.
func Teardown() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultProvider = nil
}
