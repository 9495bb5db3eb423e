// Package draftstore autosaves in-progress recipe forms so they survive a
// restart of the client.
package draftstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gourmich/recipeform/internal/form"
)

var ErrNotFound = errors.New("draft not found")

// DefaultTTL is how long an untouched draft is kept.
const DefaultTTL = 24 * time.Hour

// Draft is a saved form snapshot owned by one user.
type Draft struct {
	ID        string        `json:"id"`
	Owner     string        `json:"owner"`
	Snapshot  form.Snapshot `json:"snapshot"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Store persists drafts. Save assigns an ID to new drafts.
type Store interface {
	Save(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Delete(ctx context.Context, id string) error
}

// stamp assigns an ID and timestamps before a write.
func stamp(d *Draft, now time.Time) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
}

func utcNow() time.Time { return time.Now().UTC() }
