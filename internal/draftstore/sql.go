package draftstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gourmich/recipeform/internal/database"
)

// DraftRecord is the table row behind SQLStore.
type DraftRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	Owner     string `gorm:"index;size:64"`
	Data      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

func (DraftRecord) TableName() string { return "recipe_drafts" }

// SQLStore keeps drafts in a gorm database. Expired rows are invisible to Get
// and removed by Purge.
type SQLStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLStore migrates the drafts table and returns a store over db.
func NewSQLStore(db *gorm.DB, ttl time.Duration, log *slog.Logger) (*SQLStore, error) {
	if err := database.Migrate(db, log, &DraftRecord{}); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SQLStore{db: db, ttl: ttl, now: utcNow}, nil
}

func (s *SQLStore) Save(ctx context.Context, d *Draft) error {
	now := s.now()
	stamp(d, now)

	data, err := json.Marshal(d.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	rec := DraftRecord{
		ID:        d.ID,
		Owner:     d.Owner,
		Data:      string(data),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		ExpiresAt: now.Add(s.ttl),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner", "data", "updated_at", "expires_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Draft, error) {
	var rec DraftRecord
	err := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, s.now()).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	d := &Draft{ID: rec.ID, Owner: rec.Owner, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}
	if err := json.Unmarshal([]byte(rec.Data), &d.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return d, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&DraftRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Purge removes expired drafts and returns how many were deleted.
func (s *SQLStore) Purge(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&DraftRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge drafts: %w", res.Error)
	}
	return res.RowsAffected, nil
}
