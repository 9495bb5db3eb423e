package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables of models.
func Migrate(db *gorm.DB, log *slog.Logger, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate %s schema: %w", db.Dialector.Name(), err)
	}
	log.Debug("schema migrated", "dialect", db.Dialector.Name(), "tables", len(models))
	return nil
}
