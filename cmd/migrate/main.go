// Package main prepares the SQL draft store and clears expired drafts.
//
// Usage:
//
//	DRAFT_BACKEND=postgres DRAFT_DSN=... go run ./cmd/migrate
//	DRAFT_BACKEND=sqlite go run ./cmd/migrate -purge
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/gourmich/recipeform/config"
	"github.com/gourmich/recipeform/internal/app"
	"github.com/gourmich/recipeform/internal/database"
	"github.com/gourmich/recipeform/internal/draftstore"
)

func main() {
	purge := flag.Bool("purge", false, "Delete expired drafts after migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DraftBackend != config.BackendSQLite && cfg.DraftBackend != config.BackendPostgres {
		log.Fatalf("DRAFT_BACKEND must be %q or %q, got %q", config.BackendSQLite, config.BackendPostgres, cfg.DraftBackend)
	}
	slogger := app.NewLogger(cfg)

	db, err := database.Open(cfg.DraftBackend, cfg.DraftDSN, slogger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// NewSQLStore migrates the drafts table
	store, err := draftstore.NewSQLStore(db, cfg.DraftTTL, slogger)
	if err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}
	fmt.Println("Draft schema is up to date")

	if *purge {
		n, err := store.Purge(context.Background())
		if err != nil {
			log.Fatalf("Failed to purge drafts: %v", err)
		}
		fmt.Printf("Purged %d expired drafts\n", n)
	}
}
