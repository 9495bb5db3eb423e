// Package main registers a fixed set of test accounts through the catalog API.
// Accounts that already exist are skipped.
package main

import (
	"context"
	"log"

	"github.com/gourmich/recipeform/config"
	"github.com/gourmich/recipeform/internal/app"
)

// testPassword satisfies the sign-up password rules.
const testPassword = "TestPass#123"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	slogger := app.NewLogger(cfg)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, slogger)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	testUsers := []struct {
		username string
		email    string
	}{
		{"johndoe", "john.doe@example.com"},
		{"janesmith", "jane.smith@example.com"},
		{"bobwilson", "bob.wilson@example.com"},
		{"alicecooper", "alice.cooper@example.com"},
	}

	log.Println("Registering test users...")

	for _, u := range testUsers {
		exists, err := a.Client.UsernameExists(ctx, u.username)
		if err != nil {
			log.Fatalf("Failed to check %s: %v", u.username, err)
		}
		if exists {
			log.Printf("User %s already exists, skipping...", u.username)
			continue
		}

		err = a.Register(ctx, app.RegisterInput{
			Username:        u.username,
			Email:           u.email,
			Password:        testPassword,
			ConfirmPassword: testPassword,
		})
		if err != nil {
			log.Printf("Failed to register %s: %v", u.username, err)
			continue
		}
		log.Printf("Created user: %s (%s)", u.username, u.email)
	}

	log.Printf("Test users ready, password: %s", testPassword)
}
