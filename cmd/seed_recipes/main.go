// Package main seeds the catalog with recipes read from a JSON file.
//
// Every recipe goes through the same form validation as an interactive
// submission; invalid entries are reported and skipped.
//
// Usage:
//
//	SEED_USERNAME=alice SEED_PASSWORD='Secret#123' go run ./cmd/seed_recipes -file recipes.json
//	go run ./cmd/seed_recipes -file recipes.json -register   # create the seed user first
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gourmich/recipeform/config"
	"github.com/gourmich/recipeform/internal/app"
)

var (
	file     = flag.String("file", "recipes.json", "JSON file with a recipe or an array of recipes")
	register = flag.Bool("register", false, "Register the seed user before seeding")
	email    = flag.String("email", "", "Email of the seed user when registering")
)

func main() {
	flag.Parse()

	username := os.Getenv("SEED_USERNAME")
	password := os.Getenv("SEED_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("SEED_USERNAME and SEED_PASSWORD must be set")
	}

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

	recipes, err := app.ReadRecipes(*file)
	if err != nil {
		log.Fatalf("Failed to read recipes: %v", err)
	}
	fmt.Printf("Loaded %d recipes from %s\n", len(recipes), *file)

	if *register {
		err := a.Register(ctx, app.RegisterInput{
			Username:        username,
			Email:           *email,
			Password:        password,
			ConfirmPassword: password,
		})
		if err != nil {
			log.Fatalf("Failed to register seed user: %v", err)
		}
		fmt.Printf("Registered %s\n", username)
	}

	if err := a.Login(ctx, username, password); err != nil {
		log.Fatalf("Failed to sign in as %s: %v", username, err)
	}

	created, skipped := 0, 0
	for i, in := range recipes {
		res, err := a.CreateRecipe(ctx, in)
		if err != nil {
			var failure *app.SubmitFailure
			if errors.As(err, &failure) || errors.Is(err, app.ErrInvalidIngredient) {
				fmt.Printf("  skipped #%d %q: %v\n", i+1, in.Title, err)
				skipped++
				continue
			}
			log.Fatalf("Failed to create %q: %v", in.Title, err)
		}
		fmt.Printf("  created %q (id %d)\n", in.Title, res.RecipeID)
		created++
	}

	fmt.Printf("\nSeeding complete: %d created, %d skipped\n", created, skipped)
}
