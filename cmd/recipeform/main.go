// Command recipeform authors recipes against the catalog API from the shell.
//
// Usage:
//
//	recipeform categories
//	recipeform recipes
//	recipeform login -u alice -p 'Secret#123'
//	recipeform register -u alice -email alice@example.com -p 'Secret#123'
//	recipeform submit recipe.json
//	recipeform edit -id 12 changes.json
//	recipeform delete -id 12
//	recipeform favorite -id 12
//	recipeform resume <draft-id>
//	recipeform image -id 12 -ttl 15m
//
// Protected commands sign in first when RECIPEFORM_USERNAME and
// RECIPEFORM_PASSWORD are set and no session is stored. Sessions only
// outlive the process with SESSION_BACKEND=redis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gourmich/recipeform/config"
	"github.com/gourmich/recipeform/internal/app"
	"github.com/gourmich/recipeform/internal/form"
	"github.com/gourmich/recipeform/internal/session"
)

type command struct {
	protected bool
	run       func(ctx context.Context, a *app.App, args []string) error
}

var commands = map[string]command{
	"categories": {run: runCategories},
	"recipes":    {run: runRecipes},
	"login":      {run: runLogin},
	"logout":     {run: runLogout},
	"register":   {run: runRegister},
	"submit":     {protected: true, run: runSubmit},
	"edit":       {protected: true, run: runEdit},
	"delete":     {protected: true, run: runDelete},
	"favorite":   {protected: true, run: runFavorite},
	"resume":     {protected: true, run: runResume},
	"image":      {run: runImage},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()
	session.Init(a.Sessions)
	defer session.Teardown()

	if cmd.protected {
		if err := a.EnsureLogin(ctx, os.Getenv("RECIPEFORM_USERNAME"), os.Getenv("RECIPEFORM_PASSWORD")); err != nil {
			report(err)
			os.Exit(1)
		}
	}
	if err := cmd.run(ctx, a, os.Args[2:]); err != nil {
		report(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: recipeform <categories|recipes|login|logout|register|submit|edit|delete|favorite|resume|image> [flags]")
}

// report prints the user-facing message of err, falling back to the raw error.
func report(err error) {
	var subErr *form.SubmissionError
	if errors.As(err, &subErr) && subErr.Message != "" {
		fmt.Fprintln(os.Stderr, subErr.Message)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func runCategories(ctx context.Context, a *app.App, _ []string) error {
	for _, opt := range a.CategoryOptions(ctx) {
		fmt.Printf("%-12s %s\n", opt.Value, opt.Label)
	}
	return nil
}

func runRecipes(ctx context.Context, a *app.App, _ []string) error {
	list, err := a.ListRecipes(ctx)
	if err != nil {
		return err
	}
	for _, r := range list {
		star := " "
		if r.Favorite {
			star = "*"
		}
		fmt.Printf("%s %4d  %-30s %-12s %-6s [%s] %s\n", star, r.ID, r.Title, r.Category, r.Difficulty, r.AuthorInitial, r.Author)
	}
	return nil
}

func runLogin(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("u", os.Getenv("RECIPEFORM_USERNAME"), "username")
	pass := fs.String("p", os.Getenv("RECIPEFORM_PASSWORD"), "password")
	_ = fs.Parse(args)

	if err := a.Login(ctx, *user, *pass); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n", *user)
	return nil
}

func runLogout(ctx context.Context, a *app.App, _ []string) error {
	return a.Logout(ctx)
}

func runRegister(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	user := fs.String("u", "", "username")
	email := fs.String("email", "", "email address")
	pass := fs.String("p", "", "password")
	confirm := fs.String("confirm", "", "password confirmation (defaults to -p)")
	_ = fs.Parse(args)
	if *confirm == "" {
		*confirm = *pass
	}

	err := a.Register(ctx, app.RegisterInput{
		Username:        *user,
		Email:           *email,
		Password:        *pass,
		ConfirmPassword: *confirm,
	})
	if err != nil {
		return err
	}
	fmt.Println("Registration successful")
	return nil
}

func runSubmit(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return errors.New("submit needs one recipe file")
	}
	recipes, err := app.ReadRecipes(args[0])
	if err != nil {
		return err
	}
	for _, in := range recipes {
		res, err := a.CreateRecipe(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("%s (id %d)\n", res.Message, res.RecipeID)
	}
	return nil
}

func runEdit(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.Int64("id", 0, "recipe id")
	_ = fs.Parse(args)
	if *id == 0 || fs.NArg() != 1 {
		return errors.New("edit needs -id and one recipe file")
	}
	recipes, err := app.ReadRecipes(fs.Arg(0))
	if err != nil {
		return err
	}
	if len(recipes) != 1 {
		return errors.New("edit takes a single recipe")
	}
	res, err := a.EditRecipe(ctx, *id, recipes[0])
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	return nil
}

func runDelete(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "recipe id")
	_ = fs.Parse(args)
	if *id == 0 {
		return errors.New("delete needs -id")
	}
	res, err := a.DeleteRecipe(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	return nil
}

func runFavorite(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("favorite", flag.ExitOnError)
	id := fs.Int64("id", 0, "recipe id")
	_ = fs.Parse(args)
	if *id == 0 {
		return errors.New("favorite needs -id")
	}
	msg, err := a.ToggleFavorite(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func runResume(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return errors.New("resume needs a draft id")
	}
	res, err := a.ResumeDraft(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s (id %d)\n", res.Message, res.RecipeID)
	return nil
}

func runImage(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("image", flag.ExitOnError)
	id := fs.Int64("id", 0, "recipe id")
	ttl := fs.Duration("ttl", 15*time.Minute, "link lifetime")
	_ = fs.Parse(args)
	if *id == 0 {
		return errors.New("image needs -id")
	}
	link, err := a.ImageLink(ctx, *id, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(link)
	return nil
}
