package app

import (
	"context"
	"fmt"

	"github.com/gourmich/recipeform/internal/form"
	"github.com/gourmich/recipeform/internal/validation"
)

// Login signs in and stores the session.
func (a *App) Login(ctx context.Context, username, password string) error {
	l := form.NewLogin(a.Log)
	if err := l.SetField(form.FieldUsername, username); err != nil {
		return err
	}
	if err := l.SetField(form.FieldPassword, password); err != nil {
		return err
	}
	return l.Submit(ctx, a.Client, a.Sessions)
}

// EnsureLogin signs in with the given credentials unless a live session exists.
func (a *App) EnsureLogin(ctx context.Context, username, password string) error {
	if a.Sessions.IsLoggedIn(ctx) || username == "" {
		return nil
	}
	return a.Login(ctx, username, password)
}

// Logout drops the stored session.
func (a *App) Logout(ctx context.Context) error {
	return a.Sessions.Clear(ctx)
}

// RegisterInput is the sign-up form as entered.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register fills the sign-up form field by field, waits for the availability
// checks to settle and submits it. On validation failure the returned
// SubmitFailure lists the failing fields.
func (a *App) Register(ctx context.Context, in RegisterInput) error {
	settled := make(chan struct{}, 2)
	r := form.NewRegistration(a.Client, a.Log,
		validation.WithDebounce(a.Config.UniqueCheckDebounce),
		validation.WithOnSettle(func(string, validation.Status) { settled <- struct{}{} }),
	)

	fields := []struct{ name, value string }{
		{form.FieldUsername, in.Username},
		{form.FieldEmail, in.Email},
		{form.FieldPassword, in.Password},
		{form.FieldConfirmPassword, in.ConfirmPassword},
	}
	pending := 0
	for _, f := range fields {
		if err := r.SetField(f.name, f.value); err != nil {
			return err
		}
		if err := r.Commit(ctx, f.name); err != nil {
			return err
		}
		if r.Status(f.name) == validation.StatusPending {
			pending++
		}
	}
	for ; pending > 0; pending-- {
		select {
		case <-settled:
		case <-ctx.Done():
			return fmt.Errorf("waiting for availability checks: %w", ctx.Err())
		}
	}

	if err := r.Submit(ctx, a.Client); err != nil {
		failure := &SubmitFailure{Err: err, Fields: make(map[string][]validation.Tag)}
		for _, f := range fields {
			st, ferr := r.Field(f.name)
			if ferr == nil && !st.Errors.Empty() {
				failure.Fields[f.name] = st.Errors.Tags()
			}
		}
		return failure
	}
	return nil
}
