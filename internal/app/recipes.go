package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gourmich/recipeform/internal/draftstore"
	"github.com/gourmich/recipeform/internal/favorites"
	"github.com/gourmich/recipeform/internal/form"
	"github.com/gourmich/recipeform/internal/format"
	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/validation"
)

var (
	ErrNoImageStore      = errors.New("image uploads are not configured")
	ErrNoDraftStore      = errors.New("draft autosave is not configured")
	ErrInvalidIngredient = errors.New("invalid ingredient")
	ErrDraftOwner        = errors.New("draft belongs to another user")
)

// RecipeInput is a recipe as written in a JSON file. Values are raw form
// input. When editing, empty fields keep the stored value and a missing
// ingredient list keeps the stored ingredients.
type RecipeInput struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	ImageURL     string            `json:"imageUrl"`
	ImagePath    string            `json:"imagePath"`
	Category     string            `json:"category"`
	Difficulty   json.Number       `json:"difficulty"`
	CookingTime  json.Number       `json:"cookingTime"`
	Instructions string            `json:"instructions"`
	Ingredients  []IngredientInput `json:"ingredients"`
}

type IngredientInput struct {
	Name     string      `json:"name"`
	Quantity json.Number `json:"quantity"`
	Unit     string      `json:"unit"`
}

// ReadRecipes decodes a JSON file holding one recipe object or an array of them.
func ReadRecipes(path string) ([]RecipeInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []RecipeInput
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return list, nil
	}
	var one RecipeInput
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return []RecipeInput{one}, nil
}

// SubmitFailure is returned when a submission did not go through. Fields
// lists the failing validation tags by field path; DraftID is set when the
// form was autosaved.
type SubmitFailure struct {
	Err     error
	Fields  map[string][]validation.Tag
	DraftID string
}

func (f *SubmitFailure) Error() string {
	msg := f.Err.Error()
	if len(f.Fields) > 0 {
		paths := slices.Sorted(maps.Keys(f.Fields))
		parts := make([]string, 0, len(paths))
		for _, p := range paths {
			parts = append(parts, fmt.Sprintf("%s: %v", p, f.Fields[p]))
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if f.DraftID != "" {
		msg += "; draft saved as " + f.DraftID
	}
	return msg
}

func (f *SubmitFailure) Unwrap() error { return f.Err }

// Categories returns the server's categories, or the built-in list when the
// server cannot be reached.
func (a *App) Categories(ctx context.Context) []string {
	cats, err := a.Client.ListCategories(ctx)
	if err != nil || len(cats) == 0 {
		a.Log.Warn("using built-in categories", "error", err)
		return slices.Clone(model.Categories)
	}
	return cats
}

// CategoryOptions returns the categories with display labels.
func (a *App) CategoryOptions(ctx context.Context) []format.Option {
	return format.CategoryOptions(a.Categories(ctx))
}

// CreateRecipe fills a new form from in and submits it.
func (a *App) CreateRecipe(ctx context.Context, in RecipeInput) (*form.Result, error) {
	s, err := form.New(form.ModeCreate, nil, a.formOptions(a.Categories(ctx))...)
	if err != nil {
		return nil, err
	}
	if err := a.fill(ctx, s, in); err != nil {
		return nil, err
	}
	return a.submit(ctx, s, "")
}

// EditRecipe loads recipe id, applies in on top of it and submits the update.
func (a *App) EditRecipe(ctx context.Context, id int64, in RecipeInput) (*form.Result, error) {
	s, err := form.LoadForEdit(ctx, a.Client, id, a.formOptions(a.Categories(ctx))...)
	if err != nil {
		return nil, err
	}
	if err := a.fill(ctx, s, in); err != nil {
		return nil, err
	}
	return a.submit(ctx, s, "")
}

// DeleteRecipe removes recipe id.
func (a *App) DeleteRecipe(ctx context.Context, id int64) (*form.Result, error) {
	return a.Coordinator.Delete(ctx, id)
}

// ResumeDraft restores an autosaved form and submits it again. Only the user
// who saved the draft may resume it; drafts saved while signed out are open to
// anyone. The draft is removed once the submission succeeds.
func (a *App) ResumeDraft(ctx context.Context, draftID string) (*form.Result, error) {
	if a.Drafts == nil {
		return nil, ErrNoDraftStore
	}
	d, err := a.Drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.Owner != "" {
		if user, _ := a.Sessions.CurrentUsername(ctx); user != d.Owner {
			return nil, fmt.Errorf("%w: %s", ErrDraftOwner, draftID)
		}
	}
	s, err := form.Restore(d.Snapshot, a.formOptions(a.Categories(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore draft %s: %w", draftID, err)
	}
	return a.submit(ctx, s, draftID)
}

func (a *App) fill(ctx context.Context, s *form.Session, in RecipeInput) error {
	if in.ImagePath != "" {
		if a.Images == nil {
			return ErrNoImageStore
		}
		url, err := a.Images.UploadFile(ctx, in.ImagePath)
		if err != nil {
			return err
		}
		in.ImageURL = url
	}

	basics := []struct{ name, value string }{
		{form.FieldTitle, in.Title},
		{form.FieldDescription, in.Description},
		{form.FieldImageURL, in.ImageURL},
		{form.FieldCategory, in.Category},
		{form.FieldDifficulty, in.Difficulty.String()},
		{form.FieldCookingTime, in.CookingTime.String()},
	}
	for _, f := range basics {
		if f.value == "" {
			continue
		}
		if err := s.SetField(form.StepBasics, f.name, f.value); err != nil {
			return err
		}
	}
	if in.Instructions != "" {
		if err := s.SetField(form.StepInstructions, form.FieldInstructions, in.Instructions); err != nil {
			return err
		}
	}

	if in.Ingredients == nil {
		return nil
	}
	ed := s.Ingredients()
	for ed.Len() > 0 {
		if err := ed.Remove(0); err != nil {
			return err
		}
	}
	for i, ing := range in.Ingredients {
		for _, f := range []struct{ name, value string }{
			{form.FieldName, ing.Name},
			{form.FieldQuantity, ing.Quantity.String()},
			{form.FieldUnit, ing.Unit},
		} {
			if f.value == "" && f.name == form.FieldQuantity {
				continue
			}
			if err := ed.SetScratch(f.name, f.value); err != nil {
				return err
			}
			ed.TouchScratch(f.name)
		}
		if !ed.Commit() {
			return fmt.Errorf("%w #%d %q: %s", ErrInvalidIngredient, i+1, ing.Name, describe(ed.Scratch()))
		}
	}
	return nil
}

func describe(st form.IngredientState) string {
	var parts []string
	for _, f := range []struct {
		name  string
		state form.FieldState
	}{
		{form.FieldName, st.Name},
		{form.FieldQuantity, st.Quantity},
		{form.FieldUnit, st.Unit},
	} {
		if !f.state.Errors.Empty() {
			parts = append(parts, fmt.Sprintf("%s %v", f.name, f.state.Errors.Tags()))
		}
	}
	return strings.Join(parts, ", ")
}

// submit sends s and autosaves it on failure. draftID names an existing
// draft to overwrite on failure or delete on success.
func (a *App) submit(ctx context.Context, s *form.Session, draftID string) (*form.Result, error) {
	res, err := a.Coordinator.Submit(ctx, s)
	if err == nil {
		if draftID != "" {
			if err := a.Drafts.Delete(ctx, draftID); err != nil {
				a.Log.Warn("removing submitted draft failed", "draft_id", draftID, "error", err)
			}
		}
		return res, nil
	}

	failure := &SubmitFailure{Err: err, Fields: failingFields(s)}
	if a.Drafts != nil {
		owner, _ := a.Sessions.CurrentUsername(ctx)
		d := &draftstore.Draft{ID: draftID, Owner: owner, Snapshot: s.Snapshot()}
		if serr := a.Drafts.Save(ctx, d); serr != nil {
			a.Log.Warn("autosaving draft failed", "error", serr)
		} else {
			failure.DraftID = d.ID
		}
	}
	return nil, failure
}

func failingFields(s *form.Session) map[string][]validation.Tag {
	out := make(map[string][]validation.Tag)
	for path, errs := range s.ValidationState() {
		if !errs.Empty() {
			out[path] = errs.Tags()
		}
	}
	return out
}

// RecipeSummary is one line of a recipe listing.
type RecipeSummary struct {
	ID            int64
	Title         string
	Author        string
	AuthorInitial string
	Category      string
	Difficulty    string
	Favorite      bool
}

// ListRecipes returns the catalog with display labels and favorite flags.
func (a *App) ListRecipes(ctx context.Context) ([]RecipeSummary, error) {
	recipes, err := a.Client.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	a.Favorites.Initialize(ctx, ids)

	out := make([]RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, RecipeSummary{
			ID:            r.ID,
			Title:         r.Title,
			Author:        r.AuthorUsername,
			AuthorInitial: format.FirstLetter(r.AuthorUsername),
			Category:      format.CategoryLabel(r.Category),
			Difficulty:    format.DifficultyLabel(r.Difficulty),
			Favorite:      a.Favorites.Status(r.ID),
		})
	}
	return out, nil
}

// ToggleFavorite flips the favorite flag of recipe id and returns the notice.
func (a *App) ToggleFavorite(ctx context.Context, id int64) (string, error) {
	on, err := a.Favorites.Toggle(ctx, id)
	if err != nil {
		return "", err
	}
	return favorites.Message(on), nil
}

// ImageLink returns a time-limited download URL for the image of recipe id.
func (a *App) ImageLink(ctx context.Context, id int64, ttl time.Duration) (string, error) {
	if a.Images == nil {
		return "", ErrNoImageStore
	}
	r, err := a.Client.FetchRecipe(ctx, id)
	if err != nil {
		return "", err
	}
	if r.ImageURL == "" {
		return "", fmt.Errorf("recipe %d has no image", id)
	}
	return a.Images.PresignedURL(ctx, r.ImageURL, ttl)
}
