// Package form holds the state of the recipe wizard and the account forms.
// A Session is owned by one caller and is not safe for concurrent use.
package form

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/validation"
)

// Mode is fixed when a session starts.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

func (m Mode) valid() bool { return m == ModeCreate || m == ModeEdit }

// Option configures a Session.
type Option func(*options)

type options struct {
	categories  []string
	suggestions []string
	log         *slog.Logger
}

// WithCategories restricts the category field to codes.
func WithCategories(codes []string) Option {
	return func(o *options) { o.categories = codes }
}

// WithSuggestions replaces the ingredient autocomplete list.
func WithSuggestions(names []string) Option {
	return func(o *options) { o.suggestions = names }
}

// WithLogger sets the logger used for session events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{suggestions: DefaultSuggestions, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Session is one run of the recipe wizard.
type Session struct {
	mode     Mode
	recipeID int64
	active   Step

	basics       *group
	instructions *group
	ingredients  *IngredientEditor

	log *slog.Logger
}

// New starts a session. existing seeds the fields and is required in edit mode.
func New(mode Mode, existing *model.RecipeDraft, opts ...Option) (*Session, error) {
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if mode == ModeEdit && (existing == nil || existing.ID == 0) {
		return nil, ErrMissingRecipeID
	}
	o := buildOptions(opts)
	s := newSession(mode, o)

	if existing == nil {
		s.basics.load(map[string]string{FieldCookingTime: defaultCookingTime})
		s.instructions.load(nil)
		s.ingredients = newIngredientEditor(nil, o.suggestions)
		return s, nil
	}

	if mode == ModeEdit {
		s.recipeID = existing.ID
	}
	s.basics.load(map[string]string{
		FieldTitle:       existing.Title,
		FieldDescription: existing.Description,
		FieldImageURL:    existing.ImageURL,
		FieldCategory:    existing.Category,
		FieldDifficulty:  formatDifficulty(existing.Difficulty),
		FieldCookingTime: formatCookingTime(existing.CookingTime),
	})
	s.instructions.load(map[string]string{FieldInstructions: existing.Instructions})
	s.ingredients = newIngredientEditor(existing.Ingredients, o.suggestions)
	return s, nil
}

func newSession(mode Mode, o options) *Session {
	return &Session{
		mode:         mode,
		active:       StepBasics,
		basics:       newGroup(basicsSpecs(o.categories)),
		instructions: newGroup(instructionsSpecs()),
		log:          o.log,
	}
}

// LoadForEdit fetches recipe id and opens an edit session for it.
func LoadForEdit(ctx context.Context, repo RecipeFetcher, id int64, opts ...Option) (*Session, error) {
	r, err := repo.FetchRecipe(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: recipe %d: %w", ErrRecipeUnavailable, id, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: recipe %d", ErrRecipeUnavailable, id)
	}
	d := r.Draft()
	if d.ID == 0 {
		d.ID = id
	}
	return New(ModeEdit, d, opts...)
}

// Mode returns the session mode.
func (s *Session) Mode() Mode { return s.mode }

// RecipeID returns the id being edited, or 0 in create mode.
func (s *Session) RecipeID() int64 { return s.recipeID }

// ActiveStep returns the wizard page currently shown.
func (s *Session) ActiveStep() Step { return s.active }

// Ingredients returns the ingredient editor.
func (s *Session) Ingredients() *IngredientEditor { return s.ingredients }

func (s *Session) step(step Step) (*group, error) {
	switch step {
	case StepBasics:
		return s.basics, nil
	case StepInstructions:
		return s.instructions, nil
	default:
		return nil, fmt.Errorf("%w: step %s", ErrUnknownField, step)
	}
}

// SetField sets a field of the basics or instructions step and re-validates it.
// Ingredients are edited through the IngredientEditor.
func (s *Session) SetField(step Step, name, value string) error {
	g, err := s.step(step)
	if err != nil {
		return err
	}
	if err := g.set(name, value); err != nil {
		return fmt.Errorf("%w: %s.%s", err, step, name)
	}
	return nil
}

// Touch marks a field as blurred.
func (s *Session) Touch(step Step, name string) error {
	g, err := s.step(step)
	if err != nil {
		return err
	}
	f, ok := g.get(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, step, name)
	}
	f.touched = true
	return nil
}

// Field returns the state of one field.
func (s *Session) Field(step Step, name string) (FieldState, error) {
	g, err := s.step(step)
	if err != nil {
		return FieldState{}, err
	}
	f, ok := g.get(name)
	if !ok {
		return FieldState{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, step, name)
	}
	return f.state(), nil
}

// StepValid reports whether step has no active errors.
func (s *Session) StepValid(step Step) bool {
	switch step {
	case StepBasics:
		return s.basics.valid()
	case StepIngredients:
		return s.ingredients.Valid()
	case StepInstructions:
		return s.instructions.valid()
	default:
		return false
	}
}

// FormValid reports whether every step is valid.
func (s *Session) FormValid() bool {
	return s.StepValid(StepBasics) && s.StepValid(StepIngredients) && s.StepValid(StepInstructions)
}

// NextStep advances when the active step is valid. Otherwise every field of the
// step is marked touched and the wizard stays put.
func (s *Session) NextStep() bool {
	if !s.StepValid(s.active) {
		s.touchStep(s.active)
		return false
	}
	if s.active < StepInstructions {
		s.active++
	}
	return true
}

// PreviousStep goes back one page. Going back never validates.
func (s *Session) PreviousStep() {
	if s.active > StepBasics {
		s.active--
	}
}

// TouchAll marks every field of every step as touched.
func (s *Session) TouchAll() {
	for _, step := range []Step{StepBasics, StepIngredients, StepInstructions} {
		s.touchStep(step)
	}
}

func (s *Session) touchStep(step Step) {
	switch step {
	case StepBasics:
		s.basics.touchAll()
	case StepIngredients:
		s.ingredients.touchAll()
	case StepInstructions:
		s.instructions.touchAll()
	}
}

// ValidationState returns the error tags of every field, keyed by path.
// The map is rebuilt on each call.
func (s *Session) ValidationState() map[string]validation.Errors {
	out := make(map[string]validation.Errors)
	s.basics.copyInto(out, "")
	s.instructions.copyInto(out, "")
	out["ingredients"] = s.ingredients.Errors()
	for i, g := range s.ingredients.items {
		g.copyInto(out, "ingredients["+strconv.Itoa(i)+"].")
	}
	return out
}

// Draft returns the typed form values. Unparsable numbers are zero.
func (s *Session) Draft() model.RecipeDraft {
	d := model.RecipeDraft{
		ID:           s.recipeID,
		Title:        s.basics.value(FieldTitle),
		Description:  s.basics.value(FieldDescription),
		ImageURL:     s.basics.value(FieldImageURL),
		Category:     s.basics.value(FieldCategory),
		CookingTime:  parseFloat(s.basics.value(FieldCookingTime)),
		Ingredients:  s.ingredients.Items(),
		Instructions: s.instructions.value(FieldInstructions),
	}
	if n, err := strconv.Atoi(s.basics.value(FieldDifficulty)); err == nil {
		d.Difficulty = n
	}
	return d
}

func formatDifficulty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func formatCookingTime(f float64) string {
	if f == 0 {
		return defaultCookingTime
	}
	return formatFloat(f)
}
