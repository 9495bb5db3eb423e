package form

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/validation"
)

// DefaultSuggestions feeds ingredient name autocomplete.
var DefaultSuggestions = []string{
	"Tomato", "Cheese", "Flour", "Milk", "Sugar",
	"Salt", "Butter", "Eggs", "Vanilla", "Chocolate",
}

// EditorState is the mode of the ingredient editor.
type EditorState int

const (
	// EditorIdle means the scratch buffer holds a new entry.
	EditorIdle EditorState = iota
	// EditorEditing means the scratch buffer holds a copy of the selected ingredient.
	EditorEditing
)

func (s EditorState) String() string {
	if s == EditorEditing {
		return "editing"
	}
	return "idle"
}

// IngredientState is the read-only view of the scratch buffer or a stored ingredient.
type IngredientState struct {
	Name     FieldState
	Quantity FieldState
	Unit     FieldState
}

// Valid reports whether all three fields are valid.
func (s IngredientState) Valid() bool {
	return s.Name.Valid() && s.Quantity.Valid() && s.Unit.Valid()
}

// IngredientEditor owns the ingredient list of a recipe form and the scratch
// buffer used to add or edit one entry at a time.
type IngredientEditor struct {
	items       []*group
	scratch     *group
	selected    int
	touched     bool
	suggestions []string
}

func newIngredientEditor(seed []model.IngredientDraft, suggestions []string) *IngredientEditor {
	e := &IngredientEditor{selected: -1, suggestions: suggestions}
	for _, ing := range seed {
		e.items = append(e.items, newIngredientRecord(map[string]string{
			FieldName:     ing.Name,
			FieldQuantity: formatFloat(ing.Quantity),
			FieldUnit:     string(ing.Unit),
		}))
	}
	e.resetScratch()
	return e
}

func newIngredientRecord(values map[string]string) *group {
	g := newGroup(ingredientSpecs())
	g.load(values)
	return g
}

func (e *IngredientEditor) resetScratch() {
	e.scratch = newIngredientRecord(map[string]string{FieldQuantity: defaultQuantity})
}

const defaultQuantity = "1"

// State returns Idle or Editing.
func (e *IngredientEditor) State() EditorState {
	if e.selected >= 0 {
		return EditorEditing
	}
	return EditorIdle
}

// Selected returns the index being edited.
func (e *IngredientEditor) Selected() (int, bool) {
	return e.selected, e.selected >= 0
}

// Len returns the number of stored ingredients.
func (e *IngredientEditor) Len() int { return len(e.items) }

// Items returns the stored ingredients as typed values. Unparsable quantities are zero.
func (e *IngredientEditor) Items() []model.IngredientDraft {
	out := make([]model.IngredientDraft, 0, len(e.items))
	for _, g := range e.items {
		out = append(out, ingredientDraft(g))
	}
	return out
}

// Item returns the field states of stored ingredient i.
func (e *IngredientEditor) Item(i int) (IngredientState, error) {
	if i < 0 || i >= len(e.items) {
		return IngredientState{}, ErrIngredientIndex
	}
	return ingredientState(e.items[i]), nil
}

// Scratch returns the scratch buffer.
func (e *IngredientEditor) Scratch() IngredientState {
	return ingredientState(e.scratch)
}

// SetScratch edits one field of the scratch buffer.
func (e *IngredientEditor) SetScratch(name, value string) error {
	return e.scratch.set(name, value)
}

// TouchScratch marks a scratch field as blurred.
func (e *IngredientEditor) TouchScratch(name string) {
	if f, ok := e.scratch.get(name); ok {
		f.touched = true
	}
}

// Edit loads ingredient i into the scratch buffer and selects it.
func (e *IngredientEditor) Edit(i int) error {
	if i < 0 || i >= len(e.items) {
		return ErrIngredientIndex
	}
	e.scratch = newIngredientRecord(e.items[i].values())
	e.selected = i
	return nil
}

// Commit stores the scratch buffer if it is valid: in place of the selected
// ingredient when editing, appended otherwise. An invalid buffer is left as is
// with its fields marked touched, and Commit returns false.
func (e *IngredientEditor) Commit() bool {
	if !e.scratch.valid() {
		e.scratch.touchAll()
		return false
	}
	rec := newIngredientRecord(e.scratch.values())
	if e.selected >= 0 {
		e.items[e.selected] = rec
	} else {
		e.items = append(e.items, rec)
	}
	e.touched = true
	e.selected = -1
	e.resetScratch()
	return true
}

// Remove deletes ingredient i. The selection follows the ingredient it pointed
// at; removing the selected ingredient returns the editor to Idle.
func (e *IngredientEditor) Remove(i int) error {
	if i < 0 || i >= len(e.items) {
		return ErrIngredientIndex
	}
	e.items = slices.Delete(e.items, i, i+1)
	e.touched = true
	if e.selected < 0 {
		return nil
	}
	switch {
	case e.selected == i:
		e.Cancel()
	case i < e.selected:
		e.selected--
	}
	if e.selected >= len(e.items) {
		e.Cancel()
	}
	return nil
}

// Cancel abandons a pending edit.
func (e *IngredientEditor) Cancel() {
	e.selected = -1
	e.resetScratch()
}

// Valid reports whether the list is non-empty and every stored ingredient is valid.
func (e *IngredientEditor) Valid() bool {
	if len(e.items) == 0 {
		return false
	}
	for _, g := range e.items {
		if !g.valid() {
			return false
		}
	}
	return true
}

// Errors returns the collection level tags.
func (e *IngredientEditor) Errors() validation.Errors {
	if len(e.items) == 0 {
		return validation.NewErrors(validation.TagRequired)
	}
	return validation.Errors{}
}

// Touched reports whether the list was changed or the step was submitted.
func (e *IngredientEditor) Touched() bool { return e.touched }

func (e *IngredientEditor) touchAll() {
	e.touched = true
	for _, g := range e.items {
		g.touchAll()
	}
}

// Suggest returns known ingredient names containing query, ignoring case.
func (e *IngredientEditor) Suggest(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []string
	for _, s := range e.suggestions {
		if strings.Contains(strings.ToLower(s), q) {
			out = append(out, s)
		}
	}
	return out
}

func ingredientState(g *group) IngredientState {
	return IngredientState{
		Name:     g.fields[FieldName].state(),
		Quantity: g.fields[FieldQuantity].state(),
		Unit:     g.fields[FieldUnit].state(),
	}
}

func ingredientDraft(g *group) model.IngredientDraft {
	return model.IngredientDraft{
		Name:     g.value(FieldName),
		Quantity: parseFloat(g.value(FieldQuantity)),
		Unit:     model.Unit(g.value(FieldUnit)),
	}
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
