package form

import (
	"fmt"
)

// Snapshot is the serializable state of a Session. Field values are kept as typed,
// so a half-entered number survives a round trip.
type Snapshot struct {
	Mode        Mode                `json:"mode"`
	RecipeID    int64               `json:"recipeId,omitempty"`
	ActiveStep  Step                `json:"activeStep"`
	Fields      map[string]string   `json:"fields"`
	Ingredients []map[string]string `json:"ingredients"`
	Scratch     map[string]string   `json:"scratch"`
	Selected    *int                `json:"selected,omitempty"`
}

// Snapshot captures the session for autosave.
func (s *Session) Snapshot() Snapshot {
	fields := s.basics.values()
	for k, v := range s.instructions.values() {
		fields[k] = v
	}
	snap := Snapshot{
		Mode:        s.mode,
		RecipeID:    s.recipeID,
		ActiveStep:  s.active,
		Fields:      fields,
		Ingredients: make([]map[string]string, 0, len(s.ingredients.items)),
		Scratch:     s.ingredients.scratch.values(),
	}
	if i, ok := s.ingredients.Selected(); ok {
		snap.Selected = &i
	}
	for _, g := range s.ingredients.items {
		snap.Ingredients = append(snap.Ingredients, g.values())
	}
	return snap
}

// Restore rebuilds a session from a snapshot. Touched flags are not restored.
func Restore(snap Snapshot, opts ...Option) (*Session, error) {
	if !snap.Mode.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, snap.Mode)
	}
	if snap.Mode == ModeEdit && snap.RecipeID == 0 {
		return nil, ErrMissingRecipeID
	}
	o := buildOptions(opts)
	s := newSession(snap.Mode, o)
	if snap.Mode == ModeEdit {
		s.recipeID = snap.RecipeID
	}
	if snap.ActiveStep >= StepBasics && snap.ActiveStep <= StepInstructions {
		s.active = snap.ActiveStep
	}
	s.basics.load(snap.Fields)
	s.instructions.load(snap.Fields)

	s.ingredients = newIngredientEditor(nil, o.suggestions)
	for _, values := range snap.Ingredients {
		s.ingredients.items = append(s.ingredients.items, newIngredientRecord(values))
	}
	if snap.Scratch != nil {
		s.ingredients.scratch = newIngredientRecord(snap.Scratch)
	}
	if snap.Selected != nil {
		i := *snap.Selected
		if i < 0 || i >= len(s.ingredients.items) {
			return nil, fmt.Errorf("%w: selected %d of %d", ErrIngredientIndex, i, len(s.ingredients.items))
		}
		s.ingredients.selected = i
	}
	return s, nil
}
