package form

import (
	"github.com/gourmich/recipeform/internal/validation"
)

// FieldState is a read-only view of one field.
type FieldState struct {
	Value   string
	Errors  validation.Errors
	Touched bool
	Dirty   bool
}

// Valid reports whether the field has no active error tags.
func (f FieldState) Valid() bool { return f.Errors.Empty() }

type fieldSpec struct {
	name  string
	rules []validation.Rule
}

type field struct {
	value   string
	errs    validation.Errors
	touched bool
	dirty   bool
	rules   []validation.Rule
}

func (f *field) set(value string) {
	f.value = value
	f.errs = validation.Evaluate(value, f.rules...)
	f.dirty = true
}

// load sets value as initial data without marking the field dirty.
func (f *field) load(value string) {
	f.value = value
	f.errs = validation.Evaluate(value, f.rules...)
}

func (f *field) state() FieldState {
	return FieldState{Value: f.value, Errors: f.errs.Clone(), Touched: f.touched, Dirty: f.dirty}
}

// group is an ordered set of fields validated together: a wizard step, an
// ingredient record or the scratch buffer.
type group struct {
	order  []string
	fields map[string]*field
}

func newGroup(specs []fieldSpec) *group {
	g := &group{fields: make(map[string]*field, len(specs))}
	for _, s := range specs {
		g.order = append(g.order, s.name)
		g.fields[s.name] = &field{rules: s.rules}
	}
	return g
}

func (g *group) get(name string) (*field, bool) {
	f, ok := g.fields[name]
	return f, ok
}

func (g *group) set(name, value string) error {
	f, ok := g.fields[name]
	if !ok {
		return ErrUnknownField
	}
	f.set(value)
	return nil
}

func (g *group) load(values map[string]string) {
	for _, name := range g.order {
		g.fields[name].load(values[name])
	}
}

func (g *group) value(name string) string {
	if f, ok := g.fields[name]; ok {
		return f.value
	}
	return ""
}

func (g *group) values() map[string]string {
	out := make(map[string]string, len(g.order))
	for _, name := range g.order {
		out[name] = g.fields[name].value
	}
	return out
}

func (g *group) valid() bool {
	for _, f := range g.fields {
		if !f.errs.Empty() {
			return false
		}
	}
	return true
}

func (g *group) touchAll() {
	for _, f := range g.fields {
		f.touched = true
	}
}

func (g *group) untouch() {
	for _, f := range g.fields {
		f.touched = false
		f.dirty = false
	}
}

// copyInto writes the errors of every field into dst, keyed by prefix+name.
func (g *group) copyInto(dst map[string]validation.Errors, prefix string) {
	for _, name := range g.order {
		dst[prefix+name] = g.fields[name].errs.Clone()
	}
}
