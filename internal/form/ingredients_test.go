package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gourmich/recipeform/internal/form"
	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/validation"
)

func newEditor(t *testing.T, names ...string) *form.IngredientEditor {
	t.Helper()
	ings := make([]model.IngredientDraft, 0, len(names))
	for _, n := range names {
		ings = append(ings, model.IngredientDraft{Name: n, Quantity: 1, Unit: model.UnitGram})
	}
	s, err := form.New(form.ModeEdit, &model.RecipeDraft{ID: 1, Ingredients: ings})
	require.NoError(t, err)
	return s.Ingredients()
}

func setScratch(t *testing.T, ed *form.IngredientEditor, name, qty, unit string) {
	t.Helper()
	require.NoError(t, ed.SetScratch(form.FieldName, name))
	require.NoError(t, ed.SetScratch(form.FieldQuantity, qty))
	require.NoError(t, ed.SetScratch(form.FieldUnit, unit))
}

func assertScratchReset(t *testing.T, ed *form.IngredientEditor) {
	t.Helper()
	sc := ed.Scratch()
	assert.Equal(t, "", sc.Name.Value)
	assert.Equal(t, "1", sc.Quantity.Value)
	assert.Equal(t, "", sc.Unit.Value)
	assert.False(t, sc.Name.Touched)
}

func TestCommit_AppendsWhenIdle(t *testing.T) {
	ed := newEditor(t, "Flour")
	setScratch(t, ed, "Sugar", "200", "g")

	assert.True(t, ed.Commit())
	assert.Equal(t, 2, ed.Len())
	assert.Equal(t, form.EditorIdle, ed.State())
	assert.Equal(t, model.IngredientDraft{Name: "Sugar", Quantity: 200, Unit: model.UnitGram}, ed.Items()[1])
	assertScratchReset(t, ed)
}

func TestCommit_ReplacesInPlaceWhenEditing(t *testing.T) {
	ed := newEditor(t, "Flour", "Milk", "Eggs")
	require.NoError(t, ed.Edit(1))
	assert.Equal(t, "Milk", ed.Scratch().Name.Value)

	require.NoError(t, ed.SetScratch(form.FieldName, "Oat milk"))
	assert.True(t, ed.Commit())

	assert.Equal(t, 3, ed.Len())
	assert.Equal(t, "Oat milk", ed.Items()[1].Name)
	assert.Equal(t, form.EditorIdle, ed.State())
	assertScratchReset(t, ed)
}

func TestCommit_InvalidScratchIsRejected(t *testing.T) {
	ed := newEditor(t, "Flour")
	require.NoError(t, ed.Edit(0))
	setScratch(t, ed, "Fl", "0", "cup")

	assert.False(t, ed.Commit())
	assert.Equal(t, form.EditorEditing, ed.State())
	assert.Equal(t, "Flour", ed.Items()[0].Name)

	sc := ed.Scratch()
	assert.True(t, sc.Name.Touched)
	assert.True(t, sc.Quantity.Touched)
	assert.True(t, sc.Unit.Touched)
	assert.True(t, sc.Name.Errors.Has(validation.TagMinLength))
	assert.True(t, sc.Quantity.Errors.Has(validation.TagMin))
	assert.True(t, sc.Unit.Errors.Has(validation.TagOneOf))
}

func TestCommit_EmptyScratchIsRejected(t *testing.T) {
	ed := newEditor(t)
	assert.False(t, ed.Commit())
	assert.Zero(t, ed.Len())
	assert.True(t, ed.Scratch().Name.Errors.Has(validation.TagRequired))
}

func TestEdit_OutOfRange(t *testing.T) {
	ed := newEditor(t, "Flour")
	assert.ErrorIs(t, ed.Edit(1), form.ErrIngredientIndex)
	assert.ErrorIs(t, ed.Edit(-1), form.ErrIngredientIndex)
	assert.Equal(t, form.EditorIdle, ed.State())
}

func TestRemove_SelectedReturnsToIdle(t *testing.T) {
	for _, tc := range []struct {
		name     string
		selected int
	}{
		{"first", 0},
		{"middle", 1},
		{"last", 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ed := newEditor(t, "Flour", "Milk", "Eggs")
			require.NoError(t, ed.Edit(tc.selected))
			require.NoError(t, ed.SetScratch(form.FieldName, "Changed"))

			require.NoError(t, ed.Remove(tc.selected))
			assert.Equal(t, form.EditorIdle, ed.State())
			assert.Equal(t, 2, ed.Len())
			assertScratchReset(t, ed)
		})
	}
}

func TestRemove_SelectionFollowsIngredient(t *testing.T) {
	ed := newEditor(t, "Flour", "Milk", "Eggs")
	require.NoError(t, ed.Edit(2))

	require.NoError(t, ed.Remove(0))
	i, editing := ed.Selected()
	require.True(t, editing)
	assert.Equal(t, 1, i)
	assert.Equal(t, "Eggs", ed.Items()[i].Name)
	assert.Equal(t, "Eggs", ed.Scratch().Name.Value)

	require.NoError(t, ed.Remove(0))
	i, editing = ed.Selected()
	require.True(t, editing)
	assert.Equal(t, 0, i)
}

func TestRemove_AfterSelectionKeepsSelection(t *testing.T) {
	ed := newEditor(t, "Flour", "Milk", "Eggs")
	require.NoError(t, ed.Edit(0))
	require.NoError(t, ed.Remove(2))

	i, editing := ed.Selected()
	assert.True(t, editing)
	assert.Equal(t, 0, i)
}

func TestRemove_OutOfRange(t *testing.T) {
	ed := newEditor(t, "Flour")
	assert.ErrorIs(t, ed.Remove(3), form.ErrIngredientIndex)
	assert.Equal(t, 1, ed.Len())
}

func TestRemove_LastIngredientInvalidatesCollection(t *testing.T) {
	ed := newEditor(t, "Flour")
	require.True(t, ed.Valid())
	require.NoError(t, ed.Remove(0))
	assert.False(t, ed.Valid())
	assert.True(t, ed.Errors().Has(validation.TagRequired))
}

func TestCancel(t *testing.T) {
	ed := newEditor(t, "Flour")
	require.NoError(t, ed.Edit(0))
	require.NoError(t, ed.SetScratch(form.FieldName, "Rye flour"))

	ed.Cancel()
	assert.Equal(t, form.EditorIdle, ed.State())
	assert.Equal(t, "Flour", ed.Items()[0].Name)
	assertScratchReset(t, ed)
}

func TestSetScratch_UnknownField(t *testing.T) {
	ed := newEditor(t)
	assert.ErrorIs(t, ed.SetScratch("calories", "1"), form.ErrUnknownField)
}

func TestSuggest(t *testing.T) {
	ed := newEditor(t)
	assert.Equal(t, []string{"Tomato"}, ed.Suggest("TOM"))
	assert.Equal(t, []string{"Flour", "Milk", "Salt", "Vanilla", "Chocolate"}, ed.Suggest("l"))
	assert.Empty(t, ed.Suggest("xyz"))
	assert.Len(t, ed.Suggest(""), len(form.DefaultSuggestions))

	s, err := form.New(form.ModeCreate, nil, form.WithSuggestions([]string{"Basil", "Bay leaf"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Basil", "Bay leaf"}, s.Ingredients().Suggest("ba"))
}

func TestCommit_RegisteredUnit(t *testing.T) {
	ed := newEditor(t, "Flour")

	setScratch(t, ed, "Olive oil", "2", "tbsp")
	assert.False(t, ed.Commit())
	assert.True(t, ed.Scratch().Unit.Errors.Has(validation.TagOneOf))

	model.RegisterUnit("tbsp")
	t.Cleanup(func() { model.UnregisterUnit("tbsp") })

	setScratch(t, ed, "Olive oil", "2", "tbsp")
	require.True(t, ed.Commit())
	assert.Equal(t, model.IngredientDraft{Name: "Olive oil", Quantity: 2, Unit: "tbsp"}, ed.Items()[1])

	setScratch(t, ed, "Olive oil", "2", "cup")
	assert.False(t, ed.Commit())
	assert.Equal(t, []validation.Tag{validation.TagOneOf}, ed.Scratch().Unit.Errors.Tags())
}

func TestTouchScratch(t *testing.T) {
	ed := newEditor(t)
	assert.False(t, ed.Scratch().Name.Touched)

	ed.TouchScratch(form.FieldName)
	sc := ed.Scratch()
	assert.True(t, sc.Name.Touched)
	assert.False(t, sc.Unit.Touched)
	assert.True(t, sc.Name.Errors.Has(validation.TagRequired))

	ed.TouchScratch("calories")
	assert.False(t, ed.Scratch().Quantity.Touched)
}
