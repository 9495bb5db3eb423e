package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryLabel(t *testing.T) {
	tests := map[string]string{
		"MAIN_COURSE": "Main Course",
		"DESSERT":     "Dessert",
		"side_dish":   "Side Dish",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, CategoryLabel(in), in)
	}
}

func TestCategoryOptions(t *testing.T) {
	opts := CategoryOptions([]string{"DRINK", "MAIN_COURSE"})
	assert.Equal(t, []Option{
		{Value: "DRINK", Label: "Drink"},
		{Value: "MAIN_COURSE", Label: "Main Course"},
	}, opts)
	assert.Empty(t, CategoryOptions(nil))
}

func TestDifficultyLabel(t *testing.T) {
	assert.Equal(t, "Easy", DifficultyLabel(1))
	assert.Equal(t, "Medium", DifficultyLabel(2))
	assert.Equal(t, "Medium", DifficultyLabel(3))
	assert.Equal(t, "Hard", DifficultyLabel(4))
	assert.Equal(t, "Hard", DifficultyLabel(5))
	assert.Equal(t, "Medium", DifficultyLabel(0))
}

func TestFirstLetter(t *testing.T) {
	assert.Equal(t, "A", FirstLetter("alice"))
	assert.Equal(t, "É", FirstLetter("émile"))
	assert.Equal(t, "", FirstLetter(""))
}
