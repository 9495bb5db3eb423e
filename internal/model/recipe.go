package model

import "slices"

// RecipeDraft is the in-progress recipe being authored or edited.
// ID is zero until the server assigns one.
type RecipeDraft struct {
	ID             int64             `json:"id,omitempty"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	ImageURL       string            `json:"imageUrl"`
	Category       string            `json:"category"`
	Difficulty     int               `json:"difficulty"`
	CookingTime    float64           `json:"cookingTime"`
	Ingredients    []IngredientDraft `json:"ingredients"`
	Instructions   string            `json:"instructions"`
	AuthorUsername string            `json:"authorUsername,omitempty"`
}

// Clone returns a copy that shares no slices with d.
func (d RecipeDraft) Clone() RecipeDraft {
	d.Ingredients = slices.Clone(d.Ingredients)
	return d
}

// IngredientDraft is one line of a recipe's ingredient list. Names are not unique.
type IngredientDraft struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
}

// Recipe is the read model returned by the catalog API.
type Recipe struct {
	ID             int64             `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	AuthorUsername string            `json:"authorUsername"`
	Ingredients    []IngredientDraft `json:"ingredients"`
	Instructions   string            `json:"instructions"`
	ImageURL       string            `json:"imageUrl,omitempty"`
	CookingTime    float64           `json:"cookingTime"`
	Difficulty     int               `json:"difficulty"`
	Category       string            `json:"category"`
}

// Draft converts a fetched recipe into an editable draft.
func (r *Recipe) Draft() *RecipeDraft {
	return &RecipeDraft{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		ImageURL:       r.ImageURL,
		Category:       r.Category,
		Difficulty:     r.Difficulty,
		CookingTime:    r.CookingTime,
		Ingredients:    slices.Clone(r.Ingredients),
		Instructions:   r.Instructions,
		AuthorUsername: r.AuthorUsername,
	}
}

// RecipePayload is the flat record sent on create and update.
type RecipePayload struct {
	Title          string              `json:"title" validate:"required,min=4,max=30"`
	Description    string              `json:"description"`
	ImageURL       string              `json:"imageUrl" validate:"required,url"`
	Category       string              `json:"category" validate:"required"`
	Difficulty     int                 `json:"difficulty" validate:"required,gte=1,lte=5"`
	CookingTime    float64             `json:"cookingTime" validate:"required,gte=1"`
	Ingredients    []IngredientPayload `json:"ingredients" validate:"required,min=1,dive"`
	Instructions   string              `json:"instructions" validate:"required,min=10"`
	AuthorUsername string              `json:"authorUsername" validate:"required"`
}

// IngredientPayload is the wire form of an ingredient.
type IngredientPayload struct {
	Name     string  `json:"name" validate:"required,min=3,max=30"`
	Quantity float64 `json:"quantity" validate:"gte=1"`
	Unit     string  `json:"unit" validate:"required"`
}

// Payload builds the wire record for d, stamped with author.
func (d RecipeDraft) Payload(author string) *RecipePayload {
	p := &RecipePayload{
		Title:          d.Title,
		Description:    d.Description,
		ImageURL:       d.ImageURL,
		Category:       d.Category,
		Difficulty:     d.Difficulty,
		CookingTime:    d.CookingTime,
		Ingredients:    make([]IngredientPayload, 0, len(d.Ingredients)),
		Instructions:   d.Instructions,
		AuthorUsername: author,
	}
	for _, ing := range d.Ingredients {
		p.Ingredients = append(p.Ingredients, IngredientPayload{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     string(ing.Unit),
		})
	}
	return p
}
