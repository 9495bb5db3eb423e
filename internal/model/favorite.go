package model

// UnfavoriteResponse is the plain-text body the toggle endpoint returns when a
// favorite was removed.
const UnfavoriteResponse = "Unfav recipe"

// Favorite is a recipe bookmarked by the signed-in user.
type Favorite struct {
	ID             int64   `json:"id"`
	RecipeID       int64   `json:"recipeId"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	ImageURL       string  `json:"imageUrl"`
	AuthorUsername string  `json:"authorUsername"`
	CookingTime    float64 `json:"cookingTime"`
	Category       string  `json:"category"`
}

// Categories known to the catalog server. The category provider is authoritative;
// these are used when it is unreachable and by test fixtures.
var Categories = []string{"MAIN_COURSE", "SIDE_DISH", "DESSERT", "DRINK", "SNACK", "STARTER"}
