package form

import (
	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/validation"
)

// Step is a page of the recipe wizard.
type Step int

const (
	StepBasics Step = iota + 1
	StepIngredients
	StepInstructions
)

func (s Step) String() string {
	switch s {
	case StepBasics:
		return "basics"
	case StepIngredients:
		return "ingredients"
	case StepInstructions:
		return "instructions"
	default:
		return "unknown"
	}
}

// Recipe field names. They match the JSON names of the payload.
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldImageURL     = "imageUrl"
	FieldCategory     = "category"
	FieldDifficulty   = "difficulty"
	FieldCookingTime  = "cookingTime"
	FieldInstructions = "instructions"

	FieldName     = "name"
	FieldQuantity = "quantity"
	FieldUnit     = "unit"
)

// Account field names.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

const defaultCookingTime = "1"

func basicsSpecs(categories []string) []fieldSpec {
	category := []validation.Rule{validation.Required()}
	if len(categories) > 0 {
		category = append(category, validation.OneOf(categories...))
	}
	return []fieldSpec{
		{FieldTitle, []validation.Rule{
			validation.Required(),
			validation.MinLength(4),
			validation.MaxLength(30),
			validation.Pattern(validation.SingleLineText),
		}},
		{FieldDescription, []validation.Rule{validation.Pattern(validation.MultiLineText)}},
		{FieldImageURL, []validation.Rule{validation.Required(), validation.Pattern(validation.ImageURL)}},
		{FieldCategory, category},
		{FieldDifficulty, []validation.Rule{
			validation.Required(),
			validation.Pattern(validation.Integer),
			validation.Min(1),
			validation.Max(5),
		}},
		{FieldCookingTime, []validation.Rule{
			validation.Required(),
			validation.Pattern(validation.Decimal),
			validation.Min(1),
		}},
	}
}

func instructionsSpecs() []fieldSpec {
	return []fieldSpec{
		{FieldInstructions, []validation.Rule{
			validation.Required(),
			validation.MinLength(10),
			validation.Pattern(validation.MultiLineText),
		}},
	}
}

func ingredientSpecs() []fieldSpec {
	return []fieldSpec{
		{FieldName, []validation.Rule{
			validation.Required(),
			validation.MinLength(3),
			validation.MaxLength(30),
			validation.Pattern(validation.SingleLineText),
		}},
		{FieldQuantity, []validation.Rule{
			validation.Required(),
			validation.Pattern(validation.Decimal),
			validation.Min(1),
		}},
		{FieldUnit, []validation.Rule{validation.Required(), validation.OneOfFunc(model.UnitStrings)}},
	}
}

func registrationSpecs() []fieldSpec {
	return []fieldSpec{
		{FieldUsername, []validation.Rule{
			validation.Required(),
			validation.MinLength(4),
			validation.MaxLength(20),
			validation.Pattern(validation.Alphanumeric),
		}},
		{FieldEmail, []validation.Rule{validation.Required(), validation.Pattern(validation.Email)}},
		{FieldPassword, []validation.Rule{
			validation.Required(),
			validation.MinLength(8),
			validation.MaxLength(20),
			validation.Func(validation.TagPattern, strongPassword),
		}},
		{FieldConfirmPassword, []validation.Rule{validation.Required()}},
	}
}

func loginSpecs() []fieldSpec {
	return []fieldSpec{
		{FieldUsername, []validation.Rule{validation.Required()}},
		{FieldPassword, []validation.Rule{validation.Required()}},
	}
}

// strongPassword requires a lower and upper case ASCII letter, a digit and one
// character that is none of those.
func strongPassword(s string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
