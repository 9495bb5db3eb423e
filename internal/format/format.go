// Package format turns stored recipe values into display strings.
package format

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Option is a selectable value and its label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CategoryLabel renders an enum-style category such as MAIN_COURSE as "Main Course".
func CategoryLabel(category string) string {
	words := strings.Fields(strings.ReplaceAll(category, "_", " "))
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// CategoryOptions pairs each category with its label, preserving order.
func CategoryOptions(categories []string) []Option {
	opts := make([]Option, 0, len(categories))
	for _, c := range categories {
		opts = append(opts, Option{Value: c, Label: CategoryLabel(c)})
	}
	return opts
}

func DifficultyLabel(difficulty int) string {
	switch difficulty {
	case 1:
		return "Easy"
	case 4, 5:
		return "Hard"
	default:
		return "Medium"
	}
}

// FirstLetter returns the upper-cased first character, used for avatars.
func FirstLetter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r))
}
