package validation

import (
	"regexp"
	"slices"
	"strconv"
	"unicode/utf8"
)

// Rule checks a raw field value and reports the tag it fails with, if any.
type Rule func(value string) (Tag, bool)

// Patterns shared by the recipe and account forms.
var (
	SingleLineText = regexp.MustCompile(`^[\p{L}0-9 \t.,!?()'"«»;:\-’]*$`)
	MultiLineText  = regexp.MustCompile(`^[\p{L}0-9\s.,!?()'"«»;:\-’]*$`)
	ImageURL       = regexp.MustCompile(`(?i)^(https?://.*\.(png|jpg|jpeg|gif|webp))$`)
	Decimal        = regexp.MustCompile(`^\d+(\.\d+)?$`)
	Integer        = regexp.MustCompile(`^\d+$`)
	Alphanumeric   = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	Email          = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Evaluate runs rules against value and collects every failing tag.
func Evaluate(value string, rules ...Rule) Errors {
	var errs Errors
	for _, r := range rules {
		if tag, failed := r(value); failed {
			errs = errs.Add(tag)
		}
	}
	return errs
}

// Required fails on an empty value.
func Required() Rule {
	return func(value string) (Tag, bool) {
		return TagRequired, value == ""
	}
}

// MinLength fails when a non-empty value has fewer than n characters.
func MinLength(n int) Rule {
	return func(value string) (Tag, bool) {
		return TagMinLength, value != "" && utf8.RuneCountInString(value) < n
	}
}

// MaxLength fails when value has more than n characters.
func MaxLength(n int) Rule {
	return func(value string) (Tag, bool) {
		return TagMaxLength, utf8.RuneCountInString(value) > n
	}
}

// Pattern fails when a non-empty value does not match re.
func Pattern(re *regexp.Regexp) Rule {
	return func(value string) (Tag, bool) {
		return TagPattern, value != "" && !re.MatchString(value)
	}
}

// Min fails when value parses as a number below min. Unparsable values are left to Pattern.
func Min(min float64) Rule {
	return func(value string) (Tag, bool) {
		f, err := strconv.ParseFloat(value, 64)
		return TagMin, err == nil && f < min
	}
}

// Max fails when value parses as a number above max.
func Max(max float64) Rule {
	return func(value string) (Tag, bool) {
		f, err := strconv.ParseFloat(value, 64)
		return TagMax, err == nil && f > max
	}
}

// OneOf fails when a non-empty value is not one of allowed.
func OneOf(allowed ...string) Rule {
	return func(value string) (Tag, bool) {
		return TagOneOf, value != "" && !slices.Contains(allowed, value)
	}
}

// OneOfFunc is OneOf over a set that may change at runtime.
func OneOfFunc(allowed func() []string) Rule {
	return func(value string) (Tag, bool) {
		return TagOneOf, value != "" && !slices.Contains(allowed(), value)
	}
}

// Func adapts a predicate into a rule that fails with tag when ok returns false
// for a non-empty value.
func Func(tag Tag, ok func(string) bool) Rule {
	return func(value string) (Tag, bool) {
		return tag, value != "" && !ok(value)
	}
}
