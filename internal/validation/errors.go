// Package validation evaluates form field rules and keeps per-field error tag sets.
package validation

import (
	"maps"
	"slices"
)

// Tag names one validation failure on a field.
type Tag string

const (
	TagRequired         Tag = "required"
	TagMinLength        Tag = "minLength"
	TagMaxLength        Tag = "maxLength"
	TagPattern          Tag = "pattern"
	TagMin              Tag = "min"
	TagMax              Tag = "max"
	TagOneOf            Tag = "oneOf"
	TagNotUnique        Tag = "notUnique"
	TagPasswordMismatch Tag = "passwordMismatch"
	TagUsernameTaken    Tag = "usernameTaken"
	TagEmailTaken       Tag = "emailTaken"
)

// Errors is the set of active error tags of a field. A nil Errors is empty.
type Errors map[Tag]struct{}

// NewErrors returns a set holding tags.
func NewErrors(tags ...Tag) Errors {
	e := make(Errors, len(tags))
	for _, t := range tags {
		e[t] = struct{}{}
	}
	return e
}

// Has reports whether t is set.
func (e Errors) Has(t Tag) bool {
	_, ok := e[t]
	return ok
}

// Add returns e with t set, allocating if e is nil.
func (e Errors) Add(t Tag) Errors {
	if e == nil {
		e = make(Errors, 1)
	}
	e[t] = struct{}{}
	return e
}

// Remove deletes t and leaves every other tag in place.
func (e Errors) Remove(t Tag) Errors {
	delete(e, t)
	return e
}

// Len returns the number of tags.
func (e Errors) Len() int { return len(e) }

// Empty reports whether no tag is set.
func (e Errors) Empty() bool { return len(e) == 0 }

// Clone returns an independent copy.
func (e Errors) Clone() Errors {
	if e == nil {
		return Errors{}
	}
	return maps.Clone(e)
}

// Merge returns e with every tag of other added.
func (e Errors) Merge(other Errors) Errors {
	for t := range other {
		e = e.Add(t)
	}
	return e
}

// Tags returns the tags in sorted order.
func (e Errors) Tags() []Tag {
	return slices.Sorted(maps.Keys(e))
}

// Equal reports whether both sets hold the same tags.
func (e Errors) Equal(other Errors) bool {
	if len(e) != len(other) {
		return false
	}
	for t := range e {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Status is the tri-state outcome of a field that may have async checks in flight.
type Status int

const (
	StatusValid Status = iota
	StatusInvalid
	StatusPending
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}
