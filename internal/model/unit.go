package model

import (
	"slices"
	"sync"
)

// Unit is the measure of an ingredient quantity.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitPiece      Unit = "pcs"
)

var (
	unitsMu sync.RWMutex
	units   = []Unit{UnitGram, UnitKilogram, UnitMilliliter, UnitLiter, UnitPiece}
)

// Units returns the known units in display order.
func Units() []Unit {
	unitsMu.RLock()
	defer unitsMu.RUnlock()
	return slices.Clone(units)
}

// RegisterUnit adds u to the known units. Registering an existing unit is a no-op.
func RegisterUnit(u Unit) {
	unitsMu.Lock()
	defer unitsMu.Unlock()
	if u == "" || slices.Contains(units, u) {
		return
	}
	units = append(units, u)
}

// UnregisterUnit removes u from the known units.
func UnregisterUnit(u Unit) {
	unitsMu.Lock()
	defer unitsMu.Unlock()
	units = slices.DeleteFunc(units, func(x Unit) bool { return x == u })
}

// UnitStrings returns the known units as plain strings.
func UnitStrings() []string {
	us := Units()
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = string(u)
	}
	return out
}
