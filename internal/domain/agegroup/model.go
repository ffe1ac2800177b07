package agegroup

import (
	"errors"
	"sort"
)

// Key identifies an age group. The four built-in keys are listed below;
// admins may add their own.
type Key string

const (
	KeyAnak   Key = "anak"
	KeyRemaja Key = "remaja"
	KeyDewasa Key = "dewasa"
	KeyLansia Key = "lansia"
)

// Max length constants for admin-editable fields.
const (
	MaxKeyLength   = 40
	MaxLabelLength = 80
)

var (
	ErrMissingKey      = errors.New("age group key is required")
	ErrKeyTooLong      = errors.New("age group key is too long")
	ErrMissingLabel    = errors.New("age group label is required")
	ErrLabelTooLong    = errors.New("age group label is too long")
	ErrInvalidAgeRange = errors.New("age group min must not exceed max")
	ErrNegativeAge     = errors.New("age group bounds must not be negative")
)

// AgeGroup is a named age bracket used to group competitions for display.
// JSON field names match the persisted snapshot format.
type AgeGroup struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// Validate checks the age group's invariants.
// PRE: AgeGroup struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Min <= Max
func (g AgeGroup) Validate() error {
	if g.Label == "" {
		return ErrMissingLabel
	}
	if len(g.Label) > MaxLabelLength {
		return ErrLabelTooLong
	}
	if g.Min < 0 || g.Max < 0 {
		return ErrNegativeAge
	}
	if g.Min > g.Max {
		return ErrInvalidAgeRange
	}
	return nil
}

// Contains reports whether age falls inside [Min, Max].
func (g AgeGroup) Contains(age int) bool {
	return age >= g.Min && age <= g.Max
}

// ValidateKey checks that k can be used as a group key.
func ValidateKey(k Key) error {
	if k == "" {
		return ErrMissingKey
	}
	if len(k) > MaxKeyLength {
		return ErrKeyTooLong
	}
	return nil
}

// Groups maps each key to its bracket. It is persisted as a whole.
type Groups map[Key]AgeGroup

// Clone returns a shallow copy so callers can build a new snapshot without
// touching the one they read.
func (gs Groups) Clone() Groups {
	out := make(Groups, len(gs))
	for k, v := range gs {
		out[k] = v
	}
	return out
}

// Keys returns the group keys ordered by lower bound, then key.
// INVARIANT: gs is not mutated
func (gs Groups) Keys() []Key {
	keys := make([]Key, 0, len(gs))
	for k := range gs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := gs[keys[i]], gs[keys[j]]
		if a.Min != b.Min {
			return a.Min < b.Min
		}
		return keys[i] < keys[j]
	})
	return keys
}
