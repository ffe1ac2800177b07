package competition

import (
	"errors"

	"lomba17/internal/domain/agegroup"
)

// Max length constants for admin-editable fields.
const (
	MaxNameLength        = 120
	MaxDescriptionLength = 1000
)

var (
	ErrMissingID       = errors.New("competition id is required")
	ErrMissingName     = errors.New("competition name is required")
	ErrNameTooLong     = errors.New("competition name is too long")
	ErrDescTooLong     = errors.New("competition description is too long")
	ErrInvalidAgeRange = errors.New("competition minAge must not exceed maxAge")
	ErrNegativeAge     = errors.New("competition ages must not be negative")
)

// Competition is a single game participants can register for.
// JSON field names match the persisted snapshot format.
type Competition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MinAge      int    `json:"minAge"`
	MaxAge      int    `json:"maxAge"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Team        bool   `json:"team,omitempty"`
}

// Validate checks the competition's invariants.
// PRE: Competition struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MinAge <= MaxAge
func (c Competition) Validate() error {
	if c.ID == "" {
		return ErrMissingID
	}
	if c.Name == "" {
		return ErrMissingName
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(c.Description) > MaxDescriptionLength {
		return ErrDescTooLong
	}
	if c.MinAge < 0 || c.MaxAge < 0 {
		return ErrNegativeAge
	}
	if c.MinAge > c.MaxAge {
		return ErrInvalidAgeRange
	}
	return nil
}

// EligibleFor reports whether age lies within [MinAge, MaxAge].
func (c Competition) EligibleFor(age int) bool {
	return age >= c.MinAge && age <= c.MaxAge
}

// Overlaps reports whether the competition's range intersects the group's.
// A partial overlap counts.
func (c Competition) Overlaps(g agegroup.AgeGroup) bool {
	return c.MinAge <= g.Max && c.MaxAge >= g.Min
}

// ForAge returns the competitions open to age, in catalog order.
// INVARIANT: list is not mutated; result is never nil
func ForAge(list []Competition, age int) []Competition {
	out := make([]Competition, 0, len(list))
	for _, c := range list {
		if c.EligibleFor(age) {
			out = append(out, c)
		}
	}
	return out
}

// ForGroup returns the competitions whose range overlaps g, in catalog order.
// INVARIANT: list is not mutated; result is never nil
func ForGroup(list []Competition, g agegroup.AgeGroup) []Competition {
	out := make([]Competition, 0, len(list))
	for _, c := range list {
		if c.Overlaps(g) {
			out = append(out, c)
		}
	}
	return out
}

// FindByID returns the competition with the given id.
func FindByID(list []Competition, id string) (Competition, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return Competition{}, false
}

// NameByID resolves id to a display name, falling back to the id itself.
func NameByID(list []Competition, id string) string {
	if c, ok := FindByID(list, id); ok {
		return c.Name
	}
	return id
}
