package participant

import (
	"fmt"
	"strings"
)

// Form field keys used in FieldErrors.
const (
	FieldName         = "name"
	FieldAge          = "age"
	FieldPhone        = "phone"
	FieldCompetitions = "competitions"
)

// FieldErrors maps a form field to a user-facing message.
type FieldErrors map[string]string

// Error implements error so a FieldErrors value can travel as one.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, k := range []string{FieldName, FieldAge, FieldPhone, FieldCompetitions} {
		if msg, ok := fe[k]; ok {
			parts = append(parts, k+": "+msg)
		}
	}
	return "invalid registration: " + strings.Join(parts, "; ")
}

// Registration is what a visitor submits on the sign-up form.
// Age is nil when the field was left empty.
type Registration struct {
	Name           string
	Age            *int
	Phone          string
	CompetitionIDs []string
}

// Validate applies the form rules. It returns nil or a non-empty FieldErrors.
// PRE: none
// POST: Returns FieldErrors keyed by field for every broken rule
func (r Registration) Validate() error {
	errs := FieldErrors{}

	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		errs[FieldName] = "Nama harus diisi"
	case len([]rune(name)) < 2:
		errs[FieldName] = "Nama minimal 2 karakter"
	}

	switch {
	case r.Age == nil:
		errs[FieldAge] = "Usia harus diisi"
	case *r.Age < MinAge || *r.Age > MaxAge:
		errs[FieldAge] = fmt.Sprintf("Usia harus antara %d-%d tahun", MinAge, MaxAge)
	}

	if len(r.CompetitionIDs) == 0 {
		errs[FieldCompetitions] = "Pilih minimal 1 lomba"
	}

	if phone := strings.TrimSpace(r.Phone); phone != "" && !ValidPhone(phone) {
		errs[FieldPhone] = "Format nomor HP tidak valid"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Payload builds the backend record for one competition.
// PRE: r passed Validate
func (r Registration) Payload(competitionName string) Participant {
	phone := strings.TrimSpace(r.Phone)
	if phone == "" {
		phone = DefaultPhone
	}
	age := 0
	if r.Age != nil {
		age = *r.Age
	}
	return Participant{
		Nama:       strings.TrimSpace(r.Name),
		NoTelepon:  phone,
		Usia:       age,
		JenisLomba: competitionName,
	}
}

// DuplicateCheck is the advisory result of comparing a registration with the
// participants the backend already holds.
type DuplicateCheck struct {
	// ExactCompetitions lists competitions where the same name and age are
	// already registered. A non-empty list blocks submission.
	ExactCompetitions []string
	// OtherAge is set when the same name exists with a different age.
	OtherAge *int
}

// Blocking reports whether the check found exact duplicates.
func (d DuplicateCheck) Blocking() bool {
	return len(d.ExactCompetitions) > 0
}

// CheckDuplicates compares name/age against existing records for each
// selected competition name. The check is advisory; the backend decides.
// INVARIANT: existing is not mutated
func CheckDuplicates(existing []Participant, name string, age int, competitionNames []string) DuplicateCheck {
	var out DuplicateCheck
	norm := NormalizeName(name)
	if norm == "" {
		return out
	}
	for _, lomba := range competitionNames {
		for _, p := range existing {
			if NormalizeName(p.Nama) == norm && p.JenisLomba == lomba && p.Usia == age {
				out.ExactCompetitions = append(out.ExactCompetitions, lomba)
				break
			}
		}
	}
	if out.Blocking() {
		return out
	}
	for _, p := range existing {
		if NormalizeName(p.Nama) == norm && p.Usia != age {
			a := p.Usia
			out.OtherAge = &a
			break
		}
	}
	return out
}
