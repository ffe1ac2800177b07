package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lomba17/internal/domain/competition"
)

// Header is the first CSV row.
var Header = []string{"No", "Nama", "Usia", "HP", "Lomba", "Waktu Daftar"}

// TimestampLayout mirrors the id-ID locale rendering of a date and time.
const TimestampLayout = "2/1/2006, 15.04.05"

// FilenamePrefix is prepended to the export date in download names.
const FilenamePrefix = "peserta-lomba-17-agustus-"

var (
	ErrMissingName = errors.New("legacy participant name is required")
	ErrMissingID   = errors.New("legacy participant id is required")
)

// LegacyParticipant is the locally kept participant record, independent of the
// backend. Competitions holds competition ids.
type LegacyParticipant struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Age          int      `json:"age"`
	Phone        string   `json:"phone,omitempty"`
	Competitions []string `json:"competitions"`
	CreatedAt    int64    `json:"createdAt"` // unix milliseconds
}

// Validate checks required fields.
// PRE: LegacyParticipant struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p LegacyParticipant) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// Created returns CreatedAt as a time.
func (p LegacyParticipant) Created() time.Time {
	return time.UnixMilli(p.CreatedAt)
}

// CSV renders participants as CSV text: header row, then one row per
// participant numbered from 1. Competition ids resolve to names through
// catalog; unknown ids are kept verbatim. Text fields are always quoted,
// the timestamp included since its layout contains a comma. Rows are joined
// with "\n".
// INVARIANT: participants and catalog are not mutated
func CSV(participants []LegacyParticipant, catalog []competition.Competition, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	lines := make([]string, 0, len(participants)+1)
	lines = append(lines, strings.Join(Header, ","))
	for i, p := range participants {
		names := make([]string, len(p.Competitions))
		for j, id := range p.Competitions {
			names[j] = competition.NameByID(catalog, id)
		}
		phone := p.Phone
		if phone == "" {
			phone = "-"
		}
		lines = append(lines, strings.Join([]string{
			strconv.Itoa(i + 1),
			quote(p.Name),
			strconv.Itoa(p.Age),
			quote(phone),
			quote(strings.Join(names, "; ")),
			quote(p.Created().In(loc).Format(TimestampLayout)),
		}, ","))
	}
	return strings.Join(lines, "\n")
}

// Filename returns the download name for an export made at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("%s%s.csv", FilenamePrefix, now.Format("2006-01-02"))
}

// quote wraps s in double quotes, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
