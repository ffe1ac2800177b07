package participant

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Status values assigned by the backend or an admin.
const (
	StatusRegistered   = "Terdaftar"
	StatusAdvanced     = "Lolos ke Babak Selanjutnya"
	StatusFirst        = "Juara 1"
	StatusSecond       = "Juara 2"
	StatusThird        = "Juara 3"
	StatusDisqualified = "Diskualifikasi"
)

// Statuses lists every status in display order.
var Statuses = []string{
	StatusRegistered,
	StatusAdvanced,
	StatusFirst,
	StatusSecond,
	StatusThird,
	StatusDisqualified,
}

// Quick actions understood by POST /api/peserta/:id/action.
const (
	ActionAdvance    = "Lolos"
	ActionFirst      = "Juara 1"
	ActionSecond     = "Juara 2"
	ActionThird      = "Juara 3"
	ActionDisqualify = "DQ"
)

// Actions lists the action vocabulary in display order.
var Actions = []string{ActionAdvance, ActionFirst, ActionSecond, ActionThird, ActionDisqualify}

// DefaultPhone is sent when the registrant leaves the phone empty.
const DefaultPhone = "Tidak ada"

// Age limits accepted on the registration form.
const (
	MinAge = 5
	MaxAge = 100
)

var (
	ErrInvalidStatus = errors.New("invalid participant status")
	ErrInvalidAction = errors.New("invalid participant action")
	ErrMissingID     = errors.New("participant id is required")
)

// phonePattern accepts Indonesian mobile numbers: +62 / 62 / 0 prefix, then 8.
var phonePattern = regexp.MustCompile(`^(\+62|62|0)8[1-9][0-9]{6,9}$`)

// Participant is a backend-owned registration record for one person in one
// competition. ID always comes from the backend.
type Participant struct {
	ID                   string  `json:"_id,omitempty"`
	Nama                 string  `json:"nama"`
	NoTelepon            string  `json:"noTelepon"`
	Usia                 int     `json:"usia"`
	JenisLomba           string  `json:"jenisLomba"`
	TanggalDaftar        string  `json:"tanggalDaftar,omitempty"`
	Status               string  `json:"status,omitempty"`
	Email                string  `json:"email,omitempty"`
	Alamat               string  `json:"alamat,omitempty"`
	Catatan              string  `json:"catatan,omitempty"`
	Babak                string  `json:"babak,omitempty"`
	Skor                 float64 `json:"skor,omitempty"`
	WaktuPenyelesaian    int     `json:"waktuPenyelesaian,omitempty"`
	Ranking              int     `json:"ranking,omitempty"`
	AlasanDiskualifikasi string  `json:"alasanDiskualifikasi,omitempty"`
	Juara                string  `json:"juara,omitempty"`
	Hadiah               string  `json:"hadiah,omitempty"`
	CatatanJuri          string  `json:"catatanJuri,omitempty"`
}

// IsWinner reports whether the status is one of the Juara placements.
func (p Participant) IsWinner() bool {
	return strings.Contains(p.Status, "Juara")
}

// IsAdvanced reports whether the participant moved to the next round.
func (p Participant) IsAdvanced() bool {
	return p.Status == StatusAdvanced
}

// IsDisqualified reports whether the participant was disqualified.
func (p Participant) IsDisqualified() bool {
	return p.Status == StatusDisqualified
}

// PlacementOrder returns 1, 2 or 3 for winners and 4 for everyone else.
func (p Participant) PlacementOrder() int {
	switch p.Status {
	case StatusFirst:
		return 1
	case StatusSecond:
		return 2
	case StatusThird:
		return 3
	default:
		return 4
	}
}

// FormatCompletionTime renders WaktuPenyelesaian (seconds) as m:ss.
func (p Participant) FormatCompletionTime() string {
	return FormatSeconds(p.WaktuPenyelesaian)
}

// FormatSeconds renders seconds as m:ss.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidAction reports whether a is a known quick action.
func ValidAction(a string) bool {
	for _, v := range Actions {
		if v == a {
			return true
		}
	}
	return false
}

// ValidPhone reports whether phone matches the accepted mobile format.
// An empty phone is handled by the caller.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// NormalizeName lower-cases and trims a name for duplicate comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
