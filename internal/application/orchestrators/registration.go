package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lomba17/internal/adapters/email"
	"lomba17/internal/adapters/peserta"
	"lomba17/internal/application/events"
	"lomba17/internal/domain/competition"
	"lomba17/internal/domain/participant"
)

var (
	// ErrBackendUnreachable means the health probe failed before anything was submitted.
	ErrBackendUnreachable = errors.New("participant backend unreachable")
	// ErrDuplicateRegistration means the same name and age are already in a selected competition.
	ErrDuplicateRegistration = errors.New("participant already registered")
)

// DuplicateRegistrationError lists the competitions that already hold the participant.
type DuplicateRegistrationError struct {
	Name         string
	Competitions []string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("%q already registered for %s", e.Name, strings.Join(e.Competitions, ", "))
}

// Is lets errors.Is match ErrDuplicateRegistration.
func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// Message is the user-facing text for the blocked submission.
func (e *DuplicateRegistrationError) Message() string {
	return fmt.Sprintf("Nama %q dengan usia yang sama sudah terdaftar untuk lomba: %s", e.Name, strings.Join(e.Competitions, ", "))
}

// ParticipantBackend defines the backend calls needed by registration.
type ParticipantBackend interface {
	Health(ctx context.Context) error
	List(ctx context.Context) ([]participant.Participant, error)
	Create(ctx context.Context, p participant.Participant) (participant.Participant, error)
	BaseURL() string
}

// CompetitionReader defines the catalog read needed by registration.
type CompetitionReader interface {
	Competitions(ctx context.Context) []competition.Competition
}

// NotificationSender delivers organiser email.
type NotificationSender interface {
	Send(ctx context.Context, req email.SendRequest) (email.SendResult, error)
}

// RegistrationDeps holds dependencies for Register.
type RegistrationDeps struct {
	Catalog  CompetitionReader
	Backend  ParticipantBackend
	Events   events.Publisher
	Email    NotificationSender // may be nil
	NotifyTo []string
}

// FailedRegistration is one competition the backend did not accept.
type FailedRegistration struct {
	Competition string `json:"competition"`
	Message     string `json:"message"`
}

// RegistrationOutcome classifies a RegistrationResult.
type RegistrationOutcome string

const (
	OutcomeAllSucceeded RegistrationOutcome = "all"
	OutcomePartial      RegistrationOutcome = "partial"
	OutcomeAllFailed    RegistrationOutcome = "none"
)

// RegistrationResult reports each competition separately. Earlier
// successes are never undone by later failures.
type RegistrationResult struct {
	Succeeded []string
	Failed    []FailedRegistration
	Created   []participant.Participant
	// Notice is informational, e.g. the same name exists with another age.
	Notice string
}

// Outcome tells whether every, some or no submission succeeded.
func (r RegistrationResult) Outcome() RegistrationOutcome {
	switch {
	case len(r.Failed) == 0 && len(r.Succeeded) > 0:
		return OutcomeAllSucceeded
	case len(r.Succeeded) > 0:
		return OutcomePartial
	default:
		return OutcomeAllFailed
	}
}

// FailedNames returns the names of the failed competitions.
func (r RegistrationResult) FailedNames() []string {
	out := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.Competition)
	}
	return out
}

// ExecuteRegister validates a sign-up and submits one record per selected competition.
// PRE: none
// POST: participant.FieldErrors on invalid input; *DuplicateRegistrationError on an
// exact duplicate; ErrBackendUnreachable when the health probe fails; otherwise a
// result with one entry per selected competition
// INVARIANT: submissions are sequential and independent; nothing is rolled back
func ExecuteRegister(ctx context.Context, input participant.Registration, deps RegistrationDeps) (RegistrationResult, error) {
	if err := input.Validate(); err != nil {
		return RegistrationResult{}, err
	}
	age := *input.Age

	catalog := deps.Catalog.Competitions(ctx)
	selected := make([]competition.Competition, 0, len(input.CompetitionIDs))
	for _, id := range input.CompetitionIDs {
		c, ok := competition.FindByID(catalog, id)
		if !ok {
			return RegistrationResult{}, participant.FieldErrors{
				participant.FieldCompetitions: fmt.Sprintf("Lomba %q tidak ditemukan", id),
			}
		}
		if !c.EligibleFor(age) {
			return RegistrationResult{}, participant.FieldErrors{
				participant.FieldCompetitions: fmt.Sprintf("Lomba %s hanya untuk usia %d-%d tahun", c.Name, c.MinAge, c.MaxAge),
			}
		}
		selected = append(selected, c)
	}

	var result RegistrationResult
	names := make([]string, len(selected))
	for i, c := range selected {
		names[i] = c.Name
	}
	if existing, err := deps.Backend.List(ctx); err != nil {
		slog.Debug("registration_event", "event", "duplicate_check_skipped", "error", err)
	} else {
		dup := participant.CheckDuplicates(existing, input.Name, age, names)
		if dup.Blocking() {
			slog.Info("registration_event", "event", "duplicate_blocked", "competitions", dup.ExactCompetitions)
			return RegistrationResult{}, &DuplicateRegistrationError{
				Name:         strings.TrimSpace(input.Name),
				Competitions: dup.ExactCompetitions,
			}
		}
		if dup.OtherAge != nil {
			result.Notice = fmt.Sprintf("Nama %q sudah terdaftar dengan usia %d tahun. Pendaftaran tetap dilanjutkan sebagai peserta berbeda.",
				strings.TrimSpace(input.Name), *dup.OtherAge)
		}
	}

	if err := deps.Backend.Health(ctx); err != nil {
		slog.Warn("registration_event", "event", "backend_unreachable", "api_url", deps.Backend.BaseURL(), "error", err)
		return RegistrationResult{}, fmt.Errorf("%w: pastikan backend berjalan di %s: %v", ErrBackendUnreachable, deps.Backend.BaseURL(), err)
	}

	for _, c := range selected {
		created, err := deps.Backend.Create(ctx, input.Payload(c.Name))
		if err != nil {
			result.Failed = append(result.Failed, FailedRegistration{Competition: c.Name, Message: describeBackendError(err, c.Name)})
			slog.Warn("registration_event", "event", "submission_failed", "competition", c.Name, "error", err)
			continue
		}
		result.Succeeded = append(result.Succeeded, c.Name)
		result.Created = append(result.Created, created)
	}

	slog.Info("registration_event", "event", "registration_submitted",
		"outcome", result.Outcome(), "succeeded", len(result.Succeeded), "failed", len(result.Failed))

	if len(result.Succeeded) > 0 {
		deps.Events.Publish(events.ParticipantAdded{
			Names:        []string{strings.TrimSpace(input.Name)},
			Competitions: result.Succeeded,
		})
		notifyOrganiser(ctx, input, age, result, deps)
	}
	return result, nil
}

// describeBackendError maps a submission error to the message shown for competitionName.
func describeBackendError(err error, competitionName string) string {
	var apiErr *peserta.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Describe(competitionName)
	}
	if errors.Is(err, peserta.ErrUnreachable) {
		return "Koneksi ke backend gagal untuk lomba " + competitionName
	}
	return "Terjadi kesalahan saat mendaftar"
}

// notifyOrganiser sends the best-effort organiser email. Failures are logged only.
func notifyOrganiser(ctx context.Context, input participant.Registration, age int, result RegistrationResult, deps RegistrationDeps) {
	if deps.Email == nil || len(deps.NotifyTo) == 0 {
		return
	}
	req, err := email.RegistrationRequest(deps.NotifyTo, email.RegistrationNotice{
		Name:      strings.TrimSpace(input.Name),
		Age:       age,
		Phone:     strings.TrimSpace(input.Phone),
		Succeeded: result.Succeeded,
		Failed:    result.FailedNames(),
	})
	if err != nil {
		slog.Error("registration_event", "event", "notify_render_failed", "error", err)
		return
	}
	if _, err := deps.Email.Send(ctx, req); err != nil {
		slog.Warn("registration_event", "event", "notify_failed", "error", err)
	}
}
