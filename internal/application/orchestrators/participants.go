package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lomba17/internal/application/events"
	"lomba17/internal/domain/participant"
)

var (
	ErrParticipantNameRequired        = errors.New("participant name is required")
	ErrParticipantCompetitionRequired = errors.New("participant competition is required")
)

// ParticipantAdminBackend defines the backend calls needed by the admin participant orchestrators.
type ParticipantAdminBackend interface {
	Create(ctx context.Context, p participant.Participant) (participant.Participant, error)
	Update(ctx context.Context, id string, p participant.Participant) (participant.Participant, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	Action(ctx context.Context, id, action string) (participant.Participant, error)
}

// ParticipantAdminDeps holds dependencies for the admin participant orchestrators.
type ParticipantAdminDeps struct {
	Backend ParticipantAdminBackend
	Events  events.Publisher
}

func checkParticipantFields(p participant.Participant) error {
	if strings.TrimSpace(p.Nama) == "" {
		return ErrParticipantNameRequired
	}
	if strings.TrimSpace(p.JenisLomba) == "" {
		return ErrParticipantCompetitionRequired
	}
	if p.Status != "" && !participant.ValidStatus(p.Status) {
		return participant.ErrInvalidStatus
	}
	return nil
}

// ExecuteAddParticipant creates a record on behalf of the admin.
// PRE: p.Nama and p.JenisLomba are non-empty
// POST: Backend holds the record; ParticipantAdded published
func ExecuteAddParticipant(ctx context.Context, p participant.Participant, deps ParticipantAdminDeps) (participant.Participant, error) {
	if err := checkParticipantFields(p); err != nil {
		return participant.Participant{}, err
	}
	p.Nama = strings.TrimSpace(p.Nama)
	if strings.TrimSpace(p.NoTelepon) == "" {
		p.NoTelepon = participant.DefaultPhone
	}
	created, err := deps.Backend.Create(ctx, p)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("add participant: %w", err)
	}
	slog.Info("participant_event", "event", "participant_added", "participant_id", created.ID, "competition", p.JenisLomba)
	deps.Events.Publish(events.ParticipantAdded{Names: []string{p.Nama}, Competitions: []string{p.JenisLomba}})
	return created, nil
}

// ExecuteUpdateParticipant sends the full edited record.
// PRE: id is non-empty
func ExecuteUpdateParticipant(ctx context.Context, id string, p participant.Participant, deps ParticipantAdminDeps) (participant.Participant, error) {
	if id == "" {
		return participant.Participant{}, participant.ErrMissingID
	}
	if err := checkParticipantFields(p); err != nil {
		return participant.Participant{}, err
	}
	updated, err := deps.Backend.Update(ctx, id, p)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("update participant %s: %w", id, err)
	}
	slog.Info("participant_event", "event", "participant_updated", "participant_id", id)
	return updated, nil
}

// ExecuteUpdateParticipantStatus sets a status from the fixed vocabulary.
func ExecuteUpdateParticipantStatus(ctx context.Context, id, status string, deps ParticipantAdminDeps) error {
	if id == "" {
		return participant.ErrMissingID
	}
	if !participant.ValidStatus(status) {
		return participant.ErrInvalidStatus
	}
	if err := deps.Backend.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update participant status %s: %w", id, err)
	}
	slog.Info("participant_event", "event", "participant_status_updated", "participant_id", id, "status", status)
	return nil
}

// ExecuteDeleteParticipant removes a record.
func ExecuteDeleteParticipant(ctx context.Context, id string, deps ParticipantAdminDeps) error {
	if id == "" {
		return participant.ErrMissingID
	}
	if err := deps.Backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete participant %s: %w", id, err)
	}
	slog.Info("participant_event", "event", "participant_deleted", "participant_id", id)
	return nil
}

// ExecuteParticipantAction applies a quick action (Lolos, Juara 1-3, DQ).
// POST: Returns the record as the backend left it
func ExecuteParticipantAction(ctx context.Context, id, action string, deps ParticipantAdminDeps) (participant.Participant, error) {
	if id == "" {
		return participant.Participant{}, participant.ErrMissingID
	}
	if !participant.ValidAction(action) {
		return participant.Participant{}, participant.ErrInvalidAction
	}
	updated, err := deps.Backend.Action(ctx, id, action)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("participant action %s on %s: %w", action, id, err)
	}
	slog.Info("participant_event", "event", "participant_action", "participant_id", id, "action", action, "status", updated.Status)
	return updated, nil
}
