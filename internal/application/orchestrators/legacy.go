package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lomba17/internal/domain/export"
	"lomba17/internal/domain/participant"
)

// LegacyStore defines the store interface needed by the legacy list orchestrators.
type LegacyStore interface {
	Load(ctx context.Context) []export.LegacyParticipant
	Save(ctx context.Context, p export.LegacyParticipant) error
	Delete(ctx context.Context, id string) error
}

// LegacyDeps holds dependencies for the legacy list orchestrators.
type LegacyDeps struct {
	Store      LegacyStore
	GenerateID func() string
	Now        func() time.Time
}

// LegacyInput carries a locally recorded participant.
type LegacyInput struct {
	Name           string
	Age            int
	Phone          string
	CompetitionIDs []string
}

// ExecuteSaveLegacyParticipant records a participant in the local list.
// PRE: Name non-empty; Phone empty or a valid mobile number
// POST: The participant is first in the list; an empty name returns
// export.ErrMissingName without touching the store
func ExecuteSaveLegacyParticipant(ctx context.Context, input LegacyInput, deps LegacyDeps) (export.LegacyParticipant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return export.LegacyParticipant{}, export.ErrMissingName
	}
	phone := strings.TrimSpace(input.Phone)
	if phone != "" && !participant.ValidPhone(phone) {
		return export.LegacyParticipant{}, participant.FieldErrors{participant.FieldPhone: "Format nomor HP tidak valid"}
	}
	ids := input.CompetitionIDs
	if ids == nil {
		ids = []string{}
	}
	p := export.LegacyParticipant{
		ID:           deps.GenerateID(),
		Name:         name,
		Age:          input.Age,
		Phone:        phone,
		Competitions: ids,
		CreatedAt:    deps.Now().UnixMilli(),
	}
	if err := deps.Store.Save(ctx, p); err != nil {
		return export.LegacyParticipant{}, fmt.Errorf("save legacy participant: %w", err)
	}
	slog.Info("legacy_event", "event", "legacy_participant_saved", "id", p.ID)
	return p, nil
}

// ExecuteDeleteLegacyParticipant removes id from the local list.
func ExecuteDeleteLegacyParticipant(ctx context.Context, id string, deps LegacyDeps) error {
	if err := deps.Store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete legacy participant %s: %w", id, err)
	}
	slog.Info("legacy_event", "event", "legacy_participant_deleted", "id", id)
	return nil
}
