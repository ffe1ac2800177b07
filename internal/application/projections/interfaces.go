package projections

import (
	"context"

	"lomba17/internal/domain/admin"
	"lomba17/internal/domain/agegroup"
	"lomba17/internal/domain/competition"
	"lomba17/internal/domain/export"
	"lomba17/internal/domain/participant"
)

// CatalogReader interface for catalog queries.
type CatalogReader interface {
	Competitions(ctx context.Context) []competition.Competition
	AgeGroups(ctx context.Context) agegroup.Groups
}

// ParticipantLister interface for backend participant queries.
type ParticipantLister interface {
	List(ctx context.Context) ([]participant.Participant, error)
}

// LegacyReader interface for the locally kept participant list.
type LegacyReader interface {
	Load(ctx context.Context) []export.LegacyParticipant
}

// AdminFlagReader interface for the persisted admin flag.
type AdminFlagReader interface {
	Flag(ctx context.Context) admin.Flag
}

// RevisionReader interface for the storage change counter.
type RevisionReader interface {
	Revision(ctx context.Context) (int64, error)
}
