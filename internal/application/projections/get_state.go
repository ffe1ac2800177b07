package projections

import (
	"context"
	"log/slog"
	"time"

	"lomba17/internal/domain/agegroup"
	"lomba17/internal/domain/competition"
)

// State is the persisted client-visible state polled by open pages.
type State struct {
	Admin        bool                      `json:"admin"`
	LastActive   *time.Time                `json:"lastActive,omitempty"`
	Revision     int64                     `json:"revision"`
	Competitions []competition.Competition `json:"competitions"`
	AgeGroups    agegroup.Groups           `json:"ageGroups"`
}

// GetStateDeps holds dependencies for QueryState.
type GetStateDeps struct {
	Catalog  CatalogReader
	Flag     AdminFlagReader
	Revision RevisionReader
}

// QueryState re-reads everything from storage.
// POST: Revision is 0 when storage cannot report one
func QueryState(ctx context.Context, deps GetStateDeps) State {
	flag := deps.Flag.Flag(ctx)
	s := State{
		Admin:        flag.Active,
		Competitions: deps.Catalog.Competitions(ctx),
		AgeGroups:    deps.Catalog.AgeGroups(ctx),
	}
	if flag.Active && !flag.LastActive.IsZero() {
		t := flag.LastActive
		s.LastActive = &t
	}
	rev, err := deps.Revision.Revision(ctx)
	if err != nil {
		slog.Debug("state_revision_unavailable", "error", err)
	}
	s.Revision = rev
	return s
}
