package projections

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"lomba17/internal/domain/participant"
)

// GetParticipantListQuery carries query parameters.
type GetParticipantListQuery struct {
	Competition string // competition name; empty or FilterAll for all
}

// ParticipantGroup is one competition section of the list.
type ParticipantGroup struct {
	Competition  string
	Participants []participant.Participant
}

// GetParticipantListResult carries the query result.
type GetParticipantListResult struct {
	Filter       string
	Options      []string
	Groups       []ParticipantGroup
	Total        int
	StatusCounts map[string]int
	Summary      string // e.g. "1.204 peserta di 9 lomba"
}

// GetParticipantListDeps holds dependencies for QueryParticipantList.
type GetParticipantListDeps struct {
	Participants ParticipantLister
	Catalog      CatalogReader
}

// QueryParticipantList groups backend participants by competition.
// PRE: none
// POST: Groups follow catalog order; competitions missing from the catalog come
// after, collated; names inside a group are collated
func QueryParticipantList(ctx context.Context, query GetParticipantListQuery, deps GetParticipantListDeps) (GetParticipantListResult, error) {
	all, err := deps.Participants.List(ctx)
	if err != nil {
		return GetParticipantListResult{}, fmt.Errorf("list participants: %w", err)
	}

	filter := strings.TrimSpace(query.Competition)
	if filter == "" {
		filter = FilterAll
	}
	col := newNameCollator()

	byName := map[string][]participant.Participant{}
	counts := map[string]int{}
	total := 0
	for _, p := range all {
		if filter != FilterAll && p.JenisLomba != filter {
			continue
		}
		byName[p.JenisLomba] = append(byName[p.JenisLomba], p)
		status := p.Status
		if status == "" {
			status = participant.StatusRegistered
		}
		counts[status]++
		total++
	}

	groups := make([]ParticipantGroup, 0, len(byName))
	for _, c := range deps.Catalog.Competitions(ctx) {
		if list, ok := byName[c.Name]; ok {
			groups = append(groups, ParticipantGroup{Competition: c.Name, Participants: list})
			delete(byName, c.Name)
		}
	}
	unknown := make([]string, 0, len(byName))
	for name := range byName {
		unknown = append(unknown, name)
	}
	col.SortStrings(unknown)
	for _, name := range unknown {
		groups = append(groups, ParticipantGroup{Competition: name, Participants: byName[name]})
	}
	for _, g := range groups {
		sortByName(g.Participants, col)
	}

	p := message.NewPrinter(language.Indonesian)
	return GetParticipantListResult{
		Filter:       filter,
		Options:      distinctCompetitions(all, col),
		Groups:       groups,
		Total:        total,
		StatusCounts: counts,
		Summary:      p.Sprintf("%d peserta di %d lomba", total, len(groups)),
	}, nil
}
