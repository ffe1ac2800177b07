package projections

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"lomba17/internal/domain/participant"
)

// FilterAll selects every competition.
const FilterAll = "semua"

// GetStandingsQuery carries query parameters.
type GetStandingsQuery struct {
	Competition string // competition name; empty or FilterAll for all
}

// StandingsCounts summarises the filtered participants.
type StandingsCounts struct {
	Total        int
	Winners      int
	Advanced     int
	Disqualified int
	Competitions int
}

// GetStandingsResult carries the query result.
type GetStandingsResult struct {
	Filter       string
	Options      []string // competition names present in the backend, sorted
	Winners      []participant.Participant
	Advanced     []participant.Participant
	Disqualified []participant.Participant
	Ranked       []participant.Participant
	Counts       StandingsCounts
}

// GetStandingsDeps holds dependencies for QueryStandings.
type GetStandingsDeps struct {
	Participants ParticipantLister
}

// QueryStandings splits the backend list into tournament sections.
// PRE: none
// POST: Winners ordered Juara 1, 2, 3 then name; Ranked by ranking ascending
// INVARIANT: A participant appears in at most one of Winners, Advanced, Disqualified
func QueryStandings(ctx context.Context, query GetStandingsQuery, deps GetStandingsDeps) (GetStandingsResult, error) {
	all, err := deps.Participants.List(ctx)
	if err != nil {
		return GetStandingsResult{}, fmt.Errorf("list participants: %w", err)
	}

	filter := strings.TrimSpace(query.Competition)
	if filter == "" {
		filter = FilterAll
	}
	col := newNameCollator()

	result := GetStandingsResult{Filter: filter, Options: distinctCompetitions(all, col)}
	seen := map[string]bool{}
	for _, p := range all {
		if filter != FilterAll && p.JenisLomba != filter {
			continue
		}
		result.Counts.Total++
		seen[p.JenisLomba] = true
		switch {
		case p.IsWinner():
			result.Winners = append(result.Winners, p)
		case p.IsAdvanced():
			result.Advanced = append(result.Advanced, p)
		case p.IsDisqualified():
			result.Disqualified = append(result.Disqualified, p)
		}
		if p.Ranking > 0 {
			result.Ranked = append(result.Ranked, p)
		}
	}

	sort.SliceStable(result.Winners, func(i, j int) bool {
		a, b := result.Winners[i], result.Winners[j]
		if a.PlacementOrder() != b.PlacementOrder() {
			return a.PlacementOrder() < b.PlacementOrder()
		}
		return col.CompareString(a.Nama, b.Nama) < 0
	})
	sortByName(result.Advanced, col)
	sortByName(result.Disqualified, col)
	sort.SliceStable(result.Ranked, func(i, j int) bool {
		return result.Ranked[i].Ranking < result.Ranked[j].Ranking
	})

	result.Counts.Winners = len(result.Winners)
	result.Counts.Advanced = len(result.Advanced)
	result.Counts.Disqualified = len(result.Disqualified)
	result.Counts.Competitions = len(seen)
	return result, nil
}

// newNameCollator orders names the way an Indonesian reader expects, ignoring case.
// A collator is not safe for concurrent use; create one per query.
func newNameCollator() *collate.Collator {
	return collate.New(language.Indonesian, collate.IgnoreCase)
}

func sortByName(list []participant.Participant, col *collate.Collator) {
	sort.SliceStable(list, func(i, j int) bool {
		return col.CompareString(list[i].Nama, list[j].Nama) < 0
	})
}

func distinctCompetitions(all []participant.Participant, col *collate.Collator) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range all {
		if p.JenisLomba == "" || seen[p.JenisLomba] {
			continue
		}
		seen[p.JenisLomba] = true
		out = append(out, p.JenisLomba)
	}
	col.SortStrings(out)
	return out
}
