package projections

import (
	"context"
	"errors"

	"lomba17/internal/domain/agegroup"
	"lomba17/internal/domain/competition"
)

// ErrUnknownAgeGroup is returned when a group key is not in the current snapshot.
var ErrUnknownAgeGroup = errors.New("unknown age group")

// GetCompetitionsDeps holds dependencies for the competition queries.
type GetCompetitionsDeps struct {
	Catalog CatalogReader
}

// QueryCompetitionsForAge lists competitions open to age.
// PRE: none
// POST: Returns a non-nil list in catalog order
// INVARIANT: Reads the current snapshot on every call
func QueryCompetitionsForAge(ctx context.Context, age int, deps GetCompetitionsDeps) []competition.Competition {
	return competition.ForAge(deps.Catalog.Competitions(ctx), age)
}

// QueryCompetitionsForGroup lists competitions whose age range overlaps the group.
// POST: ErrUnknownAgeGroup and an empty list when key is not a current group
func QueryCompetitionsForGroup(ctx context.Context, key agegroup.Key, deps GetCompetitionsDeps) ([]competition.Competition, error) {
	g, ok := deps.Catalog.AgeGroups(ctx)[key]
	if !ok {
		return []competition.Competition{}, ErrUnknownAgeGroup
	}
	return competition.ForGroup(deps.Catalog.Competitions(ctx), g), nil
}

// CategoryRow is one age group with the competitions it overlaps.
type CategoryRow struct {
	Key          agegroup.Key
	Group        agegroup.AgeGroup
	Competitions []competition.Competition
}

// CategoryGrid is the home page overview.
type CategoryGrid struct {
	Rows         []CategoryRow
	Competitions []competition.Competition
}

// QueryCategoryGrid returns every age group ordered by lower bound, then key.
// Both snapshots are read once so rows are consistent with each other.
func QueryCategoryGrid(ctx context.Context, deps GetCompetitionsDeps) CategoryGrid {
	list := deps.Catalog.Competitions(ctx)
	groups := deps.Catalog.AgeGroups(ctx)

	grid := CategoryGrid{Competitions: list, Rows: make([]CategoryRow, 0, len(groups))}
	for _, k := range groups.Keys() {
		grid.Rows = append(grid.Rows, CategoryRow{
			Key:          k,
			Group:        groups[k],
			Competitions: competition.ForGroup(list, groups[k]),
		})
	}
	return grid
}
