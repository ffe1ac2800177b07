package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lomba17/internal/application/events"
	"lomba17/internal/domain/agegroup"
	"lomba17/internal/domain/competition"
)

var (
	ErrCompetitionNotFound    = errors.New("competition not found")
	ErrDuplicateCompetitionID = errors.New("competition id already exists")
	ErrAgeGroupNotFound       = errors.New("age group not found")
)

// CatalogStore defines the store interface needed by the catalog orchestrators.
type CatalogStore interface {
	Competitions(ctx context.Context) []competition.Competition
	AgeGroups(ctx context.Context) agegroup.Groups
	SaveCompetitions(ctx context.Context, list []competition.Competition) error
	SaveAgeGroups(ctx context.Context, groups agegroup.Groups) error
}

// CatalogDeps holds dependencies for catalog mutations.
type CatalogDeps struct {
	Catalog CatalogStore
	Events  events.Publisher
	Now     func() time.Time
}

// CompetitionInput carries the editable fields of a competition.
type CompetitionInput struct {
	ID          string // ignored on add
	Name        string
	MinAge      int
	MaxAge      int
	Description string
	Icon        string
	Team        bool
}

func (in CompetitionInput) toCompetition(id string) competition.Competition {
	return competition.Competition{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		MinAge:      in.MinAge,
		MaxAge:      in.MaxAge,
		Description: strings.TrimSpace(in.Description),
		Icon:        strings.TrimSpace(in.Icon),
		Team:        in.Team,
	}
}

// ExecuteAddCompetition appends a competition with id comp_<unix ms>.
// PRE: input passes competition.Validate once an id is assigned
// POST: Snapshot = previous snapshot + new competition; CatalogUpdated published
func ExecuteAddCompetition(ctx context.Context, input CompetitionInput, deps CatalogDeps) (competition.Competition, error) {
	c := input.toCompetition(fmt.Sprintf("comp_%d", deps.Now().UnixMilli()))
	if err := c.Validate(); err != nil {
		return competition.Competition{}, err
	}

	current := deps.Catalog.Competitions(ctx)
	if _, exists := competition.FindByID(current, c.ID); exists {
		return competition.Competition{}, ErrDuplicateCompetitionID
	}
	next := make([]competition.Competition, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, c)

	if err := saveCompetitions(ctx, next, deps); err != nil {
		return competition.Competition{}, err
	}
	slog.Info("catalog_event", "event", "competition_added", "competition_id", c.ID, "name", c.Name)
	return c, nil
}

// ExecuteEditCompetition replaces the competition with input.ID in place.
// PRE: input.ID names an existing competition
// POST: Catalog order unchanged; CatalogUpdated published
func ExecuteEditCompetition(ctx context.Context, input CompetitionInput, deps CatalogDeps) (competition.Competition, error) {
	c := input.toCompetition(input.ID)
	if err := c.Validate(); err != nil {
		return competition.Competition{}, err
	}

	current := deps.Catalog.Competitions(ctx)
	next := make([]competition.Competition, len(current))
	found := false
	for i, existing := range current {
		if existing.ID == c.ID {
			next[i] = c
			found = true
			continue
		}
		next[i] = existing
	}
	if !found {
		return competition.Competition{}, ErrCompetitionNotFound
	}

	if err := saveCompetitions(ctx, next, deps); err != nil {
		return competition.Competition{}, err
	}
	slog.Info("catalog_event", "event", "competition_edited", "competition_id", c.ID)
	return c, nil
}

// ExecuteDeleteCompetition removes the competition with id.
// POST: Snapshot no longer contains id; CatalogUpdated published
func ExecuteDeleteCompetition(ctx context.Context, id string, deps CatalogDeps) error {
	current := deps.Catalog.Competitions(ctx)
	next := make([]competition.Competition, 0, len(current))
	for _, c := range current {
		if c.ID != id {
			next = append(next, c)
		}
	}
	if len(next) == len(current) {
		return ErrCompetitionNotFound
	}

	if err := saveCompetitions(ctx, next, deps); err != nil {
		return err
	}
	slog.Info("catalog_event", "event", "competition_deleted", "competition_id", id)
	return nil
}

// AgeGroupInput carries an age group and its key.
type AgeGroupInput struct {
	Key   string
	Label string
	Min   int
	Max   int
}

// ExecuteSaveAgeGroup adds the group or replaces the one under the same key.
// POST: Snapshot[key] = group; other groups untouched; CatalogUpdated published
func ExecuteSaveAgeGroup(ctx context.Context, input AgeGroupInput, deps CatalogDeps) (agegroup.Key, error) {
	key := agegroup.Key(strings.TrimSpace(input.Key))
	if err := agegroup.ValidateKey(key); err != nil {
		return "", err
	}
	g := agegroup.AgeGroup{Label: strings.TrimSpace(input.Label), Min: input.Min, Max: input.Max}
	if err := g.Validate(); err != nil {
		return "", err
	}

	next := deps.Catalog.AgeGroups(ctx).Clone()
	_, existed := next[key]
	next[key] = g

	if err := saveAgeGroups(ctx, next, deps); err != nil {
		return "", err
	}
	slog.Info("catalog_event", "event", "age_group_saved", "key", key, "replaced", existed)
	return key, nil
}

// ExecuteDeleteAgeGroup removes the group under key.
// POST: Snapshot has no key; CatalogUpdated published
func ExecuteDeleteAgeGroup(ctx context.Context, key string, deps CatalogDeps) error {
	next := deps.Catalog.AgeGroups(ctx).Clone()
	k := agegroup.Key(key)
	if _, ok := next[k]; !ok {
		return ErrAgeGroupNotFound
	}
	delete(next, k)

	if err := saveAgeGroups(ctx, next, deps); err != nil {
		return err
	}
	slog.Info("catalog_event", "event", "age_group_deleted", "key", key)
	return nil
}

func saveCompetitions(ctx context.Context, list []competition.Competition, deps CatalogDeps) error {
	if err := deps.Catalog.SaveCompetitions(ctx, list); err != nil {
		return fmt.Errorf("save competitions: %w", err)
	}
	deps.Events.Publish(events.CatalogUpdated{Kind: events.CatalogCompetitions})
	return nil
}

func saveAgeGroups(ctx context.Context, groups agegroup.Groups, deps CatalogDeps) error {
	if err := deps.Catalog.SaveAgeGroups(ctx, groups); err != nil {
		return fmt.Errorf("save age groups: %w", err)
	}
	deps.Events.Publish(events.CatalogUpdated{Kind: events.CatalogAgeGroups})
	return nil
}
