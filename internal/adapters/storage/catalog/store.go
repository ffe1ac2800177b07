// Package catalog persists the competition and age-group snapshots.
//
// Reads never fail: a missing, unreadable or wrongly shaped snapshot yields
// the built-in defaults. Writes replace the whole snapshot; the last writer wins.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"lomba17/internal/adapters/storage/kv"
	"lomba17/internal/domain/agegroup"
	"lomba17/internal/domain/competition"
)

// Storage keys. They match the keys the original front-end wrote to local storage.
const (
	KeyCompetitions = "lomba17_competitions"
	KeyAgeGroups    = "lomba17_ageGroups"
)

// Store reads and writes the catalog snapshots.
type Store struct {
	kv kv.Store
}

// NewStore wraps a key/value store.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Competitions returns the persisted competition snapshot or the defaults.
// PRE: none
// POST: Returns a non-nil slice; never an error
// INVARIANT: Store state is not mutated
func (s *Store) Competitions(ctx context.Context) []competition.Competition {
	raw, ok := s.read(ctx, KeyCompetitions)
	if !ok {
		return competition.Defaults()
	}
	var list []competition.Competition
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		slog.Debug("catalog_fallback", "key", KeyCompetitions, "reason", "malformed", "error", err)
		return competition.Defaults()
	}
	return list
}

// AgeGroups returns the persisted age-group snapshot or the defaults.
// PRE: none
// POST: Returns a non-nil map; never an error
// INVARIANT: Store state is not mutated
func (s *Store) AgeGroups(ctx context.Context) agegroup.Groups {
	raw, ok := s.read(ctx, KeyAgeGroups)
	if !ok {
		return agegroup.Defaults()
	}
	var groups agegroup.Groups
	if err := json.Unmarshal([]byte(raw), &groups); err != nil || groups == nil {
		slog.Debug("catalog_fallback", "key", KeyAgeGroups, "reason", "malformed", "error", err)
		return agegroup.Defaults()
	}
	return groups
}

// SaveCompetitions replaces the competition snapshot.
// PRE: every competition is valid and ids are unique
// POST: The next Competitions call returns list
func (s *Store) SaveCompetitions(ctx context.Context, list []competition.Competition) error {
	if list == nil {
		list = []competition.Competition{}
	}
	return s.write(ctx, KeyCompetitions, list)
}

// SaveAgeGroups replaces the age-group snapshot.
// PRE: every group is valid
// POST: The next AgeGroups call returns groups
func (s *Store) SaveAgeGroups(ctx context.Context, groups agegroup.Groups) error {
	if groups == nil {
		groups = agegroup.Groups{}
	}
	return s.write(ctx, KeyAgeGroups, groups)
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			slog.Debug("catalog_fallback", "key", key, "reason", "storage", "error", err)
		}
		return "", false
	}
	return raw, true
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
