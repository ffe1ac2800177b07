// Package legacy keeps the local participant list that predates the
// participant backend. It feeds the CSV export only.
package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"lomba17/internal/adapters/storage/kv"
	"lomba17/internal/domain/export"
)

// KeyParticipants is the storage key of the list, newest first.
const KeyParticipants = "lomba17_peserta"

// Store reads and writes the legacy list.
type Store struct {
	kv kv.Store
}

// NewStore wraps a key/value store.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Load returns the list, newest first.
// POST: Returns an empty non-nil slice when the key is missing or malformed
func (s *Store) Load(ctx context.Context) []export.LegacyParticipant {
	raw, err := s.kv.Get(ctx, KeyParticipants)
	if err != nil {
		return []export.LegacyParticipant{}
	}
	var list []export.LegacyParticipant
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		slog.Debug("legacy_fallback", "key", KeyParticipants, "error", err)
		return []export.LegacyParticipant{}
	}
	return list
}

// Save prepends p to the list.
// PRE: p.Validate() == nil
// POST: Load()[0] == p
func (s *Store) Save(ctx context.Context, p export.LegacyParticipant) error {
	if err := p.Validate(); err != nil {
		return err
	}
	list := append([]export.LegacyParticipant{p}, s.Load(ctx)...)
	return s.write(ctx, list)
}

// Delete removes every entry with the given id. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	current := s.Load(ctx)
	kept := make([]export.LegacyParticipant, 0, len(current))
	for _, p := range current {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return s.write(ctx, kept)
}

func (s *Store) write(ctx context.Context, list []export.LegacyParticipant) error {
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode legacy participants: %w", err)
	}
	if err := s.kv.Set(ctx, KeyParticipants, string(b)); err != nil {
		return fmt.Errorf("save legacy participants: %w", err)
	}
	return nil
}
