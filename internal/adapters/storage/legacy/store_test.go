package legacy

import (
	"context"
	"errors"
	"testing"

	"lomba17/internal/adapters/storage/kv"
	"lomba17/internal/domain/export"
)

// TestLoad_EmptyAndMalformed returns an empty list in both cases.
func TestLoad_EmptyAndMalformed(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	s := NewStore(mem)
	if got := s.Load(ctx); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
	_ = mem.Set(ctx, KeyParticipants, `{"not":"a list"}`)
	if got := s.Load(ctx); len(got) != 0 {
		t.Errorf("expected empty list for malformed data, got %d", len(got))
	}
}

// TestSave_PrependsNewest keeps newest first.
func TestSave_PrependsNewest(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemoryStore())
	first := export.LegacyParticipant{ID: "a", Name: "Ani", Age: 9, Competitions: []string{"bakiak"}, CreatedAt: 1}
	second := export.LegacyParticipant{ID: "b", Name: "Budi", Age: 12, Competitions: []string{"balap-karung"}, CreatedAt: 2}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}
	got := s.Load(ctx)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("expected [b a], got %+v", got)
	}
}

// TestSave_RejectsInvalid does not touch storage.
func TestSave_RejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemoryStore())
	if err := s.Save(ctx, export.LegacyParticipant{ID: "x"}); !errors.Is(err, export.ErrMissingName) {
		t.Errorf("expected ErrMissingName, got %v", err)
	}
	if len(s.Load(ctx)) != 0 {
		t.Error("invalid participant must not be stored")
	}
}

// TestDelete_FiltersByID removes only the matching entry.
func TestDelete_FiltersByID(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemoryStore())
	for _, id := range []string{"a", "b", "c"} {
		_ = s.Save(ctx, export.LegacyParticipant{ID: id, Name: "N" + id})
	}
	if err := s.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	got := s.Load(ctx)
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("expected [c a], got %+v", got)
	}
}

// TestSave_Unavailable surfaces the storage error.
func TestSave_Unavailable(t *testing.T) {
	s := NewStore(kv.Unavailable{})
	err := s.Save(context.Background(), export.LegacyParticipant{ID: "a", Name: "Ani"})
	if !errors.Is(err, kv.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
