// Package adminflag persists the admin switch of each browser client.
//
// Keys are namespaced by the client id carried in the context, so one
// client switching admin on leaves every other client untouched. A context
// without a client id reads as off and cannot be switched on.
//
// Every operation is safe when storage is missing or failing: reads report
// the switch as off and write failures are logged, never returned.
package adminflag

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"lomba17/internal/adapters/storage/kv"
	domain "lomba17/internal/domain/admin"
)

// Storage keys, stored per client as "client/<id>/<key>".
const (
	KeyAdmin      = "lomba17_admin"
	KeyLastActive = "lomba17_admin_lastActive"
)

const activeValue = "true"

// Store reads and writes the admin flag.
type Store struct {
	kv  kv.Store
	now func() time.Time
}

// NewStore wraps a key/value store.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store, now: time.Now}
}

// ClientKey returns the storage key of key for client id.
func ClientKey(id, key string) string {
	return "client/" + id + "/" + key
}

func scoped(ctx context.Context, key string) (string, bool) {
	id := domain.ClientFromContext(ctx)
	if id == "" {
		return "", false
	}
	return ClientKey(id, key), true
}

// IsAdmin reports whether the flag is set for the calling client.
// PRE: none
// POST: Returns false when there is no client, the key is absent, holds any
// other value, or storage fails
func (s *Store) IsAdmin(ctx context.Context) bool {
	key, ok := scoped(ctx, KeyAdmin)
	if !ok {
		return false
	}
	v, err := s.kv.Get(ctx, key)
	if err != nil {
		return false
	}
	return v == activeValue
}

// Flag returns the flag together with its last-active time.
// LastActive is zero when the flag is off or the timestamp is unreadable.
func (s *Store) Flag(ctx context.Context) domain.Flag {
	f := domain.Flag{Active: s.IsAdmin(ctx)}
	if !f.Active {
		return f
	}
	key, _ := scoped(ctx, KeyLastActive)
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return f
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return f
	}
	f.LastActive = time.UnixMilli(ms)
	return f
}

// SetAdminStatus switches the calling client's flag on or off.
// PRE: none
// POST: on: admin key holds "true" and last-active holds now in unix ms;
// off: both keys removed. Storage failures and missing clients are logged
// and swallowed.
func (s *Store) SetAdminStatus(ctx context.Context, active bool) {
	adminKey, ok := scoped(ctx, KeyAdmin)
	if !ok {
		slog.Warn("admin_flag_write_failed", "key", KeyAdmin, "error", "no client id")
		return
	}
	lastKey, _ := scoped(ctx, KeyLastActive)
	if active {
		if err := s.kv.Set(ctx, adminKey, activeValue); err != nil {
			slog.Warn("admin_flag_write_failed", "key", KeyAdmin, "error", err)
			return
		}
		ms := strconv.FormatInt(s.now().UnixMilli(), 10)
		if err := s.kv.Set(ctx, lastKey, ms); err != nil {
			slog.Warn("admin_flag_write_failed", "key", KeyLastActive, "error", err)
		}
		return
	}
	for _, key := range []string{adminKey, lastKey} {
		if err := s.kv.Remove(ctx, key); err != nil {
			slog.Warn("admin_flag_write_failed", "key", key, "error", err)
		}
	}
}

// ToggleAdminStatus flips the flag and returns the persisted result.
// POST: Returns the flipped value, or false when the write did not stick
func (s *Store) ToggleAdminStatus(ctx context.Context) bool {
	s.SetAdminStatus(ctx, !s.IsAdmin(ctx))
	return s.IsAdmin(ctx)
}
