package kv

import "context"

// Unavailable is a Store with no backing storage. Every call fails with
// ErrUnavailable so callers fall back to their defaults.
type Unavailable struct{}

func (Unavailable) Get(context.Context, string) (string, error) { return "", ErrUnavailable }
func (Unavailable) Set(context.Context, string, string) error { return ErrUnavailable }
func (Unavailable) Remove(context.Context, string) error { return ErrUnavailable }
func (Unavailable) Revision(context.Context) (int64, error) { return 0, ErrUnavailable }

var (
	_ Store = Unavailable{}
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
