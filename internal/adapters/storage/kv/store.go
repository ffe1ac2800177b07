// Package kv is the server-side stand-in for browser local storage: string
// values under string keys, replaced whole on every write.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key has never been set or was removed.
	ErrNotFound = errors.New("kv: key not found")
	// ErrUnavailable is returned by every operation when no storage is attached.
	ErrUnavailable = errors.New("kv: storage unavailable")
)

// Store persists string values under string keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Revision increases on every Set or Remove. Pollers compare it to
	// decide whether to re-read state.
	Revision(ctx context.Context) (int64, error)
}
