// Package session holds per-call conversation state: the caller's chosen
// language and the running history of turns. Entries expire on their own;
// nothing is ever deleted explicitly.
package session

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL mirrors the cache timeout the voice flow was tuned for.
const DefaultTTL = 300 * time.Second

// ErrConflict is returned when an Update keeps losing to concurrent writers.
var ErrConflict = errors.New("session: concurrent update conflict")

// UpdateFunc receives the current value (ok=false when absent or expired)
// and returns the value to store.
type UpdateFunc func(old []byte, ok bool) ([]byte, error)

// Store is a key/value store with per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A ttl <= 0 uses the store default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Update performs an atomic read-modify-write of a single key.
	Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error
	Ping(ctx context.Context) error
	Close() error
}
