// Package cache provides time-bounded key/value stores for derived text.
package cache

import (
	"context"
	"time"
)

// Store keeps string values for a bounded amount of time.
type Store interface {
	// Get returns the value and true when a live entry exists.
	Get(ctx context.Context, key string) (string, bool)
	// Set stores value under key until ttl elapses.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}
