package repository

import (
	"context"
	"time"
)

// StateStore holds short-lived values that do not belong in the attendance table:
// revoked admin sessions and the cached headcount.
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns nil, nil for a missing or expired key.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

const (
	CounterKey           = "rsvp:counter"
	revokedSessionPrefix = "rsvp:session:revoked:"
)

func RevokedSessionKey(jti string) string { return revokedSessionPrefix + jti }
