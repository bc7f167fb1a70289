// Package idempotency remembers the outcome of client requests keyed by an Idempotency-Key header.
package idempotency

import (
	"context"
	"errors"
	"time"
)

// ErrInProgress is returned when a key is claimed but its request has not finished
var ErrInProgress = errors.New("request with this idempotency key is still in progress")

// Store tracks idempotency keys through claim, complete and release.
// A key is claimed before work starts, completed with the serialized result
// once the work commits, and released when the work fails so it can be retried.
type Store interface {
	// Claim marks key as in progress. It returns false when the key already exists.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Result returns the stored result for a completed key.
	// found is false for unknown or expired keys; ErrInProgress is returned for claimed ones.
	Result(ctx context.Context, key string) (result string, found bool, err error)

	Complete(ctx context.Context, key, result string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
	Close() error
}
