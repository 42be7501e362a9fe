// internal/locking/locking.go

// Package locking provides distributed mutual exclusion for scheduled work.
// A Provider hands out at most one live Handle per lock name across any
// number of processes; the atomicity comes from the remote cache backend,
// and the entry TTL is the backstop when a holder dies without releasing.
package locking

import (
	"context"
	"time"
)

// Spec describes a lock request.
type Spec struct {
	// Name uniquely identifies the protected resource. Must be non-empty.
	Name string

	// LockAtMostUntil is the hard upper bound on how long the lock may be
	// held. It is enforced through the cache entry TTL, so a crashed holder
	// self-expires.
	LockAtMostUntil time.Time

	// LockAtLeastUntil is the advisory minimum hold time. The provider
	// carries it through for the caller's bookkeeping; the cache never
	// sees it.
	LockAtLeastUntil time.Time
}

// Handle represents an acquired lock. It is bound to the Acquire call that
// produced it; its only operation is Release.
type Handle interface {
	// Name returns the lock name the handle was acquired for
	Name() string

	// LockAtLeastUntil returns the advisory minimum hold time from the spec
	LockAtLeastUntil() time.Time

	// Release removes the remote entry, making the name acquirable before
	// its natural TTL expiry. Releasing an already-absent entry succeeds.
	Release(ctx context.Context) error
}

// Provider hands out lock handles.
type Provider interface {
	// Acquire attempts to take the named lock. It returns a non-nil Handle
	// on success, (nil, nil) when another holder is active, and a non-nil
	// error when the attempt could not be decided. Contention is a normal
	// outcome, never an error.
	Acquire(ctx context.Context, spec Spec) (Handle, error)
}
