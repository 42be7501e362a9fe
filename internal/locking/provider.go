// internal/locking/provider.go
package locking

import (
	"context"
	"time"

	"github.com/taskfence/taskfence/internal/cache"
	"github.com/taskfence/taskfence/internal/observability"
)

// DefaultRequestTimeout bounds every cache round-trip issued by the provider
const DefaultRequestTimeout = 10 * time.Second

// CacheProvider implements Provider on top of a remote key-value cache that
// supports atomic insert-if-absent with TTL. The cache client is shared and
// externally owned; the provider never closes it and holds no local state
// about the locks, so any number of goroutines and processes may call it
// concurrently.
type CacheProvider struct {
	cache   cache.KVCache
	owner   string
	timeout time.Duration
	logger  *observability.SLogger
	now     func() time.Time
}

// ProviderOption customizes a CacheProvider
type ProviderOption func(*CacheProvider)

// WithRequestTimeout overrides the per-request timeout
func WithRequestTimeout(d time.Duration) ProviderOption {
	return func(p *CacheProvider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithOwner overrides the owner identity written as the entry value
func WithOwner(owner string) ProviderOption {
	return func(p *CacheProvider) {
		if owner != "" {
			p.owner = owner
		}
	}
}

// WithClock overrides the clock used to derive TTLs. Intended for tests.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *CacheProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// NewCacheProvider creates a provider over the given cache backend
func NewCacheProvider(kv cache.KVCache, logger *observability.SLogger, opts ...ProviderOption) *CacheProvider {
	p := &CacheProvider{
		cache:   kv,
		owner:   Hostname(),
		timeout: DefaultRequestTimeout,
		logger:  logger,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Acquire attempts to take the named lock with a single atomic
// insert-if-absent. The entry TTL is derived from spec.LockAtMostUntil, so
// the lock self-expires if the holder never releases it.
func (p *CacheProvider) Acquire(ctx context.Context, spec Spec) (Handle, error) {
	if spec.Name == "" {
		return nil, &InvalidSpecError{Name: spec.Name, Reason: "name must not be empty"}
	}

	ttl := spec.LockAtMostUntil.Sub(p.now())
	if ttl <= 0 {
		return nil, &InvalidSpecError{Name: spec.Name, Reason: "lockAtMostUntil must be in the future"}
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stored, err := p.cache.SetIfAbsent(reqCtx, spec.Name, p.owner, ttl)
	if err != nil {
		// A timeout is indistinguishable from a landed write, so it is an
		// error, never contention.
		return nil, &AcquireError{Name: spec.Name, Cause: err}
	}

	if !stored {
		p.logger.Debugf("Lock %q held elsewhere", spec.Name)
		return nil, nil
	}

	p.logger.Debugf("Acquired lock %q until %s", spec.Name, spec.LockAtMostUntil.Format(time.RFC3339))

	return &cacheHandle{
		cache:   p.cache,
		spec:    spec,
		timeout: p.timeout,
	}, nil
}

// cacheHandle is the acquired-lock token bound to one Acquire call. It holds
// a non-owning reference to the shared cache client and the immutable spec.
type cacheHandle struct {
	cache   cache.KVCache
	spec    Spec
	timeout time.Duration
}

// Name returns the lock name the handle was acquired for
func (h *cacheHandle) Name() string {
	return h.spec.Name
}

// LockAtLeastUntil returns the advisory minimum hold time from the spec
func (h *cacheHandle) LockAtLeastUntil() time.Time {
	return h.spec.LockAtLeastUntil
}

// Release deletes the remote entry. Deleting an entry that already expired
// or was already released succeeds; a backend failure or timeout means the
// entry may still exist, and its TTL remains the backstop.
func (h *cacheHandle) Release(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.cache.Delete(reqCtx, h.spec.Name); err != nil {
		return &ReleaseError{Name: h.spec.Name, Cause: err}
	}

	return nil
}
