package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipment-reconciler/internal/core/cache"
)

const passLockKey = "reconciliation:pass_lock"

// CacheLock is a pass lock held as a key with a TTL, so a crashed pass releases it eventually.
type CacheLock struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheLock creates a CacheLock.
func NewCacheLock(c cache.Cache, ttl time.Duration) *CacheLock {
	return &CacheLock{
		cache: c,
		ttl:   ttl,
	}
}

// Acquire takes the lock for owner if nobody holds it.
func (l *CacheLock) Acquire(ctx context.Context, owner string) (bool, error) {
	ok, err := l.cache.SetNX(ctx, passLockKey, []byte(owner), l.ttl)
	if err != nil {
		return false, fmt.Errorf("failed to acquire pass lock: %w", err)
	}
	return ok, nil
}

// Release drops the lock if owner still holds it.
func (l *CacheLock) Release(ctx context.Context, owner string) error {
	held, err := l.cache.Get(ctx, passLockKey)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read pass lock: %w", err)
	}
	if string(held) != owner {
		return nil
	}
	if err := l.cache.Delete(ctx, passLockKey); err != nil {
		return fmt.Errorf("failed to release pass lock: %w", err)
	}
	return nil
}

// LocalLock is the in-process fallback when no cache is configured.
type LocalLock struct {
	held chan struct{}
}

// NewLocalLock creates a LocalLock.
func NewLocalLock() *LocalLock {
	return &LocalLock{held: make(chan struct{}, 1)}
}

// Acquire takes the lock if it is free.
func (l *LocalLock) Acquire(context.Context, string) (bool, error) {
	select {
	case l.held <- struct{}{}:
		return true, nil
	default:
		return false, nil
	}
}

// Release frees the lock.
func (l *LocalLock) Release(context.Context, string) error {
	select {
	case <-l.held:
	default:
	}
	return nil
}
