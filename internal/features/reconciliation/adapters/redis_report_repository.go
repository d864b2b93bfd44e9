package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"shipment-reconciler/internal/core/cache"
	"shipment-reconciler/internal/features/reconciliation/ports"
	"shipment-reconciler/internal/features/reconciliation/report"
)

const latestReportKey = "reconciliation:latest_report"

// RedisReportRepository implements ports.ReportRepository using the cache.
type RedisReportRepository struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisReportRepository creates a new RedisReportRepository.
func NewRedisReportRepository(c cache.Cache, ttl time.Duration) *RedisReportRepository {
	return &RedisReportRepository{
		cache: c,
		ttl:   ttl,
	}
}

// Save stores the summary in the cache.
func (r *RedisReportRepository) Save(ctx context.Context, summary *report.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := r.cache.Set(ctx, latestReportKey, data, r.ttl); err != nil {
		return fmt.Errorf("failed to save report to cache: %w", err)
	}
	return nil
}

// Latest retrieves the summary from the cache.
func (r *RedisReportRepository) Latest(ctx context.Context) (*report.Summary, error) {
	data, err := r.cache.Get(ctx, latestReportKey)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ports.ErrNoReport
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report from cache: %w", err)
	}

	var summary report.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &summary, nil
}

// MemoryReportRepository keeps the latest summary in process memory.
type MemoryReportRepository struct {
	mu      sync.RWMutex
	summary *report.Summary
}

// NewMemoryReportRepository creates an empty MemoryReportRepository.
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{}
}

// Save replaces the stored summary.
func (r *MemoryReportRepository) Save(_ context.Context, summary *report.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = summary
	return nil
}

// Latest returns the stored summary.
func (r *MemoryReportRepository) Latest(context.Context) (*report.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.summary == nil {
		return nil, ports.ErrNoReport
	}
	return r.summary, nil
}
