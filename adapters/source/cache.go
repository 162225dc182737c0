package source

import (
	"context"
	"io"
	"sync"
	"time"

	"salesboard/domain/dataset"
	"salesboard/ports"
)

// CachedSource keeps the last good table for a TTL. A failed load never evicts it.
type CachedSource struct {
	inner ports.SalesSource
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	table    *dataset.Table
	loadedAt time.Time
}

// NewCachedSource wraps inner. With a zero TTL every Load goes to inner.
func NewCachedSource(inner ports.SalesSource, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, ttl: ttl, now: time.Now}
}

// Describe names the wrapped source
func (s *CachedSource) Describe() string {
	return s.inner.Describe()
}

// Load returns the cached table while it is fresh, otherwise reloads.
func (s *CachedSource) Load(ctx context.Context) (*dataset.Table, error) {
	if s.ttl <= 0 {
		return s.inner.Load(ctx)
	}

	s.mu.RLock()
	table, loadedAt := s.table, s.loadedAt
	s.mu.RUnlock()

	if table != nil && s.now().Sub(loadedAt) < s.ttl {
		return table, nil
	}

	fresh, err := s.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.table = fresh
	s.loadedAt = s.now()
	s.mu.Unlock()
	return fresh, nil
}

// Invalidate drops the cached table so the next Load refetches.
func (s *CachedSource) Invalidate() {
	s.mu.Lock()
	s.table = nil
	s.mu.Unlock()
}

// Close releases the wrapped source when it holds resources, such as a database pool.
func (s *CachedSource) Close() error {
	if c, ok := s.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
