// Package ratelimit provides the attempt counter behind the login
// throttle. The store is an interface so the in-process implementation can
// be replaced by a shared one (e.g. Redis) without touching gate logic.
package ratelimit

import (
	"sync"
	"time"
)

// Store counts attempts per key within a fixed window.
type Store interface {
	// Allow records an attempt for key and reports whether it is within
	// the limit. When the limit is exceeded, retryAfter is the time until
	// the window resets.
	Allow(key string) (ok bool, retryAfter time.Duration)
}

type window struct {
	count    int
	resetAt  time.Time
	lastSeen time.Time
}

// MemoryStore is the default single-process Store: a mutex-guarded map of
// fixed windows with TTL-based cleanup of stale entries.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewMemoryStore(limit int, period time.Duration) *MemoryStore {
	store := &MemoryStore{
		windows:     make(map[string]*window),
		limit:       limit,
		period:      period,
		stopCleanup: make(chan struct{}),
	}
	go store.cleanupLoop()
	return store
}

func (s *MemoryStore) Allow(key string) (bool, time.Duration) {
	if s.limit <= 0 {
		return true, 0
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.windows[key]
	if !ok || now.After(entry.resetAt) {
		// New window: the full budget is available again.
		s.windows[key] = &window{count: 1, resetAt: now.Add(s.period), lastSeen: now}
		return true, 0
	}

	entry.lastSeen = now
	entry.count++
	if entry.count > s.limit {
		return false, time.Until(entry.resetAt)
	}
	return true, 0
}

// cleanupLoop removes windows not touched for a full period so the map
// cannot grow without bound under scanning traffic.
func (s *MemoryStore) cleanupLoop() {
	interval := s.period
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.windows {
		if now.After(entry.resetAt) && now.Sub(entry.lastSeen) > s.period {
			delete(s.windows, key)
		}
	}
}

// Stop shuts down the cleanup goroutine.
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
}
