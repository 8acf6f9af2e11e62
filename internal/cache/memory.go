package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// ExpiringMap is an in-memory Store. Expired entries are dropped lazily on
// access and, when a janitor is running, periodically in the background.
type ExpiringMap struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewExpiringMap creates an empty map. A positive sweepInterval starts a
// janitor goroutine that is stopped by Close.
func NewExpiringMap(sweepInterval time.Duration) *ExpiringMap {
	m := &ExpiringMap{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if sweepInterval > 0 {
		m.wg.Add(1)
		go m.janitor(sweepInterval)
	}

	return m
}

// WithClock replaces the time source. Intended for tests.
func (m *ExpiringMap) WithClock(now func() time.Time) *ExpiringMap {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
	return m
}

func (m *ExpiringMap) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	now := m.now()
	m.mu.RUnlock()

	if !ok {
		return "", false
	}

	if !now.Before(e.expiresAt) {
		m.mu.Lock()
		// re-check, a concurrent Set may have refreshed the entry
		if current, ok := m.entries[key]; ok && !now.Before(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return "", false
	}

	return e.value, true
}

func (m *ExpiringMap) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *ExpiringMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep removes every expired entry and returns how many were dropped.
func (m *ExpiringMap) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func (m *ExpiringMap) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
	return nil
}

func (m *ExpiringMap) janitor(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
