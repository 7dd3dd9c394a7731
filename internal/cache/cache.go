// Package cache provides a generic TTL LRU cache plus a manager that runs
// periodic cleanup over every registered cache.
package cache

import "time"

// Cache defines a generic cache interface.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is anything that can drop its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager owns the cleanup lifecycle for a set of caches.
type Manager struct {
	cleaners    []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

// NewManager creates an empty cache manager.
func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cleaner. Must be called before StartCleanup.
func (m *Manager) Register(c Cleaner) {
	m.cleaners = append(m.cleaners, c)
}

// StartCleanup begins periodic cleanup of all registered cleaners.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, c := range m.cleaners {
				c.CleanExpired()
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop halts the cleanup routine and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stopCleanup)
	<-m.cleanupDone
}
