package keymanager

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

// Registry keeps one Manager per browser session. Idle managers are evicted
// after ttl and the least recently used ones once size is reached.
type Registry struct {
	repo  Repository
	ttl   time.Duration
	cache *expirable.LRU[string, *Manager]
	mu    sync.Mutex
}

// NewRegistry creates a registry whose managers all use repo
func NewRegistry(repo Repository, size int, ttl time.Duration) *Registry {
	if size <= 0 {
		size = 1024
	}
	onEvict := func(sessionID string, _ *Manager) {
		logrus.Debugf("Key manager evicted for session %s", sessionID)
	}
	return &Registry{
		repo:  repo,
		ttl:   ttl,
		cache: expirable.NewLRU[string, *Manager](size, onEvict, ttl),
	}
}

// Get returns the manager for sessionID, creating it on first use.
// Every call restarts the idle timer.
func (r *Registry) Get(sessionID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.cache.Get(sessionID)
	if !ok {
		m = New(r.repo)
	}
	r.cache.Add(sessionID, m)
	return m
}

// Forget drops the manager for sessionID
func (r *Registry) Forget(sessionID string) {
	r.cache.Remove(sessionID)
}

// Len returns the number of live managers
func (r *Registry) Len() int {
	return r.cache.Len()
}
