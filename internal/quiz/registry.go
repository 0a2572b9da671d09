// ABOUTME: In-memory session registry with idle expiry for the HTTP and MCP hosts
// ABOUTME: Sessions expire after an hour without use; expired entries are purged periodically
package quiz

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultSessionTTL = 1 * time.Hour
	cleanupInterval   = 10 * time.Minute
)

// Registry creates and tracks sessions by id
type Registry struct {
	cache *cache.Cache
	opts  Options
}

// NewRegistry creates sessions configured with opts
func NewRegistry(opts Options, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		cache: cache.New(ttl, cleanupInterval),
		opts:  opts,
	}
}

// Create registers a new idle session
func (r *Registry) Create() *Session {
	s := NewSession(r.opts)
	r.cache.Set(s.ID(), s, cache.DefaultExpiration)
	return s
}

// Get returns the session and extends its expiry
func (r *Registry) Get(id string) (*Session, bool) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	s := x.(*Session)
	r.cache.Set(id, s, cache.DefaultExpiration)
	return s, true
}

func (r *Registry) Delete(id string) {
	r.cache.Delete(id)
}

// Len counts sessions, including expired ones not yet purged
func (r *Registry) Len() int {
	return r.cache.ItemCount()
}
