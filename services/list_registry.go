package services

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultListIdleTimeout is how long an untouched list controller is kept
const DefaultListIdleTimeout = 30 * time.Minute

type closer interface {
	Close()
}

// ListRegistry keeps one list controller per (session, list) so debounced
// searches survive across HTTP requests. Idle controllers are closed.
type ListRegistry struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewListRegistry(idle time.Duration) *ListRegistry {
	if idle <= 0 {
		idle = DefaultListIdleTimeout
	}
	c := cache.New(idle, idle/2)
	c.OnEvicted(func(_ string, v interface{}) {
		if cl, ok := v.(closer); ok {
			cl.Close()
		}
	})
	return &ListRegistry{cache: c}
}

func registryKey(sessionKey, name string) string {
	return sessionKey + "|" + name
}

// Registered returns the value stored for (sessionKey, name), building it
// on first use. Every access restarts the idle timer.
func Registered[V any](r *ListRegistry, sessionKey, name string, build func() V) V {
	key := registryKey(sessionKey, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.cache.Get(key); ok {
		if typed, ok := v.(V); ok {
			r.cache.SetDefault(key, typed)
			return typed
		}
	}
	v := build()
	r.cache.SetDefault(key, v)
	return v
}

// SessionRef points at the newest SessionContext of a console session.
// Controllers outlive the request that created them, so their fetchers read
// the session through the ref instead of capturing one request's context.
type SessionRef struct {
	current atomic.Pointer[SessionContext]
}

func (r *SessionRef) Get() *SessionContext {
	return r.current.Load()
}

// SessionRef returns the ref of sessionKey, pointed at sess
func (r *ListRegistry) SessionRef(sessionKey string, sess *SessionContext) *SessionRef {
	ref := Registered(r, sessionKey, "#session", func() *SessionRef { return &SessionRef{} })
	ref.current.Store(sess)
	return ref
}

// DropSession closes every controller that belongs to sessionKey
func (r *ListRegistry) DropSession(sessionKey string) int {
	prefix := sessionKey + "|"

	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
			dropped++
		}
	}
	return dropped
}

// Sweep closes controllers whose idle time ran out
func (r *ListRegistry) Sweep() {
	r.cache.DeleteExpired()
}

// Len is the number of live controllers
func (r *ListRegistry) Len() int {
	return r.cache.ItemCount()
}

// Close closes every controller
func (r *ListRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.cache.Items() {
		r.cache.Delete(key)
	}
}
