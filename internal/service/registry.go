package service

import (
	"context"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/telaviv/ops-dashboard/internal/events"
)

const defaultRegistrySize = 1024

// ScreenRegistry keeps per-session screen state (list controllers, export
// previews) in a bounded LRU. State is keyed by session key and screen name
// and is dropped when the session is cleared or invalidated.
type ScreenRegistry struct {
	mu    sync.Mutex
	cache *lru.Cache[string, any]
}

// NewScreenRegistry builds a registry holding at most size screens.
func NewScreenRegistry(size int) (*ScreenRegistry, error) {
	if size <= 0 {
		size = defaultRegistrySize
	}
	cache, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &ScreenRegistry{cache: cache}, nil
}

func registryKey(sessionKey, screen string) string {
	return sessionKey + "|" + screen
}

// screenState returns the state stored for the screen, building it on first use.
func screenState[T any](r *ScreenRegistry, sessionKey, screen string, build func() T) T {
	key := registryKey(sessionKey, screen)

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.cache.Get(key); ok {
		if state, ok := v.(T); ok {
			return state
		}
	}
	state := build()
	r.cache.Add(key, state)
	return state
}

// Forget drops every screen of a session.
func (r *ScreenRegistry) Forget(sessionKey string) {
	prefix := sessionKey + "|"

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range r.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Remove(key)
		}
	}
}

// Len reports how many screens are held.
func (r *ScreenRegistry) Len() int {
	return r.cache.Len()
}

// RegisterHandlers evicts a session's screens once its credential is gone.
func (r *ScreenRegistry) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	forget := func(_ context.Context, event events.Event) error {
		r.Forget(event.SessionKey)
		return nil
	}
	dispatcher.Subscribe(events.EventSessionCleared, forget)
	dispatcher.Subscribe(events.EventSessionInvalidated, forget)
}
