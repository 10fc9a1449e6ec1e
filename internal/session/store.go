package session

import (
	"context"
	"errors"
	"sync"
)

// ErrUnreadableToken marks stored data that exists but cannot be turned
// back into a token. Sessions drop such entries instead of failing.
var ErrUnreadableToken = errors.New("stored token is unreadable")

// DefaultKey is the fixed storage key for the credential token.
const DefaultKey = "access_token"

// BrowserKey scopes the token key to one browser session.
func BrowserKey(sessionID string) string {
	return DefaultKey + ":" + sessionID
}

// TokenStore is durable key-value storage for credential tokens. Load
// returns an empty string when nothing is stored under the key.
type TokenStore interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, token string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps tokens in process memory. Used by tests and by
// single-instance deployments that accept losing sessions on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[key], nil
}

func (m *MemoryStore) Save(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = token
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key)
	return nil
}
