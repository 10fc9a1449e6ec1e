package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/telaviv/ops-dashboard/internal/events"
)

// Manager opens sessions against a shared store.
type Manager struct {
	store      TokenStore
	decoder    *Decoder
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewManager wires the store, decoder and event dispatcher used by every
// session it opens.
func NewManager(store TokenStore, decoder *Decoder, dispatcher events.Dispatcher, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, decoder: decoder, dispatcher: dispatcher, logger: logger}
}

// Open restores the session of one browser. A store failure is returned
// together with a usable, logged-out session.
func (m *Manager) Open(ctx context.Context, sessionID string) (*Session, error) {
	return m.open(ctx, BrowserKey(sessionID))
}

// OpenDefault restores the single-user session stored under DefaultKey.
func (m *Manager) OpenDefault(ctx context.Context) (*Session, error) {
	return m.open(ctx, DefaultKey)
}

func (m *Manager) open(ctx context.Context, key string) (*Session, error) {
	s := New(key, m.store, m.decoder, WithDispatcher(m.dispatcher), WithLogger(m.logger))
	err := s.Restore(ctx)
	return s, err
}
