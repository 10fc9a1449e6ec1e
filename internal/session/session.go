package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/events"
)

// ErrEmptyToken is returned by Login when no token is given.
var ErrEmptyToken = errors.New("credential token is empty")

// State is a snapshot of a session. Identity is non-nil only while the
// token decodes and has not expired.
type State struct {
	Token    string           `json:"-"`
	Identity *domain.Identity `json:"identity"`
	Loading  bool             `json:"loading"`
}

// Authenticated reports whether an identity is present.
func (s State) Authenticated() bool {
	return s.Identity != nil
}

// Session owns the credential token for one storage key and the identity
// derived from it.
type Session struct {
	key        string
	store      TokenStore
	decoder    *Decoder
	dispatcher events.Dispatcher
	logger     *zap.Logger

	// writeMu serializes token transitions, including their storage I/O.
	writeMu sync.Mutex

	mu       sync.RWMutex
	token    string
	identity *domain.Identity
	loading  bool
}

// Option customizes a Session.
type Option func(*Session)

// WithDispatcher publishes lifecycle events to d.
func WithDispatcher(d events.Dispatcher) Option {
	return func(s *Session) {
		s.dispatcher = d
	}
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a session in the loading state. Call Restore to read the
// persisted token.
func New(key string, store TokenStore, decoder *Decoder, opts ...Option) *Session {
	s := &Session{
		key:     key,
		store:   store,
		decoder: decoder,
		logger:  zap.NewNop(),
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key of the session.
func (s *Session) Key() string {
	return s.key
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Token: s.token, Identity: s.identity, Loading: s.loading}
}

// CurrentToken returns the token in memory and whether one is held.
func (s *Session) CurrentToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Identity returns the decoded identity or nil.
func (s *Session) Identity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Restore loads the persisted token and resolves the identity. The loading
// flag is cleared whatever the outcome. A stored value that cannot be read
// back is discarded like a malformed token; other storage failures are
// returned and leave the stored value alone.
func (s *Session) Restore(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	token, err := s.store.Load(ctx, s.key)
	if errors.Is(err, ErrUnreadableToken) {
		s.logger.Warn("discarding unreadable persisted token", zap.String("session_key", s.key), zap.Error(err))
		s.discard(ctx, err.Error())
		return nil
	}
	if err != nil {
		s.logger.Warn("failed to load persisted token", zap.String("session_key", s.key), zap.Error(err))
		s.set("", nil)
		return fmt.Errorf("restore session: %w", err)
	}
	if token == "" {
		s.set("", nil)
		return nil
	}
	s.resolve(ctx, token)
	return nil
}

// Login persists token first and only then adopts it. A storage failure
// leaves the session untouched. A token that fails to decode is accepted
// and immediately discarded, leaving the session unauthenticated.
func (s *Session) Login(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Save(ctx, s.key, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.resolve(ctx, token)
	return nil
}

// Logout clears the token from memory and storage. Memory is cleared even
// when storage fails.
func (s *Session) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.store.Delete(ctx, s.key)
	s.set("", nil)
	s.publish(ctx, events.Event{Type: events.EventSessionCleared})
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Invalidate drops a token the backend refused, as if it had expired.
func (s *Session) Invalidate(ctx context.Context, reason string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.CurrentToken(); !ok {
		return
	}
	s.discard(ctx, reason)
}

// resolve must run under writeMu.
func (s *Session) resolve(ctx context.Context, token string) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	identity, err := s.decoder.Decode(token)
	if err != nil {
		s.logger.Warn("discarding credential token", zap.String("session_key", s.key), zap.Error(err))
		s.discard(ctx, err.Error())
		return
	}

	s.set(token, identity)
	s.publish(ctx, events.Event{Type: events.EventIdentityChanged, Identity: identity})
}

func (s *Session) discard(ctx context.Context, reason string) {
	s.set("", nil)
	if err := s.store.Delete(ctx, s.key); err != nil {
		s.logger.Warn("failed to delete discarded token", zap.String("session_key", s.key), zap.Error(err))
	}
	s.publish(ctx, events.Event{Type: events.EventSessionInvalidated, Reason: reason})
}

func (s *Session) set(token string, identity *domain.Identity) {
	s.mu.Lock()
	s.token = token
	s.identity = identity
	s.loading = false
	s.mu.Unlock()
}

func (s *Session) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.SessionKey = s.key
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("session event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
	}
}
