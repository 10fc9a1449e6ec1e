package events

import (
	"time"

	"github.com/telaviv/ops-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventIdentityChanged fires when a token decodes into a new identity.
	EventIdentityChanged EventType = "identity_changed"
	// EventSessionCleared fires on explicit logout.
	EventSessionCleared EventType = "session_cleared"
	// EventSessionInvalidated fires when a malformed or expired token is dropped.
	EventSessionInvalidated EventType = "session_invalidated"
)

// Event represents a session lifecycle change.
type Event struct {
	ID         string           `json:"id"`
	Type       EventType        `json:"type"`
	SessionKey string           `json:"session_key"`
	Identity   *domain.Identity `json:"identity,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}
