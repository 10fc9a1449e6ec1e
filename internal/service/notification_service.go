package service

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/events"
)

// SessionExpiredMessage tells the user their credential was dropped.
const SessionExpiredMessage = "Sessão expirada. Por favor, faça login novamente."

const maxQueuedNotices = 20

// NotificationService keeps the toast queue of every session. Screens push
// notices and the UI drains them. At most capacity sessions hold a queue;
// the least recently pushed one is dropped beyond that.
type NotificationService struct {
	mu     sync.Mutex
	queues *lru.Cache[string, []domain.Notice]
	logger *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, capacity int) (*NotificationService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	queues, err := lru.New[string, []domain.Notice](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create notice queues: %w", err)
	}
	return &NotificationService{queues: queues, logger: logger}, nil
}

// Push appends a notice to the session queue. The oldest notice is dropped
// once the queue is full.
func (n *NotificationService) Push(sessionKey string, notice domain.Notice) {
	if sessionKey == "" || notice.Message == "" {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	queue, _ := n.queues.Get(sessionKey)
	queue = append(queue, notice)
	if len(queue) > maxQueuedNotices {
		queue = queue[len(queue)-maxQueuedNotices:]
	}
	if evicted := n.queues.Add(sessionKey, queue); evicted {
		n.logger.Debug("dropped notice queue of least recent session")
	}
}

// Notify returns a closure that pushes into one session queue.
func (n *NotificationService) Notify(sessionKey string) func(domain.Notice) {
	return func(notice domain.Notice) {
		n.Push(sessionKey, notice)
	}
}

// Success, Warning and Error are shorthands for Push.
func (n *NotificationService) Success(sessionKey, message string) {
	n.Push(sessionKey, domain.Notice{Level: domain.NoticeSuccess, Message: message})
}

func (n *NotificationService) Warning(sessionKey, message string) {
	n.Push(sessionKey, domain.Notice{Level: domain.NoticeWarning, Message: message})
}

func (n *NotificationService) Error(sessionKey, message string) {
	n.Push(sessionKey, domain.Notice{Level: domain.NoticeError, Message: message})
}

// Drain returns and forgets the queued notices, oldest first.
func (n *NotificationService) Drain(sessionKey string) []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	queue, ok := n.queues.Peek(sessionKey)
	if !ok {
		return []domain.Notice{}
	}
	n.queues.Remove(sessionKey)
	return queue
}

// Len reports how many sessions have queued notices.
func (n *NotificationService) Len() int {
	return n.queues.Len()
}

// RegisterHandlers subscribes to session events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventSessionInvalidated, n.handleSessionInvalidated)
	dispatcher.Subscribe(events.EventSessionCleared, n.handleSessionCleared)
}

func (n *NotificationService) handleSessionInvalidated(_ context.Context, event events.Event) error {
	n.logger.Info("SessionInvalidated", zap.String("session_key", event.SessionKey), zap.String("reason", event.Reason))
	n.Warning(event.SessionKey, SessionExpiredMessage)
	return nil
}

func (n *NotificationService) handleSessionCleared(_ context.Context, event events.Event) error {
	n.logger.Debug("SessionCleared", zap.String("session_key", event.SessionKey))
	n.mu.Lock()
	n.queues.Remove(event.SessionKey)
	n.mu.Unlock()
	return nil
}
