package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telaviv/ops-dashboard/internal/domain"
	"github.com/telaviv/ops-dashboard/internal/events"
)

func TestScreenRegistryBuildsOnce(t *testing.T) {
	r, err := NewScreenRegistry(8)
	require.NoError(t, err)

	builds := 0
	build := func() *exportPreview {
		builds++
		return &exportPreview{}
	}
	first := screenState(r, "k", "nexti", build)
	second := screenState(r, "k", "nexti", build)
	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
}

func TestScreenRegistryIsBounded(t *testing.T) {
	r, err := NewScreenRegistry(2)
	require.NoError(t, err)
	for _, key := range []string{"a", "b", "c"} {
		screenState(r, key, "logs", func() int { return 1 })
	}
	assert.Equal(t, 2, r.Len())
}

func TestScreenRegistryForgetsOnSessionEvents(t *testing.T) {
	r, err := NewScreenRegistry(8)
	require.NoError(t, err)
	d := events.NewInMemoryDispatcher()
	r.RegisterHandlers(d)

	screenState(r, "access_token:1", "logs", func() int { return 1 })
	screenState(r, "access_token:1", "usuarios", func() int { return 1 })
	screenState(r, "access_token:2", "logs", func() int { return 1 })

	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventSessionInvalidated, SessionKey: "access_token:1"}))
	assert.Equal(t, 1, r.Len())

	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventIdentityChanged, SessionKey: "access_token:2"}))
	assert.Equal(t, 1, r.Len())

	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventSessionCleared, SessionKey: "access_token:2"}))
	assert.Equal(t, 0, r.Len())
}

func TestNotificationQueue(t *testing.T) {
	n, err := NewNotificationService(nil, 8)
	require.NoError(t, err)
	d := events.NewInMemoryDispatcher()
	n.RegisterHandlers(d)

	n.Success("k", "ok")
	n.Push("k", domain.Notice{Level: domain.NoticeInfo})
	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventSessionInvalidated, SessionKey: "k"}))

	assert.Equal(t, []domain.Notice{
		{Level: domain.NoticeSuccess, Message: "ok"},
		{Level: domain.NoticeWarning, Message: SessionExpiredMessage},
	}, n.Drain("k"))
	assert.Equal(t, []domain.Notice{}, n.Drain("k"))

	for i := 0; i < maxQueuedNotices+5; i++ {
		n.Error("k", "x")
	}
	assert.Len(t, n.Drain("k"), maxQueuedNotices)

	n.Warning("k", "pending")
	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventSessionCleared, SessionKey: "k"}))
	assert.Empty(t, n.Drain("k"))
}

func TestNotificationQueuesAreBoundedPerSession(t *testing.T) {
	n, err := NewNotificationService(nil, 4)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		n.Warning(fmt.Sprintf("sess-%d", i), SessionExpiredMessage)
	}
	assert.Equal(t, 4, n.Len())
	assert.Empty(t, n.Drain("sess-0"))
	assert.Empty(t, n.Drain("sess-5"))
	assert.Equal(t, []domain.Notice{{Level: domain.NoticeWarning, Message: SessionExpiredMessage}}, n.Drain("sess-9"))
	assert.Equal(t, 3, n.Len())
}

func TestNotificationServiceRequiresCapacity(t *testing.T) {
	_, err := NewNotificationService(nil, 0)
	assert.Error(t, err)
}
