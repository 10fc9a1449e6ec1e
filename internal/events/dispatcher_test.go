package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string

	d.Subscribe(EventSessionCleared, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.SessionKey)
		return errors.New("boom")
	})
	d.Subscribe(EventSessionCleared, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.SessionKey)
		return nil
	})
	d.Subscribe(EventIdentityChanged, func(_ context.Context, e Event) error {
		got = append(got, "unexpected")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventSessionCleared, SessionKey: "k"})
	require.EqualError(t, err, "boom")
	assert.Equal(t, []string{"first:k", "second:k"}, got)
}

func TestSubscribeAll(t *testing.T) {
	d := NewInMemoryDispatcher()
	count := 0
	SubscribeAll(d, func(context.Context, Event) error {
		count++
		return nil
	})

	for _, typ := range []EventType{EventIdentityChanged, EventSessionCleared, EventSessionInvalidated} {
		require.NoError(t, d.Publish(context.Background(), Event{Type: typ}))
	}
	assert.Equal(t, 3, count)
}
