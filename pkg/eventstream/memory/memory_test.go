package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/eventstream"
	"github.com/funil-crm/funil/pkg/eventstream/memory"
)

type topic struct {
	Entity string
}

type payload struct {
	ID   string
	Kind eventstream.ChangeKind
}

func recv(t *testing.T, ch <-chan eventstream.Event[topic, payload]) eventstream.Event[topic, payload] {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return eventstream.Event[topic, payload]{}
	}
}

func TestPublishReachesMatchingSubscribers(t *testing.T) {
	s := memory.NewSyncStreamer[topic, payload]()
	defer s.Shutdown()
	ctx := context.Background()

	stages, err := s.Subscribe(ctx, func(tp topic) bool { return tp.Entity == "stage" })
	require.NoError(t, err)
	all, err := s.Subscribe(ctx, nil)
	require.NoError(t, err)

	s.Publish(topic{Entity: "stage"}, payload{ID: "s1", Kind: eventstream.ChangeReorder})
	s.Publish(topic{Entity: "deal"}, payload{ID: "d1", Kind: eventstream.ChangeUpdate})

	evt := recv(t, stages)
	assert.Equal(t, "s1", evt.Payload.ID)

	first := recv(t, all)
	second := recv(t, all)
	assert.Equal(t, "s1", first.Payload.ID)
	assert.Equal(t, "d1", second.Payload.ID)

	select {
	case evt := <-stages:
		t.Fatalf("stage subscriber saw filtered event: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscriberContextCancelClosesChannel(t *testing.T) {
	s := memory.NewSyncStreamer[topic, payload]()
	defer s.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.Subscribe(ctx, nil)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestShutdownRejectsNewSubscribers(t *testing.T) {
	s := memory.NewSyncStreamer[topic, payload]()
	s.Shutdown()

	_, err := s.Subscribe(context.Background(), nil)
	assert.Error(t, err)

	// Publishing after shutdown is a no-op, not a panic.
	s.Publish(topic{Entity: "deal"}, payload{ID: "d1"})
}
