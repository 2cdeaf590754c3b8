// Package eventstream defines the generic pub/sub contract that carries
// entity change notifications from committed transactions to live listeners
// (the websocket route, cache invalidation in clients).
package eventstream

import "context"

// ChangeKind mirrors the mutations a CRM entity can undergo. Reorder is its
// own kind so board clients can reconcile orderings without refetching rows.
type ChangeKind string

const (
	ChangeCreate  ChangeKind = "create"
	ChangeUpdate  ChangeKind = "update"
	ChangeDelete  ChangeKind = "delete"
	ChangeReorder ChangeKind = "reorder"
)

// Event pairs a routing topic with its payload.
type Event[Topic any, Payload any] struct {
	Topic   Topic
	Payload Payload
}

// TopicFilter selects which topics a subscriber receives. A nil filter
// receives everything.
type TopicFilter[Topic any] func(Topic) bool

// SyncStreamer is a lockless-from-the-caller's-view streaming interface:
// channels in, channels out, no shared state exposed.
type SyncStreamer[Topic any, Payload any] interface {
	// Subscribe returns a read-only event channel. The channel closes when
	// ctx is cancelled or the streamer shuts down.
	Subscribe(ctx context.Context, filter TopicFilter[Topic]) (<-chan Event[Topic, Payload], error)

	// Publish fans payloads out to every matching subscriber. Non-blocking;
	// events are dropped when a subscriber's buffer is full.
	Publish(topic Topic, payloads ...Payload)

	// Shutdown closes every subscriber channel and rejects new subscriptions.
	Shutdown()
}
