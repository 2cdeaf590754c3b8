package api

import (
	"database/sql"

	"github.com/funil-crm/funil/pkg/eventstream"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/txutil"
)

// ChangeTopic routes change events by entity name ("company", "deal", ...).
type ChangeTopic struct {
	Entity string
}

// Change is the payload pushed to live listeners after a committed mutation.
type Change struct {
	Entity string                 `json:"entity"`
	ID     string                 `json:"id"`
	Kind   eventstream.ChangeKind `json:"kind"`
}

// Streamer is the concrete pub/sub the REST surface publishes into.
type Streamer = eventstream.SyncStreamer[ChangeTopic, Change]

// PublishChange is a nil-safe publish helper so handlers can run without a
// streamer in tests.
func PublishChange(s Streamer, entity string, id idwrap.IDWrap, kind eventstream.ChangeKind) {
	if s == nil {
		return
	}
	s.Publish(ChangeTopic{Entity: entity}, Change{Entity: entity, ID: id.String(), Kind: kind})
}

// NewChange builds the payload for a tracked mutation.
func NewChange(entity string, id idwrap.IDWrap, kind eventstream.ChangeKind) Change {
	return Change{Entity: entity, ID: id.String(), Kind: kind}
}

// NewChangeTx wraps tx so changes tracked during the transaction are grouped
// by entity and published only after a successful commit.
func NewChangeTx(tx *sql.Tx) *txutil.SyncTx[Change, ChangeTopic] {
	return txutil.NewSyncTx(tx, func(c Change) ChangeTopic {
		return ChangeTopic{Entity: c.Entity}
	})
}

// PublishAll is the CommitAndPublish sink for s. Nil-safe like PublishChange.
func PublishAll(s Streamer) func(ChangeTopic, []Change) {
	return func(topic ChangeTopic, changes []Change) {
		if s == nil {
			return
		}
		s.Publish(topic, changes...)
	}
}
