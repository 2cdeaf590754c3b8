// Package txutil wraps sql transactions so change events are published
// only after a successful commit. Tracking is cheap; nothing leaves the
// process if the transaction rolls back.
package txutil

import (
	"context"
	"database/sql"
	"fmt"
)

// SyncTx collects items written during a transaction and publishes them
// grouped by topic once the transaction commits.
type SyncTx[T any, Topic comparable] struct {
	tx        *sql.Tx
	extractor func(T) Topic
	tracked   []T
}

// NewSyncTx wraps tx. extractor maps each tracked item to its publish topic.
func NewSyncTx[T any, Topic comparable](tx *sql.Tx, extractor func(T) Topic) *SyncTx[T, Topic] {
	return &SyncTx[T, Topic]{tx: tx, extractor: extractor}
}

// Tx exposes the underlying transaction for query execution.
func (s *SyncTx[T, Topic]) Tx() *sql.Tx {
	return s.tx
}

// Track records an item for publication after commit.
func (s *SyncTx[T, Topic]) Track(item T) {
	s.tracked = append(s.tracked, item)
}

// CommitAndPublish commits the transaction, then invokes publish once per
// topic with the items tracked under it, in tracking order. If the commit
// fails nothing is published.
func (s *SyncTx[T, Topic]) CommitAndPublish(ctx context.Context, publish func(topic Topic, items []T)) error {
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if publish == nil || len(s.tracked) == 0 {
		return nil
	}
	groups := make(map[Topic][]T)
	var order []Topic
	for _, item := range s.tracked {
		topic := s.extractor(item)
		if _, seen := groups[topic]; !seen {
			order = append(order, topic)
		}
		groups[topic] = append(groups[topic], item)
	}
	for _, topic := range order {
		publish(topic, groups[topic])
	}
	return nil
}

// Rollback discards the transaction and all tracked items.
func (s *SyncTx[T, Topic]) Rollback() error {
	s.tracked = nil
	return s.tx.Rollback()
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
