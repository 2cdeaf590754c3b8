package txutil

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/sqlitemem"
)

type testItem struct {
	ID         string
	PipelineID string
	Value      string
}

type testTopic struct {
	PipelineID string
}

func TestSyncTx_GroupsByTopic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	defer cleanup()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	publications := make(map[testTopic][]testItem)
	publishFn := func(topic testTopic, items []testItem) {
		publications[topic] = append(publications[topic], items...)
	}

	syncTx := NewSyncTx(tx, func(item testItem) testTopic {
		return testTopic{PipelineID: item.PipelineID}
	})

	syncTx.Track(testItem{ID: "1", PipelineID: "p1", Value: "a"})
	syncTx.Track(testItem{ID: "2", PipelineID: "p1", Value: "b"})
	syncTx.Track(testItem{ID: "3", PipelineID: "p2", Value: "c"})
	syncTx.Track(testItem{ID: "4", PipelineID: "p1", Value: "d"})

	require.NoError(t, syncTx.CommitAndPublish(ctx, publishFn))

	assert.Len(t, publications, 2)
	assert.Len(t, publications[testTopic{PipelineID: "p1"}], 3)
	assert.Len(t, publications[testTopic{PipelineID: "p2"}], 1)
}

func TestSyncTx_RollbackPublishesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	defer cleanup()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	syncTx := NewSyncTx(tx, func(item testItem) testTopic {
		return testTopic{PipelineID: item.PipelineID}
	})
	syncTx.Track(testItem{ID: "1", PipelineID: "p1"})

	require.NoError(t, syncTx.Rollback())

	called := false
	err = syncTx.CommitAndPublish(ctx, func(testTopic, []testItem) { called = true })
	assert.Error(t, err, "commit after rollback must fail")
	assert.False(t, called)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	defer cleanup()

	sentinel := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO pipelines (id, name, description, icon, display_order, created_at, updated_at) VALUES (x'00000000000000000000000000000000', 'x', '', 'funnel', 0, 0, 0)`); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pipelines`).Scan(&count))
	assert.Zero(t, count)
}
