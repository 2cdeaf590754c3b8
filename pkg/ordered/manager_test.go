package ordered_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/ordered"
	"github.com/funil-crm/funil/pkg/sqlitemem"
)

var errWriteRejected = errors.New("write rejected")

// tableRepo orders rows of a scratch table. When failOn is set the repository
// errors on that id after having written every update before it, simulating a
// failure partway through a batch.
type tableRepo struct {
	db     *sql.DB
	failOn idwrap.IDWrap
}

func (r *tableRepo) ItemsByParent(ctx context.Context, _ idwrap.IDWrap) ([]ordered.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, display_order FROM ordered_rows ORDER BY display_order")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ordered.Item
	for rows.Next() {
		var it ordered.Item
		if err := rows.Scan(&it.ID, &it.Order); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *tableRepo) ApplyOrdering(ctx context.Context, tx *sql.Tx, updates []ordered.Update) error {
	for _, u := range updates {
		if r.failOn.Compare(u.ID) == 0 {
			return errWriteRejected
		}
		_, err := tx.ExecContext(ctx,
			"UPDATE ordered_rows SET display_order = ? WHERE id = ?", u.Order, u.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedRows(t *testing.T) (*sql.DB, []idwrap.IDWrap, func()) {
	t.Helper()
	ctx := context.Background()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		"CREATE TABLE ordered_rows (id BLOB PRIMARY KEY, display_order INTEGER NOT NULL)")
	require.NoError(t, err)

	ids := make([]idwrap.IDWrap, 3)
	for i := range ids {
		ids[i] = idwrap.NewNow()
		_, err = db.ExecContext(ctx,
			"INSERT INTO ordered_rows (id, display_order) VALUES (?, ?)", ids[i], i)
		require.NoError(t, err)
	}
	return db, ids, cleanup
}

func storedOrder(t *testing.T, repo *tableRepo) []idwrap.IDWrap {
	t.Helper()
	items, err := repo.ItemsByParent(context.Background(), idwrap.IDWrap{})
	require.NoError(t, err)
	out := make([]idwrap.IDWrap, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestManagerMoveCommits(t *testing.T) {
	db, ids, cleanup := seedRows(t)
	defer cleanup()

	repo := &tableRepo{db: db}
	mover := ordered.NewManager(db, nil)

	res, err := mover.Move(context.Background(), repo, idwrap.IDWrap{}, ids[0], 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NewIndex)
	assert.Equal(t, []idwrap.IDWrap{ids[1], ids[2], ids[0]}, storedOrder(t, repo))
}

func TestManagerMoveRollsBackMidBatchFailure(t *testing.T) {
	db, ids, cleanup := seedRows(t)
	defer cleanup()

	// Moving ids[0] to the end updates ids[1] and ids[2] before ids[0]; the
	// failure lands after two updates have already been written to the tx.
	repo := &tableRepo{db: db, failOn: ids[0]}
	mover := ordered.NewManager(db, nil)

	_, err := mover.Move(context.Background(), repo, idwrap.IDWrap{}, ids[0], 2)
	require.ErrorIs(t, err, errWriteRejected)
	assert.Equal(t, ids, storedOrder(t, repo))

	items, listErr := repo.ItemsByParent(context.Background(), idwrap.IDWrap{})
	require.NoError(t, listErr)
	require.NoError(t, ordered.Validate(items))
}
