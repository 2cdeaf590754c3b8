package ordered_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/ordered"
)

func makeItems(n int) []ordered.Item {
	items := make([]ordered.Item, n)
	for i := range items {
		items[i] = ordered.Item{ID: idwrap.NewNow(), Order: i}
	}
	return items
}

func idSequence(items []ordered.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID.String()
	}
	return out
}

func TestReindexDensity(t *testing.T) {
	for n := 1; n <= 6; n++ {
		items := makeItems(n)
		for from := 0; from < n; from++ {
			for to := 0; to < n; to++ {
				got, err := ordered.Reindex(items, from, to)
				require.NoError(t, err, "n=%d from=%d to=%d", n, from, to)
				require.Len(t, got, n)
				require.NoError(t, ordered.Validate(got), "n=%d from=%d to=%d", n, from, to)
			}
		}
	}
}

func TestReindexNoOp(t *testing.T) {
	items := makeItems(5)
	for k := 0; k < len(items); k++ {
		got, err := ordered.Reindex(items, k, k)
		require.NoError(t, err)
		assert.Equal(t, idSequence(items), idSequence(got))
	}
}

func TestReindexRoundTrip(t *testing.T) {
	items := makeItems(6)
	for i := 0; i < len(items); i++ {
		for j := 0; j < len(items); j++ {
			if i == j {
				continue
			}
			moved, err := ordered.Reindex(items, i, j)
			require.NoError(t, err)
			back, err := ordered.Reindex(moved, j, i)
			require.NoError(t, err)
			assert.Equal(t, idSequence(items), idSequence(back), "i=%d j=%d", i, j)
		}
	}
}

func TestReindexShiftDirection(t *testing.T) {
	// [A B C D], moving C to the front: [C A B D].
	items := makeItems(4)
	a, b, c, d := items[0], items[1], items[2], items[3]

	got, err := ordered.Reindex(items, 2, 0)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{c.ID.String(), a.ID.String(), b.ID.String(), d.ID.String()},
		idSequence(got))

	// Moving A to the end: [B C D A].
	got, err = ordered.Reindex(items, 0, 3)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{b.ID.String(), c.ID.String(), d.ID.String(), a.ID.String()},
		idSequence(got))
}

func TestReindexOutOfRange(t *testing.T) {
	items := makeItems(3)
	_, err := ordered.Reindex(items, -1, 0)
	assert.ErrorIs(t, err, ordered.ErrIndexOutOfRange)
	_, err = ordered.Reindex(items, 0, 3)
	assert.ErrorIs(t, err, ordered.ErrIndexOutOfRange)
}

func TestPlanMoveUpdatesOnlyChangedRows(t *testing.T) {
	items := makeItems(5)

	plan, err := ordered.PlanMove(items, items[1].ID, 3)
	require.NoError(t, err)
	// Items 1..3 shift; items 0 and 4 keep their order values.
	require.Len(t, plan.Updates, 3)
	require.NoError(t, ordered.Validate(plan.Ordering))

	touched := map[string]int{}
	for _, u := range plan.Updates {
		touched[u.ID.String()] = u.Order
	}
	assert.NotContains(t, touched, items[0].ID.String())
	assert.NotContains(t, touched, items[4].ID.String())
	assert.Equal(t, 3, touched[items[1].ID.String()])
}

func TestPlanMoveNoOp(t *testing.T) {
	items := makeItems(4)
	plan, err := ordered.PlanMove(items, items[2].ID, 2)
	require.NoError(t, err)
	assert.True(t, plan.NoOp())
}

func TestPlanMoveUnknownItem(t *testing.T) {
	items := makeItems(3)
	_, err := ordered.PlanMove(items, idwrap.NewNow(), 0)
	assert.ErrorIs(t, err, ordered.ErrItemNotFound)
}

func TestValidate(t *testing.T) {
	items := makeItems(3)
	require.NoError(t, ordered.Validate(items))
	items[1].Order = 5
	assert.ErrorIs(t, ordered.Validate(items), ordered.ErrNotDense)
}
