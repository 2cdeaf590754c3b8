package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/dragdrop"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mdeal"
	"github.com/funil-crm/funil/pkg/model/mpipeline"
)

type stubSync struct {
	reorderErr error
	moveErr    error
	reorders   int
	moves      int
}

func (s *stubSync) ReorderStages(context.Context, idwrap.IDWrap, idwrap.IDWrap, int) error {
	s.reorders++
	return s.reorderErr
}

func (s *stubSync) MoveDeal(context.Context, idwrap.IDWrap, idwrap.IDWrap) error {
	s.moves++
	return s.moveErr
}

func testBoard(sync SyncAdapter) (*Board, []idwrap.IDWrap) {
	cols := make([]Column, 4)
	ids := make([]idwrap.IDWrap, 4)
	for i, name := range []string{"A", "B", "C", "D"} {
		ids[i] = idwrap.NewNow()
		cols[i] = Column{Stage: mpipeline.Stage{ID: ids[i], Name: name, Order: i}}
	}
	return New(idwrap.NewNow(), cols, sync, nil, nil), ids
}

func stageNames(b *Board) []string {
	names := make([]string, len(b.Columns))
	for i, col := range b.Columns {
		names[i] = col.Stage.Name
	}
	return names
}

func TestStageDragCommits(t *testing.T) {
	sync := &stubSync{}
	b, ids := testBoard(sync)

	err := b.HandleStageDrag(context.Background(), dragdrop.Reorder{
		ItemID: ids[2], FromIndex: 2, ToIndex: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B", "D"}, stageNames(b))
	assert.Equal(t, 1, sync.reorders)
	for i, col := range b.Columns {
		assert.Equal(t, i, col.Stage.Order)
	}
}

func TestStageDragRollsBackOnFailure(t *testing.T) {
	sync := &stubSync{reorderErr: errors.New("network down")}
	b, ids := testBoard(sync)

	err := b.HandleStageDrag(context.Background(), dragdrop.Reorder{
		ItemID: ids[2], FromIndex: 2, ToIndex: 1,
	})
	require.Error(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, stageNames(b), "failed move must restore the original order")
}

func TestCardTransfer(t *testing.T) {
	sync := &stubSync{}
	b, ids := testBoard(sync)

	deal := mdeal.Deal{ID: idwrap.NewNow(), Title: "Contrato", StageID: ids[0]}
	b.Columns[0].Cards = []mdeal.Deal{deal}

	t.Run("Commit moves the card", func(t *testing.T) {
		err := b.HandleCardDrag(context.Background(), dragdrop.Transfer{
			ItemID:            deal.ID,
			SourceContainerID: ids[0],
			TargetContainerID: ids[1],
		})
		require.NoError(t, err)
		assert.Empty(t, b.Columns[0].Cards)
		require.Len(t, b.Columns[1].Cards, 1)
		assert.Equal(t, 0, b.Columns[1].Cards[0].StageID.Compare(ids[1]))
	})

	t.Run("Failure restores the card", func(t *testing.T) {
		sync.moveErr = errors.New("boom")
		err := b.HandleCardDrag(context.Background(), dragdrop.Transfer{
			ItemID:            deal.ID,
			SourceContainerID: ids[1],
			TargetContainerID: ids[2],
		})
		require.Error(t, err)
		require.Len(t, b.Columns[1].Cards, 1)
		assert.Empty(t, b.Columns[2].Cards)
	})

	t.Run("Unknown card", func(t *testing.T) {
		err := b.HandleCardDrag(context.Background(), dragdrop.Transfer{
			ItemID:            idwrap.NewNow(),
			SourceContainerID: ids[0],
			TargetContainerID: ids[1],
		})
		assert.Error(t, err)
	})
}

func TestHandleDispatch(t *testing.T) {
	sync := &stubSync{}
	b, ids := testBoard(sync)

	require.NoError(t, b.Handle(context.Background(), dragdrop.Reorder{
		ItemID: ids[1], FromIndex: 1, ToIndex: 3,
	}))
	assert.Equal(t, 1, sync.reorders)

	deal := mdeal.Deal{ID: idwrap.NewNow(), StageID: ids[0]}
	b.Columns[b.columnIndex(ids[0])].Cards = []mdeal.Deal{deal}
	require.NoError(t, b.Handle(context.Background(), dragdrop.Transfer{
		ItemID:            deal.ID,
		SourceContainerID: ids[0],
		TargetContainerID: ids[2],
	}))
	assert.Equal(t, 1, sync.moves)
}

func TestDragSessionToBoard(t *testing.T) {
	// Full path: pointer gesture through the drag session, terminal event
	// into the board.
	sync := &stubSync{}
	b, ids := testBoard(sync)

	session := dragdrop.NewSession(dragdrop.Config{})
	listID := idwrap.NewNow()
	start := time.Now()
	session.PointerDown(dragdrop.ItemRef{ID: ids[3], ContainerID: listID, Index: 3}, dragdrop.Point{}, false, start)
	session.PointerMove(dragdrop.Point{X: 12}, start)
	session.SetDropTarget(dragdrop.Target{ContainerID: listID, Index: 0})

	ev, ok := session.PointerUp()
	require.True(t, ok)
	reorder, ok := ev.(dragdrop.Reorder)
	require.True(t, ok)

	require.NoError(t, b.HandleStageDrag(context.Background(), reorder))
	assert.Equal(t, []string{"D", "A", "B", "C"}, stageNames(b))
}
