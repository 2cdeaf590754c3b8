// Package board holds the kanban view state for one pipeline: stage columns
// in display order, each carrying its open deals. Drag events mutate the
// board optimistically; the matching remote call runs through the optimistic
// executor, which restores the previous state if the call fails.
package board

import (
	"context"
	"log/slog"

	"github.com/funil-crm/funil/pkg/dragdrop"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mdeal"
	"github.com/funil-crm/funil/pkg/model/mpipeline"
	"github.com/funil-crm/funil/pkg/optimistic"
	"github.com/funil-crm/funil/pkg/ordered"
)

// SyncAdapter is the remote side of a board mutation. The HTTP client
// implements it against the REST routes; tests stub it.
type SyncAdapter interface {
	ReorderStages(ctx context.Context, pipelineID, stageID idwrap.IDWrap, newIndex int) error
	MoveDeal(ctx context.Context, dealID, stageID idwrap.IDWrap) error
}

// Column is one stage with its cards.
type Column struct {
	Stage mpipeline.Stage
	Cards []mdeal.Deal
}

type Board struct {
	PipelineID idwrap.IDWrap
	Columns    []Column

	sync     SyncAdapter
	registry *optimistic.Registry
	log      *slog.Logger
}

func New(pipelineID idwrap.IDWrap, columns []Column, sync SyncAdapter, registry *optimistic.Registry, log *slog.Logger) *Board {
	if registry == nil {
		registry = optimistic.NewRegistry()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Board{
		PipelineID: pipelineID,
		Columns:    columns,
		sync:       sync,
		registry:   registry,
		log:        log,
	}
}

// Registry exposes the busy-key registry so the UI can grey out in-flight
// rows.
func (b *Board) Registry() *optimistic.Registry { return b.registry }

// StageIDs returns the column order, useful for assertions and rendering.
func (b *Board) StageIDs() []idwrap.IDWrap {
	ids := make([]idwrap.IDWrap, len(b.Columns))
	for i, col := range b.Columns {
		ids[i] = col.Stage.ID
	}
	return ids
}

func (b *Board) columnIndex(stageID idwrap.IDWrap) int {
	for i, col := range b.Columns {
		if col.Stage.ID.Compare(stageID) == 0 {
			return i
		}
	}
	return -1
}

func (b *Board) cardIndex(colIdx int, dealID idwrap.IDWrap) int {
	for i, card := range b.Columns[colIdx].Cards {
		if card.ID.Compare(dealID) == 0 {
			return i
		}
	}
	return -1
}

func cloneColumns(cols []Column) []Column {
	out := make([]Column, len(cols))
	for i, col := range cols {
		out[i] = Column{Stage: col.Stage, Cards: append([]mdeal.Deal(nil), col.Cards...)}
	}
	return out
}

// HandleStageDrag applies a column reorder emitted by the drag session. The
// columns move immediately; if the remote reorder fails the previous order
// comes back and the error is returned.
func (b *Board) HandleStageDrag(ctx context.Context, ev dragdrop.Reorder) error {
	moved, err := ordered.Move(b.Columns, ev.FromIndex, ev.ToIndex)
	if err != nil {
		return err
	}
	for i := range moved {
		moved[i].Stage.Order = i
	}
	rollback := cloneColumns(b.Columns)

	_, err = optimistic.Execute(ctx,
		func(cols []Column) { b.Columns = cols },
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, b.sync.ReorderStages(ctx, b.PipelineID, ev.ItemID, ev.ToIndex)
		},
		moved, rollback,
		optimistic.Options[[]Column]{
			BusyKey:  optimistic.KeyFor("stage", ev.ItemID.String(), "reorder"),
			Registry: b.registry,
			Log:      b.log,
		},
	)
	return err
}

// HandleCardDrag applies a deal transfer between columns. The card lands at
// the end of the target column, mirroring where the server lists it.
func (b *Board) HandleCardDrag(ctx context.Context, ev dragdrop.Transfer) error {
	from := b.columnIndex(ev.SourceContainerID)
	to := b.columnIndex(ev.TargetContainerID)
	if from == -1 || to == -1 {
		return ordered.ErrItemNotFound
	}
	cardIdx := b.cardIndex(from, ev.ItemID)
	if cardIdx == -1 {
		return ordered.ErrItemNotFound
	}

	next := cloneColumns(b.Columns)
	card := next[from].Cards[cardIdx]
	card.StageID = next[to].Stage.ID
	next[from].Cards = append(next[from].Cards[:cardIdx], next[from].Cards[cardIdx+1:]...)
	next[to].Cards = append(next[to].Cards, card)
	rollback := cloneColumns(b.Columns)

	_, err := optimistic.Execute(ctx,
		func(cols []Column) { b.Columns = cols },
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, b.sync.MoveDeal(ctx, ev.ItemID, ev.TargetContainerID)
		},
		next, rollback,
		optimistic.Options[[]Column]{
			BusyKey:  optimistic.KeyFor("deal", ev.ItemID.String(), "move"),
			Registry: b.registry,
			Log:      b.log,
		},
	)
	return err
}

// Handle dispatches a terminal drag event to the matching mutation.
func (b *Board) Handle(ctx context.Context, ev dragdrop.Event) error {
	switch e := ev.(type) {
	case dragdrop.Reorder:
		return b.HandleStageDrag(ctx, e)
	case dragdrop.Transfer:
		return b.HandleCardDrag(ctx, e)
	default:
		return nil
	}
}
