// Package ordered is the shared engine behind every user-sortable list in the
// CRM: pipelines, stages, loss reasons, form sections and form fields all move
// through the same pure reindexing functions and the same transactional
// repository contract.
package ordered

import (
	"context"
	"database/sql"
	"errors"

	"github.com/funil-crm/funil/pkg/idwrap"
)

var (
	ErrIndexOutOfRange = errors.New("ordered: index out of range")
	ErrItemNotFound    = errors.New("ordered: item not found in scope")
	ErrNotDense        = errors.New("ordered: order values are not dense")
)

// Item is the canonical {id, order} pair every orderable entity reduces to.
type Item struct {
	ID    idwrap.IDWrap
	Order int
}

// Update is a single row whose order column must change to realize a plan.
type Update struct {
	ID    idwrap.IDWrap
	Order int
}

// Plan is a finalized move: the full new ordering plus the minimal update set.
type Plan struct {
	Ordering []Item
	Updates  []Update
}

// NoOp reports whether the plan changes nothing and persistence can be skipped.
func (p Plan) NoOp() bool { return len(p.Updates) == 0 }

// Repository is implemented once per entity type. ApplyOrdering must apply all
// updates inside the supplied transaction so a reorder commits atomically or
// not at all.
type Repository interface {
	ItemsByParent(ctx context.Context, parentID idwrap.IDWrap) ([]Item, error)
	ApplyOrdering(ctx context.Context, tx *sql.Tx, updates []Update) error
}
