package ordered

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/funil-crm/funil/pkg/idwrap"
)

// MoveResult reports what a committed move touched.
type MoveResult struct {
	NewIndex    int
	AffectedIDs []idwrap.IDWrap
}

// Manager drives a repository through a complete move: load the scope, plan
// the reindex, apply every order update inside one transaction.
type Manager struct {
	db  *sql.DB
	log *slog.Logger
}

func NewManager(db *sql.DB, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{db: db, log: log}
}

// Move relocates itemID to newIndex within the ordered list scoped by
// parentID. A move to the item's current index commits nothing.
func (m *Manager) Move(ctx context.Context, repo Repository, parentID, itemID idwrap.IDWrap, newIndex int) (*MoveResult, error) {
	items, err := repo.ItemsByParent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("ordered: load scope: %w", err)
	}

	plan, err := PlanMove(items, itemID, newIndex)
	if err != nil {
		return nil, err
	}
	if plan.NoOp() {
		return &MoveResult{NewIndex: newIndex}, nil
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ordered: begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := repo.ApplyOrdering(ctx, tx, plan.Updates); err != nil {
		return nil, fmt.Errorf("ordered: apply ordering: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ordered: commit: %w", err)
	}

	affected := make([]idwrap.IDWrap, len(plan.Updates))
	for i, u := range plan.Updates {
		affected[i] = u.ID
	}
	m.log.DebugContext(ctx, "reorder committed",
		"parent", parentID.String(), "item", itemID.String(),
		"newIndex", newIndex, "touched", len(affected))
	return &MoveResult{NewIndex: newIndex, AffectedIDs: affected}, nil
}

// MoveTx is Move for callers that already hold a transaction; no commit or
// rollback is issued here.
func (m *Manager) MoveTx(ctx context.Context, tx *sql.Tx, repo Repository, parentID, itemID idwrap.IDWrap, newIndex int) (*MoveResult, error) {
	items, err := repo.ItemsByParent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("ordered: load scope: %w", err)
	}
	plan, err := PlanMove(items, itemID, newIndex)
	if err != nil {
		return nil, err
	}
	if plan.NoOp() {
		return &MoveResult{NewIndex: newIndex}, nil
	}
	if err := repo.ApplyOrdering(ctx, tx, plan.Updates); err != nil {
		return nil, fmt.Errorf("ordered: apply ordering: %w", err)
	}
	affected := make([]idwrap.IDWrap, len(plan.Updates))
	for i, u := range plan.Updates {
		affected[i] = u.ID
	}
	return &MoveResult{NewIndex: newIndex, AffectedIDs: affected}, nil
}
