package gen

import (
	"context"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const stageColumns = `id, pipeline_id, name, display_order, created_at, updated_at`

func scanStage(row interface{ Scan(...any) error }) (Stage, error) {
	var s Stage
	err := row.Scan(&s.ID, &s.PipelineID, &s.Name, &s.DisplayOrder,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const createStage = `
INSERT INTO stages (id, pipeline_id, name, display_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateStageParams struct {
	ID           idwrap.IDWrap
	PipelineID   idwrap.IDWrap
	Name         string
	DisplayOrder int64
	CreatedAt    int64
	UpdatedAt    int64
}

func (q *Queries) CreateStage(ctx context.Context, arg CreateStageParams) error {
	_, err := q.db.ExecContext(ctx, createStage,
		arg.ID, arg.PipelineID, arg.Name, arg.DisplayOrder, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getStage = `
SELECT ` + stageColumns + ` FROM stages WHERE id = ?
`

func (q *Queries) GetStage(ctx context.Context, id idwrap.IDWrap) (Stage, error) {
	return scanStage(q.db.QueryRowContext(ctx, getStage, id))
}

const listStagesByPipeline = `
SELECT ` + stageColumns + ` FROM stages WHERE pipeline_id = ? ORDER BY display_order
`

func (q *Queries) ListStagesByPipeline(ctx context.Context, pipelineID idwrap.IDWrap) ([]Stage, error) {
	rows, err := q.db.QueryContext(ctx, listStagesByPipeline, pipelineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Stage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const updateStage = `
UPDATE stages SET name = ?, updated_at = ? WHERE id = ?
`

type UpdateStageParams struct {
	Name      string
	UpdatedAt int64
	ID        idwrap.IDWrap
}

func (q *Queries) UpdateStage(ctx context.Context, arg UpdateStageParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateStage, arg.Name, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updateStageOrder = `
UPDATE stages SET display_order = ?, updated_at = ? WHERE id = ?
`

type UpdateStageOrderParams struct {
	DisplayOrder int64
	UpdatedAt    int64
	ID           idwrap.IDWrap
}

func (q *Queries) UpdateStageOrder(ctx context.Context, arg UpdateStageOrderParams) error {
	_, err := q.db.ExecContext(ctx, updateStageOrder, arg.DisplayOrder, arg.UpdatedAt, arg.ID)
	return err
}

const maxStageOrder = `
SELECT COALESCE(MAX(display_order), -1) FROM stages WHERE pipeline_id = ?
`

func (q *Queries) MaxStageOrder(ctx context.Context, pipelineID idwrap.IDWrap) (int64, error) {
	var max int64
	err := q.db.QueryRowContext(ctx, maxStageOrder, pipelineID).Scan(&max)
	return max, err
}

const deleteStage = `
DELETE FROM stages WHERE id = ?
`

func (q *Queries) DeleteStage(ctx context.Context, id idwrap.IDWrap) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteStage, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countDealsInStage = `
SELECT COUNT(*) FROM deals WHERE stage_id = ? AND deleted_at IS NULL
`

func (q *Queries) CountDealsInStage(ctx context.Context, stageID idwrap.IDWrap) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countDealsInStage, stageID).Scan(&n)
	return n, err
}
