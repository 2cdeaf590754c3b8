package gen

import (
	"context"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const pipelineColumns = `id, name, description, icon, display_order, created_at, updated_at, deleted_at`

func scanPipeline(row interface{ Scan(...any) error }) (Pipeline, error) {
	var p Pipeline
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Icon, &p.DisplayOrder,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	return p, err
}

const createPipeline = `
INSERT INTO pipelines (id, name, description, icon, display_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreatePipelineParams struct {
	ID           idwrap.IDWrap
	Name         string
	Description  string
	Icon         string
	DisplayOrder int64
	CreatedAt    int64
	UpdatedAt    int64
}

func (q *Queries) CreatePipeline(ctx context.Context, arg CreatePipelineParams) error {
	_, err := q.db.ExecContext(ctx, createPipeline,
		arg.ID, arg.Name, arg.Description, arg.Icon, arg.DisplayOrder,
		arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getPipeline = `
SELECT ` + pipelineColumns + ` FROM pipelines WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) GetPipeline(ctx context.Context, id idwrap.IDWrap) (Pipeline, error) {
	return scanPipeline(q.db.QueryRowContext(ctx, getPipeline, id))
}

const listPipelines = `
SELECT ` + pipelineColumns + ` FROM pipelines WHERE deleted_at IS NULL ORDER BY display_order
`

func (q *Queries) ListPipelines(ctx context.Context) ([]Pipeline, error) {
	rows, err := q.db.QueryContext(ctx, listPipelines)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Pipeline
	for rows.Next() {
		p, err := scanPipeline(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const updatePipeline = `
UPDATE pipelines SET name = ?, description = ?, icon = ?, updated_at = ?
WHERE id = ? AND deleted_at IS NULL
`

type UpdatePipelineParams struct {
	Name        string
	Description string
	Icon        string
	UpdatedAt   int64
	ID          idwrap.IDWrap
}

func (q *Queries) UpdatePipeline(ctx context.Context, arg UpdatePipelineParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updatePipeline,
		arg.Name, arg.Description, arg.Icon, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updatePipelineOrder = `
UPDATE pipelines SET display_order = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type UpdatePipelineOrderParams struct {
	DisplayOrder int64
	UpdatedAt    int64
	ID           idwrap.IDWrap
}

func (q *Queries) UpdatePipelineOrder(ctx context.Context, arg UpdatePipelineOrderParams) error {
	_, err := q.db.ExecContext(ctx, updatePipelineOrder, arg.DisplayOrder, arg.UpdatedAt, arg.ID)
	return err
}

const maxPipelineOrder = `
SELECT COALESCE(MAX(display_order), -1) FROM pipelines WHERE deleted_at IS NULL
`

func (q *Queries) MaxPipelineOrder(ctx context.Context) (int64, error) {
	var max int64
	err := q.db.QueryRowContext(ctx, maxPipelineOrder).Scan(&max)
	return max, err
}

const softDeletePipeline = `
UPDATE pipelines SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type SoftDeletePipelineParams struct {
	DeletedAt int64
	UpdatedAt int64
	ID        idwrap.IDWrap
}

func (q *Queries) SoftDeletePipeline(ctx context.Context, arg SoftDeletePipelineParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeletePipeline, arg.DeletedAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
