package gen

import (
	"context"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const lossReasonColumns = `id, name, description, display_order, created_at, updated_at, deleted_at`

func scanLossReason(row interface{ Scan(...any) error }) (LossReason, error) {
	var l LossReason
	err := row.Scan(&l.ID, &l.Name, &l.Description, &l.DisplayOrder,
		&l.CreatedAt, &l.UpdatedAt, &l.DeletedAt)
	return l, err
}

const createLossReason = `
INSERT INTO loss_reasons (id, name, description, display_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateLossReasonParams struct {
	ID           idwrap.IDWrap
	Name         string
	Description  string
	DisplayOrder int64
	CreatedAt    int64
	UpdatedAt    int64
}

func (q *Queries) CreateLossReason(ctx context.Context, arg CreateLossReasonParams) error {
	_, err := q.db.ExecContext(ctx, createLossReason,
		arg.ID, arg.Name, arg.Description, arg.DisplayOrder, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getLossReason = `
SELECT ` + lossReasonColumns + ` FROM loss_reasons WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) GetLossReason(ctx context.Context, id idwrap.IDWrap) (LossReason, error) {
	return scanLossReason(q.db.QueryRowContext(ctx, getLossReason, id))
}

const listLossReasons = `
SELECT ` + lossReasonColumns + ` FROM loss_reasons WHERE deleted_at IS NULL ORDER BY display_order
`

func (q *Queries) ListLossReasons(ctx context.Context) ([]LossReason, error) {
	rows, err := q.db.QueryContext(ctx, listLossReasons)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LossReason
	for rows.Next() {
		l, err := scanLossReason(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

const updateLossReason = `
UPDATE loss_reasons SET name = ?, description = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type UpdateLossReasonParams struct {
	Name        string
	Description string
	UpdatedAt   int64
	ID          idwrap.IDWrap
}

func (q *Queries) UpdateLossReason(ctx context.Context, arg UpdateLossReasonParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateLossReason,
		arg.Name, arg.Description, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updateLossReasonOrder = `
UPDATE loss_reasons SET display_order = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type UpdateLossReasonOrderParams struct {
	DisplayOrder int64
	UpdatedAt    int64
	ID           idwrap.IDWrap
}

func (q *Queries) UpdateLossReasonOrder(ctx context.Context, arg UpdateLossReasonOrderParams) error {
	_, err := q.db.ExecContext(ctx, updateLossReasonOrder, arg.DisplayOrder, arg.UpdatedAt, arg.ID)
	return err
}

const maxLossReasonOrder = `
SELECT COALESCE(MAX(display_order), -1) FROM loss_reasons WHERE deleted_at IS NULL
`

func (q *Queries) MaxLossReasonOrder(ctx context.Context) (int64, error) {
	var max int64
	err := q.db.QueryRowContext(ctx, maxLossReasonOrder).Scan(&max)
	return max, err
}

const softDeleteLossReason = `
UPDATE loss_reasons SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type SoftDeleteLossReasonParams struct {
	DeletedAt int64
	UpdatedAt int64
	ID        idwrap.IDWrap
}

func (q *Queries) SoftDeleteLossReason(ctx context.Context, arg SoftDeleteLossReasonParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteLossReason, arg.DeletedAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const upsertPipelineLossReason = `
INSERT INTO pipeline_loss_reasons (pipeline_id, loss_reason_id, display_order)
VALUES (?, ?, ?)
ON CONFLICT (pipeline_id, loss_reason_id) DO UPDATE SET display_order = excluded.display_order
`

type UpsertPipelineLossReasonParams struct {
	PipelineID   idwrap.IDWrap
	LossReasonID idwrap.IDWrap
	DisplayOrder int64
}

func (q *Queries) UpsertPipelineLossReason(ctx context.Context, arg UpsertPipelineLossReasonParams) error {
	_, err := q.db.ExecContext(ctx, upsertPipelineLossReason,
		arg.PipelineID, arg.LossReasonID, arg.DisplayOrder)
	return err
}

const listPipelineLossReasons = `
SELECT pipeline_id, loss_reason_id, display_order FROM pipeline_loss_reasons
WHERE pipeline_id = ? ORDER BY display_order
`

func (q *Queries) ListPipelineLossReasons(ctx context.Context, pipelineID idwrap.IDWrap) ([]PipelineLossReason, error) {
	rows, err := q.db.QueryContext(ctx, listPipelineLossReasons, pipelineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PipelineLossReason
	for rows.Next() {
		var p PipelineLossReason
		if err := rows.Scan(&p.PipelineID, &p.LossReasonID, &p.DisplayOrder); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const deletePipelineLossReasons = `
DELETE FROM pipeline_loss_reasons WHERE pipeline_id = ?
`

func (q *Queries) DeletePipelineLossReasons(ctx context.Context, pipelineID idwrap.IDWrap) error {
	_, err := q.db.ExecContext(ctx, deletePipelineLossReasons, pipelineID)
	return err
}

const updatePipelineLossReasonOrder = `
UPDATE pipeline_loss_reasons SET display_order = ? WHERE pipeline_id = ? AND loss_reason_id = ?
`

type UpdatePipelineLossReasonOrderParams struct {
	DisplayOrder int64
	PipelineID   idwrap.IDWrap
	LossReasonID idwrap.IDWrap
}

func (q *Queries) UpdatePipelineLossReasonOrder(ctx context.Context, arg UpdatePipelineLossReasonOrderParams) error {
	_, err := q.db.ExecContext(ctx, updatePipelineLossReasonOrder,
		arg.DisplayOrder, arg.PipelineID, arg.LossReasonID)
	return err
}

const listLossReasonsByPipeline = `
SELECT lr.id, lr.name, lr.description, plr.display_order, lr.created_at, lr.updated_at, lr.deleted_at
FROM loss_reasons lr
JOIN pipeline_loss_reasons plr ON plr.loss_reason_id = lr.id
WHERE plr.pipeline_id = ? AND lr.deleted_at IS NULL
ORDER BY plr.display_order
`

func (q *Queries) ListLossReasonsByPipeline(ctx context.Context, pipelineID idwrap.IDWrap) ([]LossReason, error) {
	rows, err := q.db.QueryContext(ctx, listLossReasonsByPipeline, pipelineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LossReason
	for rows.Next() {
		l, err := scanLossReason(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
