package gen

import (
	"context"
	"database/sql"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const dealColumns = `id, title, value_cents, company_id, contact_id, stage_id,
lost_reason_id, closed_at, created_at, updated_at, deleted_at`

func scanDeal(row interface{ Scan(...any) error }) (Deal, error) {
	var d Deal
	var lostReasonID []byte
	err := row.Scan(&d.ID, &d.Title, &d.ValueCents, &d.CompanyID, &d.ContactID,
		&d.StageID, &lostReasonID, &d.ClosedAt, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt)
	if err != nil {
		return Deal{}, err
	}
	d.LostReasonID, err = nullableID(lostReasonID)
	return d, err
}

const createDeal = `
INSERT INTO deals (id, title, value_cents, company_id, contact_id, stage_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateDealParams struct {
	ID         idwrap.IDWrap
	Title      string
	ValueCents int64
	CompanyID  idwrap.IDWrap
	ContactID  idwrap.IDWrap
	StageID    idwrap.IDWrap
	CreatedAt  int64
	UpdatedAt  int64
}

func (q *Queries) CreateDeal(ctx context.Context, arg CreateDealParams) error {
	_, err := q.db.ExecContext(ctx, createDeal,
		arg.ID, arg.Title, arg.ValueCents, arg.CompanyID, arg.ContactID,
		arg.StageID, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getDeal = `
SELECT ` + dealColumns + ` FROM deals WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) GetDeal(ctx context.Context, id idwrap.IDWrap) (Deal, error) {
	return scanDeal(q.db.QueryRowContext(ctx, getDeal, id))
}

const listDeals = `
SELECT ` + dealColumns + ` FROM deals WHERE deleted_at IS NULL ORDER BY created_at DESC
`

func (q *Queries) ListDeals(ctx context.Context) ([]Deal, error) {
	rows, err := q.db.QueryContext(ctx, listDeals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const listDealsByStage = `
SELECT ` + dealColumns + ` FROM deals WHERE stage_id = ? AND deleted_at IS NULL ORDER BY created_at
`

func (q *Queries) ListDealsByStage(ctx context.Context, stageID idwrap.IDWrap) ([]Deal, error) {
	rows, err := q.db.QueryContext(ctx, listDealsByStage, stageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const listDealsByCompany = `
SELECT ` + dealColumns + ` FROM deals WHERE company_id = ? AND deleted_at IS NULL ORDER BY created_at DESC
`

func (q *Queries) ListDealsByCompany(ctx context.Context, companyID idwrap.IDWrap) ([]Deal, error) {
	rows, err := q.db.QueryContext(ctx, listDealsByCompany, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const updateDeal = `
UPDATE deals SET title = ?, value_cents = ?, company_id = ?, contact_id = ?, updated_at = ?
WHERE id = ? AND deleted_at IS NULL
`

type UpdateDealParams struct {
	Title      string
	ValueCents int64
	CompanyID  idwrap.IDWrap
	ContactID  idwrap.IDWrap
	UpdatedAt  int64
	ID         idwrap.IDWrap
}

func (q *Queries) UpdateDeal(ctx context.Context, arg UpdateDealParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateDeal,
		arg.Title, arg.ValueCents, arg.CompanyID, arg.ContactID, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updateDealStage = `
UPDATE deals SET stage_id = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type UpdateDealStageParams struct {
	StageID   idwrap.IDWrap
	UpdatedAt int64
	ID        idwrap.IDWrap
}

func (q *Queries) UpdateDealStage(ctx context.Context, arg UpdateDealStageParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateDealStage, arg.StageID, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const closeDeal = `
UPDATE deals SET closed_at = ?, lost_reason_id = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type CloseDealParams struct {
	ClosedAt     sql.NullInt64
	LostReasonID *idwrap.IDWrap
	UpdatedAt    int64
	ID           idwrap.IDWrap
}

func (q *Queries) CloseDeal(ctx context.Context, arg CloseDealParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, closeDeal,
		arg.ClosedAt, idArg(arg.LostReasonID), arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const softDeleteDeal = `
UPDATE deals SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type SoftDeleteDealParams struct {
	DeletedAt int64
	UpdatedAt int64
	ID        idwrap.IDWrap
}

func (q *Queries) SoftDeleteDeal(ctx context.Context, arg SoftDeleteDealParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteDeal, arg.DeletedAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
