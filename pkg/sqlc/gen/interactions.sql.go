package gen

import (
	"context"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const interactionColumns = `id, company_id, contact_id, deal_id, kind, body,
occurred_at, created_at, updated_at`

func scanInteraction(row interface{ Scan(...any) error }) (Interaction, error) {
	var it Interaction
	var contactID, dealID []byte
	err := row.Scan(&it.ID, &it.CompanyID, &contactID, &dealID, &it.Kind,
		&it.Body, &it.OccurredAt, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return Interaction{}, err
	}
	if it.ContactID, err = nullableID(contactID); err != nil {
		return Interaction{}, err
	}
	it.DealID, err = nullableID(dealID)
	return it, err
}

const createInteraction = `
INSERT INTO interactions (id, company_id, contact_id, deal_id, kind, body, occurred_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateInteractionParams struct {
	ID         idwrap.IDWrap
	CompanyID  idwrap.IDWrap
	ContactID  *idwrap.IDWrap
	DealID     *idwrap.IDWrap
	Kind       string
	Body       string
	OccurredAt int64
	CreatedAt  int64
	UpdatedAt  int64
}

func (q *Queries) CreateInteraction(ctx context.Context, arg CreateInteractionParams) error {
	_, err := q.db.ExecContext(ctx, createInteraction,
		arg.ID, arg.CompanyID, idArg(arg.ContactID), idArg(arg.DealID),
		arg.Kind, arg.Body, arg.OccurredAt, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getInteraction = `
SELECT ` + interactionColumns + ` FROM interactions WHERE id = ?
`

func (q *Queries) GetInteraction(ctx context.Context, id idwrap.IDWrap) (Interaction, error) {
	return scanInteraction(q.db.QueryRowContext(ctx, getInteraction, id))
}

const listInteractionsByCompany = `
SELECT ` + interactionColumns + ` FROM interactions
WHERE company_id = ? ORDER BY occurred_at DESC
`

func (q *Queries) ListInteractionsByCompany(ctx context.Context, companyID idwrap.IDWrap) ([]Interaction, error) {
	rows, err := q.db.QueryContext(ctx, listInteractionsByCompany, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Interaction
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const listInteractionsByDeal = `
SELECT ` + interactionColumns + ` FROM interactions
WHERE deal_id = ? ORDER BY occurred_at DESC
`

func (q *Queries) ListInteractionsByDeal(ctx context.Context, dealID idwrap.IDWrap) ([]Interaction, error) {
	rows, err := q.db.QueryContext(ctx, listInteractionsByDeal, dealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Interaction
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const updateInteraction = `
UPDATE interactions SET kind = ?, body = ?, occurred_at = ?, updated_at = ? WHERE id = ?
`

type UpdateInteractionParams struct {
	Kind       string
	Body       string
	OccurredAt int64
	UpdatedAt  int64
	ID         idwrap.IDWrap
}

func (q *Queries) UpdateInteraction(ctx context.Context, arg UpdateInteractionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateInteraction,
		arg.Kind, arg.Body, arg.OccurredAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteInteraction = `
DELETE FROM interactions WHERE id = ?
`

func (q *Queries) DeleteInteraction(ctx context.Context, id idwrap.IDWrap) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteInteraction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
