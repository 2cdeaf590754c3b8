package gen

import (
	"context"
	"database/sql"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const contactColumns = `id, name, position, company_id, phones, emails,
custom_values, created_at, updated_at, deleted_at`

func scanContact(row interface{ Scan(...any) error }) (Contact, error) {
	var c Contact
	var companyID []byte
	err := row.Scan(&c.ID, &c.Name, &c.Position, &companyID, &c.Phones,
		&c.Emails, &c.CustomValues, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		return Contact{}, err
	}
	c.CompanyID, err = nullableID(companyID)
	return c, err
}

const createContact = `
INSERT INTO contacts (id, name, position, company_id, phones, emails, custom_values, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateContactParams struct {
	ID           idwrap.IDWrap
	Name         string
	Position     sql.NullString
	CompanyID    *idwrap.IDWrap
	Phones       string
	Emails       string
	CustomValues string
	CreatedAt    int64
	UpdatedAt    int64
}

func (q *Queries) CreateContact(ctx context.Context, arg CreateContactParams) error {
	_, err := q.db.ExecContext(ctx, createContact,
		arg.ID, arg.Name, arg.Position, idArg(arg.CompanyID), arg.Phones,
		arg.Emails, arg.CustomValues, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getContact = `
SELECT ` + contactColumns + ` FROM contacts WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) GetContact(ctx context.Context, id idwrap.IDWrap) (Contact, error) {
	return scanContact(q.db.QueryRowContext(ctx, getContact, id))
}

const listContacts = `
SELECT ` + contactColumns + ` FROM contacts WHERE deleted_at IS NULL ORDER BY name COLLATE NOCASE
`

func (q *Queries) ListContacts(ctx context.Context) ([]Contact, error) {
	rows, err := q.db.QueryContext(ctx, listContacts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const listContactsByCompany = `
SELECT ` + contactColumns + ` FROM contacts
WHERE company_id = ? AND deleted_at IS NULL ORDER BY name COLLATE NOCASE
`

func (q *Queries) ListContactsByCompany(ctx context.Context, companyID idwrap.IDWrap) ([]Contact, error) {
	rows, err := q.db.QueryContext(ctx, listContactsByCompany, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const updateContact = `
UPDATE contacts SET name = ?, position = ?, company_id = ?, phones = ?,
emails = ?, custom_values = ?, updated_at = ?
WHERE id = ? AND deleted_at IS NULL
`

type UpdateContactParams struct {
	Name         string
	Position     sql.NullString
	CompanyID    *idwrap.IDWrap
	Phones       string
	Emails       string
	CustomValues string
	UpdatedAt    int64
	ID           idwrap.IDWrap
}

func (q *Queries) UpdateContact(ctx context.Context, arg UpdateContactParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateContact,
		arg.Name, arg.Position, idArg(arg.CompanyID), arg.Phones, arg.Emails,
		arg.CustomValues, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const dissociateContact = `
UPDATE contacts SET company_id = NULL, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type DissociateContactParams struct {
	UpdatedAt int64
	ID        idwrap.IDWrap
}

func (q *Queries) DissociateContact(ctx context.Context, arg DissociateContactParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, dissociateContact, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const softDeleteContact = `
UPDATE contacts SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type SoftDeleteContactParams struct {
	DeletedAt int64
	UpdatedAt int64
	ID        idwrap.IDWrap
}

func (q *Queries) SoftDeleteContact(ctx context.Context, arg SoftDeleteContactParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteContact, arg.DeletedAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
