package gen

import (
	"context"
	"database/sql"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const companyColumns = `id, name, legal_name, cnpj, website, phones, emails,
cep, street, number, complement, district, city, state, postal_box,
custom_values, created_at, updated_at, deleted_at`

func scanCompany(row interface{ Scan(...any) error }) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.LegalName, &c.Cnpj, &c.Website,
		&c.Phones, &c.Emails, &c.Cep, &c.Street, &c.Number, &c.Complement,
		&c.District, &c.City, &c.State, &c.PostalBox, &c.CustomValues,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	return c, err
}

const createCompany = `
INSERT INTO companies (id, name, legal_name, cnpj, website, phones, emails,
cep, street, number, complement, district, city, state, postal_box,
custom_values, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateCompanyParams struct {
	ID           idwrap.IDWrap
	Name         string
	LegalName    string
	Cnpj         sql.NullString
	Website      sql.NullString
	Phones       string
	Emails       string
	Cep          sql.NullString
	Street       sql.NullString
	Number       sql.NullString
	Complement   sql.NullString
	District     sql.NullString
	City         sql.NullString
	State        sql.NullString
	PostalBox    sql.NullString
	CustomValues string
	CreatedAt    int64
	UpdatedAt    int64
}

func (q *Queries) CreateCompany(ctx context.Context, arg CreateCompanyParams) error {
	_, err := q.db.ExecContext(ctx, createCompany,
		arg.ID, arg.Name, arg.LegalName, arg.Cnpj, arg.Website, arg.Phones,
		arg.Emails, arg.Cep, arg.Street, arg.Number, arg.Complement,
		arg.District, arg.City, arg.State, arg.PostalBox, arg.CustomValues,
		arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getCompany = `
SELECT ` + companyColumns + ` FROM companies WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) GetCompany(ctx context.Context, id idwrap.IDWrap) (Company, error) {
	return scanCompany(q.db.QueryRowContext(ctx, getCompany, id))
}

const listCompanies = `
SELECT ` + companyColumns + ` FROM companies WHERE deleted_at IS NULL ORDER BY name COLLATE NOCASE
`

func (q *Queries) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := q.db.QueryContext(ctx, listCompanies)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const updateCompany = `
UPDATE companies SET name = ?, legal_name = ?, cnpj = ?, website = ?,
phones = ?, emails = ?, cep = ?, street = ?, number = ?, complement = ?,
district = ?, city = ?, state = ?, postal_box = ?, custom_values = ?,
updated_at = ?
WHERE id = ? AND deleted_at IS NULL
`

type UpdateCompanyParams struct {
	Name         string
	LegalName    string
	Cnpj         sql.NullString
	Website      sql.NullString
	Phones       string
	Emails       string
	Cep          sql.NullString
	Street       sql.NullString
	Number       sql.NullString
	Complement   sql.NullString
	District     sql.NullString
	City         sql.NullString
	State        sql.NullString
	PostalBox    sql.NullString
	CustomValues string
	UpdatedAt    int64
	ID           idwrap.IDWrap
}

func (q *Queries) UpdateCompany(ctx context.Context, arg UpdateCompanyParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateCompany,
		arg.Name, arg.LegalName, arg.Cnpj, arg.Website, arg.Phones, arg.Emails,
		arg.Cep, arg.Street, arg.Number, arg.Complement, arg.District,
		arg.City, arg.State, arg.PostalBox, arg.CustomValues, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const softDeleteCompany = `
UPDATE companies SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
`

type SoftDeleteCompanyParams struct {
	DeletedAt int64
	UpdatedAt int64
	ID        idwrap.IDWrap
}

func (q *Queries) SoftDeleteCompany(ctx context.Context, arg SoftDeleteCompanyParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteCompany, arg.DeletedAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
