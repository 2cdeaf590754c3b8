package gen

import (
	"context"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const formSectionColumns = `id, name, entity, display_order, created_at, updated_at`

func scanFormSection(row interface{ Scan(...any) error }) (FormSection, error) {
	var s FormSection
	err := row.Scan(&s.ID, &s.Name, &s.Entity, &s.DisplayOrder, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const createFormSection = `
INSERT INTO form_sections (id, name, entity, display_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateFormSectionParams struct {
	ID           idwrap.IDWrap
	Name         string
	Entity       string
	DisplayOrder int64
	CreatedAt    int64
	UpdatedAt    int64
}

func (q *Queries) CreateFormSection(ctx context.Context, arg CreateFormSectionParams) error {
	_, err := q.db.ExecContext(ctx, createFormSection,
		arg.ID, arg.Name, arg.Entity, arg.DisplayOrder, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getFormSection = `
SELECT ` + formSectionColumns + ` FROM form_sections WHERE id = ?
`

func (q *Queries) GetFormSection(ctx context.Context, id idwrap.IDWrap) (FormSection, error) {
	return scanFormSection(q.db.QueryRowContext(ctx, getFormSection, id))
}

const listFormSectionsByEntity = `
SELECT ` + formSectionColumns + ` FROM form_sections WHERE entity = ? ORDER BY display_order
`

func (q *Queries) ListFormSectionsByEntity(ctx context.Context, entity string) ([]FormSection, error) {
	rows, err := q.db.QueryContext(ctx, listFormSectionsByEntity, entity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FormSection
	for rows.Next() {
		s, err := scanFormSection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const updateFormSection = `
UPDATE form_sections SET name = ?, updated_at = ? WHERE id = ?
`

type UpdateFormSectionParams struct {
	Name      string
	UpdatedAt int64
	ID        idwrap.IDWrap
}

func (q *Queries) UpdateFormSection(ctx context.Context, arg UpdateFormSectionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateFormSection, arg.Name, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updateFormSectionOrder = `
UPDATE form_sections SET display_order = ?, updated_at = ? WHERE id = ?
`

type UpdateFormSectionOrderParams struct {
	DisplayOrder int64
	UpdatedAt    int64
	ID           idwrap.IDWrap
}

func (q *Queries) UpdateFormSectionOrder(ctx context.Context, arg UpdateFormSectionOrderParams) error {
	_, err := q.db.ExecContext(ctx, updateFormSectionOrder, arg.DisplayOrder, arg.UpdatedAt, arg.ID)
	return err
}

const maxFormSectionOrder = `
SELECT COALESCE(MAX(display_order), -1) FROM form_sections WHERE entity = ?
`

func (q *Queries) MaxFormSectionOrder(ctx context.Context, entity string) (int64, error) {
	var max int64
	err := q.db.QueryRowContext(ctx, maxFormSectionOrder, entity).Scan(&max)
	return max, err
}

const deleteFormSection = `
DELETE FROM form_sections WHERE id = ?
`

func (q *Queries) DeleteFormSection(ctx context.Context, id idwrap.IDWrap) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteFormSection, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const formFieldColumns = `id, section_id, name, field_type, required, options,
multiple_select, entity, display_order, created_at, updated_at`

func scanFormField(row interface{ Scan(...any) error }) (FormField, error) {
	var f FormField
	err := row.Scan(&f.ID, &f.SectionID, &f.Name, &f.FieldType, &f.Required,
		&f.Options, &f.MultipleSelect, &f.Entity, &f.DisplayOrder,
		&f.CreatedAt, &f.UpdatedAt)
	return f, err
}

const createFormField = `
INSERT INTO form_fields (id, section_id, name, field_type, required, options,
multiple_select, entity, display_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateFormFieldParams struct {
	ID             idwrap.IDWrap
	SectionID      idwrap.IDWrap
	Name           string
	FieldType      string
	Required       bool
	Options        string
	MultipleSelect bool
	Entity         string
	DisplayOrder   int64
	CreatedAt      int64
	UpdatedAt      int64
}

func (q *Queries) CreateFormField(ctx context.Context, arg CreateFormFieldParams) error {
	_, err := q.db.ExecContext(ctx, createFormField,
		arg.ID, arg.SectionID, arg.Name, arg.FieldType, arg.Required,
		arg.Options, arg.MultipleSelect, arg.Entity, arg.DisplayOrder,
		arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getFormField = `
SELECT ` + formFieldColumns + ` FROM form_fields WHERE id = ?
`

func (q *Queries) GetFormField(ctx context.Context, id idwrap.IDWrap) (FormField, error) {
	return scanFormField(q.db.QueryRowContext(ctx, getFormField, id))
}

const listFormFieldsBySection = `
SELECT ` + formFieldColumns + ` FROM form_fields WHERE section_id = ? ORDER BY display_order
`

func (q *Queries) ListFormFieldsBySection(ctx context.Context, sectionID idwrap.IDWrap) ([]FormField, error) {
	rows, err := q.db.QueryContext(ctx, listFormFieldsBySection, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FormField
	for rows.Next() {
		f, err := scanFormField(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

const updateFormField = `
UPDATE form_fields SET name = ?, field_type = ?, required = ?, options = ?,
multiple_select = ?, updated_at = ?
WHERE id = ?
`

type UpdateFormFieldParams struct {
	Name           string
	FieldType      string
	Required       bool
	Options        string
	MultipleSelect bool
	UpdatedAt      int64
	ID             idwrap.IDWrap
}

func (q *Queries) UpdateFormField(ctx context.Context, arg UpdateFormFieldParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateFormField,
		arg.Name, arg.FieldType, arg.Required, arg.Options,
		arg.MultipleSelect, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updateFormFieldOrder = `
UPDATE form_fields SET display_order = ?, updated_at = ? WHERE id = ?
`

type UpdateFormFieldOrderParams struct {
	DisplayOrder int64
	UpdatedAt    int64
	ID           idwrap.IDWrap
}

func (q *Queries) UpdateFormFieldOrder(ctx context.Context, arg UpdateFormFieldOrderParams) error {
	_, err := q.db.ExecContext(ctx, updateFormFieldOrder, arg.DisplayOrder, arg.UpdatedAt, arg.ID)
	return err
}

const updateFormFieldSection = `
UPDATE form_fields SET section_id = ?, display_order = ?, updated_at = ? WHERE id = ?
`

type UpdateFormFieldSectionParams struct {
	SectionID    idwrap.IDWrap
	DisplayOrder int64
	UpdatedAt    int64
	ID           idwrap.IDWrap
}

func (q *Queries) UpdateFormFieldSection(ctx context.Context, arg UpdateFormFieldSectionParams) error {
	_, err := q.db.ExecContext(ctx, updateFormFieldSection,
		arg.SectionID, arg.DisplayOrder, arg.UpdatedAt, arg.ID)
	return err
}

const maxFormFieldOrder = `
SELECT COALESCE(MAX(display_order), -1) FROM form_fields WHERE section_id = ?
`

func (q *Queries) MaxFormFieldOrder(ctx context.Context, sectionID idwrap.IDWrap) (int64, error) {
	var max int64
	err := q.db.QueryRowContext(ctx, maxFormFieldOrder, sectionID).Scan(&max)
	return max, err
}

const deleteFormField = `
DELETE FROM form_fields WHERE id = ?
`

func (q *Queries) DeleteFormField(ctx context.Context, id idwrap.IDWrap) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteFormField, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
