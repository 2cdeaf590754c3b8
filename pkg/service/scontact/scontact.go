package scontact

import (
	"context"
	"database/sql"
	"time"

	"github.com/funil-crm/funil/pkg/dbtime"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mcompany"
	"github.com/funil-crm/funil/pkg/model/mcontact"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
	"github.com/funil-crm/funil/pkg/translate/tjson"
)

var ErrNoContactFound = sql.ErrNoRows

type ContactService struct {
	queries *gen.Queries
}

func New(queries *gen.Queries) ContactService {
	return ContactService{queries: queries}
}

func (s ContactService) TX(tx *sql.Tx) ContactService {
	return ContactService{queries: s.queries.WithTx(tx)}
}

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func ConvertToModelContact(c gen.Contact) (mcontact.Contact, error) {
	phones, err := tjson.UnmarshalSlice[mcompany.Phone](c.Phones)
	if err != nil {
		return mcontact.Contact{}, err
	}
	emails, err := tjson.UnmarshalSlice[mcompany.Email](c.Emails)
	if err != nil {
		return mcontact.Contact{}, err
	}
	custom, err := tjson.UnmarshalMap(c.CustomValues)
	if err != nil {
		return mcontact.Contact{}, err
	}
	return mcontact.Contact{
		ID:           c.ID,
		Name:         c.Name,
		Position:     strPtr(c.Position),
		CompanyID:    c.CompanyID,
		Phones:       phones,
		Emails:       emails,
		CustomValues: custom,
		Updated:      dbtime.DBTime(time.Unix(c.UpdatedAt, 0)),
	}, nil
}

func (s ContactService) Create(ctx context.Context, contact *mcontact.Contact) error {
	phones, err := tjson.MarshalSlice(contact.Phones)
	if err != nil {
		return err
	}
	emails, err := tjson.MarshalSlice(contact.Emails)
	if err != nil {
		return err
	}
	custom, err := tjson.MarshalMap(contact.CustomValues)
	if err != nil {
		return err
	}
	now := dbtime.DBNow()
	if contact.ID.IsZero() {
		contact.ID = idwrap.NewNow()
	}
	contact.Updated = now
	return s.queries.CreateContact(ctx, gen.CreateContactParams{
		ID:           contact.ID,
		Name:         contact.Name,
		Position:     nullStr(contact.Position),
		CompanyID:    contact.CompanyID,
		Phones:       phones,
		Emails:       emails,
		CustomValues: custom,
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	})
}

func (s ContactService) Get(ctx context.Context, id idwrap.IDWrap) (mcontact.Contact, error) {
	c, err := s.queries.GetContact(ctx, id)
	if err != nil {
		return mcontact.Contact{}, err
	}
	return ConvertToModelContact(c)
}

func (s ContactService) List(ctx context.Context) ([]mcontact.Contact, error) {
	rows, err := s.queries.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	return convertRows(rows)
}

func (s ContactService) ListByCompany(ctx context.Context, companyID idwrap.IDWrap) ([]mcontact.Contact, error) {
	rows, err := s.queries.ListContactsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return convertRows(rows)
}

func convertRows(rows []gen.Contact) ([]mcontact.Contact, error) {
	items := make([]mcontact.Contact, 0, len(rows))
	for _, row := range rows {
		c, err := ConvertToModelContact(row)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, nil
}

func (s ContactService) Update(ctx context.Context, contact *mcontact.Contact) error {
	phones, err := tjson.MarshalSlice(contact.Phones)
	if err != nil {
		return err
	}
	emails, err := tjson.MarshalSlice(contact.Emails)
	if err != nil {
		return err
	}
	custom, err := tjson.MarshalMap(contact.CustomValues)
	if err != nil {
		return err
	}
	now := dbtime.DBNow()
	contact.Updated = now
	affected, err := s.queries.UpdateContact(ctx, gen.UpdateContactParams{
		Name:         contact.Name,
		Position:     nullStr(contact.Position),
		CompanyID:    contact.CompanyID,
		Phones:       phones,
		Emails:       emails,
		CustomValues: custom,
		UpdatedAt:    now.Unix(),
		ID:           contact.ID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoContactFound
	}
	return nil
}

// Dissociate clears the company link without touching the rest of the record.
func (s ContactService) Dissociate(ctx context.Context, id idwrap.IDWrap) error {
	affected, err := s.queries.DissociateContact(ctx, gen.DissociateContactParams{
		UpdatedAt: dbtime.DBNow().Unix(),
		ID:        id,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoContactFound
	}
	return nil
}

func (s ContactService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	now := dbtime.DBNow()
	affected, err := s.queries.SoftDeleteContact(ctx, gen.SoftDeleteContactParams{
		DeletedAt: now.Unix(),
		UpdatedAt: now.Unix(),
		ID:        id,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoContactFound
	}
	return nil
}
