package scompany

import (
	"context"
	"database/sql"
	"time"

	"github.com/funil-crm/funil/pkg/dbtime"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mcompany"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
	"github.com/funil-crm/funil/pkg/translate/tjson"
)

var ErrNoCompanyFound = sql.ErrNoRows

type CompanyService struct {
	queries *gen.Queries
}

func New(queries *gen.Queries) CompanyService {
	return CompanyService{queries: queries}
}

func (s CompanyService) TX(tx *sql.Tx) CompanyService {
	return CompanyService{queries: s.queries.WithTx(tx)}
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

func ConvertToModelCompany(c gen.Company) (mcompany.Company, error) {
	phones, err := tjson.UnmarshalSlice[mcompany.Phone](c.Phones)
	if err != nil {
		return mcompany.Company{}, err
	}
	emails, err := tjson.UnmarshalSlice[mcompany.Email](c.Emails)
	if err != nil {
		return mcompany.Company{}, err
	}
	custom, err := tjson.UnmarshalMap(c.CustomValues)
	if err != nil {
		return mcompany.Company{}, err
	}
	return mcompany.Company{
		ID:        c.ID,
		Name:      c.Name,
		LegalName: c.LegalName,
		Cnpj:      strPtr(c.Cnpj),
		Website:   strPtr(c.Website),
		Phones:    phones,
		Emails:    emails,
		Address: mcompany.Address{
			Cep:        strPtr(c.Cep),
			Street:     strPtr(c.Street),
			Number:     strPtr(c.Number),
			Complement: strPtr(c.Complement),
			District:   strPtr(c.District),
			City:       strPtr(c.City),
			State:      strPtr(c.State),
			PostalBox:  strPtr(c.PostalBox),
		},
		CustomValues: custom,
		Updated:      dbtime.DBTime(time.Unix(c.UpdatedAt, 0)),
	}, nil
}

func (s CompanyService) Create(ctx context.Context, company *mcompany.Company) error {
	phones, err := tjson.MarshalSlice(company.Phones)
	if err != nil {
		return err
	}
	emails, err := tjson.MarshalSlice(company.Emails)
	if err != nil {
		return err
	}
	custom, err := tjson.MarshalMap(company.CustomValues)
	if err != nil {
		return err
	}
	now := dbtime.DBNow()
	if company.ID.IsZero() {
		company.ID = idwrap.NewNow()
	}
	company.Updated = now
	return s.queries.CreateCompany(ctx, gen.CreateCompanyParams{
		ID:           company.ID,
		Name:         company.Name,
		LegalName:    company.LegalName,
		Cnpj:         nullStr(company.Cnpj),
		Website:      nullStr(company.Website),
		Phones:       phones,
		Emails:       emails,
		Cep:          nullStr(company.Address.Cep),
		Street:       nullStr(company.Address.Street),
		Number:       nullStr(company.Address.Number),
		Complement:   nullStr(company.Address.Complement),
		District:     nullStr(company.Address.District),
		City:         nullStr(company.Address.City),
		State:        nullStr(company.Address.State),
		PostalBox:    nullStr(company.Address.PostalBox),
		CustomValues: custom,
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	})
}

func (s CompanyService) Get(ctx context.Context, id idwrap.IDWrap) (mcompany.Company, error) {
	c, err := s.queries.GetCompany(ctx, id)
	if err != nil {
		return mcompany.Company{}, err
	}
	return ConvertToModelCompany(c)
}

func (s CompanyService) List(ctx context.Context) ([]mcompany.Company, error) {
	rows, err := s.queries.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]mcompany.Company, 0, len(rows))
	for _, row := range rows {
		c, err := ConvertToModelCompany(row)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, nil
}

func (s CompanyService) Update(ctx context.Context, company *mcompany.Company) error {
	phones, err := tjson.MarshalSlice(company.Phones)
	if err != nil {
		return err
	}
	emails, err := tjson.MarshalSlice(company.Emails)
	if err != nil {
		return err
	}
	custom, err := tjson.MarshalMap(company.CustomValues)
	if err != nil {
		return err
	}
	now := dbtime.DBNow()
	company.Updated = now
	affected, err := s.queries.UpdateCompany(ctx, gen.UpdateCompanyParams{
		Name:         company.Name,
		LegalName:    company.LegalName,
		Cnpj:         nullStr(company.Cnpj),
		Website:      nullStr(company.Website),
		Phones:       phones,
		Emails:       emails,
		Cep:          nullStr(company.Address.Cep),
		Street:       nullStr(company.Address.Street),
		Number:       nullStr(company.Address.Number),
		Complement:   nullStr(company.Address.Complement),
		District:     nullStr(company.Address.District),
		City:         nullStr(company.Address.City),
		State:        nullStr(company.Address.State),
		PostalBox:    nullStr(company.Address.PostalBox),
		CustomValues: custom,
		UpdatedAt:    now.Unix(),
		ID:           company.ID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoCompanyFound
	}
	return nil
}

func (s CompanyService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	now := dbtime.DBNow()
	affected, err := s.queries.SoftDeleteCompany(ctx, gen.SoftDeleteCompanyParams{
		DeletedAt: now.Unix(),
		UpdatedAt: now.Unix(),
		ID:        id,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoCompanyFound
	}
	return nil
}
