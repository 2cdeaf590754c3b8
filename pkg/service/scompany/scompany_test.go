package scompany

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mcompany"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
	"github.com/funil-crm/funil/pkg/sqlitemem"
)

func newService(t *testing.T, ctx context.Context) CompanyService {
	t.Helper()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return New(gen.New(db))
}

func strp(s string) *string { return &s }

func TestCompanyService(t *testing.T) {
	ctx := context.Background()
	service := newService(t, ctx)

	company := mcompany.Company{
		Name:      "Acme Ltda",
		LegalName: "Acme Comércio e Serviços Ltda",
		Cnpj:      strp("12.345.678/0001-95"),
		Website:   strp("https://acme.com.br"),
		Phones: []mcompany.Phone{
			{Label: "Comercial", Number: "(11) 98765-4321"},
			{Label: "Fixo", Number: "(11) 3456-7890"},
		},
		Emails: []mcompany.Email{
			{Label: "Contato", Address: "contato@acme.com.br"},
		},
		Address: mcompany.Address{
			Cep:    strp("01310-100"),
			Street: strp("Av. Paulista"),
			Number: strp("1578"),
			City:   strp("São Paulo"),
			State:  strp("SP"),
		},
		CustomValues: map[string]any{"segmento": "varejo"},
	}

	t.Run("Create and read back", func(t *testing.T) {
		require.NoError(t, service.Create(ctx, &company))
		require.False(t, company.ID.IsZero())

		got, err := service.Get(ctx, company.ID)
		require.NoError(t, err)
		assert.Equal(t, company.Name, got.Name)
		assert.Equal(t, company.Phones, got.Phones)
		assert.Equal(t, company.Emails, got.Emails)
		require.NotNil(t, got.Cnpj)
		assert.Equal(t, "12.345.678/0001-95", *got.Cnpj)
		require.NotNil(t, got.Address.City)
		assert.Equal(t, "São Paulo", *got.Address.City)
		assert.Equal(t, "varejo", got.CustomValues["segmento"])
	})

	t.Run("Update replaces nested lists", func(t *testing.T) {
		company.Phones = company.Phones[:1]
		company.Website = nil
		require.NoError(t, service.Update(ctx, &company))

		got, err := service.Get(ctx, company.ID)
		require.NoError(t, err)
		assert.Len(t, got.Phones, 1)
		assert.Nil(t, got.Website)
	})

	t.Run("List sorts by name", func(t *testing.T) {
		second := mcompany.Company{Name: "Beta SA", LegalName: "Beta SA"}
		require.NoError(t, service.Create(ctx, &second))

		items, err := service.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Acme Ltda", items[0].Name)
		assert.Equal(t, "Beta SA", items[1].Name)
	})

	t.Run("Soft delete hides the record", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, company.ID))
		_, err := service.Get(ctx, company.ID)
		assert.ErrorIs(t, err, ErrNoCompanyFound)

		err = service.Delete(ctx, company.ID)
		assert.ErrorIs(t, err, ErrNoCompanyFound)
	})

	t.Run("Missing company", func(t *testing.T) {
		_, err := service.Get(ctx, idwrap.NewNow())
		assert.ErrorIs(t, err, ErrNoCompanyFound)
	})
}
