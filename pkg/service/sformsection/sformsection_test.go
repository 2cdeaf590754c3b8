package sformsection

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mformsection"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
	"github.com/funil-crm/funil/pkg/sqlitemem"
	"github.com/funil-crm/funil/pkg/txutil"
)

func newFixture(t *testing.T, ctx context.Context) (*sql.DB, FormSectionService) {
	t.Helper()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return db, New(gen.New(db))
}

func fieldNames(t *testing.T, ctx context.Context, service FormSectionService, sectionID idwrap.IDWrap) []string {
	t.Helper()
	fields, err := service.ListFields(ctx, sectionID)
	require.NoError(t, err)
	names := make([]string, 0, len(fields))
	for i, f := range fields {
		assert.Equal(t, i, f.Order, "orders must stay dense")
		names = append(names, f.Name)
	}
	return names
}

func TestSectionLifecycle(t *testing.T) {
	ctx := context.Background()
	db, service := newFixture(t, ctx)

	var sections []mformsection.Section
	for _, name := range []string{"Dados gerais", "Endereço", "Campos extras"} {
		sec := mformsection.Section{Name: name, Entity: mformsection.EntityCompany}
		require.NoError(t, service.CreateSection(ctx, &sec))
		sections = append(sections, sec)
	}

	t.Run("List returns creation order", func(t *testing.T) {
		got, err := service.ListSections(ctx, mformsection.EntityCompany)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, sec := range got {
			assert.Equal(t, i, sec.Order)
		}
	})

	t.Run("Sections are scoped per entity", func(t *testing.T) {
		got, err := service.ListSections(ctx, mformsection.EntityContact)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Reorder runs in a transaction", func(t *testing.T) {
		err := txutil.WithTx(ctx, db, func(tx *sql.Tx) error {
			return service.TX(tx).ReorderSections(ctx, mformsection.EntityCompany, sections[2].ID, 0)
		})
		require.NoError(t, err)

		got, err := service.ListSections(ctx, mformsection.EntityCompany)
		require.NoError(t, err)
		assert.Equal(t, "Campos extras", got[0].Name)
		assert.Equal(t, "Dados gerais", got[1].Name)
	})
}

func TestFieldMove(t *testing.T) {
	ctx := context.Background()
	db, service := newFixture(t, ctx)

	secA := mformsection.Section{Name: "Dados gerais", Entity: mformsection.EntityCompany}
	require.NoError(t, service.CreateSection(ctx, &secA))
	secB := mformsection.Section{Name: "Campos extras", Entity: mformsection.EntityCompany}
	require.NoError(t, service.CreateSection(ctx, &secB))

	mkField := func(section idwrap.IDWrap, name string) mformsection.Field {
		f := mformsection.Field{
			SectionID: section,
			Name:      name,
			FieldType: mformsection.FieldTypeText,
			Entity:    mformsection.EntityCompany,
		}
		require.NoError(t, service.CreateField(ctx, &f))
		return f
	}
	a1 := mkField(secA.ID, "Segmento")
	mkField(secA.ID, "Porte")
	a3 := mkField(secA.ID, "Origem")
	mkField(secB.ID, "Observações")

	t.Run("Move inside a section", func(t *testing.T) {
		err := txutil.WithTx(ctx, db, func(tx *sql.Tx) error {
			return service.TX(tx).MoveField(ctx, a3.ID, secA.ID, 0)
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Origem", "Segmento", "Porte"}, fieldNames(t, ctx, service, secA.ID))
	})

	t.Run("Move across sections keeps both lists dense", func(t *testing.T) {
		err := txutil.WithTx(ctx, db, func(tx *sql.Tx) error {
			return service.TX(tx).MoveField(ctx, a1.ID, secB.ID, 1)
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Origem", "Porte"}, fieldNames(t, ctx, service, secA.ID))
		assert.Equal(t, []string{"Observações", "Segmento"}, fieldNames(t, ctx, service, secB.ID))

		got, err := service.GetField(ctx, a1.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.SectionID.Compare(secB.ID))
	})

	t.Run("Select options survive the round trip", func(t *testing.T) {
		f := mformsection.Field{
			SectionID:      secB.ID,
			Name:           "Canal",
			FieldType:      mformsection.FieldTypeSelect,
			Options:        []string{"Indicação", "Site", "Evento"},
			MultipleSelect: true,
			Entity:         mformsection.EntityCompany,
		}
		require.NoError(t, service.CreateField(ctx, &f))

		got, err := service.GetField(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Indicação", "Site", "Evento"}, got.Options)
		assert.True(t, got.MultipleSelect)
	})

	t.Run("Deleting a section removes its fields", func(t *testing.T) {
		require.NoError(t, service.DeleteSection(ctx, secA.ID))
		fields, err := service.ListFields(ctx, secA.ID)
		require.NoError(t, err)
		assert.Empty(t, fields)
	})
}
