package sstage

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mpipeline"
	"github.com/funil-crm/funil/pkg/ordered"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
	"github.com/funil-crm/funil/pkg/sqlitemem"
)

func seedPipeline(t *testing.T, ctx context.Context, queries *gen.Queries) idwrap.IDWrap {
	t.Helper()
	pipelineID := idwrap.NewNow()
	err := queries.CreatePipeline(ctx, gen.CreatePipelineParams{
		ID:   pipelineID,
		Name: "Vendas",
		Icon: mpipeline.IconFunnel,
	})
	require.NoError(t, err)
	return pipelineID
}

func stageNames(t *testing.T, ctx context.Context, service StageService, pipelineID idwrap.IDWrap) []string {
	t.Helper()
	stages, err := service.ListByPipeline(ctx, pipelineID)
	require.NoError(t, err)
	names := make([]string, 0, len(stages))
	for i, st := range stages {
		assert.Equal(t, i, st.Order, "orders must stay dense")
		names = append(names, st.Name)
	}
	return names
}

func TestStageService(t *testing.T) {
	ctx := context.Background()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	defer cleanup()

	queries := gen.New(db)
	service := New(queries)
	pipelineID := seedPipeline(t, ctx, queries)

	t.Run("Create appends at the end", func(t *testing.T) {
		for _, name := range []string{"Prospecção", "Proposta", "Fechamento"} {
			err := service.Create(ctx, &mpipeline.Stage{PipelineID: pipelineID, Name: name})
			require.NoError(t, err)
		}
		assert.Equal(t, []string{"Prospecção", "Proposta", "Fechamento"}, stageNames(t, ctx, service, pipelineID))
	})

	t.Run("Update renames", func(t *testing.T) {
		stages, err := service.ListByPipeline(ctx, pipelineID)
		require.NoError(t, err)
		st := stages[1]
		st.Name = "Negociação"
		require.NoError(t, service.Update(ctx, &st))
		assert.Equal(t, []string{"Prospecção", "Negociação", "Fechamento"}, stageNames(t, ctx, service, pipelineID))
	})

	t.Run("Delete missing stage", func(t *testing.T) {
		err := service.Delete(ctx, idwrap.NewNow())
		assert.ErrorIs(t, err, ErrNoStageFound)
	})
}

func TestStageReorder(t *testing.T) {
	ctx := context.Background()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	defer cleanup()

	queries := gen.New(db)
	service := New(queries)
	pipelineID := seedPipeline(t, ctx, queries)

	names := []string{"A", "B", "C", "D"}
	ids := make([]idwrap.IDWrap, len(names))
	for i, name := range names {
		st := mpipeline.Stage{PipelineID: pipelineID, Name: name}
		require.NoError(t, service.Create(ctx, &st))
		ids[i] = st.ID
	}

	manager := ordered.NewManager(db, slog.Default())

	t.Run("Move forward", func(t *testing.T) {
		res, err := manager.Move(ctx, service.MovableRepo(), pipelineID, ids[0], 2)
		require.NoError(t, err)
		assert.NotEmpty(t, res.AffectedIDs)
		assert.Equal(t, []string{"B", "C", "A", "D"}, stageNames(t, ctx, service, pipelineID))
	})

	t.Run("Move backward", func(t *testing.T) {
		_, err := manager.Move(ctx, service.MovableRepo(), pipelineID, ids[3], 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"D", "B", "C", "A"}, stageNames(t, ctx, service, pipelineID))
	})

	t.Run("No-op move issues no writes", func(t *testing.T) {
		res, err := manager.Move(ctx, service.MovableRepo(), pipelineID, ids[1], 1)
		require.NoError(t, err)
		assert.Empty(t, res.AffectedIDs)
	})

	t.Run("Out of range leaves ordering untouched", func(t *testing.T) {
		before := stageNames(t, ctx, service, pipelineID)
		_, err := manager.Move(ctx, service.MovableRepo(), pipelineID, ids[0], 99)
		assert.ErrorIs(t, err, ordered.ErrIndexOutOfRange)
		assert.Equal(t, before, stageNames(t, ctx, service, pipelineID))
	})

	t.Run("Unknown stage", func(t *testing.T) {
		_, err := manager.Move(ctx, service.MovableRepo(), pipelineID, idwrap.NewNow(), 0)
		assert.ErrorIs(t, err, ordered.ErrItemNotFound)
	})
}

func TestStageDeleteBlockedByDeals(t *testing.T) {
	ctx := context.Background()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	defer cleanup()

	queries := gen.New(db)
	service := New(queries)
	pipelineID := seedPipeline(t, ctx, queries)

	st := mpipeline.Stage{PipelineID: pipelineID, Name: "Proposta"}
	require.NoError(t, service.Create(ctx, &st))

	companyID := idwrap.NewNow()
	require.NoError(t, queries.CreateCompany(ctx, gen.CreateCompanyParams{
		ID: companyID, Name: "Acme", Phones: "[]", Emails: "[]", CustomValues: "{}",
	}))
	contactID := idwrap.NewNow()
	require.NoError(t, queries.CreateContact(ctx, gen.CreateContactParams{
		ID: contactID, Name: "Ana", Phones: "[]", Emails: "[]", CustomValues: "{}",
	}))
	require.NoError(t, queries.CreateDeal(ctx, gen.CreateDealParams{
		ID: idwrap.NewNow(), Title: "Contrato", CompanyID: companyID,
		ContactID: contactID, StageID: st.ID,
	}))

	err = service.Delete(ctx, st.ID)
	assert.ErrorIs(t, err, ErrStageHasDeals)
}
