package sdeal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mdeal"
	"github.com/funil-crm/funil/pkg/model/mpipeline"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
	"github.com/funil-crm/funil/pkg/sqlitemem"
)

type fixture struct {
	queries   *gen.Queries
	service   DealService
	companyID idwrap.IDWrap
	contactID idwrap.IDWrap
	stageA    idwrap.IDWrap
	stageB    idwrap.IDWrap
}

func newFixture(t *testing.T, ctx context.Context) fixture {
	t.Helper()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	queries := gen.New(db)
	f := fixture{
		queries:   queries,
		service:   New(queries),
		companyID: idwrap.NewNow(),
		contactID: idwrap.NewNow(),
		stageA:    idwrap.NewNow(),
		stageB:    idwrap.NewNow(),
	}

	require.NoError(t, queries.CreateCompany(ctx, gen.CreateCompanyParams{
		ID: f.companyID, Name: "Acme", Phones: "[]", Emails: "[]", CustomValues: "{}",
	}))
	require.NoError(t, queries.CreateContact(ctx, gen.CreateContactParams{
		ID: f.contactID, Name: "Ana", Phones: "[]", Emails: "[]", CustomValues: "{}",
	}))
	pipelineID := idwrap.NewNow()
	require.NoError(t, queries.CreatePipeline(ctx, gen.CreatePipelineParams{
		ID: pipelineID, Name: "Vendas", Icon: mpipeline.IconFunnel,
	}))
	require.NoError(t, queries.CreateStage(ctx, gen.CreateStageParams{
		ID: f.stageA, PipelineID: pipelineID, Name: "Proposta",
	}))
	require.NoError(t, queries.CreateStage(ctx, gen.CreateStageParams{
		ID: f.stageB, PipelineID: pipelineID, Name: "Fechamento", DisplayOrder: 1,
	}))
	return f
}

func (f fixture) newDeal(t *testing.T, ctx context.Context) mdeal.Deal {
	t.Helper()
	deal := mdeal.Deal{
		Title:      "Contrato anual",
		ValueCents: 1200000,
		CompanyID:  f.companyID,
		ContactID:  f.contactID,
		StageID:    f.stageA,
	}
	require.NoError(t, f.service.Create(ctx, &deal))
	return deal
}

func TestDealLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)
	deal := f.newDeal(t, ctx)

	got, err := f.service.Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, mdeal.StatusOpen, got.Status())
	assert.Equal(t, int64(1200000), got.ValueCents)

	got.Title = "Contrato bianual"
	require.NoError(t, f.service.Update(ctx, &got))

	again, err := f.service.Get(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Contrato bianual", again.Title)

	require.NoError(t, f.service.Delete(ctx, deal.ID))
	_, err = f.service.Get(ctx, deal.ID)
	assert.ErrorIs(t, err, ErrNoDealFound)
}

func TestDealMoveToStage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)
	deal := f.newDeal(t, ctx)

	t.Run("Moves between stages", func(t *testing.T) {
		require.NoError(t, f.service.MoveToStage(ctx, deal.ID, f.stageB))
		got, err := f.service.Get(ctx, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.StageID.Compare(f.stageB))
		assert.Equal(t, mdeal.StatusOpen, got.Status())
	})

	t.Run("Missing stage", func(t *testing.T) {
		err := f.service.MoveToStage(ctx, deal.ID, idwrap.NewNow())
		assert.ErrorIs(t, err, ErrNoStageFound)
	})

	t.Run("Missing deal", func(t *testing.T) {
		err := f.service.MoveToStage(ctx, idwrap.NewNow(), f.stageA)
		assert.ErrorIs(t, err, ErrNoDealFound)
	})
}

func TestDealWinLose(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, ctx)

	reasonID := idwrap.NewNow()
	require.NoError(t, f.queries.CreateLossReason(ctx, gen.CreateLossReasonParams{
		ID: reasonID, Name: "Preço", Description: "Concorrente mais barato",
	}))

	t.Run("Win closes without reason", func(t *testing.T) {
		deal := f.newDeal(t, ctx)
		require.NoError(t, f.service.Win(ctx, deal.ID))
		got, err := f.service.Get(ctx, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, mdeal.StatusWon, got.Status())
		assert.Nil(t, got.LostReasonID)
	})

	t.Run("Lose requires a reason", func(t *testing.T) {
		deal := f.newDeal(t, ctx)
		err := f.service.Lose(ctx, deal.ID, idwrap.IDWrap{})
		assert.ErrorIs(t, err, ErrLossReasonNeeded)

		require.NoError(t, f.service.Lose(ctx, deal.ID, reasonID))
		got, err := f.service.Get(ctx, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, mdeal.StatusLost, got.Status())
		require.NotNil(t, got.LostReasonID)
		assert.Equal(t, 0, got.LostReasonID.Compare(reasonID))
	})

	t.Run("Closed deal cannot close again", func(t *testing.T) {
		deal := f.newDeal(t, ctx)
		require.NoError(t, f.service.Win(ctx, deal.ID))
		assert.ErrorIs(t, f.service.Win(ctx, deal.ID), ErrDealClosed)
		assert.ErrorIs(t, f.service.Lose(ctx, deal.ID, reasonID), ErrDealClosed)
	})

	t.Run("Reopen clears closing fields", func(t *testing.T) {
		deal := f.newDeal(t, ctx)
		require.NoError(t, f.service.Lose(ctx, deal.ID, reasonID))
		require.NoError(t, f.service.Reopen(ctx, deal.ID))
		got, err := f.service.Get(ctx, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, mdeal.StatusOpen, got.Status())
		assert.Nil(t, got.ClosedAt)
		assert.Nil(t, got.LostReasonID)
	})
}
