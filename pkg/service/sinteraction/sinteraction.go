package sinteraction

import (
	"context"
	"database/sql"
	"time"

	"github.com/funil-crm/funil/pkg/dbtime"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/minteraction"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
)

var ErrNoInteractionFound = sql.ErrNoRows

type InteractionService struct {
	queries *gen.Queries
}

func New(queries *gen.Queries) InteractionService {
	return InteractionService{queries: queries}
}

func (s InteractionService) TX(tx *sql.Tx) InteractionService {
	return InteractionService{queries: s.queries.WithTx(tx)}
}

func ConvertToModelInteraction(i gen.Interaction) minteraction.Interaction {
	return minteraction.Interaction{
		ID:         i.ID,
		CompanyID:  i.CompanyID,
		ContactID:  i.ContactID,
		DealID:     i.DealID,
		Kind:       i.Kind,
		Body:       i.Body,
		OccurredAt: dbtime.DBTime(time.Unix(i.OccurredAt, 0)),
		Updated:    dbtime.DBTime(time.Unix(i.UpdatedAt, 0)),
	}
}

func (s InteractionService) Create(ctx context.Context, interaction *minteraction.Interaction) error {
	now := dbtime.DBNow()
	if interaction.ID.IsZero() {
		interaction.ID = idwrap.NewNow()
	}
	if interaction.OccurredAt.IsZero() {
		interaction.OccurredAt = now
	}
	interaction.Updated = now
	return s.queries.CreateInteraction(ctx, gen.CreateInteractionParams{
		ID:         interaction.ID,
		CompanyID:  interaction.CompanyID,
		ContactID:  interaction.ContactID,
		DealID:     interaction.DealID,
		Kind:       interaction.Kind,
		Body:       interaction.Body,
		OccurredAt: interaction.OccurredAt.Unix(),
		CreatedAt:  now.Unix(),
		UpdatedAt:  now.Unix(),
	})
}

func (s InteractionService) Get(ctx context.Context, id idwrap.IDWrap) (minteraction.Interaction, error) {
	i, err := s.queries.GetInteraction(ctx, id)
	if err != nil {
		return minteraction.Interaction{}, err
	}
	return ConvertToModelInteraction(i), nil
}

func (s InteractionService) ListByCompany(ctx context.Context, companyID idwrap.IDWrap) ([]minteraction.Interaction, error) {
	rows, err := s.queries.ListInteractionsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return convertRows(rows), nil
}

func (s InteractionService) ListByDeal(ctx context.Context, dealID idwrap.IDWrap) ([]minteraction.Interaction, error) {
	rows, err := s.queries.ListInteractionsByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return convertRows(rows), nil
}

func convertRows(rows []gen.Interaction) []minteraction.Interaction {
	items := make([]minteraction.Interaction, 0, len(rows))
	for _, row := range rows {
		items = append(items, ConvertToModelInteraction(row))
	}
	return items
}

func (s InteractionService) Update(ctx context.Context, interaction *minteraction.Interaction) error {
	now := dbtime.DBNow()
	interaction.Updated = now
	affected, err := s.queries.UpdateInteraction(ctx, gen.UpdateInteractionParams{
		Kind:       interaction.Kind,
		Body:       interaction.Body,
		OccurredAt: interaction.OccurredAt.Unix(),
		UpdatedAt:  now.Unix(),
		ID:         interaction.ID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoInteractionFound
	}
	return nil
}

func (s InteractionService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	affected, err := s.queries.DeleteInteraction(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoInteractionFound
	}
	return nil
}
