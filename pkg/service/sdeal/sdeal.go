package sdeal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/funil-crm/funil/pkg/dbtime"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mdeal"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
)

var (
	ErrNoDealFound      = sql.ErrNoRows
	ErrNoStageFound     = errors.New("stage not found")
	ErrDealClosed       = errors.New("deal already closed")
	ErrLossReasonNeeded = errors.New("losing a deal requires a reason")
)

type DealService struct {
	queries *gen.Queries
}

func New(queries *gen.Queries) DealService {
	return DealService{queries: queries}
}

func (s DealService) TX(tx *sql.Tx) DealService {
	return DealService{queries: s.queries.WithTx(tx)}
}

func ConvertToModelDeal(d gen.Deal) mdeal.Deal {
	deal := mdeal.Deal{
		ID:           d.ID,
		Title:        d.Title,
		ValueCents:   d.ValueCents,
		CompanyID:    d.CompanyID,
		ContactID:    d.ContactID,
		StageID:      d.StageID,
		LostReasonID: d.LostReasonID,
		Updated:      dbtime.DBTime(time.Unix(d.UpdatedAt, 0)),
	}
	if d.ClosedAt.Valid {
		t := dbtime.DBTime(time.Unix(d.ClosedAt.Int64, 0))
		deal.ClosedAt = &t
	}
	return deal
}

func (s DealService) Create(ctx context.Context, deal *mdeal.Deal) error {
	now := dbtime.DBNow()
	if deal.ID.IsZero() {
		deal.ID = idwrap.NewNow()
	}
	deal.Updated = now
	return s.queries.CreateDeal(ctx, gen.CreateDealParams{
		ID:         deal.ID,
		Title:      deal.Title,
		ValueCents: deal.ValueCents,
		CompanyID:  deal.CompanyID,
		ContactID:  deal.ContactID,
		StageID:    deal.StageID,
		CreatedAt:  now.Unix(),
		UpdatedAt:  now.Unix(),
	})
}

func (s DealService) Get(ctx context.Context, id idwrap.IDWrap) (mdeal.Deal, error) {
	d, err := s.queries.GetDeal(ctx, id)
	if err != nil {
		return mdeal.Deal{}, err
	}
	return ConvertToModelDeal(d), nil
}

func (s DealService) List(ctx context.Context) ([]mdeal.Deal, error) {
	rows, err := s.queries.ListDeals(ctx)
	if err != nil {
		return nil, err
	}
	return convertRows(rows), nil
}

func (s DealService) ListByStage(ctx context.Context, stageID idwrap.IDWrap) ([]mdeal.Deal, error) {
	rows, err := s.queries.ListDealsByStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	return convertRows(rows), nil
}

func (s DealService) ListByCompany(ctx context.Context, companyID idwrap.IDWrap) ([]mdeal.Deal, error) {
	rows, err := s.queries.ListDealsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return convertRows(rows), nil
}

func convertRows(rows []gen.Deal) []mdeal.Deal {
	items := make([]mdeal.Deal, 0, len(rows))
	for _, row := range rows {
		items = append(items, ConvertToModelDeal(row))
	}
	return items
}

func (s DealService) Update(ctx context.Context, deal *mdeal.Deal) error {
	now := dbtime.DBNow()
	deal.Updated = now
	affected, err := s.queries.UpdateDeal(ctx, gen.UpdateDealParams{
		Title:      deal.Title,
		ValueCents: deal.ValueCents,
		CompanyID:  deal.CompanyID,
		ContactID:  deal.ContactID,
		UpdatedAt:  now.Unix(),
		ID:         deal.ID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoDealFound
	}
	return nil
}

// MoveToStage drops the deal on another column. The target stage must
// exist; an open deal keeps its open status when moved.
func (s DealService) MoveToStage(ctx context.Context, dealID, stageID idwrap.IDWrap) error {
	if _, err := s.queries.GetStage(ctx, stageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoStageFound
		}
		return err
	}
	affected, err := s.queries.UpdateDealStage(ctx, gen.UpdateDealStageParams{
		StageID:   stageID,
		UpdatedAt: dbtime.DBNow().Unix(),
		ID:        dealID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoDealFound
	}
	return nil
}

// Win closes the deal with no loss reason.
func (s DealService) Win(ctx context.Context, dealID idwrap.IDWrap) error {
	return s.close(ctx, dealID, nil)
}

// Lose closes the deal under a loss reason; the reason is mandatory.
func (s DealService) Lose(ctx context.Context, dealID, reasonID idwrap.IDWrap) error {
	if reasonID.IsZero() {
		return ErrLossReasonNeeded
	}
	return s.close(ctx, dealID, &reasonID)
}

func (s DealService) close(ctx context.Context, dealID idwrap.IDWrap, reasonID *idwrap.IDWrap) error {
	d, err := s.queries.GetDeal(ctx, dealID)
	if err != nil {
		return err
	}
	if d.ClosedAt.Valid {
		return ErrDealClosed
	}
	now := dbtime.DBNow()
	affected, err := s.queries.CloseDeal(ctx, gen.CloseDealParams{
		ClosedAt:     sql.NullInt64{Int64: now.Unix(), Valid: true},
		LostReasonID: reasonID,
		UpdatedAt:    now.Unix(),
		ID:           dealID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoDealFound
	}
	return nil
}

// Reopen clears the closing fields, returning the deal to its stage.
func (s DealService) Reopen(ctx context.Context, dealID idwrap.IDWrap) error {
	now := dbtime.DBNow()
	affected, err := s.queries.CloseDeal(ctx, gen.CloseDealParams{
		ClosedAt:     sql.NullInt64{},
		LostReasonID: nil,
		UpdatedAt:    now.Unix(),
		ID:           dealID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoDealFound
	}
	return nil
}

func (s DealService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	now := dbtime.DBNow()
	affected, err := s.queries.SoftDeleteDeal(ctx, gen.SoftDeleteDealParams{
		DeletedAt: now.Unix(),
		UpdatedAt: now.Unix(),
		ID:        id,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoDealFound
	}
	return nil
}
