package slossreason

import (
	"context"
	"database/sql"
	"time"

	"github.com/funil-crm/funil/pkg/dbtime"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mlossreason"
	"github.com/funil-crm/funil/pkg/ordered"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
)

var ErrNoLossReasonFound = sql.ErrNoRows

type LossReasonService struct {
	queries     *gen.Queries
	movableRepo *LossReasonMovableRepository
}

func New(queries *gen.Queries) LossReasonService {
	return LossReasonService{
		queries:     queries,
		movableRepo: NewLossReasonMovableRepository(queries),
	}
}

func (s LossReasonService) TX(tx *sql.Tx) LossReasonService {
	txQueries := s.queries.WithTx(tx)
	return LossReasonService{
		queries:     txQueries,
		movableRepo: NewLossReasonMovableRepository(txQueries),
	}
}

func (s LossReasonService) MovableRepo() *LossReasonMovableRepository {
	return s.movableRepo
}

func ConvertToModelLossReason(l gen.LossReason) mlossreason.LossReason {
	return mlossreason.LossReason{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Order:       int(l.DisplayOrder),
		Updated:     dbtime.DBTime(time.Unix(l.UpdatedAt, 0)),
	}
}

func (s LossReasonService) Create(ctx context.Context, reason *mlossreason.LossReason) error {
	now := dbtime.DBNow()
	if reason.ID.IsZero() {
		reason.ID = idwrap.NewNow()
	}
	max, err := s.queries.MaxLossReasonOrder(ctx)
	if err != nil {
		return err
	}
	reason.Order = int(max) + 1
	reason.Updated = now
	return s.queries.CreateLossReason(ctx, gen.CreateLossReasonParams{
		ID:           reason.ID,
		Name:         reason.Name,
		Description:  reason.Description,
		DisplayOrder: int64(reason.Order),
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	})
}

func (s LossReasonService) Get(ctx context.Context, id idwrap.IDWrap) (mlossreason.LossReason, error) {
	l, err := s.queries.GetLossReason(ctx, id)
	if err != nil {
		return mlossreason.LossReason{}, err
	}
	return ConvertToModelLossReason(l), nil
}

func (s LossReasonService) List(ctx context.Context) ([]mlossreason.LossReason, error) {
	rows, err := s.queries.ListLossReasons(ctx)
	if err != nil {
		return nil, err
	}
	return convertRows(rows), nil
}

// ListByPipeline returns the reasons linked to one pipeline in the order
// they show up in its lose dialog.
func (s LossReasonService) ListByPipeline(ctx context.Context, pipelineID idwrap.IDWrap) ([]mlossreason.LossReason, error) {
	rows, err := s.queries.ListLossReasonsByPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	return convertRows(rows), nil
}

func convertRows(rows []gen.LossReason) []mlossreason.LossReason {
	items := make([]mlossreason.LossReason, 0, len(rows))
	for _, row := range rows {
		items = append(items, ConvertToModelLossReason(row))
	}
	return items
}

func (s LossReasonService) Update(ctx context.Context, reason *mlossreason.LossReason) error {
	now := dbtime.DBNow()
	reason.Updated = now
	affected, err := s.queries.UpdateLossReason(ctx, gen.UpdateLossReasonParams{
		Name:        reason.Name,
		Description: reason.Description,
		UpdatedAt:   now.Unix(),
		ID:          reason.ID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoLossReasonFound
	}
	return nil
}

func (s LossReasonService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	now := dbtime.DBNow()
	affected, err := s.queries.SoftDeleteLossReason(ctx, gen.SoftDeleteLossReasonParams{
		DeletedAt: now.Unix(),
		UpdatedAt: now.Unix(),
		ID:        id,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoLossReasonFound
	}
	return nil
}

// SetPipelineReasons replaces the set of reasons linked to a pipeline.
// Links take the order of the given slice. The rewrite is delete-then-insert,
// so callers run it on a TX service: a mid-batch failure must not leave a
// partial link set behind.
func (s LossReasonService) SetPipelineReasons(ctx context.Context, pipelineID idwrap.IDWrap, reasonIDs []idwrap.IDWrap) error {
	if err := s.queries.DeletePipelineLossReasons(ctx, pipelineID); err != nil {
		return err
	}
	for i, reasonID := range reasonIDs {
		err := s.queries.UpsertPipelineLossReason(ctx, gen.UpsertPipelineLossReasonParams{
			PipelineID:   pipelineID,
			LossReasonID: reasonID,
			DisplayOrder: int64(i),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// LossReasonMovableRepository orders the global reason list; the parent ID
// is ignored.
type LossReasonMovableRepository struct {
	queries *gen.Queries
}

func NewLossReasonMovableRepository(queries *gen.Queries) *LossReasonMovableRepository {
	return &LossReasonMovableRepository{queries: queries}
}

func (r *LossReasonMovableRepository) ItemsByParent(ctx context.Context, _ idwrap.IDWrap) ([]ordered.Item, error) {
	rows, err := r.queries.ListLossReasons(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ordered.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, ordered.Item{ID: row.ID, Order: int(row.DisplayOrder)})
	}
	return items, nil
}

func (r *LossReasonMovableRepository) ApplyOrdering(ctx context.Context, tx *sql.Tx, updates []ordered.Update) error {
	q := r.queries.WithTx(tx)
	now := dbtime.DBNow().Unix()
	for _, u := range updates {
		err := q.UpdateLossReasonOrder(ctx, gen.UpdateLossReasonOrderParams{
			DisplayOrder: int64(u.Order),
			UpdatedAt:    now,
			ID:           u.ID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
