package sstage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/funil-crm/funil/pkg/dbtime"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mpipeline"
	"github.com/funil-crm/funil/pkg/ordered"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
)

var (
	ErrNoStageFound  = sql.ErrNoRows
	ErrStageHasDeals = errors.New("stage still has deals")
)

type StageService struct {
	queries     *gen.Queries
	movableRepo *StageMovableRepository
}

func New(queries *gen.Queries) StageService {
	return StageService{
		queries:     queries,
		movableRepo: NewStageMovableRepository(queries),
	}
}

func (s StageService) TX(tx *sql.Tx) StageService {
	txQueries := s.queries.WithTx(tx)
	return StageService{
		queries:     txQueries,
		movableRepo: NewStageMovableRepository(txQueries),
	}
}

func (s StageService) MovableRepo() *StageMovableRepository {
	return s.movableRepo
}

func ConvertToModelStage(st gen.Stage) mpipeline.Stage {
	return mpipeline.Stage{
		ID:         st.ID,
		PipelineID: st.PipelineID,
		Name:       st.Name,
		Order:      int(st.DisplayOrder),
		Updated:    dbtime.DBTime(time.Unix(st.UpdatedAt, 0)),
	}
}

// Create appends the stage at the end of its pipeline.
func (s StageService) Create(ctx context.Context, stage *mpipeline.Stage) error {
	now := dbtime.DBNow()
	if stage.ID.IsZero() {
		stage.ID = idwrap.NewNow()
	}
	max, err := s.queries.MaxStageOrder(ctx, stage.PipelineID)
	if err != nil {
		return err
	}
	stage.Order = int(max) + 1
	stage.Updated = now
	return s.queries.CreateStage(ctx, gen.CreateStageParams{
		ID:           stage.ID,
		PipelineID:   stage.PipelineID,
		Name:         stage.Name,
		DisplayOrder: int64(stage.Order),
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	})
}

func (s StageService) Get(ctx context.Context, id idwrap.IDWrap) (mpipeline.Stage, error) {
	st, err := s.queries.GetStage(ctx, id)
	if err != nil {
		return mpipeline.Stage{}, err
	}
	return ConvertToModelStage(st), nil
}

func (s StageService) ListByPipeline(ctx context.Context, pipelineID idwrap.IDWrap) ([]mpipeline.Stage, error) {
	rows, err := s.queries.ListStagesByPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	items := make([]mpipeline.Stage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ConvertToModelStage(row))
	}
	return items, nil
}

func (s StageService) Update(ctx context.Context, stage *mpipeline.Stage) error {
	now := dbtime.DBNow()
	stage.Updated = now
	affected, err := s.queries.UpdateStage(ctx, gen.UpdateStageParams{
		Name:      stage.Name,
		UpdatedAt: now.Unix(),
		ID:        stage.ID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoStageFound
	}
	return nil
}

// Delete removes an empty stage. A stage that still holds deals cannot be
// deleted; the deals must be moved or closed first.
func (s StageService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	count, err := s.queries.CountDealsInStage(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrStageHasDeals
	}
	affected, err := s.queries.DeleteStage(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoStageFound
	}
	return nil
}

// StageMovableRepository adapts a pipeline's stage list to the ordering
// engine; the parent ID is the pipeline.
type StageMovableRepository struct {
	queries *gen.Queries
}

func NewStageMovableRepository(queries *gen.Queries) *StageMovableRepository {
	return &StageMovableRepository{queries: queries}
}

func (r *StageMovableRepository) ItemsByParent(ctx context.Context, pipelineID idwrap.IDWrap) ([]ordered.Item, error) {
	rows, err := r.queries.ListStagesByPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	items := make([]ordered.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, ordered.Item{ID: row.ID, Order: int(row.DisplayOrder)})
	}
	return items, nil
}

func (r *StageMovableRepository) ApplyOrdering(ctx context.Context, tx *sql.Tx, updates []ordered.Update) error {
	q := r.queries.WithTx(tx)
	now := dbtime.DBNow().Unix()
	for _, u := range updates {
		err := q.UpdateStageOrder(ctx, gen.UpdateStageOrderParams{
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
