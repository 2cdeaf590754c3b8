package spipeline

import (
	"context"
	"database/sql"
	"time"

	"github.com/funil-crm/funil/pkg/dbtime"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mpipeline"
	"github.com/funil-crm/funil/pkg/ordered"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
)

var ErrNoPipelineFound = sql.ErrNoRows

type PipelineService struct {
	queries     *gen.Queries
	movableRepo *PipelineMovableRepository
}

func New(queries *gen.Queries) PipelineService {
	return PipelineService{
		queries:     queries,
		movableRepo: NewPipelineMovableRepository(queries),
	}
}

func (s PipelineService) TX(tx *sql.Tx) PipelineService {
	txQueries := s.queries.WithTx(tx)
	return PipelineService{
		queries:     txQueries,
		movableRepo: NewPipelineMovableRepository(txQueries),
	}
}

// MovableRepo exposes the ordering repository for use with ordered.Manager.
func (s PipelineService) MovableRepo() *PipelineMovableRepository {
	return s.movableRepo
}

func ConvertToModelPipeline(p gen.Pipeline) mpipeline.Pipeline {
	return mpipeline.Pipeline{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Icon:        p.Icon,
		Order:       int(p.DisplayOrder),
		Updated:     dbtime.DBTime(time.Unix(p.UpdatedAt, 0)),
	}
}

// Create appends the pipeline at the end of the board.
func (s PipelineService) Create(ctx context.Context, pipeline *mpipeline.Pipeline) error {
	now := dbtime.DBNow()
	if pipeline.ID.IsZero() {
		pipeline.ID = idwrap.NewNow()
	}
	max, err := s.queries.MaxPipelineOrder(ctx)
	if err != nil {
		return err
	}
	pipeline.Order = int(max) + 1
	pipeline.Updated = now
	return s.queries.CreatePipeline(ctx, gen.CreatePipelineParams{
		ID:           pipeline.ID,
		Name:         pipeline.Name,
		Description:  pipeline.Description,
		Icon:         pipeline.Icon,
		DisplayOrder: int64(pipeline.Order),
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	})
}

func (s PipelineService) Get(ctx context.Context, id idwrap.IDWrap) (mpipeline.Pipeline, error) {
	p, err := s.queries.GetPipeline(ctx, id)
	if err != nil {
		return mpipeline.Pipeline{}, err
	}
	return ConvertToModelPipeline(p), nil
}

func (s PipelineService) List(ctx context.Context) ([]mpipeline.Pipeline, error) {
	rows, err := s.queries.ListPipelines(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]mpipeline.Pipeline, 0, len(rows))
	for _, row := range rows {
		items = append(items, ConvertToModelPipeline(row))
	}
	return items, nil
}

func (s PipelineService) Update(ctx context.Context, pipeline *mpipeline.Pipeline) error {
	now := dbtime.DBNow()
	pipeline.Updated = now
	affected, err := s.queries.UpdatePipeline(ctx, gen.UpdatePipelineParams{
		Name:        pipeline.Name,
		Description: pipeline.Description,
		Icon:        pipeline.Icon,
		UpdatedAt:   now.Unix(),
		ID:          pipeline.ID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoPipelineFound
	}
	return nil
}

func (s PipelineService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	now := dbtime.DBNow()
	affected, err := s.queries.SoftDeletePipeline(ctx, gen.SoftDeletePipelineParams{
		DeletedAt: now.Unix(),
		UpdatedAt: now.Unix(),
		ID:        id,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoPipelineFound
	}
	return nil
}

// PipelineMovableRepository adapts the pipeline list to the ordering engine.
// Pipelines form a single global list, so the parent ID is ignored.
type PipelineMovableRepository struct {
	queries *gen.Queries
}

func NewPipelineMovableRepository(queries *gen.Queries) *PipelineMovableRepository {
	return &PipelineMovableRepository{queries: queries}
}

func (r *PipelineMovableRepository) ItemsByParent(ctx context.Context, _ idwrap.IDWrap) ([]ordered.Item, error) {
	rows, err := r.queries.ListPipelines(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ordered.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, ordered.Item{ID: row.ID, Order: int(row.DisplayOrder)})
	}
	return items, nil
}

func (r *PipelineMovableRepository) ApplyOrdering(ctx context.Context, tx *sql.Tx, updates []ordered.Update) error {
	q := r.queries.WithTx(tx)
	now := dbtime.DBNow().Unix()
	for _, u := range updates {
		err := q.UpdatePipelineOrder(ctx, gen.UpdatePipelineOrderParams{
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
