package sformsection

import (
	"context"
	"database/sql"
	"time"

	"github.com/funil-crm/funil/pkg/dbtime"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mformsection"
	"github.com/funil-crm/funil/pkg/ordered"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
	"github.com/funil-crm/funil/pkg/translate/tjson"
)

var (
	ErrNoSectionFound = sql.ErrNoRows
	ErrNoFieldFound   = sql.ErrNoRows
)

type FormSectionService struct {
	queries     *gen.Queries
	movableRepo *FieldMovableRepository
}

func New(queries *gen.Queries) FormSectionService {
	return FormSectionService{
		queries:     queries,
		movableRepo: NewFieldMovableRepository(queries),
	}
}

func (s FormSectionService) TX(tx *sql.Tx) FormSectionService {
	txQueries := s.queries.WithTx(tx)
	return FormSectionService{
		queries:     txQueries,
		movableRepo: NewFieldMovableRepository(txQueries),
	}
}

func (s FormSectionService) MovableRepo() *FieldMovableRepository {
	return s.movableRepo
}

func ConvertToModelSection(sec gen.FormSection) mformsection.Section {
	return mformsection.Section{
		ID:      sec.ID,
		Name:    sec.Name,
		Entity:  sec.Entity,
		Order:   int(sec.DisplayOrder),
		Updated: dbtime.DBTime(time.Unix(sec.UpdatedAt, 0)),
	}
}

func ConvertToModelField(f gen.FormField) (mformsection.Field, error) {
	options, err := tjson.UnmarshalSlice[string](f.Options)
	if err != nil {
		return mformsection.Field{}, err
	}
	return mformsection.Field{
		ID:             f.ID,
		SectionID:      f.SectionID,
		Name:           f.Name,
		FieldType:      f.FieldType,
		Required:       f.Required,
		Options:        options,
		MultipleSelect: f.MultipleSelect,
		Entity:         f.Entity,
		Order:          int(f.DisplayOrder),
		Updated:        dbtime.DBTime(time.Unix(f.UpdatedAt, 0)),
	}, nil
}

func (s FormSectionService) CreateSection(ctx context.Context, section *mformsection.Section) error {
	now := dbtime.DBNow()
	if section.ID.IsZero() {
		section.ID = idwrap.NewNow()
	}
	max, err := s.queries.MaxFormSectionOrder(ctx, section.Entity)
	if err != nil {
		return err
	}
	section.Order = int(max) + 1
	section.Updated = now
	return s.queries.CreateFormSection(ctx, gen.CreateFormSectionParams{
		ID:           section.ID,
		Name:         section.Name,
		Entity:       section.Entity,
		DisplayOrder: int64(section.Order),
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	})
}

func (s FormSectionService) GetSection(ctx context.Context, id idwrap.IDWrap) (mformsection.Section, error) {
	sec, err := s.queries.GetFormSection(ctx, id)
	if err != nil {
		return mformsection.Section{}, err
	}
	return ConvertToModelSection(sec), nil
}

func (s FormSectionService) ListSections(ctx context.Context, entity string) ([]mformsection.Section, error) {
	rows, err := s.queries.ListFormSectionsByEntity(ctx, entity)
	if err != nil {
		return nil, err
	}
	items := make([]mformsection.Section, 0, len(rows))
	for _, row := range rows {
		items = append(items, ConvertToModelSection(row))
	}
	return items, nil
}

func (s FormSectionService) UpdateSection(ctx context.Context, section *mformsection.Section) error {
	now := dbtime.DBNow()
	section.Updated = now
	affected, err := s.queries.UpdateFormSection(ctx, gen.UpdateFormSectionParams{
		Name:      section.Name,
		UpdatedAt: now.Unix(),
		ID:        section.ID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoSectionFound
	}
	return nil
}

// DeleteSection drops the section and, through the schema's cascade, its
// fields.
func (s FormSectionService) DeleteSection(ctx context.Context, id idwrap.IDWrap) error {
	affected, err := s.queries.DeleteFormSection(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoSectionFound
	}
	return nil
}

// ReorderSections moves sectionID to newIndex inside its entity's section
// list. Call on a TX-bound service; all row updates land in that
// transaction.
func (s FormSectionService) ReorderSections(ctx context.Context, entity string, sectionID idwrap.IDWrap, newIndex int) error {
	rows, err := s.queries.ListFormSectionsByEntity(ctx, entity)
	if err != nil {
		return err
	}
	items := make([]ordered.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, ordered.Item{ID: row.ID, Order: int(row.DisplayOrder)})
	}
	plan, err := ordered.PlanMove(items, sectionID, newIndex)
	if err != nil {
		return err
	}
	if plan.NoOp() {
		return nil
	}
	now := dbtime.DBNow().Unix()
	for _, u := range plan.Updates {
		err := s.queries.UpdateFormSectionOrder(ctx, gen.UpdateFormSectionOrderParams{
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

func (s FormSectionService) CreateField(ctx context.Context, field *mformsection.Field) error {
	options, err := tjson.MarshalSlice(field.Options)
	if err != nil {
		return err
	}
	now := dbtime.DBNow()
	if field.ID.IsZero() {
		field.ID = idwrap.NewNow()
	}
	max, err := s.queries.MaxFormFieldOrder(ctx, field.SectionID)
	if err != nil {
		return err
	}
	field.Order = int(max) + 1
	field.Updated = now
	return s.queries.CreateFormField(ctx, gen.CreateFormFieldParams{
		ID:             field.ID,
		SectionID:      field.SectionID,
		Name:           field.Name,
		FieldType:      field.FieldType,
		Required:       field.Required,
		Options:        options,
		MultipleSelect: field.MultipleSelect,
		Entity:         field.Entity,
		DisplayOrder:   int64(field.Order),
		CreatedAt:      now.Unix(),
		UpdatedAt:      now.Unix(),
	})
}

func (s FormSectionService) GetField(ctx context.Context, id idwrap.IDWrap) (mformsection.Field, error) {
	f, err := s.queries.GetFormField(ctx, id)
	if err != nil {
		return mformsection.Field{}, err
	}
	return ConvertToModelField(f)
}

func (s FormSectionService) ListFields(ctx context.Context, sectionID idwrap.IDWrap) ([]mformsection.Field, error) {
	rows, err := s.queries.ListFormFieldsBySection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	items := make([]mformsection.Field, 0, len(rows))
	for _, row := range rows {
		f, err := ConvertToModelField(row)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, nil
}

func (s FormSectionService) UpdateField(ctx context.Context, field *mformsection.Field) error {
	options, err := tjson.MarshalSlice(field.Options)
	if err != nil {
		return err
	}
	now := dbtime.DBNow()
	field.Updated = now
	affected, err := s.queries.UpdateFormField(ctx, gen.UpdateFormFieldParams{
		Name:           field.Name,
		FieldType:      field.FieldType,
		Required:       field.Required,
		Options:        options,
		MultipleSelect: field.MultipleSelect,
		UpdatedAt:      now.Unix(),
		ID:             field.ID,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoFieldFound
	}
	return nil
}

func (s FormSectionService) DeleteField(ctx context.Context, id idwrap.IDWrap) error {
	affected, err := s.queries.DeleteFormField(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoFieldFound
	}
	return nil
}

// MoveField places the field at newIndex inside targetSectionID, which may
// be its current section or another section of the same entity. Both the
// source and target lists come out dense. Call on a TX-bound service.
func (s FormSectionService) MoveField(ctx context.Context, fieldID, targetSectionID idwrap.IDWrap, newIndex int) error {
	field, err := s.queries.GetFormField(ctx, fieldID)
	if err != nil {
		return err
	}
	now := dbtime.DBNow().Unix()

	if field.SectionID.Compare(targetSectionID) == 0 {
		items, err := s.movableRepo.ItemsByParent(ctx, targetSectionID)
		if err != nil {
			return err
		}
		plan, err := ordered.PlanMove(items, fieldID, newIndex)
		if err != nil {
			return err
		}
		return s.applyFieldOrders(ctx, plan.Updates, now)
	}

	// Cross-section move: close the gap in the source list, then insert
	// into the target list at newIndex.
	source, err := s.movableRepo.ItemsByParent(ctx, field.SectionID)
	if err != nil {
		return err
	}
	remaining := make([]ordered.Item, 0, len(source))
	for _, it := range source {
		if it.ID.Compare(fieldID) != 0 {
			remaining = append(remaining, it)
		}
	}
	if err := s.applyFieldOrders(ctx, ordered.Diff(source, ordered.Renumber(remaining)), now); err != nil {
		return err
	}

	target, err := s.movableRepo.ItemsByParent(ctx, targetSectionID)
	if err != nil {
		return err
	}
	if newIndex < 0 || newIndex > len(target) {
		return ordered.ErrIndexOutOfRange
	}
	next := make([]ordered.Item, 0, len(target)+1)
	next = append(next, target[:newIndex]...)
	next = append(next, ordered.Item{ID: fieldID})
	next = append(next, target[newIndex:]...)
	next = ordered.Renumber(next)

	var movedOrder int64
	for _, it := range next {
		if it.ID.Compare(fieldID) == 0 {
			movedOrder = int64(it.Order)
		}
	}
	err = s.queries.UpdateFormFieldSection(ctx, gen.UpdateFormFieldSectionParams{
		SectionID:    targetSectionID,
		DisplayOrder: movedOrder,
		UpdatedAt:    now,
		ID:           fieldID,
	})
	if err != nil {
		return err
	}
	updates := make([]ordered.Update, 0, len(next))
	for _, it := range next {
		if it.ID.Compare(fieldID) != 0 {
			updates = append(updates, ordered.Update{ID: it.ID, Order: it.Order})
		}
	}
	return s.applyFieldOrders(ctx, updates, now)
}

func (s FormSectionService) applyFieldOrders(ctx context.Context, updates []ordered.Update, now int64) error {
	for _, u := range updates {
		err := s.queries.UpdateFormFieldOrder(ctx, gen.UpdateFormFieldOrderParams{
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

// FieldMovableRepository orders the fields of one section; the parent ID is
// the section.
type FieldMovableRepository struct {
	queries *gen.Queries
}

func NewFieldMovableRepository(queries *gen.Queries) *FieldMovableRepository {
	return &FieldMovableRepository{queries: queries}
}

func (r *FieldMovableRepository) ItemsByParent(ctx context.Context, sectionID idwrap.IDWrap) ([]ordered.Item, error) {
	rows, err := r.queries.ListFormFieldsBySection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	items := make([]ordered.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, ordered.Item{ID: row.ID, Order: int(row.DisplayOrder)})
	}
	return items, nil
}

func (r *FieldMovableRepository) ApplyOrdering(ctx context.Context, tx *sql.Tx, updates []ordered.Update) error {
	q := r.queries.WithTx(tx)
	now := dbtime.DBNow().Unix()
	for _, u := range updates {
		err := q.UpdateFormFieldOrder(ctx, gen.UpdateFormFieldOrderParams{
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
