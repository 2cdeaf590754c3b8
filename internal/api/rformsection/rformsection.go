//nolint:revive // exported
package rformsection

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/pkg/eventstream"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mformsection"
	"github.com/funil-crm/funil/pkg/rjson"
	"github.com/funil-crm/funil/pkg/service/sformsection"
	"github.com/funil-crm/funil/pkg/validate"
)

type FormSectionRPC struct {
	fs     sformsection.FormSectionService
	db     *sql.DB
	stream api.Streamer
}

func New(fs sformsection.FormSectionService, db *sql.DB, stream api.Streamer) *FormSectionRPC {
	return &FormSectionRPC{fs: fs, db: db, stream: stream}
}

func (h *FormSectionRPC) Services(auth api.Middleware) []api.Service {
	return []api.Service{
		{Path: "GET /api/form-sections", Handler: auth(http.HandlerFunc(h.ListSections))},
		{Path: "POST /api/form-sections", Handler: auth(http.HandlerFunc(h.CreateSection))},
		{Path: "PUT /api/form-sections/{id}", Handler: auth(http.HandlerFunc(h.UpdateSection))},
		{Path: "DELETE /api/form-sections/{id}", Handler: auth(http.HandlerFunc(h.DeleteSection))},
		{Path: "POST /api/form-sections/reorder", Handler: auth(http.HandlerFunc(h.ReorderSections))},
		{Path: "GET /api/form-sections/{id}/fields", Handler: auth(http.HandlerFunc(h.ListFields))},
		{Path: "POST /api/form-sections/{id}/fields", Handler: auth(http.HandlerFunc(h.CreateField))},
		{Path: "PUT /api/form-fields/{id}", Handler: auth(http.HandlerFunc(h.UpdateField))},
		{Path: "DELETE /api/form-fields/{id}", Handler: auth(http.HandlerFunc(h.DeleteField))},
		{Path: "POST /api/form-fields/{id}/move", Handler: auth(http.HandlerFunc(h.MoveField))},
	}
}

type sectionBody struct {
	Name   string `json:"name"`
	Entity string `json:"entity"`
}

type sectionResponse struct {
	ID string `json:"id"`
	sectionBody
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func serializeSection(s mformsection.Section) sectionResponse {
	return sectionResponse{
		ID: s.ID.String(),
		sectionBody: sectionBody{
			Name:   s.Name,
			Entity: s.Entity,
		},
		Order:     s.Order,
		CreatedAt: s.GetCreatedTime(),
		UpdatedAt: s.Updated,
	}
}

type fieldBody struct {
	Name           string   `json:"name"`
	FieldType      string   `json:"fieldType"`
	Required       bool     `json:"required"`
	Options        []string `json:"options"`
	MultipleSelect bool     `json:"multipleSelect"`
}

type fieldResponse struct {
	ID        string `json:"id"`
	SectionID string `json:"sectionId"`
	fieldBody
	Entity    string    `json:"entity"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func serializeField(f mformsection.Field) fieldResponse {
	return fieldResponse{
		ID:        f.ID.String(),
		SectionID: f.SectionID.String(),
		fieldBody: fieldBody{
			Name:           f.Name,
			FieldType:      f.FieldType,
			Required:       f.Required,
			Options:        f.Options,
			MultipleSelect: f.MultipleSelect,
		},
		Entity:    f.Entity,
		Order:     f.Order,
		CreatedAt: f.GetCreatedTime(),
		UpdatedAt: f.Updated,
	}
}

func (h *FormSectionRPC) CreateSection(w http.ResponseWriter, r *http.Request) {
	var body sectionBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	var v validate.Violations
	validate.Required(&v, "name", body.Name, "Nome é obrigatório")
	if !mformsection.ValidEntity(body.Entity) {
		v.Add("entity", "Entidade inválida")
	}
	if err := v.AsError(); err != nil {
		rjson.WriteViolations(w, v)
		return
	}

	section := mformsection.Section{Name: body.Name, Entity: body.Entity}
	if err := h.fs.CreateSection(r.Context(), &section); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	api.PublishChange(h.stream, "formSection", section.ID, eventstream.ChangeCreate)
	rjson.Write(w, http.StatusCreated, serializeSection(section))
}

// ListSections returns sections for one entity, given by the entity query
// parameter.
func (h *FormSectionRPC) ListSections(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	if !mformsection.ValidEntity(entity) {
		rjson.Error(w, http.StatusBadRequest, "Entidade inválida")
		return
	}
	sections, err := h.fs.ListSections(r.Context(), entity)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	out := make([]sectionResponse, len(sections))
	for i, s := range sections {
		out[i] = serializeSection(s)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *FormSectionRPC) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var body sectionBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	var v validate.Violations
	validate.Required(&v, "name", body.Name, "Nome é obrigatório")
	if err := v.AsError(); err != nil {
		rjson.WriteViolations(w, v)
		return
	}

	section, err := h.fs.GetSection(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Seção não encontrada")
		return
	}
	section.Name = body.Name
	if err := h.fs.UpdateSection(r.Context(), &section); err != nil {
		rjson.WriteError(w, err, "Seção não encontrada")
		return
	}
	api.PublishChange(h.stream, "formSection", id, eventstream.ChangeUpdate)
	rjson.Write(w, http.StatusOK, serializeSection(section))
}

// DeleteSection also removes the section's fields via the schema cascade.
func (h *FormSectionRPC) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.fs.DeleteSection(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Seção não encontrada")
		return
	}
	api.PublishChange(h.stream, "formSection", id, eventstream.ChangeDelete)
	rjson.Success(w)
}

type reorderRequest struct {
	SectionID string `json:"sectionId"`
	NewIndex  int    `json:"newIndex"`
}

func (h *FormSectionRPC) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	id, err := idwrap.NewText(req.SectionID)
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	section, err := h.fs.GetSection(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Seção não encontrada")
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	sync := api.NewChangeTx(tx)
	if err := h.fs.TX(tx).ReorderSections(r.Context(), section.Entity, id, req.NewIndex); err != nil {
		sync.Rollback()
		api.WriteReorderError(w, err, "Seção não encontrada")
		return
	}
	sync.Track(api.NewChange("formSection", id, eventstream.ChangeReorder))
	if err := sync.CommitAndPublish(r.Context(), api.PublishAll(h.stream)); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	rjson.Success(w)
}

func checkFieldBody(body fieldBody) (v validate.Violations) {
	validate.Required(&v, "name", body.Name, "Nome é obrigatório")
	if !mformsection.ValidFieldType(body.FieldType) {
		v.Add("fieldType", "Tipo de campo inválido")
	}
	if body.FieldType == mformsection.FieldTypeSelect && len(body.Options) == 0 {
		v.Add("options", "Campo de seleção precisa de opções")
	}
	return v
}

func (h *FormSectionRPC) CreateField(w http.ResponseWriter, r *http.Request) {
	sectionID, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var body fieldBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkFieldBody(body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	section, err := h.fs.GetSection(r.Context(), sectionID)
	if err != nil {
		rjson.WriteError(w, err, "Seção não encontrada")
		return
	}

	field := mformsection.Field{
		SectionID:      sectionID,
		Name:           body.Name,
		FieldType:      body.FieldType,
		Required:       body.Required,
		Options:        body.Options,
		MultipleSelect: body.MultipleSelect,
		Entity:         section.Entity,
	}
	if err := h.fs.CreateField(r.Context(), &field); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	api.PublishChange(h.stream, "formField", field.ID, eventstream.ChangeCreate)
	rjson.Write(w, http.StatusCreated, serializeField(field))
}

func (h *FormSectionRPC) ListFields(w http.ResponseWriter, r *http.Request) {
	sectionID, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	fields, err := h.fs.ListFields(r.Context(), sectionID)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	out := make([]fieldResponse, len(fields))
	for i, f := range fields {
		out[i] = serializeField(f)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *FormSectionRPC) UpdateField(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var body fieldBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkFieldBody(body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	field, err := h.fs.GetField(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Campo não encontrado")
		return
	}
	field.Name = body.Name
	field.FieldType = body.FieldType
	field.Required = body.Required
	field.Options = body.Options
	field.MultipleSelect = body.MultipleSelect
	if err := h.fs.UpdateField(r.Context(), &field); err != nil {
		rjson.WriteError(w, err, "Campo não encontrado")
		return
	}
	api.PublishChange(h.stream, "formField", id, eventstream.ChangeUpdate)
	rjson.Write(w, http.StatusOK, serializeField(field))
}

func (h *FormSectionRPC) DeleteField(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.fs.DeleteField(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Campo não encontrado")
		return
	}
	api.PublishChange(h.stream, "formField", id, eventstream.ChangeDelete)
	rjson.Success(w)
}

type moveFieldRequest struct {
	SectionID string `json:"sectionId"`
	NewIndex  int    `json:"newIndex"`
}

// MoveField relocates a field inside its section or into another section of
// the same entity. Source and target reindexes run in one transaction.
func (h *FormSectionRPC) MoveField(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var req moveFieldRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	targetID, err := idwrap.NewText(req.SectionID)
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}

	field, err := h.fs.GetField(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Campo não encontrado")
		return
	}
	target, err := h.fs.GetSection(r.Context(), targetID)
	if err != nil {
		rjson.WriteError(w, err, "Seção não encontrada")
		return
	}
	if target.Entity != field.Entity {
		rjson.Error(w, http.StatusBadRequest, "Campo e seção pertencem a entidades diferentes")
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	sync := api.NewChangeTx(tx)
	if err := h.fs.TX(tx).MoveField(r.Context(), id, targetID, req.NewIndex); err != nil {
		sync.Rollback()
		api.WriteReorderError(w, err, "Campo não encontrado")
		return
	}
	sync.Track(api.NewChange("formField", id, eventstream.ChangeReorder))
	if field.SectionID.Compare(targetID) != 0 {
		sync.Track(api.NewChange("formSection", targetID, eventstream.ChangeUpdate))
	}
	if err := sync.CommitAndPublish(r.Context(), api.PublishAll(h.stream)); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	rjson.Success(w)
}
