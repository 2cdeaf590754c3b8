//nolint:revive // exported
package rpipeline

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/internal/api/middleware/mwcompress"
	"github.com/funil-crm/funil/pkg/eventstream"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mlossreason"
	"github.com/funil-crm/funil/pkg/model/mpipeline"
	"github.com/funil-crm/funil/pkg/ordered"
	"github.com/funil-crm/funil/pkg/rjson"
	"github.com/funil-crm/funil/pkg/service/sdeal"
	"github.com/funil-crm/funil/pkg/service/slossreason"
	"github.com/funil-crm/funil/pkg/service/spipeline"
	"github.com/funil-crm/funil/pkg/service/sstage"
	"github.com/funil-crm/funil/pkg/validate"
)

type PipelineRPC struct {
	ps      spipeline.PipelineService
	ss      sstage.StageService
	ds      sdeal.DealService
	reasons slossreason.LossReasonService
	mover   *ordered.Manager
	db      *sql.DB
	stream  api.Streamer
}

func New(ps spipeline.PipelineService, ss sstage.StageService, ds sdeal.DealService,
	reasons slossreason.LossReasonService, mover *ordered.Manager, db *sql.DB, stream api.Streamer,
) *PipelineRPC {
	return &PipelineRPC{ps: ps, ss: ss, ds: ds, reasons: reasons, mover: mover, db: db, stream: stream}
}

func (h *PipelineRPC) Services(auth api.Middleware) []api.Service {
	return []api.Service{
		{Path: "GET /api/pipelines", Handler: auth(http.HandlerFunc(h.List))},
		{Path: "POST /api/pipelines", Handler: auth(http.HandlerFunc(h.Create))},
		{Path: "GET /api/pipelines/{id}", Handler: auth(http.HandlerFunc(h.Get))},
		{Path: "PUT /api/pipelines/{id}", Handler: auth(http.HandlerFunc(h.Update))},
		{Path: "DELETE /api/pipelines/{id}", Handler: auth(http.HandlerFunc(h.Delete))},
		{Path: "POST /api/pipelines/reorder", Handler: auth(http.HandlerFunc(h.Reorder))},
		{Path: "GET /api/pipelines/{id}/stages", Handler: auth(http.HandlerFunc(h.ListStages))},
		{Path: "POST /api/pipelines/{id}/stages", Handler: auth(http.HandlerFunc(h.CreateStage))},
		{Path: "POST /api/pipelines/{id}/stages/reorder", Handler: auth(http.HandlerFunc(h.ReorderStages))},
		{Path: "GET /api/pipelines/{id}/board", Handler: auth(mwcompress.New(http.HandlerFunc(h.Board)))},
		{Path: "GET /api/pipelines/{id}/lost-reasons", Handler: auth(http.HandlerFunc(h.ListLossReasons))},
		{Path: "PUT /api/pipelines/{id}/lost-reasons", Handler: auth(http.HandlerFunc(h.SetLossReasons))},
		{Path: "POST /api/pipelines/{id}/lost-reasons/reorder", Handler: auth(http.HandlerFunc(h.ReorderLossReasons))},
	}
}

type pipelineBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type pipelineResponse struct {
	ID string `json:"id"`
	pipelineBody
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func serialize(p mpipeline.Pipeline) pipelineResponse {
	return pipelineResponse{
		ID: p.ID.String(),
		pipelineBody: pipelineBody{
			Name:        p.Name,
			Description: p.Description,
			Icon:        p.Icon,
		},
		Order:     p.Order,
		CreatedAt: p.GetCreatedTime(),
		UpdatedAt: p.Updated,
	}
}

type stageResponse struct {
	ID         string    `json:"id"`
	PipelineID string    `json:"pipelineId"`
	Name       string    `json:"name"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func serializeStage(s mpipeline.Stage) stageResponse {
	return stageResponse{
		ID:         s.ID.String(),
		PipelineID: s.PipelineID.String(),
		Name:       s.Name,
		Order:      s.Order,
		CreatedAt:  s.GetCreatedTime(),
		UpdatedAt:  s.Updated,
	}
}

func checkBody(body pipelineBody) (v validate.Violations) {
	validate.Required(&v, "name", body.Name, "Nome é obrigatório")
	if body.Icon != "" && !mpipeline.ValidIcon(body.Icon) {
		v.Add("icon", "Ícone inválido")
	}
	return v
}

func (h *PipelineRPC) Create(w http.ResponseWriter, r *http.Request) {
	var body pipelineBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkBody(body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}
	if body.Icon == "" {
		body.Icon = mpipeline.IconFunnel
	}

	pipeline := mpipeline.Pipeline{Name: body.Name, Description: body.Description, Icon: body.Icon}
	if err := h.ps.Create(r.Context(), &pipeline); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	api.PublishChange(h.stream, "pipeline", pipeline.ID, eventstream.ChangeCreate)
	rjson.Write(w, http.StatusCreated, serialize(pipeline))
}

func (h *PipelineRPC) List(w http.ResponseWriter, r *http.Request) {
	pipelines, err := h.ps.List(r.Context())
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	out := make([]pipelineResponse, len(pipelines))
	for i, p := range pipelines {
		out[i] = serialize(p)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *PipelineRPC) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	pipeline, err := h.ps.Get(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}
	rjson.Write(w, http.StatusOK, serialize(pipeline))
}

func (h *PipelineRPC) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var body pipelineBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkBody(body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	current, err := h.ps.Get(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}
	current.Name = body.Name
	current.Description = body.Description
	if body.Icon != "" {
		current.Icon = body.Icon
	}
	if err := h.ps.Update(r.Context(), &current); err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}
	api.PublishChange(h.stream, "pipeline", id, eventstream.ChangeUpdate)
	rjson.Write(w, http.StatusOK, serialize(current))
}

func (h *PipelineRPC) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.ps.Delete(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}
	api.PublishChange(h.stream, "pipeline", id, eventstream.ChangeDelete)
	rjson.Success(w)
}

type reorderRequest struct {
	PipelineID string `json:"pipelineId"`
	NewIndex   int    `json:"newIndex"`
}

func (h *PipelineRPC) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	id, err := idwrap.NewText(req.PipelineID)
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if _, err := h.ps.Get(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}
	if _, err := h.mover.Move(r.Context(), h.ps.MovableRepo(), idwrap.IDWrap{}, id, req.NewIndex); err != nil {
		api.WriteReorderError(w, err, "Funil não encontrado")
		return
	}
	api.PublishChange(h.stream, "pipeline", id, eventstream.ChangeReorder)
	rjson.Success(w)
}

type stageBody struct {
	Name string `json:"name"`
}

func (h *PipelineRPC) ListStages(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if _, err := h.ps.Get(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}
	stages, err := h.ss.ListByPipeline(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	out := make([]stageResponse, len(stages))
	for i, s := range stages {
		out[i] = serializeStage(s)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *PipelineRPC) CreateStage(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var body stageBody
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
	if _, err := h.ps.Get(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}

	stage := mpipeline.Stage{PipelineID: id, Name: body.Name}
	if err := h.ss.Create(r.Context(), &stage); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	api.PublishChange(h.stream, "stage", stage.ID, eventstream.ChangeCreate)
	rjson.Write(w, http.StatusCreated, serializeStage(stage))
}

type stageReorderRequest struct {
	StageID  string `json:"stageId"`
	NewIndex int    `json:"newIndex"`
}

// ReorderStages moves one stage inside its pipeline. The whole reindex runs
// in a single transaction; a partial failure leaves the original ordering.
func (h *PipelineRPC) ReorderStages(w http.ResponseWriter, r *http.Request) {
	pipelineID, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var req stageReorderRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	stageID, err := idwrap.NewText(req.StageID)
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}

	stage, err := h.ss.Get(r.Context(), stageID)
	if err != nil {
		rjson.WriteError(w, err, "Estágio não encontrado")
		return
	}
	if stage.PipelineID != pipelineID {
		rjson.Error(w, http.StatusNotFound, "Estágio não encontrado")
		return
	}

	if _, err := h.mover.Move(r.Context(), h.ss.MovableRepo(), pipelineID, stageID, req.NewIndex); err != nil {
		api.WriteReorderError(w, err, "Estágio não encontrado")
		return
	}
	api.PublishChange(h.stream, "stage", stageID, eventstream.ChangeReorder)
	rjson.Success(w)
}

type boardCard struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	ValueCents int64      `json:"valueCents"`
	CompanyID  string     `json:"companyId"`
	ContactID  string     `json:"contactId"`
	Status     string     `json:"status"`
	ClosedAt   *time.Time `json:"closedAt"`
}

type boardColumn struct {
	Stage stageResponse `json:"stage"`
	Cards []boardCard   `json:"cards"`
}

// Board returns the pipeline's stages with their deals, the payload the
// kanban view renders from.
func (h *PipelineRPC) Board(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if _, err := h.ps.Get(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}
	stages, err := h.ss.ListByPipeline(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}

	columns := make([]boardColumn, len(stages))
	for i, stage := range stages {
		deals, err := h.ds.ListByStage(r.Context(), stage.ID)
		if err != nil {
			rjson.WriteError(w, err, "")
			return
		}
		cards := make([]boardCard, len(deals))
		for j, d := range deals {
			cards[j] = boardCard{
				ID:         d.ID.String(),
				Title:      d.Title,
				ValueCents: d.ValueCents,
				CompanyID:  d.CompanyID.String(),
				ContactID:  d.ContactID.String(),
				Status:     d.Status().String(),
				ClosedAt:   d.ClosedAt,
			}
		}
		columns[i] = boardColumn{Stage: serializeStage(stage), Cards: cards}
	}
	rjson.Write(w, http.StatusOK, map[string]any{
		"pipelineId": id.String(),
		"columns":    columns,
	})
}

type lossReasonResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

func serializeReason(l mlossreason.LossReason) lossReasonResponse {
	return lossReasonResponse{
		ID:          l.ID.String(),
		Name:        l.Name,
		Description: l.Description,
		Order:       l.Order,
	}
}

func (h *PipelineRPC) ListLossReasons(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if _, err := h.ps.Get(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}
	reasons, err := h.reasons.ListByPipeline(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	out := make([]lossReasonResponse, len(reasons))
	for i, l := range reasons {
		out[i] = serializeReason(l)
	}
	rjson.Write(w, http.StatusOK, out)
}

type setLossReasonsRequest struct {
	LossReasonIDs []string `json:"lossReasonIds"`
}

// SetLossReasons replaces the pipeline's reason list with the given IDs in
// the given order.
func (h *PipelineRPC) SetLossReasons(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var req setLossReasonsRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if _, err := h.ps.Get(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}

	reasonIDs := make([]idwrap.IDWrap, len(req.LossReasonIDs))
	for i, raw := range req.LossReasonIDs {
		rid, err := idwrap.NewText(raw)
		if err != nil {
			rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
			return
		}
		reasonIDs[i] = rid
	}
	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	sync := api.NewChangeTx(tx)
	if err := h.reasons.TX(tx).SetPipelineReasons(r.Context(), id, reasonIDs); err != nil {
		sync.Rollback()
		rjson.WriteError(w, err, "")
		return
	}
	sync.Track(api.NewChange("pipeline", id, eventstream.ChangeUpdate))
	if err := sync.CommitAndPublish(r.Context(), api.PublishAll(h.stream)); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	rjson.Success(w)
}

type reasonReorderRequest struct {
	LossReasonID string `json:"lossReasonId"`
	NewIndex     int    `json:"newIndex"`
}

// ReorderLossReasons moves one reason inside the pipeline's lose dialog
// order. The link set is rewritten in the new order, so the result is dense.
func (h *PipelineRPC) ReorderLossReasons(w http.ResponseWriter, r *http.Request) {
	pipelineID, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var req reasonReorderRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	reasonID, err := idwrap.NewText(req.LossReasonID)
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if _, err := h.ps.Get(r.Context(), pipelineID); err != nil {
		rjson.WriteError(w, err, "Funil não encontrado")
		return
	}

	reasons, err := h.reasons.ListByPipeline(r.Context(), pipelineID)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	items := make([]ordered.Item, len(reasons))
	for i, reason := range reasons {
		items[i] = ordered.Item{ID: reason.ID, Order: i}
	}
	plan, err := ordered.PlanMove(items, reasonID, req.NewIndex)
	if err != nil {
		api.WriteReorderError(w, err, "Motivo de perda não encontrado")
		return
	}
	if plan.NoOp() {
		api.PublishChange(h.stream, "lossReason", reasonID, eventstream.ChangeReorder)
		rjson.Success(w)
		return
	}

	next := make([]idwrap.IDWrap, len(items))
	for _, it := range items {
		next[it.Order] = it.ID
	}
	for _, u := range plan.Updates {
		next[u.Order] = u.ID
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	sync := api.NewChangeTx(tx)
	if err := h.reasons.TX(tx).SetPipelineReasons(r.Context(), pipelineID, next); err != nil {
		sync.Rollback()
		rjson.WriteError(w, err, "")
		return
	}
	sync.Track(api.NewChange("lossReason", reasonID, eventstream.ChangeReorder))
	if err := sync.CommitAndPublish(r.Context(), api.PublishAll(h.stream)); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	rjson.Success(w)
}
