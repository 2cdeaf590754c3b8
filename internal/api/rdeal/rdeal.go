//nolint:revive // exported
package rdeal

import (
	"errors"
	"net/http"
	"time"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/internal/api/middleware/mwcompress"
	"github.com/funil-crm/funil/pkg/eventstream"
	"github.com/funil-crm/funil/pkg/gridfilter"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mdeal"
	"github.com/funil-crm/funil/pkg/rjson"
	"github.com/funil-crm/funil/pkg/service/sdeal"
	"github.com/funil-crm/funil/pkg/validate"
)

type DealRPC struct {
	ds     sdeal.DealService
	stream api.Streamer
}

func New(ds sdeal.DealService, stream api.Streamer) *DealRPC {
	return &DealRPC{ds: ds, stream: stream}
}

func (h *DealRPC) Services(auth api.Middleware) []api.Service {
	return []api.Service{
		{Path: "GET /api/deals", Handler: auth(mwcompress.New(http.HandlerFunc(h.List)))},
		{Path: "POST /api/deals", Handler: auth(http.HandlerFunc(h.Create))},
		{Path: "GET /api/deals/{id}", Handler: auth(http.HandlerFunc(h.Get))},
		{Path: "PUT /api/deals/{id}", Handler: auth(http.HandlerFunc(h.Update))},
		{Path: "DELETE /api/deals/{id}", Handler: auth(http.HandlerFunc(h.Delete))},
		{Path: "POST /api/deals/{id}/move", Handler: auth(http.HandlerFunc(h.Move))},
		{Path: "POST /api/deals/{id}/win", Handler: auth(http.HandlerFunc(h.Win))},
		{Path: "POST /api/deals/{id}/lose", Handler: auth(http.HandlerFunc(h.Lose))},
		{Path: "POST /api/deals/{id}/reopen", Handler: auth(http.HandlerFunc(h.Reopen))},
	}
}

type dealBody struct {
	Title      string `json:"title"`
	ValueCents int64  `json:"valueCents"`
	CompanyID  string `json:"companyId"`
	ContactID  string `json:"contactId"`
	StageID    string `json:"stageId"`
}

type dealResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	ValueCents   int64      `json:"valueCents"`
	CompanyID    string     `json:"companyId"`
	ContactID    string     `json:"contactId"`
	StageID      string     `json:"stageId"`
	Status       string     `json:"status"`
	LostReasonID *string    `json:"lostReasonId"`
	ClosedAt     *time.Time `json:"closedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func serialize(d mdeal.Deal) dealResponse {
	var lostReason *string
	if d.LostReasonID != nil {
		s := d.LostReasonID.String()
		lostReason = &s
	}
	return dealResponse{
		ID:           d.ID.String(),
		Title:        d.Title,
		ValueCents:   d.ValueCents,
		CompanyID:    d.CompanyID.String(),
		ContactID:    d.ContactID.String(),
		StageID:      d.StageID.String(),
		Status:       d.Status().String(),
		LostReasonID: lostReason,
		ClosedAt:     d.ClosedAt,
		CreatedAt:    d.GetCreatedTime(),
		UpdatedAt:    d.Updated,
	}
}

func checkBody(body dealBody) (v validate.Violations) {
	validate.Required(&v, "title", body.Title, "Título é obrigatório")
	validate.NonNegative(&v, "valueCents", body.ValueCents)
	for field, raw := range map[string]string{
		"companyId": body.CompanyID,
		"contactId": body.ContactID,
		"stageId":   body.StageID,
	} {
		if raw == "" {
			v.Add(field, "Campo obrigatório")
			continue
		}
		if _, err := idwrap.NewText(raw); err != nil {
			v.Add(field, "Identificador inválido")
		}
	}
	return v
}

func (h *DealRPC) Create(w http.ResponseWriter, r *http.Request) {
	var body dealBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkBody(body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	deal := mdeal.Deal{
		Title:      body.Title,
		ValueCents: body.ValueCents,
		CompanyID:  idwrap.NewTextMust(body.CompanyID),
		ContactID:  idwrap.NewTextMust(body.ContactID),
		StageID:    idwrap.NewTextMust(body.StageID),
	}
	if err := h.ds.Create(r.Context(), &deal); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	api.PublishChange(h.stream, "deal", deal.ID, eventstream.ChangeCreate)
	rjson.Write(w, http.StatusCreated, serialize(deal))
}

func (h *DealRPC) List(w http.ResponseWriter, r *http.Request) {
	var (
		deals []mdeal.Deal
		err   error
	)
	if raw := r.URL.Query().Get("stageId"); raw != "" {
		stageID, idErr := idwrap.NewText(raw)
		if idErr != nil {
			rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
			return
		}
		deals, err = h.ds.ListByStage(r.Context(), stageID)
	} else {
		deals, err = h.ds.List(r.Context())
	}
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}

	if source := r.URL.Query().Get("filter"); source != "" {
		filter, err := gridfilter.Compile(source)
		if err != nil {
			rjson.WriteError(w, err, "")
			return
		}
		matched := deals[:0]
		for _, d := range deals {
			ok, err := filter.Match(map[string]any{
				"title":      d.Title,
				"valueCents": d.ValueCents,
				"status":     d.Status().String(),
				"stageId":    d.StageID.String(),
			})
			if err != nil {
				rjson.WriteError(w, err, "")
				return
			}
			if ok {
				matched = append(matched, d)
			}
		}
		deals = matched
	}

	out := make([]dealResponse, len(deals))
	for i, d := range deals {
		out[i] = serialize(d)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *DealRPC) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	deal, err := h.ds.Get(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Negócio não encontrado")
		return
	}
	rjson.Write(w, http.StatusOK, serialize(deal))
}

func (h *DealRPC) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var body dealBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkBody(body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	deal, err := h.ds.Get(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Negócio não encontrado")
		return
	}
	deal.Title = body.Title
	deal.ValueCents = body.ValueCents
	deal.CompanyID = idwrap.NewTextMust(body.CompanyID)
	deal.ContactID = idwrap.NewTextMust(body.ContactID)
	if err := h.ds.Update(r.Context(), &deal); err != nil {
		rjson.WriteError(w, err, "Negócio não encontrado")
		return
	}
	api.PublishChange(h.stream, "deal", id, eventstream.ChangeUpdate)
	rjson.Write(w, http.StatusOK, serialize(deal))
}

type moveRequest struct {
	StageID string `json:"stageId"`
}

// Move puts the deal in another stage. The target stage must exist; a stale
// board dragging onto a deleted stage gets a 404 it can roll back from.
func (h *DealRPC) Move(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var req moveRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	stageID, err := idwrap.NewText(req.StageID)
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}

	if err := h.ds.MoveToStage(r.Context(), id, stageID); err != nil {
		if errors.Is(err, sdeal.ErrNoStageFound) {
			rjson.Error(w, http.StatusNotFound, "Estágio não encontrado")
			return
		}
		rjson.WriteError(w, err, "Negócio não encontrado")
		return
	}
	api.PublishChange(h.stream, "deal", id, eventstream.ChangeUpdate)
	rjson.Success(w)
}

func (h *DealRPC) Win(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.ds.Win(r.Context(), id); err != nil {
		if errors.Is(err, sdeal.ErrDealClosed) {
			rjson.Error(w, http.StatusConflict, "Negócio já está fechado")
			return
		}
		rjson.WriteError(w, err, "Negócio não encontrado")
		return
	}
	api.PublishChange(h.stream, "deal", id, eventstream.ChangeUpdate)
	rjson.Success(w)
}

type loseRequest struct {
	LostReasonID string `json:"lostReasonId"`
}

func (h *DealRPC) Lose(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var req loseRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	reasonID, err := idwrap.NewText(req.LostReasonID)
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Motivo de perda é obrigatório")
		return
	}

	if err := h.ds.Lose(r.Context(), id, reasonID); err != nil {
		switch {
		case errors.Is(err, sdeal.ErrDealClosed):
			rjson.Error(w, http.StatusConflict, "Negócio já está fechado")
		case errors.Is(err, sdeal.ErrLossReasonNeeded):
			rjson.Error(w, http.StatusBadRequest, "Motivo de perda é obrigatório")
		default:
			rjson.WriteError(w, err, "Negócio não encontrado")
		}
		return
	}
	api.PublishChange(h.stream, "deal", id, eventstream.ChangeUpdate)
	rjson.Success(w)
}

func (h *DealRPC) Reopen(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.ds.Reopen(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Negócio não encontrado")
		return
	}
	api.PublishChange(h.stream, "deal", id, eventstream.ChangeUpdate)
	rjson.Success(w)
}

func (h *DealRPC) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.ds.Delete(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Negócio não encontrado")
		return
	}
	api.PublishChange(h.stream, "deal", id, eventstream.ChangeDelete)
	rjson.Success(w)
}
