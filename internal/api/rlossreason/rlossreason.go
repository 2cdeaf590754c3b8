//nolint:revive // exported
package rlossreason

import (
	"net/http"
	"time"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/pkg/eventstream"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mlossreason"
	"github.com/funil-crm/funil/pkg/ordered"
	"github.com/funil-crm/funil/pkg/rjson"
	"github.com/funil-crm/funil/pkg/service/slossreason"
	"github.com/funil-crm/funil/pkg/validate"
)

type LossReasonRPC struct {
	ls     slossreason.LossReasonService
	mover  *ordered.Manager
	stream api.Streamer
}

func New(ls slossreason.LossReasonService, mover *ordered.Manager, stream api.Streamer) *LossReasonRPC {
	return &LossReasonRPC{ls: ls, mover: mover, stream: stream}
}

func (h *LossReasonRPC) Services(auth api.Middleware) []api.Service {
	return []api.Service{
		{Path: "GET /api/lost-reasons", Handler: auth(http.HandlerFunc(h.List))},
		{Path: "POST /api/lost-reasons", Handler: auth(http.HandlerFunc(h.Create))},
		{Path: "PUT /api/lost-reasons/{id}", Handler: auth(http.HandlerFunc(h.Update))},
		{Path: "DELETE /api/lost-reasons/{id}", Handler: auth(http.HandlerFunc(h.Delete))},
		{Path: "POST /api/lost-reasons/reorder", Handler: auth(http.HandlerFunc(h.Reorder))},
	}
}

type reasonBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type reasonResponse struct {
	ID string `json:"id"`
	reasonBody
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func serialize(l mlossreason.LossReason) reasonResponse {
	return reasonResponse{
		ID:        l.ID.String(),
		reasonBody: reasonBody{
			Name:        l.Name,
			Description: l.Description,
		},
		Order:     l.Order,
		CreatedAt: l.GetCreatedTime(),
		UpdatedAt: l.Updated,
	}
}

func (h *LossReasonRPC) Create(w http.ResponseWriter, r *http.Request) {
	var body reasonBody
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

	reason := mlossreason.LossReason{Name: body.Name, Description: body.Description}
	if err := h.ls.Create(r.Context(), &reason); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	api.PublishChange(h.stream, "lossReason", reason.ID, eventstream.ChangeCreate)
	rjson.Write(w, http.StatusCreated, serialize(reason))
}

func (h *LossReasonRPC) List(w http.ResponseWriter, r *http.Request) {
	reasons, err := h.ls.List(r.Context())
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	out := make([]reasonResponse, len(reasons))
	for i, l := range reasons {
		out[i] = serialize(l)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *LossReasonRPC) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var body reasonBody
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

	reason, err := h.ls.Get(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Motivo de perda não encontrado")
		return
	}
	reason.Name = body.Name
	reason.Description = body.Description
	if err := h.ls.Update(r.Context(), &reason); err != nil {
		rjson.WriteError(w, err, "Motivo de perda não encontrado")
		return
	}
	api.PublishChange(h.stream, "lossReason", id, eventstream.ChangeUpdate)
	rjson.Write(w, http.StatusOK, serialize(reason))
}

func (h *LossReasonRPC) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.ls.Delete(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Motivo de perda não encontrado")
		return
	}
	api.PublishChange(h.stream, "lossReason", id, eventstream.ChangeDelete)
	rjson.Success(w)
}

type reorderRequest struct {
	LossReasonID string `json:"lossReasonId"`
	NewIndex     int    `json:"newIndex"`
}

func (h *LossReasonRPC) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	id, err := idwrap.NewText(req.LossReasonID)
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if _, err := h.ls.Get(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Motivo de perda não encontrado")
		return
	}
	if _, err := h.mover.Move(r.Context(), h.ls.MovableRepo(), idwrap.IDWrap{}, id, req.NewIndex); err != nil {
		api.WriteReorderError(w, err, "Motivo de perda não encontrado")
		return
	}
	api.PublishChange(h.stream, "lossReason", id, eventstream.ChangeReorder)
	rjson.Success(w)
}
