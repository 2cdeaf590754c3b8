//nolint:revive // exported
package rstage

import (
	"errors"
	"net/http"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/pkg/eventstream"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/rjson"
	"github.com/funil-crm/funil/pkg/service/sstage"
	"github.com/funil-crm/funil/pkg/validate"
)

type StageRPC struct {
	ss     sstage.StageService
	stream api.Streamer
}

func New(ss sstage.StageService, stream api.Streamer) *StageRPC {
	return &StageRPC{ss: ss, stream: stream}
}

func (h *StageRPC) Services(auth api.Middleware) []api.Service {
	return []api.Service{
		{Path: "PUT /api/stages/{id}", Handler: auth(http.HandlerFunc(h.Update))},
		{Path: "DELETE /api/stages/{id}", Handler: auth(http.HandlerFunc(h.Delete))},
	}
}

type stageBody struct {
	Name string `json:"name"`
}

func (h *StageRPC) Update(w http.ResponseWriter, r *http.Request) {
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

	stage, err := h.ss.Get(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Estágio não encontrado")
		return
	}
	stage.Name = body.Name
	if err := h.ss.Update(r.Context(), &stage); err != nil {
		rjson.WriteError(w, err, "Estágio não encontrado")
		return
	}
	api.PublishChange(h.stream, "stage", id, eventstream.ChangeUpdate)
	rjson.Write(w, http.StatusOK, map[string]any{
		"id":         stage.ID.String(),
		"pipelineId": stage.PipelineID.String(),
		"name":       stage.Name,
		"order":      stage.Order,
	})
}

// Delete refuses to remove a stage that still holds deals; the client must
// move them first.
func (h *StageRPC) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.ss.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sstage.ErrStageHasDeals) {
			rjson.Error(w, http.StatusConflict, "Estágio possui negócios; mova-os antes de excluir")
			return
		}
		rjson.WriteError(w, err, "Estágio não encontrado")
		return
	}
	api.PublishChange(h.stream, "stage", id, eventstream.ChangeDelete)
	rjson.Success(w)
}
