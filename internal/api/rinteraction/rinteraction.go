//nolint:revive // exported
package rinteraction

import (
	"net/http"
	"time"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/pkg/eventstream"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/minteraction"
	"github.com/funil-crm/funil/pkg/rjson"
	"github.com/funil-crm/funil/pkg/service/sinteraction"
	"github.com/funil-crm/funil/pkg/validate"
)

type InteractionRPC struct {
	is     sinteraction.InteractionService
	stream api.Streamer
}

func New(is sinteraction.InteractionService, stream api.Streamer) *InteractionRPC {
	return &InteractionRPC{is: is, stream: stream}
}

func (h *InteractionRPC) Services(auth api.Middleware) []api.Service {
	return []api.Service{
		{Path: "GET /api/interactions", Handler: auth(http.HandlerFunc(h.List))},
		{Path: "POST /api/interactions", Handler: auth(http.HandlerFunc(h.Create))},
		{Path: "PUT /api/interactions/{id}", Handler: auth(http.HandlerFunc(h.Update))},
		{Path: "DELETE /api/interactions/{id}", Handler: auth(http.HandlerFunc(h.Delete))},
	}
}

type interactionBody struct {
	CompanyID  string     `json:"companyId"`
	ContactID  *string    `json:"contactId"`
	DealID     *string    `json:"dealId"`
	Kind       string     `json:"kind"`
	Body       string     `json:"body"`
	OccurredAt *time.Time `json:"occurredAt"`
}

type Response struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	ContactID  *string   `json:"contactId"`
	DealID     *string   `json:"dealId"`
	Kind       string    `json:"kind"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurredAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Serialize converts an interaction into its API representation.
func Serialize(n minteraction.Interaction) Response {
	var contactID, dealID *string
	if n.ContactID != nil {
		s := n.ContactID.String()
		contactID = &s
	}
	if n.DealID != nil {
		s := n.DealID.String()
		dealID = &s
	}
	return Response{
		ID:         n.ID.String(),
		CompanyID:  n.CompanyID.String(),
		ContactID:  contactID,
		DealID:     dealID,
		Kind:       n.Kind,
		Body:       n.Body,
		OccurredAt: n.OccurredAt,
		CreatedAt:  n.GetCreatedTime(),
		UpdatedAt:  n.Updated,
	}
}

func checkBody(body interactionBody) (v validate.Violations) {
	validate.Required(&v, "body", body.Body, "Descrição é obrigatória")
	if !minteraction.ValidKind(body.Kind) {
		v.Add("kind", "Tipo de interação inválido")
	}
	if body.CompanyID == "" {
		v.Add("companyId", "Campo obrigatório")
	} else if _, err := idwrap.NewText(body.CompanyID); err != nil {
		v.Add("companyId", "Identificador inválido")
	}
	for field, raw := range map[string]*string{
		"contactId": body.ContactID,
		"dealId":    body.DealID,
	} {
		if raw == nil || *raw == "" {
			continue
		}
		if _, err := idwrap.NewText(*raw); err != nil {
			v.Add(field, "Identificador inválido")
		}
	}
	return v
}

func toModel(body interactionBody) minteraction.Interaction {
	n := minteraction.Interaction{
		CompanyID: idwrap.NewTextMust(body.CompanyID),
		Kind:      body.Kind,
		Body:      body.Body,
	}
	if body.ContactID != nil && *body.ContactID != "" {
		id := idwrap.NewTextMust(*body.ContactID)
		n.ContactID = &id
	}
	if body.DealID != nil && *body.DealID != "" {
		id := idwrap.NewTextMust(*body.DealID)
		n.DealID = &id
	}
	if body.OccurredAt != nil {
		n.OccurredAt = *body.OccurredAt
	}
	return n
}

func (h *InteractionRPC) Create(w http.ResponseWriter, r *http.Request) {
	var body interactionBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkBody(body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	interaction := toModel(body)
	if err := h.is.Create(r.Context(), &interaction); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	api.PublishChange(h.stream, "interaction", interaction.ID, eventstream.ChangeCreate)
	rjson.Write(w, http.StatusCreated, Serialize(interaction))
}

// List requires either companyId or dealId; the timeline always hangs off
// one of the two.
func (h *InteractionRPC) List(w http.ResponseWriter, r *http.Request) {
	var (
		interactions []minteraction.Interaction
		err          error
	)
	switch {
	case r.URL.Query().Get("companyId") != "":
		companyID, idErr := idwrap.NewText(r.URL.Query().Get("companyId"))
		if idErr != nil {
			rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
			return
		}
		interactions, err = h.is.ListByCompany(r.Context(), companyID)
	case r.URL.Query().Get("dealId") != "":
		dealID, idErr := idwrap.NewText(r.URL.Query().Get("dealId"))
		if idErr != nil {
			rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
			return
		}
		interactions, err = h.is.ListByDeal(r.Context(), dealID)
	default:
		rjson.Error(w, http.StatusBadRequest, "Informe companyId ou dealId")
		return
	}
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	out := make([]Response, len(interactions))
	for i, n := range interactions {
		out[i] = Serialize(n)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *InteractionRPC) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var body interactionBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkBody(body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	interaction, err := h.is.Get(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Interação não encontrada")
		return
	}
	interaction.Kind = body.Kind
	interaction.Body = body.Body
	if body.OccurredAt != nil {
		interaction.OccurredAt = *body.OccurredAt
	}
	if err := h.is.Update(r.Context(), &interaction); err != nil {
		rjson.WriteError(w, err, "Interação não encontrada")
		return
	}
	api.PublishChange(h.stream, "interaction", id, eventstream.ChangeUpdate)
	rjson.Write(w, http.StatusOK, Serialize(interaction))
}

func (h *InteractionRPC) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.is.Delete(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Interação não encontrada")
		return
	}
	api.PublishChange(h.stream, "interaction", id, eventstream.ChangeDelete)
	rjson.Success(w)
}
