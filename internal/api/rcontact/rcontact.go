//nolint:revive // exported
package rcontact

import (
	"net/http"
	"time"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/internal/api/middleware/mwcompress"
	"github.com/funil-crm/funil/pkg/eventstream"
	"github.com/funil-crm/funil/pkg/fuzzyfinder"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mcompany"
	"github.com/funil-crm/funil/pkg/model/mcontact"
	"github.com/funil-crm/funil/pkg/rjson"
	"github.com/funil-crm/funil/pkg/service/scontact"
	"github.com/funil-crm/funil/pkg/validate"
)

type ContactRPC struct {
	cs     scontact.ContactService
	stream api.Streamer
}

func New(cs scontact.ContactService, stream api.Streamer) *ContactRPC {
	return &ContactRPC{cs: cs, stream: stream}
}

func (h *ContactRPC) Services(auth api.Middleware) []api.Service {
	return []api.Service{
		{Path: "GET /api/contacts", Handler: auth(mwcompress.New(http.HandlerFunc(h.List)))},
		{Path: "POST /api/contacts", Handler: auth(http.HandlerFunc(h.Create))},
		{Path: "GET /api/contacts/{id}", Handler: auth(http.HandlerFunc(h.Get))},
		{Path: "PUT /api/contacts/{id}", Handler: auth(http.HandlerFunc(h.Update))},
		{Path: "DELETE /api/contacts/{id}", Handler: auth(http.HandlerFunc(h.Delete))},
		{Path: "POST /api/contacts/{id}/dissociate", Handler: auth(http.HandlerFunc(h.Dissociate))},
	}
}

type contactBody struct {
	Name         string           `json:"name"`
	Position     *string          `json:"position"`
	CompanyID    *string          `json:"companyId"`
	Phones       []mcompany.Phone `json:"phones"`
	Emails       []mcompany.Email `json:"emails"`
	CustomValues map[string]any   `json:"customValues"`
}

type Response struct {
	ID string `json:"id"`
	contactBody
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Serialize converts a contact into its API representation. Exported so the
// company handlers can embed contacts in nested listings.
func Serialize(c mcontact.Contact) Response {
	var companyID *string
	if c.CompanyID != nil {
		s := c.CompanyID.String()
		companyID = &s
	}
	return Response{
		ID: c.ID.String(),
		contactBody: contactBody{
			Name:         c.Name,
			Position:     c.Position,
			CompanyID:    companyID,
			Phones:       c.Phones,
			Emails:       c.Emails,
			CustomValues: c.CustomValues,
		},
		CreatedAt: c.GetCreatedTime(),
		UpdatedAt: c.Updated,
	}
}

func checkBody(body *contactBody) (v validate.Violations) {
	validate.Required(&v, "name", body.Name, "Nome é obrigatório")
	for i := range body.Phones {
		body.Phones[i].Number = validate.PhoneMask(body.Phones[i].Number)
		validate.Phone(&v, "phones", body.Phones[i].Number)
	}
	for _, email := range body.Emails {
		validate.Email(&v, "emails", email.Address)
	}
	if body.CompanyID != nil && *body.CompanyID != "" {
		if _, err := idwrap.NewText(*body.CompanyID); err != nil {
			v.Add("companyId", "Empresa inválida")
		}
	}
	return v
}

func toModel(body contactBody) mcontact.Contact {
	contact := mcontact.Contact{
		Name:         body.Name,
		Position:     body.Position,
		Phones:       body.Phones,
		Emails:       body.Emails,
		CustomValues: body.CustomValues,
	}
	if body.CompanyID != nil && *body.CompanyID != "" {
		id := idwrap.NewTextMust(*body.CompanyID)
		contact.CompanyID = &id
	}
	return contact
}

func (h *ContactRPC) Create(w http.ResponseWriter, r *http.Request) {
	var body contactBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkBody(&body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	contact := toModel(body)
	if err := h.cs.Create(r.Context(), &contact); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	api.PublishChange(h.stream, "contact", contact.ID, eventstream.ChangeCreate)
	rjson.Write(w, http.StatusCreated, Serialize(contact))
}

func (h *ContactRPC) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.cs.List(r.Context())
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}

	if query := r.URL.Query().Get("q"); query != "" {
		names := make([]string, len(contacts))
		for i, c := range contacts {
			names[i] = c.Name
		}
		ranks := fuzzyfinder.RankFindNormalized(names, query)
		matched := make([]mcontact.Contact, 0, len(ranks))
		for _, rank := range ranks {
			matched = append(matched, contacts[rank.OriginalIndex])
		}
		contacts = matched
	}

	out := make([]Response, len(contacts))
	for i, c := range contacts {
		out[i] = Serialize(c)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *ContactRPC) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	contact, err := h.cs.Get(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Contato não encontrado")
		return
	}
	rjson.Write(w, http.StatusOK, Serialize(contact))
}

func (h *ContactRPC) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var body contactBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkBody(&body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	contact := toModel(body)
	contact.ID = id
	if err := h.cs.Update(r.Context(), &contact); err != nil {
		rjson.WriteError(w, err, "Contato não encontrado")
		return
	}
	api.PublishChange(h.stream, "contact", id, eventstream.ChangeUpdate)
	rjson.Write(w, http.StatusOK, Serialize(contact))
}

// Dissociate detaches the contact from its company without deleting it.
func (h *ContactRPC) Dissociate(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.cs.Dissociate(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Contato não encontrado")
		return
	}
	api.PublishChange(h.stream, "contact", id, eventstream.ChangeUpdate)
	rjson.Success(w)
}

func (h *ContactRPC) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.cs.Delete(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Contato não encontrado")
		return
	}
	api.PublishChange(h.stream, "contact", id, eventstream.ChangeDelete)
	rjson.Success(w)
}
