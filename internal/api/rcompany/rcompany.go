//nolint:revive // exported
package rcompany

import (
	"net/http"
	"time"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/internal/api/middleware/mwcompress"
	"github.com/funil-crm/funil/internal/api/rcontact"
	"github.com/funil-crm/funil/internal/api/rinteraction"
	"github.com/funil-crm/funil/pkg/eventstream"
	"github.com/funil-crm/funil/pkg/fuzzyfinder"
	"github.com/funil-crm/funil/pkg/gridfilter"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mcompany"
	"github.com/funil-crm/funil/pkg/rjson"
	"github.com/funil-crm/funil/pkg/service/scompany"
	"github.com/funil-crm/funil/pkg/service/scontact"
	"github.com/funil-crm/funil/pkg/service/sdeal"
	"github.com/funil-crm/funil/pkg/service/sinteraction"
	"github.com/funil-crm/funil/pkg/validate"
)

type CompanyRPC struct {
	cs       scompany.CompanyService
	contacts scontact.ContactService
	deals    sdeal.DealService
	notes    sinteraction.InteractionService
	stream   api.Streamer
}

func New(cs scompany.CompanyService, contacts scontact.ContactService,
	deals sdeal.DealService, notes sinteraction.InteractionService,
	stream api.Streamer,
) *CompanyRPC {
	return &CompanyRPC{cs: cs, contacts: contacts, deals: deals, notes: notes, stream: stream}
}

func (h *CompanyRPC) Services(auth api.Middleware) []api.Service {
	return []api.Service{
		{Path: "GET /api/companies", Handler: auth(mwcompress.New(http.HandlerFunc(h.List)))},
		{Path: "POST /api/companies", Handler: auth(http.HandlerFunc(h.Create))},
		{Path: "GET /api/companies/{id}", Handler: auth(mwcompress.New(http.HandlerFunc(h.Get)))},
		{Path: "GET /api/companies/{id}/contacts", Handler: auth(http.HandlerFunc(h.ListContacts))},
		{Path: "GET /api/companies/{id}/interactions", Handler: auth(http.HandlerFunc(h.ListInteractions))},
		{Path: "PUT /api/companies/{id}", Handler: auth(http.HandlerFunc(h.Update))},
		{Path: "DELETE /api/companies/{id}", Handler: auth(http.HandlerFunc(h.Delete))},
	}
}

type addressBody struct {
	Cep        *string `json:"cep"`
	Street     *string `json:"street"`
	Number     *string `json:"number"`
	Complement *string `json:"complement"`
	District   *string `json:"district"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalBox  *string `json:"postalBox"`
}

type companyBody struct {
	Name         string           `json:"name"`
	LegalName    string           `json:"legalName"`
	Cnpj         *string          `json:"cnpj"`
	Website      *string          `json:"website"`
	Phones       []mcompany.Phone `json:"phones"`
	Emails       []mcompany.Email `json:"emails"`
	Address      addressBody      `json:"address"`
	CustomValues map[string]any   `json:"customValues"`
}

type companyResponse struct {
	ID string `json:"id"`
	companyBody
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func serialize(c mcompany.Company) companyResponse {
	return companyResponse{
		ID: c.ID.String(),
		companyBody: companyBody{
			Name:      c.Name,
			LegalName: c.LegalName,
			Cnpj:      c.Cnpj,
			Website:   c.Website,
			Phones:    c.Phones,
			Emails:    c.Emails,
			Address: addressBody{
				Cep:        c.Address.Cep,
				Street:     c.Address.Street,
				Number:     c.Address.Number,
				Complement: c.Address.Complement,
				District:   c.Address.District,
				City:       c.Address.City,
				State:      c.Address.State,
				PostalBox:  c.Address.PostalBox,
			},
			CustomValues: c.CustomValues,
		},
		CreatedAt: c.GetCreatedTime(),
		UpdatedAt: c.Updated,
	}
}

// checkBody validates and normalizes the payload in place: masks applied,
// website prefixed.
func checkBody(body *companyBody) validate.Violations {
	var v validate.Violations
	validate.Required(&v, "name", body.Name, "Nome é obrigatório")
	if body.Cnpj != nil && *body.Cnpj != "" {
		masked := validate.CNPJMask(*body.Cnpj)
		validate.CNPJ(&v, "cnpj", masked)
		body.Cnpj = &masked
	}
	if body.Website != nil && *body.Website != "" {
		normalized := validate.NormalizeWebsite(*body.Website)
		validate.Website(&v, "website", normalized)
		body.Website = &normalized
	}
	for i := range body.Phones {
		body.Phones[i].Number = validate.PhoneMask(body.Phones[i].Number)
		validate.Phone(&v, "phones", body.Phones[i].Number)
	}
	for _, email := range body.Emails {
		validate.Email(&v, "emails", email.Address)
	}
	if body.Address.Cep != nil && *body.Address.Cep != "" {
		masked := validate.CEPMask(*body.Address.Cep)
		validate.CEP(&v, "cep", masked)
		body.Address.Cep = &masked
	}
	return v
}

func toModel(body companyBody) mcompany.Company {
	return mcompany.Company{
		Name:      body.Name,
		LegalName: body.LegalName,
		Cnpj:      body.Cnpj,
		Website:   body.Website,
		Phones:    body.Phones,
		Emails:    body.Emails,
		Address: mcompany.Address{
			Cep:        body.Address.Cep,
			Street:     body.Address.Street,
			Number:     body.Address.Number,
			Complement: body.Address.Complement,
			District:   body.Address.District,
			City:       body.Address.City,
			State:      body.Address.State,
			PostalBox:  body.Address.PostalBox,
		},
		CustomValues: body.CustomValues,
	}
}

func (h *CompanyRPC) Create(w http.ResponseWriter, r *http.Request) {
	var body companyBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkBody(&body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	company := toModel(body)
	if err := h.cs.Create(r.Context(), &company); err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	api.PublishChange(h.stream, "company", company.ID, eventstream.ChangeCreate)
	rjson.Write(w, http.StatusCreated, serialize(company))
}

// List supports two optional query parameters: q fuzzy-matches the company
// name accent-insensitively, filter is a boolean expression over the row
// (name, legalName, city, state).
func (h *CompanyRPC) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.cs.List(r.Context())
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}

	if query := r.URL.Query().Get("q"); query != "" {
		names := make([]string, len(companies))
		for i, c := range companies {
			names[i] = c.Name
		}
		ranks := fuzzyfinder.RankFindNormalized(names, query)
		matched := make([]mcompany.Company, 0, len(ranks))
		for _, rank := range ranks {
			matched = append(matched, companies[rank.OriginalIndex])
		}
		companies = matched
	}

	if source := r.URL.Query().Get("filter"); source != "" {
		filter, err := gridfilter.Compile(source)
		if err != nil {
			rjson.WriteError(w, err, "")
			return
		}
		matched := companies[:0]
		for _, c := range companies {
			row := map[string]any{
				"name":      c.Name,
				"legalName": c.LegalName,
			}
			if c.Address.City != nil {
				row["city"] = *c.Address.City
			}
			if c.Address.State != nil {
				row["state"] = *c.Address.State
			}
			ok, err := filter.Match(row)
			if err != nil {
				rjson.WriteError(w, err, "")
				return
			}
			if ok {
				matched = append(matched, c)
			}
		}
		companies = matched
	}

	out := make([]companyResponse, len(companies))
	for i, c := range companies {
		out[i] = serialize(c)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *CompanyRPC) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	company, err := h.cs.Get(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "Empresa não encontrada")
		return
	}

	contacts, err := h.contacts.ListByCompany(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	deals, err := h.deals.ListByCompany(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	interactions, err := h.notes.ListByCompany(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}

	contactIDs := make([]string, len(contacts))
	for i, c := range contacts {
		contactIDs[i] = c.ID.String()
	}
	dealIDs := make([]string, len(deals))
	for i, d := range deals {
		dealIDs[i] = d.ID.String()
	}
	interactionIDs := make([]string, len(interactions))
	for i, n := range interactions {
		interactionIDs[i] = n.ID.String()
	}

	rjson.Write(w, http.StatusOK, map[string]any{
		"company":        serialize(company),
		"contactIds":     contactIDs,
		"dealIds":        dealIDs,
		"interactionIds": interactionIDs,
	})
}

// ListContacts returns the contacts linked to a single company, full records
// rather than the id list that Get carries.
func (h *CompanyRPC) ListContacts(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if _, err := h.cs.Get(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Empresa não encontrada")
		return
	}
	contacts, err := h.contacts.ListByCompany(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	out := make([]rcontact.Response, len(contacts))
	for i, c := range contacts {
		out[i] = rcontact.Serialize(c)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *CompanyRPC) ListInteractions(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if _, err := h.cs.Get(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Empresa não encontrada")
		return
	}
	interactions, err := h.notes.ListByCompany(r.Context(), id)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	out := make([]rinteraction.Response, len(interactions))
	for i, n := range interactions {
		out[i] = rinteraction.Serialize(n)
	}
	rjson.Write(w, http.StatusOK, out)
}

func (h *CompanyRPC) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var body companyBody
	if err := rjson.Decode(r, &body); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if v := checkBody(&body); len(v) > 0 {
		rjson.WriteViolations(w, v)
		return
	}

	company := toModel(body)
	company.ID = id
	if err := h.cs.Update(r.Context(), &company); err != nil {
		rjson.WriteError(w, err, "Empresa não encontrada")
		return
	}
	api.PublishChange(h.stream, "company", id, eventstream.ChangeUpdate)
	rjson.Write(w, http.StatusOK, serialize(company))
}

func (h *CompanyRPC) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idwrap.NewText(r.PathValue("id"))
	if err != nil {
		rjson.Error(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.cs.Delete(r.Context(), id); err != nil {
		rjson.WriteError(w, err, "Empresa não encontrada")
		return
	}
	api.PublishChange(h.stream, "company", id, eventstream.ChangeDelete)
	rjson.Success(w)
}
