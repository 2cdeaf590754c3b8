package rcompany

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/pkg/eventstream/memory"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mcontact"
	"github.com/funil-crm/funil/pkg/service/scompany"
	"github.com/funil-crm/funil/pkg/service/scontact"
	"github.com/funil-crm/funil/pkg/service/sdeal"
	"github.com/funil-crm/funil/pkg/service/sinteraction"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
	"github.com/funil-crm/funil/pkg/sqlitemem"
)

func newMux(t *testing.T) (*http.ServeMux, func()) {
	t.Helper()
	db, cleanup, err := sqlitemem.NewSQLiteMem(context.Background())
	require.NoError(t, err)

	queries := gen.New(db)
	stream := memory.NewSyncStreamer[api.ChangeTopic, api.Change]()
	handler := New(
		scompany.New(queries),
		scontact.New(queries),
		sdeal.New(queries),
		sinteraction.New(queries),
		stream,
	)

	noauth := func(next http.Handler) http.Handler { return next }
	mux := http.NewServeMux()
	for _, svc := range handler.Services(noauth) {
		mux.Handle(svc.Path, svc.Handler)
	}
	return mux, func() {
		stream.Shutdown()
		cleanup()
	}
}

func do(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateCompanyValidation(t *testing.T) {
	mux, cleanup := newMux(t)
	defer cleanup()

	rec := do(t, mux, http.MethodPost, "/api/companies", map[string]any{
		"name": "",
		"cnpj": "123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Dados inválidos", body["error"])
	fields := body["fields"].(map[string]any)
	assert.Equal(t, "Nome é obrigatório", fields["name"])
	assert.Equal(t, "CNPJ inválido", fields["cnpj"])
}

func TestCreateCompanyAppliesMasks(t *testing.T) {
	mux, cleanup := newMux(t)
	defer cleanup()

	rec := do(t, mux, http.MethodPost, "/api/companies", map[string]any{
		"name":    "Acme Indústria",
		"cnpj":    "12345678000195",
		"website": "acme.com.br",
		"phones":  []map[string]string{{"label": "Comercial", "number": "11987654321"}},
		"address": map[string]any{"cep": "01310100"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "12.345.678/0001-95", body["cnpj"])
	assert.Equal(t, "https://acme.com.br", body["website"])
	phones := body["phones"].([]any)
	require.Len(t, phones, 1)
	assert.Equal(t, "(11) 98765-4321", phones[0].(map[string]any)["number"])
	assert.Equal(t, "01310-100", body["address"].(map[string]any)["cep"])
}

func TestListCompaniesFuzzySearch(t *testing.T) {
	mux, cleanup := newMux(t)
	defer cleanup()

	for _, name := range []string{"Indústrias São João", "Acme Ltda", "Transportes Rápido"} {
		rec := do(t, mux, http.MethodPost, "/api/companies", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// Accent-insensitive match.
	rec := do(t, mux, http.MethodGet, "/api/companies?q=sao+joao", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var companies []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &companies))
	require.Len(t, companies, 1)
	assert.Equal(t, "Indústrias São João", companies[0]["name"])
}

func TestGetCompanyWithRelated(t *testing.T) {
	mux, cleanup := newMux(t)
	defer cleanup()

	rec := do(t, mux, http.MethodPost, "/api/companies", map[string]any{"name": "Acme Ltda"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody(t, rec)["id"].(string)

	rec = do(t, mux, http.MethodGet, "/api/companies/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Acme Ltda", body["company"].(map[string]any)["name"])
	assert.Empty(t, body["contactIds"])
	assert.Empty(t, body["dealIds"])
}

func TestDeleteCompany(t *testing.T) {
	mux, cleanup := newMux(t)
	defer cleanup()

	rec := do(t, mux, http.MethodPost, "/api/companies", map[string]any{"name": "Acme Ltda"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody(t, rec)["id"].(string)

	rec = do(t, mux, http.MethodDelete, "/api/companies/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	rec = do(t, mux, http.MethodGet, "/api/companies/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Empresa não encontrada", decodeBody(t, rec)["error"])
}

func TestListCompanyContacts(t *testing.T) {
	db, cleanup, err := sqlitemem.NewSQLiteMem(context.Background())
	require.NoError(t, err)
	defer cleanup()

	queries := gen.New(db)
	contacts := scontact.New(queries)
	handler := New(scompany.New(queries), contacts, sdeal.New(queries), sinteraction.New(queries), nil)

	noauth := func(next http.Handler) http.Handler { return next }
	mux := http.NewServeMux()
	for _, svc := range handler.Services(noauth) {
		mux.Handle(svc.Path, svc.Handler)
	}

	rec := do(t, mux, http.MethodPost, "/api/companies", map[string]any{"name": "Acme Ltda"})
	require.Equal(t, http.StatusCreated, rec.Code)
	companyID := decodeBody(t, rec)["id"].(string)

	id, err := idwrap.NewText(companyID)
	require.NoError(t, err)
	contact := mcontact.Contact{Name: "Ana Souza", CompanyID: &id}
	require.NoError(t, contacts.Create(context.Background(), &contact))

	rec = do(t, mux, http.MethodGet, "/api/companies/"+companyID+"/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Ana Souza", out[0]["name"])
	assert.Equal(t, companyID, out[0]["companyId"])

	rec = do(t, mux, http.MethodGet, "/api/companies/"+idwrap.NewNow().String()+"/contacts", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Empresa não encontrada", decodeBody(t, rec)["error"])
}
