//nolint:revive // exported
package rhealth

import (
	"database/sql"
	"net/http"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/pkg/rjson"
)

type HealthRPC struct {
	db *sql.DB
}

func New(db *sql.DB) *HealthRPC {
	return &HealthRPC{db: db}
}

// Services registers the unauthenticated liveness route.
func (h *HealthRPC) Services() []api.Service {
	return []api.Service{
		{Path: "GET /api/health", Handler: http.HandlerFunc(h.Check)},
	}
}

func (h *HealthRPC) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		rjson.Error(w, http.StatusServiceUnavailable, "Banco de dados indisponível")
		return
	}
	rjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}
