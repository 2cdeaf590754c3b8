//nolint:revive // exported
package mwauth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/rjson"
	"github.com/funil-crm/funil/pkg/stoken"
)

type ContextKey int

const (
	UserIDKeyCtx ContextKey = iota
)

var ErrNoUserInContext = errors.New("mwauth: no user in context")

func CreateAuthedContext(ctx context.Context, userID idwrap.IDWrap) context.Context {
	return context.WithValue(ctx, UserIDKeyCtx, userID)
}

func GetContextUserID(ctx context.Context) (idwrap.IDWrap, error) {
	userID, ok := ctx.Value(UserIDKeyCtx).(idwrap.IDWrap)
	if !ok {
		return idwrap.IDWrap{}, ErrNoUserInContext
	}
	return userID, nil
}

// New wraps next with bearer-token authentication. Requests without a valid
// token get a 401 with the standard error envelope.
func New(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				rjson.Error(w, http.StatusUnauthorized, "Não autenticado")
				return
			}
			userID, err := stoken.Validate(raw, secret)
			if err != nil {
				rjson.Error(w, http.StatusUnauthorized, "Sessão inválida ou expirada")
				return
			}
			next.ServeHTTP(w, r.WithContext(CreateAuthedContext(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
