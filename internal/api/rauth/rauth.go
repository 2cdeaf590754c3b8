//nolint:revive // exported
package rauth

import (
	"errors"
	"net/http"
	"time"

	"github.com/funil-crm/funil/internal/api"
	"github.com/funil-crm/funil/internal/api/middleware/mwauth"
	"github.com/funil-crm/funil/pkg/rjson"
	"github.com/funil-crm/funil/pkg/service/suser"
	"github.com/funil-crm/funil/pkg/stoken"
	"github.com/funil-crm/funil/pkg/validate"
)

type AuthRPC struct {
	users    suser.UserService
	secret   []byte
	tokenTTL time.Duration
}

func New(users suser.UserService, secret []byte, tokenTTL time.Duration) *AuthRPC {
	return &AuthRPC{users: users, secret: secret, tokenTTL: tokenTTL}
}

// Services returns the public auth routes plus the authenticated /me route.
func (h *AuthRPC) Services(auth api.Middleware) []api.Service {
	return []api.Service{
		{Path: "POST /api/auth/register", Handler: http.HandlerFunc(h.Register)},
		{Path: "POST /api/auth/login", Handler: http.HandlerFunc(h.Login)},
		{Path: "POST /api/auth/forgot-password", Handler: http.HandlerFunc(h.ForgotPassword)},
		{Path: "POST /api/auth/reset-password", Handler: http.HandlerFunc(h.ResetPassword)},
		{Path: "GET /api/auth/me", Handler: auth(http.HandlerFunc(h.Me))},
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *AuthRPC) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	var v validate.Violations
	validate.Required(&v, "name", req.Name, "Nome é obrigatório")
	validate.Required(&v, "email", req.Email, "E-mail é obrigatório")
	validate.Email(&v, "email", req.Email)
	if len(req.Password) < 8 {
		v.Add("password", "Senha deve ter pelo menos 8 caracteres")
	}
	if err := v.AsError(); err != nil {
		rjson.WriteViolations(w, v)
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		rjson.Error(w, http.StatusConflict, "E-mail já cadastrado")
		return
	}
	rjson.Write(w, http.StatusCreated, userResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthRPC) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, suser.ErrBadCredentials) {
			rjson.Error(w, http.StatusUnauthorized, "E-mail ou senha incorretos")
			return
		}
		rjson.WriteError(w, err, "")
		return
	}
	token, err := stoken.New(user.ID, h.secret, time.Now(), h.tokenTTL)
	if err != nil {
		rjson.WriteError(w, err, "")
		return
	}
	rjson.Write(w, http.StatusOK, map[string]any{
		"token": token,
		"user": userResponse{
			ID:    user.ID.String(),
			Email: user.Email,
			Name:  user.Name,
		},
	})
}

type forgotRequest struct {
	Email string `json:"email"`
}

// ForgotPassword always acknowledges so the route cannot be used to probe
// which emails exist.
func (h *AuthRPC) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	_, _ = h.users.StartPasswordReset(r.Context(), req.Email)
	rjson.Success(w)
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthRPC) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := rjson.Decode(r, &req); err != nil {
		rjson.Error(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if len(req.Password) < 8 {
		rjson.Error(w, http.StatusBadRequest, "Senha deve ter pelo menos 8 caracteres")
		return
	}
	if err := h.users.FinishPasswordReset(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, suser.ErrResetTokenNotValid) {
			rjson.Error(w, http.StatusBadRequest, "Token inválido ou expirado")
			return
		}
		rjson.WriteError(w, err, "")
		return
	}
	rjson.Success(w)
}

func (h *AuthRPC) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := mwauth.GetContextUserID(r.Context())
	if err != nil {
		rjson.Error(w, http.StatusUnauthorized, "Não autenticado")
		return
	}
	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		rjson.WriteError(w, err, "Usuário não encontrado")
		return
	}
	rjson.Write(w, http.StatusOK, userResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	})
}
