package auth

import (
	"encoding/json"
	"net/http"

	"github.com/billed-app/bill-service/internal"
	"github.com/billed-app/bill-service/internal/transport"
	"github.com/billed-app/bill-service/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	ValidateAccessToken(token string) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     service,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Login: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		h.WriteError(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout exists so the front-end has something to call; sessions are
// stateless tokens, there is nothing to invalidate server-side.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware resolves the bearer token to an employee email and puts it
// on the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		email, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok {
				h.WriteError(w, appErr.StatusCode, appErr.Message)
				return
			}
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := internal.ContextWithEmail(r.Context(), email)
		ctx = logger.With(ctx, "email", email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
