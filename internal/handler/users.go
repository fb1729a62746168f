package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/vidly/internal/middleware"
	"github.com/mmeshcher/vidly/internal/model"
)

const pingTimeout = 2 * time.Second

type userResponse struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Login проверяет email и пароль и возвращает токен доступа текстом.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in model.Credentials
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.service.Authenticate(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, token)
}

// Register регистрирует пользователя и возвращает токен в заголовке x-auth-token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	u, token, err := h.service.RegisterUser(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	middleware.SetAuthHeader(w, token)
	h.writeJSON(w, http.StatusOK, userResponse{ID: u.ID, Name: u.Name, Email: u.Email})
}

// Me возвращает текущего пользователя без хеша пароля.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeText(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	u, err := h.service.GetUser(r.Context(), id.UserID)
	h.respond(w, r, u, err)
}

// Health сообщает, доступно ли хранилище.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		writeText(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	writeText(w, http.StatusOK, "ok")
}
