// Package middleware содержит HTTP middleware сервиса проката видео.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/vidly/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenHeader: заголовок, в котором клиент передаёт токен и в котором
// сервер возвращает его при регистрации.
const TokenHeader = "x-auth-token"

const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid token."
	msgForbidden    = "Access denied."
	msgInternal     = "Internal server error."
)

// AuthMiddleware проверяет подписанный токен и права администратора.
type AuthMiddleware struct {
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным менеджером токенов.
func NewAuthMiddleware(tokens *auth.TokenManager, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		tokens: tokens,
		logger: logger,
	}
}

// Middleware проверяет токен запроса и добавляет личность пользователя в контекст.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, msgNoToken)
			return
		}

		id, err := a.tokens.Parse(token)
		if err != nil {
			a.logger.Debug("token rejected", zap.Error(err))
			writeMessage(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireAdmin пропускает только администраторов. Должен стоять после Middleware.
func (a *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			a.logger.Error("admin check without identity", zap.String("path", r.URL.Path))
			writeMessage(w, http.StatusUnauthorized, msgNoToken)
			return
		}
		if !id.IsAdmin {
			writeMessage(w, http.StatusForbidden, msgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetAuthHeader возвращает клиенту токен в заголовке x-auth-token.
func SetAuthHeader(w http.ResponseWriter, token string) {
	w.Header().Set(TokenHeader, token)
	w.Header().Add("Access-Control-Expose-Headers", TokenHeader)
}

// WithIdentity сохраняет личность пользователя в контексте.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext извлекает личность пользователя из контекста запроса.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

func tokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
