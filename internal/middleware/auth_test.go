package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/vidly/internal/auth"
)

func newTestAuth(t *testing.T) (*AuthMiddleware, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", 0)
	return NewAuthMiddleware(tokens, nil), tokens
}

func issue(t *testing.T, tokens *auth.TokenManager, admin bool) (auth.Identity, string) {
	t.Helper()
	id := auth.Identity{UserID: uuid.New(), IsAdmin: admin}
	token, err := tokens.Issue(id, time.Now())
	require.NoError(t, err)
	return id, token
}

func TestAuthMiddleware_WithValidToken(t *testing.T) {
	m, tokens := newTestAuth(t)
	want, token := issue(t, tokens, false)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity not in context")
		}
		if id != want {
			t.Fatalf("identity from context = %+v, want %+v", id, want)
		}
	})

	for _, setHeader := range []func(r *http.Request){
		func(r *http.Request) { r.Header.Set(TokenHeader, token) },
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
	} {
		nextCalled = false
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		setHeader(r)

		m.Middleware(next).ServeHTTP(httptest.NewRecorder(), r)

		if !nextCalled {
			t.Fatalf("next handler was not called")
		}
	}
}

func TestAuthMiddleware_WithoutToken(t *testing.T) {
	m, _ := newTestAuth(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)

	m.Middleware(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. No token provided.", w.Body.String())
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	m, _ := newTestAuth(t)
	other := auth.NewTokenManager("other-secret", 0)
	_, foreign := issue(t, other, true)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	for _, token := range []string{"garbage", foreign} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.Header.Set(TokenHeader, token)

		m.Middleware(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token.", w.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	m, tokens := newTestAuth(t)
	_, userToken := issue(t, tokens, false)
	_, adminToken := issue(t, tokens, true)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := m.Middleware(m.RequireAdmin(ok))

	tests := []struct {
		name   string
		token  string
		status int
		body   string
	}{
		{"missing token wins over admin check", "", http.StatusUnauthorized, "Access denied. No token provided."},
		{"non admin", userToken, http.StatusForbidden, "Access denied."},
		{"admin", adminToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodDelete, "/api/genres/x", nil)
			if tt.token != "" {
				r.Header.Set(TokenHeader, tt.token)
			}

			chain.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestRequireAdmin_WithoutIdentity(t *testing.T) {
	m, _ := newTestAuth(t)
	w := httptest.NewRecorder()

	m.RequireAdmin(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetAuthHeader(t *testing.T) {
	w := httptest.NewRecorder()
	SetAuthHeader(w, "abc")

	assert.Equal(t, "abc", w.Header().Get(TokenHeader))
	assert.Equal(t, TokenHeader, w.Header().Get("Access-Control-Expose-Headers"))
}
