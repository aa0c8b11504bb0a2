package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-api/internal/domains/access"
	"bookstore-api/pkg/jwt"
)

type stubLoader map[uuid.UUID]*access.Actor

func (s stubLoader) LoadActor(_ context.Context, id uuid.UUID) (*access.Actor, error) {
	if id == brokenUserID {
		return nil, errors.New("db down")
	}
	a, ok := s[id]
	if !ok {
		return nil, access.ErrUnauthenticated
	}
	return a, nil
}

var brokenUserID = uuid.New()

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		if a := GetActor(c); a != nil {
			c.String(http.StatusOK, a.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/", handlers...)
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := jwt.NewManager("test-secret", time.Hour)
	alice := &access.Actor{UserID: uuid.New(), Username: "alice"}
	loader := stubLoader{alice.UserID: alice}

	valid, _, err := tokens.GenerateAccessToken(alice.UserID.String(), "alice")
	require.NoError(t, err)
	ghost, _, err := tokens.GenerateAccessToken(uuid.NewString(), "ghost")
	require.NoError(t, err)
	broken, _, err := tokens.GenerateAccessToken(brokenUserID.String(), "broken")
	require.NoError(t, err)
	foreign, _, err := jwt.NewManager("other-secret", time.Hour).GenerateAccessToken(alice.UserID.String(), "alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"valid", "Bearer " + valid, http.StatusOK, "alice"},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, "alice"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"bad format", "Token " + valid, http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, ""},
		{"deleted user", "Bearer " + ghost, http.StatusUnauthorized, ""},
		{"loader failure", "Bearer " + broken, http.StatusInternalServerError, ""},
	}

	r := newEngine(AuthMiddleware(tokens, loader))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.header)
			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	tokens := jwt.NewManager("test-secret", time.Hour)
	alice := &access.Actor{UserID: uuid.New(), Username: "alice"}
	r := newEngine(OptionalAuthMiddleware(tokens, stubLoader{alice.UserID: alice}))

	w := get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	valid, _, err := tokens.GenerateAccessToken(alice.UserID.String(), "alice")
	require.NoError(t, err)
	w = get(r, "Bearer "+valid)
	assert.Equal(t, "alice", w.Body.String())

	w = get(r, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	withActor := func(a *access.Actor) gin.HandlerFunc {
		return func(c *gin.Context) {
			if a != nil {
				c.Set(ActorKey, a)
			}
			c.Next()
		}
	}

	w := get(newEngine(withActor(nil), AdminMiddleware()), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(newEngine(withActor(&access.Actor{Username: "bob"}), AdminMiddleware()), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(newEngine(withActor(&access.Actor{Username: "root", IsAdmin: true}), AdminMiddleware()), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "root", w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := get(r, "")
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "client-id-1", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := get(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SYS_001")
}
