package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskd/pkg/auth"
	"github.com/taskhive/taskd/pkg/models"
	"github.com/taskhive/taskd/pkg/store/memory"
)

func newAuthFixture(t *testing.T) (*AuthMiddleware, *auth.Sessions, *memory.Store) {
	t.Helper()
	st := memory.New()
	sessions := auth.NewSessions(auth.NewMemorySessionStore(), time.Hour)
	return NewAuthMiddleware(sessions, st.Users()), sessions, st
}

func echoIdentity(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var seen string
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		seen = user.ID
		w.WriteHeader(http.StatusOK)
	}), &seen
}

func TestAuthMiddleware(t *testing.T) {
	ctx := context.Background()
	mw, sessions, st := newAuthFixture(t)
	require.NoError(t, st.Users().Create(ctx, &models.User{ID: "u1", Username: "alice", Email: "a@example.com"}))

	token, err := sessions.Issue(ctx, "u1")
	require.NoError(t, err)

	t.Run("valid token resolves identity", func(t *testing.T) {
		handler, seen := echoIdentity(t)
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		mw.Handler(handler).ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", *seen)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mw.Handler(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer nonsense")
		mw.Handler(http.NotFoundHandler()).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("session for a deleted user is unauthorized", func(t *testing.T) {
		orphan, err := sessions.Issue(ctx, "ghost")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+orphan)
		mw.Handler(http.NotFoundHandler()).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "user no longer exists")
	})

	t.Run("revoked token is unauthorized", func(t *testing.T) {
		require.NoError(t, sessions.Revoke(ctx, token))

		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		mw.Handler(http.NotFoundHandler()).ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
