// Package middleware provides HTTP middleware: bearer authentication,
// request logging, and request metrics.
package middleware

import (
	"context"
	"net/http"

	"github.com/taskhive/taskd/pkg/apperr"
	"github.com/taskhive/taskd/pkg/auth"
	"github.com/taskhive/taskd/pkg/httputil"
	"github.com/taskhive/taskd/pkg/models"
	"github.com/taskhive/taskd/pkg/store"
)

// contextKey is the type for context keys to prevent collisions.
type contextKey string

// identityKey carries the authenticated *models.User.
const identityKey contextKey = "identity"

// AuthMiddleware resolves bearer tokens to user identities and attaches
// them to the request context. Handlers then pass the identity explicitly
// into the core services; nothing below the handler reads it ambiently.
type AuthMiddleware struct {
	sessions *auth.Sessions
	users    store.UserStore
}

// NewAuthMiddleware creates an authentication middleware.
func NewAuthMiddleware(sessions *auth.Sessions, users store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, users: users}
}

// Handler wraps next with bearer authentication.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := httputil.BearerToken(r)
		if err != nil {
			httputil.WriteErrorMessage(w, http.StatusUnauthorized, "not authorized to access this route")
			return
		}

		userID, err := m.sessions.Resolve(r.Context(), token)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		// The session may outlive the account.
		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			if apperr.IsNotFound(err) {
				httputil.WriteErrorMessage(w, http.StatusUnauthorized, "user no longer exists, not authorized")
				return
			}
			httputil.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFrom extracts the authenticated user from the request context.
func IdentityFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(identityKey).(*models.User)
	return user, ok
}

// WithIdentity returns a context carrying user. Used by tests.
func WithIdentity(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}
