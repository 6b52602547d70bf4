package api

import (
	"net/http"

	"github.com/taskhive/taskd/pkg/auth"
	"github.com/taskhive/taskd/pkg/httputil"
	"github.com/taskhive/taskd/pkg/middleware"
)

// AuthHandlers handles registration, login, and session management.
type AuthHandlers struct {
	users    UserService
	sessions *auth.Sessions
}

// NewAuthHandlers creates an AuthHandlers.
func NewAuthHandlers(users UserService, sessions *auth.Sessions) *AuthHandlers {
	return &AuthHandlers{users: users, sessions: sessions}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and opens a session.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteToken(w, http.StatusCreated, token)
}

// Login verifies credentials and opens a session.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteToken(w, http.StatusOK, token)
}

// Me returns the authenticated account.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httputil.WriteErrorMessage(w, http.StatusUnauthorized, "not authorized to access this route")
		return
	}

	user, err := h.users.Get(r.Context(), identity.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, user)
}

// Logout revokes the session behind the presented token.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := httputil.BearerToken(r)
	if err != nil {
		httputil.WriteErrorMessage(w, http.StatusUnauthorized, "not authorized to access this route")
		return
	}

	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, struct{}{})
}
