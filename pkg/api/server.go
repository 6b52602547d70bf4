// Package api wires the HTTP surface: route registration, handler structs,
// and translation between transport and the core services.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/taskhive/taskd/pkg/auth"
	"github.com/taskhive/taskd/pkg/httputil"
	"github.com/taskhive/taskd/pkg/middleware"
	"github.com/taskhive/taskd/pkg/observability"
	"github.com/taskhive/taskd/pkg/store"
)

// Server is the top-level HTTP handler.
type Server struct {
	router *mux.Router
}

// Deps carries everything the server needs.
type Deps struct {
	Store    store.Store
	Sessions *auth.Sessions
	Users    UserService
	Projects ProjectService
	Tasks    TaskService
	Labels   LabelService
	Logger   logrus.FieldLogger
	Metrics  *observability.Metrics
}

// NewServer builds the router. Auth register/login are public; everything
// else runs behind bearer authentication.
func NewServer(deps Deps) *Server {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		router.Use(middleware.RequestMetrics(deps.Metrics))
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	authHandlers := NewAuthHandlers(deps.Users, deps.Sessions)
	api.HandleFunc("/auth/register", authHandlers.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandlers.Login).Methods("POST")

	authMW := middleware.NewAuthMiddleware(deps.Sessions, deps.Store.Users())
	protected := api.NewRoute().Subrouter()
	protected.Use(authMW.Handler)

	protected.HandleFunc("/auth/me", authHandlers.Me).Methods("GET")
	protected.HandleFunc("/auth/logout", authHandlers.Logout).Methods("GET")

	NewProjectHandlers(deps.Projects).RegisterRoutes(protected)
	NewTaskHandlers(deps.Tasks).RegisterRoutes(protected)
	NewLabelHandlers(deps.Labels).RegisterRoutes(protected)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteErrorMessage(w, http.StatusNotFound, "route not found")
	})

	return &Server{router: router}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
