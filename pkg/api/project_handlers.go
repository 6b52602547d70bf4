package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskhive/taskd/pkg/access"
	"github.com/taskhive/taskd/pkg/httputil"
	"github.com/taskhive/taskd/pkg/middleware"
	"github.com/taskhive/taskd/pkg/models"
)

// ProjectHandlers serves the project endpoints, including membership.
type ProjectHandlers struct {
	projects ProjectService
}

// NewProjectHandlers creates a ProjectHandlers.
func NewProjectHandlers(projects ProjectService) *ProjectHandlers {
	return &ProjectHandlers{projects: projects}
}

// RegisterRoutes mounts the project routes on the given router.
func (h *ProjectHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/projects", h.Create).Methods("POST")
	router.HandleFunc("/projects", h.List).Methods("GET")
	router.HandleFunc("/projects/{id}", h.Get).Methods("GET")
	router.HandleFunc("/projects/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/projects/{id}", h.Delete).Methods("DELETE")
	router.HandleFunc("/projects/{id}/members", h.AddMember).Methods("PUT")
	router.HandleFunc("/projects/{id}/members/{memberId}", h.RemoveMember).Methods("DELETE")
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	MemberID string `json:"member_id"`
}

type memberListResponse struct {
	Members []string `json:"members"`
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httputil.WriteErrorMessage(w, http.StatusUnauthorized, "not authorized to access this route")
		return nil, false
	}
	return user, true
}

// Create makes a new project owned by the requester.
func (h *ProjectHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req createProjectRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	project, err := h.projects.CreateProject(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, "Project created successfully", project)
}

// List returns every project the requester owns or belongs to.
func (h *ProjectHandlers) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	projects, err := h.projects.ListProjects(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, projects, len(projects))
}

// Get returns a single project the requester can access.
func (h *ProjectHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	project, err := h.projects.GetProject(r.Context(), id, user.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, project)
}

// Update applies a role-filtered update to a project.
func (h *ProjectHandlers) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}
	var update access.ProjectUpdate
	if !httputil.ParseJSONOrError(w, r, &update) {
		return
	}

	project, err := h.projects.UpdateProject(r.Context(), id, user.ID, update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Project updated successfully", project)
}

// Delete removes a project and its tasks. Owner only.
func (h *ProjectHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(r.Context(), id, user.ID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Project and associated tasks deleted successfully", nil)
}

// AddMember adds an existing user to the project's member list. Owner only.
func (h *ProjectHandlers) AddMember(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}
	var req addMemberRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	members, err := h.projects.AddMember(r.Context(), id, user.ID, req.MemberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Member added successfully", memberListResponse{Members: members})
}

// RemoveMember drops a member from the project. Owner only; the owner
// themselves cannot be removed.
func (h *ProjectHandlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := httputil.PathStringOrError(w, r, "memberId")
	if !ok {
		return
	}

	members, err := h.projects.RemoveMember(r.Context(), id, user.ID, memberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Member removed successfully", memberListResponse{Members: members})
}
