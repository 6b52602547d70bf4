package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskhive/taskd/pkg/httputil"
	"github.com/taskhive/taskd/pkg/tasks"
)

// TaskHandlers serves the owner-scoped task endpoints.
type TaskHandlers struct {
	tasks TaskService
}

// NewTaskHandlers creates a TaskHandlers.
func NewTaskHandlers(tasks TaskService) *TaskHandlers {
	return &TaskHandlers{tasks: tasks}
}

// RegisterRoutes mounts the task routes on the given router.
func (h *TaskHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tasks", h.Create).Methods("POST")
	router.HandleFunc("/tasks", h.List).Methods("GET")
	router.HandleFunc("/tasks/{id}", h.Get).Methods("GET")
	router.HandleFunc("/tasks/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/tasks/{id}", h.Delete).Methods("DELETE")
}

// Create stores a new task owned by the requester.
func (h *TaskHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req tasks.CreateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	task, err := h.tasks.Create(r.Context(), user.ID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, "Task created successfully", task)
}

// List returns the requester's tasks, newest first.
func (h *TaskHandlers) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	list, err := h.tasks.List(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, list, len(list))
}

// Get returns a single owned task.
func (h *TaskHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), id, user.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, task)
}

// Update changes the supplied fields on an owned task.
func (h *TaskHandlers) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}
	var req tasks.UpdateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	task, err := h.tasks.Update(r.Context(), id, user.ID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Task updated successfully", task)
}

// Delete removes an owned task.
func (h *TaskHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), id, user.ID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Task deleted successfully", nil)
}
