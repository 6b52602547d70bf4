package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskhive/taskd/pkg/httputil"
	"github.com/taskhive/taskd/pkg/labels"
)

// LabelHandlers serves the user-scoped label endpoints.
type LabelHandlers struct {
	labels LabelService
}

// NewLabelHandlers creates a LabelHandlers.
func NewLabelHandlers(labels LabelService) *LabelHandlers {
	return &LabelHandlers{labels: labels}
}

// RegisterRoutes mounts the label routes on the given router.
func (h *LabelHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/labels", h.Create).Methods("POST")
	router.HandleFunc("/labels", h.List).Methods("GET")
	router.HandleFunc("/labels/{id}", h.Get).Methods("GET")
	router.HandleFunc("/labels/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/labels/{id}", h.Delete).Methods("DELETE")
}

// Create stores a new label for the requester.
func (h *LabelHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req labels.CreateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	label, err := h.labels.Create(r.Context(), user.ID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, "Label created successfully", label)
}

// List returns the requester's labels sorted by name.
func (h *LabelHandlers) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	list, err := h.labels.List(r.Context(), user.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, list, len(list))
}

// Get returns a single owned label.
func (h *LabelHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	label, err := h.labels.Get(r.Context(), id, user.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, label)
}

// Update changes the supplied fields on an owned label.
func (h *LabelHandlers) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}
	var req labels.UpdateRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	label, err := h.labels.Update(r.Context(), id, user.ID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Label updated successfully", label)
}

// Delete removes an owned label.
func (h *LabelHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := httputil.PathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.labels.Delete(r.Context(), id, user.ID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Label deleted successfully", nil)
}
