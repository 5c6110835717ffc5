package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"reelhouse/models"
	"reelhouse/services/lists"
)

type listService interface {
	Create(ctx context.Context, ownerID string, in lists.Input) (*models.List, error)
	Get(ctx context.Context, viewerID, id string) (*models.List, error)
	ForUser(ctx context.Context, viewerID, userID string) ([]models.List, error)
	Update(ctx context.Context, actorID, id string, upd models.ListUpdate) (*models.List, error)
	Delete(ctx context.Context, actorID, id string) error
	AddMovie(ctx context.Context, actorID, id string, e models.ListEntry) (*models.List, error)
	RemoveMovie(ctx context.Context, actorID, id, mediaType string, movieID int64) (*models.List, error)
}

var _ listService = (*lists.Service)(nil)

// ListsHandler serves user-curated lists.
type ListsHandler struct {
	Service listService
}

func NewListsHandler(s listService) *ListsHandler {
	return &ListsHandler{Service: s}
}

// Mine returns the caller's lists including private ones.
// GET /api/lists
func (h *ListsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	id := viewerID(r)
	out, err := h.Service.ForUser(r.Context(), id, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ForUser returns the lists of a user; private lists only for the owner.
// GET /api/users/{id}/lists
func (h *ListsHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.ForUser(r.Context(), viewerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/lists
func (h *ListsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in lists.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	l, err := h.Service.Create(r.Context(), viewerID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// GET /api/lists/{id}
func (h *ListsHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.Service.Get(r.Context(), viewerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// PUT /api/lists/{id}
func (h *ListsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd models.ListUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	l, err := h.Service.Update(r.Context(), viewerID(r), mux.Vars(r)["id"], upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// DELETE /api/lists/{id}
func (h *ListsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), viewerID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMovie appends a movie; adding one already present is a 409.
// POST /api/lists/{id}/movies
func (h *ListsHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	var e models.ListEntry
	if !decodeJSON(w, r, &e) {
		return
	}
	l, err := h.Service.AddMovie(r.Context(), viewerID(r), mux.Vars(r)["id"], e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// DELETE /api/lists/{id}/movies/{mediaType}/{movieId}
func (h *ListsHandler) RemoveMovie(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	movieID, ok := parseID(w, vars["movieId"])
	if !ok {
		return
	}
	l, err := h.Service.RemoveMovie(r.Context(), viewerID(r), vars["id"], vars["mediaType"], movieID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}
