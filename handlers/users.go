package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelhouse/models"
	"reelhouse/services/users"
)

type profileService interface {
	Get(ctx context.Context, id string) (*models.User, error)
	Search(ctx context.Context, q models.UserQuery) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	Followers(ctx context.Context, userID string) ([]models.User, error)
	Following(ctx context.Context, userID string) ([]models.User, error)
}

var _ profileService = (*users.Service)(nil)

// UsersHandler serves the user directory, profiles and follow edges.
type UsersHandler struct {
	Service profileService
}

func NewUsersHandler(s profileService) *UsersHandler {
	return &UsersHandler{Service: s}
}

func publicUsers(in []models.User) []models.User {
	out := make([]models.User, len(in))
	for i, u := range in {
		out[i] = u.Public()
	}
	return out
}

// Search lists users by username or display name.
// GET /api/users?search=&role=&limit=&offset=
func (h *UsersHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Service.Search(r.Context(), models.UserQuery{
		Search: strings.TrimSpace(q.Get("search")),
		Role:   models.Role(strings.TrimSpace(q.Get("role"))),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUsers(out))
}

// GET /api/users/{id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	u, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if id != viewerID(r) {
		*u = u.Public()
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateMe edits the caller's profile.
// PUT /api/users/me
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	u, err := h.Service.UpdateProfile(r.Context(), viewerID(r), upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// POST /api/users/{id}/follow
func (h *UsersHandler) Follow(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Follow(r.Context(), viewerID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/users/{id}/follow
func (h *UsersHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Unfollow(r.Context(), viewerID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/users/{id}/followers
func (h *UsersHandler) Followers(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Followers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUsers(out))
}

// GET /api/users/{id}/following
func (h *UsersHandler) Following(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Following(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUsers(out))
}
