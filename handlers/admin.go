package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelhouse/models"
	"reelhouse/services/users"
)

type userAdminService interface {
	Search(ctx context.Context, q models.UserQuery) ([]models.User, error)
	SetRole(ctx context.Context, actorID, userID string, role models.Role) (*models.User, error)
	Delete(ctx context.Context, actorID, userID string) error
	ResetPassword(ctx context.Context, userID string) (string, error)
}

var _ userAdminService = (*users.Service)(nil)

// statsSource is implemented by both storage backends.
type statsSource interface {
	Stats(ctx context.Context) (models.Stats, error)
}

// AdminHandler provides the admin dashboard endpoints. Routes are mounted behind Authenticator.Admin.
type AdminHandler struct {
	users userAdminService
	stats statsSource
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(u userAdminService, stats statsSource) *AdminHandler {
	return &AdminHandler{users: u, stats: stats}
}

// ListUsers returns all accounts with contact details.
// GET /api/admin/users?search=&role=&limit=&offset=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.users.Search(r.Context(), models.UserQuery{
		Search: strings.TrimSpace(q.Get("search")),
		Role:   models.Role(strings.TrimSpace(q.Get("role"))),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SetRole changes the role of a user.
// PUT /api/admin/users/{id}/role
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role models.Role `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.users.SetRole(r.Context(), viewerID(r), mux.Vars(r)["id"], req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), viewerID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetPassword sets a generated password and returns it once.
// POST /api/admin/users/{id}/reset-password
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	pw, err := h.users.ResetPassword(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"password": pw})
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.stats.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
