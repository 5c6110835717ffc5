package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"reelhouse/models"
	"reelhouse/services/reviews"
)

type reviewService interface {
	Create(ctx context.Context, authorID string, in models.ReviewInput) (*models.Review, error)
	Get(ctx context.Context, id string) (*models.Review, error)
	List(ctx context.Context, q models.ReviewQuery) ([]models.Review, error)
	Update(ctx context.Context, actorID, id string, in models.ReviewInput) (*models.Review, error)
	Delete(ctx context.Context, actor *models.User, id string) error
}

var _ reviewService = (*reviews.Service)(nil)

// ReviewsHandler serves movie reviews.
type ReviewsHandler struct {
	Service reviewService
}

func NewReviewsHandler(s reviewService) *ReviewsHandler {
	return &ReviewsHandler{Service: s}
}

// List filters reviews by movie and author.
// GET /api/reviews?movieId=&mediaType=&authorId=&limit=&offset=
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.ReviewQuery{
		MediaType: strings.TrimSpace(q.Get("mediaType")),
		AuthorID:  strings.TrimSpace(q.Get("authorId")),
		Limit:     queryInt(r, "limit"),
		Offset:    queryInt(r, "offset"),
	}
	if raw := strings.TrimSpace(q.Get("movieId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			jsonError(w, "invalid movieId", http.StatusBadRequest)
			return
		}
		query.MovieID = id
	}
	out, err := h.Service.List(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/reviews
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.ReviewInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rv, err := h.Service.Create(r.Context(), viewerID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

// GET /api/reviews/{id}
func (h *ReviewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

// PUT /api/reviews/{id}
func (h *ReviewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.ReviewInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rv, err := h.Service.Update(r.Context(), viewerID(r), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

// DELETE /api/reviews/{id}
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), userFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
