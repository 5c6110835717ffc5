package handlers

//go:generate mockgen -source=movies.go -destination=movies_mock_test.go -package=handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelhouse/models"
	"reelhouse/services/metadata"
	"reelhouse/utils/filter"
)

type movieService interface {
	Discover(ctx context.Context, query string, f models.Filter, page int) models.DiscoverResult
	Details(ctx context.Context, mediaType string, id int64) (*models.MovieDetails, error)
	WikiSummary(ctx context.Context, title string) (*models.WikiSummary, error)
}

var _ movieService = (*metadata.Service)(nil)

// MoviesHandler exposes aggregated discovery, title details and Wikipedia summaries.
type MoviesHandler struct {
	Service movieService
}

func NewMoviesHandler(s movieService) *MoviesHandler {
	return &MoviesHandler{Service: s}
}

// Discover runs the aggregator. Upstream failures yield an empty result, never an error.
// GET /api/movies/discover?query=&page=&genre=&sort=&yearFrom=&yearTo=&language=&ratingMin=&ratingMax=&category=
func (h *MoviesHandler) Discover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(r, "page")
	if page < 1 {
		page = 1
	}
	query := strings.TrimSpace(q.Get("query"))
	if query == "" {
		query = strings.TrimSpace(q.Get("q"))
	}

	res := h.Service.Discover(r.Context(), query, filter.FromQuery(q), page)
	writeJSON(w, http.StatusOK, res)
}

// Details returns one movie or TV show.
// GET /api/movies/{mediaType}/{id}
func (h *MoviesHandler) Details(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := parseID(w, vars["id"])
	if !ok {
		return
	}
	d, err := h.Service.Details(r.Context(), vars["mediaType"], id)
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Wiki returns the Wikipedia summary for a title.
// GET /api/movies/wiki?title=
func (h *MoviesHandler) Wiki(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.WikiSummary(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// upstreamError reports provider failures as 502. Transport errors are logged since the provider never answered.
func (h *MoviesHandler) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrInvalidInput) || errors.Is(err, models.ErrNotFound) {
		writeError(w, r, err)
		return
	}
	if !metadata.IsUpstreamError(err) {
		log.Printf("[movies] %s %s: %v", r.Method, r.URL.Path, err)
	}
	jsonError(w, "upstream provider failed: "+err.Error(), http.StatusBadGateway)
}
