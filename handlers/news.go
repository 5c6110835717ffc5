package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"reelhouse/models"
	"reelhouse/services/news"
)

type newsService interface {
	CreateNewsroom(ctx context.Context, actor *models.User, in news.NewsroomInput) (*models.Newsroom, error)
	Newsroom(ctx context.Context, id string) (*models.Newsroom, error)
	Newsrooms(ctx context.Context) ([]models.Newsroom, error)
	CreatePost(ctx context.Context, actor *models.User, newsroomID string, in news.PostInput) (*models.NewsPost, error)
	Post(ctx context.Context, id string) (*models.NewsPost, error)
	Posts(ctx context.Context, q models.NewsQuery) ([]models.NewsPost, error)
	UpdatePost(ctx context.Context, actor *models.User, id string, in news.PostInput) (*models.NewsPost, error)
	DeletePost(ctx context.Context, actor *models.User, id string) error
	AddComment(ctx context.Context, actor *models.User, postID string, in news.CommentInput) (*models.Comment, error)
	Comments(ctx context.Context, postID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, actor *models.User, id string) error
}

var _ newsService = (*news.Service)(nil)

// NewsHandler serves newsrooms, posts and comments.
type NewsHandler struct {
	Service newsService
}

func NewNewsHandler(s newsService) *NewsHandler {
	return &NewsHandler{Service: s}
}

// GET /api/newsrooms
func (h *NewsHandler) ListNewsrooms(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Newsrooms(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateNewsroom is limited to filmmakers, reviewers and admins.
// POST /api/newsrooms
func (h *NewsHandler) CreateNewsroom(w http.ResponseWriter, r *http.Request) {
	var in news.NewsroomInput
	if !decodeJSON(w, r, &in) {
		return
	}
	n, err := h.Service.CreateNewsroom(r.Context(), userFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// GET /api/newsrooms/{id}
func (h *NewsHandler) GetNewsroom(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.Newsroom(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// GET /api/newsrooms/{id}/posts
func (h *NewsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Posts(r.Context(), models.NewsQuery{
		NewsroomID: mux.Vars(r)["id"],
		Limit:      queryInt(r, "limit"),
		Offset:     queryInt(r, "offset"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/newsrooms/{id}/posts
func (h *NewsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in news.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.Service.CreatePost(r.Context(), userFromContext(r.Context()), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GET /api/news/{id}
func (h *NewsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Post(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PUT /api/news/{id}
func (h *NewsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var in news.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.Service.UpdatePost(r.Context(), userFromContext(r.Context()), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DELETE /api/news/{id}
func (h *NewsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePost(r.Context(), userFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/news/{id}/comments
func (h *NewsHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Comments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /api/news/{id}/comments
func (h *NewsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in news.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Service.AddComment(r.Context(), userFromContext(r.Context()), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// DELETE /api/comments/{id}
func (h *NewsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteComment(r.Context(), userFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
