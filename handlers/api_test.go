package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelhouse/internal/database"
	"reelhouse/models"
	"reelhouse/services/auth"
	"reelhouse/services/lists"
	"reelhouse/services/news"
	"reelhouse/services/reviews"
	"reelhouse/services/users"
	"reelhouse/utils"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
	users  *users.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(t.TempDir(), "api.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	userSvc := users.NewService(db.Users)
	r := utils.NewRouter()
	Register(r, API{
		Auth:    NewAuthenticator(tokens, userSvc),
		Session: NewAuthHandler(tokens, userSvc),
		Movies:  NewMoviesHandler(nil),
		Lists:   NewListsHandler(lists.NewService(db.Lists)),
		Reviews: NewReviewsHandler(reviews.NewService(db.Reviews)),
		Users:   NewUsersHandler(userSvc),
		News:    NewNewsHandler(news.NewService(db.News)),
		Admin:   NewAdminHandler(userSvc, db),
	})
	return &testAPI{t: t, router: r, users: userSvc}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user over HTTP and returns its id and token.
func (a *testAPI) signup(username string) (string, string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp sessionResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	id, token := api.signup("cinephile")

	rec := api.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[models.User](t, rec)
	assert.Equal(t, id, me.ID)
	assert.Equal(t, "cinephile@example.com", me.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", "bogus", nil).Code)

	rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"login": "cinephile", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[sessionResponse](t, rec).Token)

	rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"login": "cinephile", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "cinephile", "email": "again@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPost, "/api/auth/register", "", map[string]any{"username": "x", "unknown": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "longpass", "email": "longpass@example.com", "password": strings.Repeat("a", 73),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	ownerID, owner := api.signup("owner")
	_, stranger := api.signup("stranger")

	rec := api.do(http.MethodPost, "/api/lists", owner, map[string]any{"name": "Secret Stash", "private": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	secret := decode[models.List](t, rec)
	assert.Equal(t, "secret-stash", secret.Slug)

	rec = api.do(http.MethodPost, "/api/lists", owner, map[string]any{"name": "Open Shelf"})
	require.Equal(t, http.StatusCreated, rec.Code)
	open := decode[models.List](t, rec)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/lists/"+secret.ID, stranger, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/lists/"+secret.ID, "", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/lists/"+secret.ID, owner, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/lists/"+open.ID, "", nil).Code)

	rec = api.do(http.MethodGet, "/api/users/"+ownerID+"/lists", stranger, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.List](t, rec), 1)

	rec = api.do(http.MethodGet, "/api/lists", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.List](t, rec), 2)

	entry := map[string]any{"movieId": 129, "mediaType": "movie", "title": "Spirited Away", "posterPath": "/39wmItIWsg5sZMyRUHLkWBcuVCM.jpg"}
	rec = api.do(http.MethodPost, "/api/lists/"+open.ID+"/movies", owner, entry)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[models.List](t, rec).Entries, 1)

	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/lists/"+open.ID+"/movies", owner, entry).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/lists/"+open.ID+"/movies", stranger, entry).Code)

	rec = api.do(http.MethodPut, "/api/lists/"+open.ID, owner, map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodDelete, "/api/lists/"+open.ID+"/movies/movie/129", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.List](t, rec).Entries)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/lists/"+open.ID, stranger, nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/lists/"+open.ID, owner, nil).Code)
}

func TestReviewsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	_, author := api.signup("author")
	_, other := api.signup("other")

	body := map[string]any{"movieId": 496243, "mediaType": "movie", "rating": 9.5, "category": "masterpiece", "body": "Layered and furious."}
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/reviews", "", body).Code)

	rec := api.do(http.MethodPost, "/api/reviews", author, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rv := decode[models.Review](t, rec)

	bad := map[string]any{"movieId": 496243, "mediaType": "movie", "rating": 11, "category": "masterpiece", "body": "x"}
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/reviews", author, bad).Code)

	rec = api.do(http.MethodGet, "/api/reviews?movieId=496243&mediaType=movie", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Review](t, rec), 1)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/reviews?movieId=abc", "", nil).Code)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPut, "/api/reviews/"+rv.ID, other, body).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/reviews/"+rv.ID, other, nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/reviews/"+rv.ID, author, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/reviews/"+rv.ID, "", nil).Code)
}

func TestUsersAndFollowsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	aliceID, alice := api.signup("alice")
	bobID, _ := api.signup("bob")

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/users/"+aliceID+"/follow", alice, nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodPost, "/api/users/"+bobID+"/follow", alice, nil).Code)

	rec := api.do(http.MethodGet, "/api/users/"+bobID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bob := decode[models.User](t, rec)
	assert.Equal(t, 1, bob.FollowersCount)
	assert.Empty(t, bob.Email)

	rec = api.do(http.MethodGet, "/api/users/"+bobID+"/followers", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	followers := decode[[]models.User](t, rec)
	require.Len(t, followers, 1)
	assert.Equal(t, aliceID, followers[0].ID)

	rec = api.do(http.MethodPut, "/api/users/me", alice, map[string]any{"bio": "Subtitles always."})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Subtitles always.", decode[models.User](t, rec).Bio)

	rec = api.do(http.MethodGet, "/api/users/me", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, aliceID, decode[models.User](t, rec).ID)

	rec = api.do(http.MethodGet, "/api/users?search=bo", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]models.User](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, bobID, found[0].ID)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/users/"+bobID+"/follow", alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/users/"+bobID+"/follow", alice, nil).Code)
}

func TestNewsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	editorID, editor := api.signup("editor")
	_, reader := api.signup("reader")

	room := map[string]any{"name": "Festival Circuit"}
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/newsrooms", editor, room).Code)

	_, err := api.users.SetRole(context.Background(), "system", editorID, models.RoleFilmmaker)
	require.NoError(t, err)

	rec := api.do(http.MethodPost, "/api/newsrooms", editor, room)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	nr := decode[models.Newsroom](t, rec)

	post := map[string]any{"title": "Cannes lineup", "body": "Three Indian films in competition."}
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/newsrooms/"+nr.ID+"/posts", reader, post).Code)
	rec = api.do(http.MethodPost, "/api/newsrooms/"+nr.ID+"/posts", editor, post)
	require.Equal(t, http.StatusCreated, rec.Code)
	p := decode[models.NewsPost](t, rec)

	rec = api.do(http.MethodPost, "/api/news/"+p.ID+"/comments", reader, map[string]any{"body": "Exciting!"})
	require.Equal(t, http.StatusCreated, rec.Code)
	c := decode[models.Comment](t, rec)

	rec = api.do(http.MethodGet, "/api/news/"+p.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{c.ID}, decode[models.NewsPost](t, rec).CommentIDs)

	rec = api.do(http.MethodGet, "/api/newsrooms/"+nr.ID+"/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.NewsPost](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/comments/"+c.ID, editor, nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/news/"+p.ID, editor, nil).Code)
}

func TestAdminRoutes(t *testing.T) {
	api := newTestAPI(t)
	memberID, member := api.signup("member")

	admin, err := api.users.CreateWithRole(context.Background(), users.Registration{
		Username: "boss", Email: "boss@example.com", Password: "password123",
	}, models.RoleAdmin)
	require.NoError(t, err)
	rec := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"login": "boss", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	adminToken := decode[sessionResponse](t, rec).Token

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/admin/stats", member, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/admin/stats", "", nil).Code)

	rec = api.do(http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[models.Stats](t, rec).Users)

	rec = api.do(http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.User](t, rec), 2)

	rec = api.do(http.MethodPut, "/api/admin/users/"+memberID+"/role", adminToken, map[string]string{"role": "reviewer"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleReviewer, decode[models.User](t, rec).Role)

	rec = api.do(http.MethodPost, "/api/admin/users/"+memberID+"/reset-password", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pw := decode[map[string]string](t, rec)["password"]
	rec = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"login": "member", "password": pw})
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/admin/users/"+admin.ID, adminToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPut, "/api/admin/users/"+admin.ID+"/role", adminToken, map[string]string{"role": "viewer"}).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/admin/users/"+memberID, adminToken, nil).Code)
	// tokens of deleted users stop working
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", member, nil).Code)
}
