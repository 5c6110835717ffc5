package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// API bundles the handlers mounted by Register.
type API struct {
	Auth    *Authenticator
	Session *AuthHandler
	Movies  *MoviesHandler
	Lists   *ListsHandler
	Reviews *ReviewsHandler
	Users   *UsersHandler
	News    *NewsHandler
	Admin   *AdminHandler
}

// Register mounts every /api route on r.
func Register(r *mux.Router, api API) {
	optional := func(h http.HandlerFunc) http.Handler { return api.Auth.Optional(h) }
	required := func(h http.HandlerFunc) http.Handler { return api.Auth.Required(h) }
	admin := func(h http.HandlerFunc) http.Handler { return api.Auth.Admin(h) }

	s := r.PathPrefix("/api").Subrouter()

	s.Handle("/auth/register", http.HandlerFunc(api.Session.Register)).Methods(http.MethodPost)
	s.Handle("/auth/login", http.HandlerFunc(api.Session.Login)).Methods(http.MethodPost)
	s.Handle("/auth/me", required(api.Session.Me)).Methods(http.MethodGet)

	s.Handle("/movies/discover", http.HandlerFunc(api.Movies.Discover)).Methods(http.MethodGet)
	s.Handle("/movies/wiki", http.HandlerFunc(api.Movies.Wiki)).Methods(http.MethodGet)
	s.Handle("/movies/{mediaType:movie|tv}/{id}", http.HandlerFunc(api.Movies.Details)).Methods(http.MethodGet)

	s.Handle("/lists", required(api.Lists.Mine)).Methods(http.MethodGet)
	s.Handle("/lists", required(api.Lists.Create)).Methods(http.MethodPost)
	s.Handle("/lists/{id}", optional(api.Lists.Get)).Methods(http.MethodGet)
	s.Handle("/lists/{id}", required(api.Lists.Update)).Methods(http.MethodPut)
	s.Handle("/lists/{id}", required(api.Lists.Delete)).Methods(http.MethodDelete)
	s.Handle("/lists/{id}/movies", required(api.Lists.AddMovie)).Methods(http.MethodPost)
	s.Handle("/lists/{id}/movies/{mediaType}/{movieId}", required(api.Lists.RemoveMovie)).Methods(http.MethodDelete)

	s.Handle("/reviews", http.HandlerFunc(api.Reviews.List)).Methods(http.MethodGet)
	s.Handle("/reviews", required(api.Reviews.Create)).Methods(http.MethodPost)
	s.Handle("/reviews/{id}", http.HandlerFunc(api.Reviews.Get)).Methods(http.MethodGet)
	s.Handle("/reviews/{id}", required(api.Reviews.Update)).Methods(http.MethodPut)
	s.Handle("/reviews/{id}", required(api.Reviews.Delete)).Methods(http.MethodDelete)

	// "me" must be registered before {id}.
	s.Handle("/users", http.HandlerFunc(api.Users.Search)).Methods(http.MethodGet)
	s.Handle("/users/me", required(api.Session.Me)).Methods(http.MethodGet)
	s.Handle("/users/me", required(api.Users.UpdateMe)).Methods(http.MethodPut)
	s.Handle("/users/{id}", optional(api.Users.Get)).Methods(http.MethodGet)
	s.Handle("/users/{id}/lists", optional(api.Lists.ForUser)).Methods(http.MethodGet)
	s.Handle("/users/{id}/follow", required(api.Users.Follow)).Methods(http.MethodPost)
	s.Handle("/users/{id}/follow", required(api.Users.Unfollow)).Methods(http.MethodDelete)
	s.Handle("/users/{id}/followers", http.HandlerFunc(api.Users.Followers)).Methods(http.MethodGet)
	s.Handle("/users/{id}/following", http.HandlerFunc(api.Users.Following)).Methods(http.MethodGet)

	s.Handle("/newsrooms", http.HandlerFunc(api.News.ListNewsrooms)).Methods(http.MethodGet)
	s.Handle("/newsrooms", required(api.News.CreateNewsroom)).Methods(http.MethodPost)
	s.Handle("/newsrooms/{id}", http.HandlerFunc(api.News.GetNewsroom)).Methods(http.MethodGet)
	s.Handle("/newsrooms/{id}/posts", http.HandlerFunc(api.News.ListPosts)).Methods(http.MethodGet)
	s.Handle("/newsrooms/{id}/posts", required(api.News.CreatePost)).Methods(http.MethodPost)
	s.Handle("/news/{id}", http.HandlerFunc(api.News.GetPost)).Methods(http.MethodGet)
	s.Handle("/news/{id}", required(api.News.UpdatePost)).Methods(http.MethodPut)
	s.Handle("/news/{id}", required(api.News.DeletePost)).Methods(http.MethodDelete)
	s.Handle("/news/{id}/comments", http.HandlerFunc(api.News.ListComments)).Methods(http.MethodGet)
	s.Handle("/news/{id}/comments", required(api.News.AddComment)).Methods(http.MethodPost)
	s.Handle("/comments/{id}", required(api.News.DeleteComment)).Methods(http.MethodDelete)

	s.Handle("/admin/users", admin(api.Admin.ListUsers)).Methods(http.MethodGet)
	s.Handle("/admin/users/{id}/role", admin(api.Admin.SetRole)).Methods(http.MethodPut)
	s.Handle("/admin/users/{id}", admin(api.Admin.DeleteUser)).Methods(http.MethodDelete)
	s.Handle("/admin/users/{id}/reset-password", admin(api.Admin.ResetPassword)).Methods(http.MethodPost)
	s.Handle("/admin/stats", admin(api.Admin.Stats)).Methods(http.MethodGet)
}
