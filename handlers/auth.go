package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"reelhouse/models"
	"reelhouse/services/auth"
	"reelhouse/services/users"
)

type ctxKey int

const userKey ctxKey = iota

// userFromContext returns the authenticated user, or nil for anonymous requests.
func userFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func viewerID(r *http.Request) string {
	if u := userFromContext(r.Context()); u != nil {
		return u.ID
	}
	return ""
}

type tokenService interface {
	Issue(u *models.User) (string, time.Time, error)
	Verify(token string) (string, error)
}

var _ tokenService = (*auth.Tokens)(nil)

type accountService interface {
	Register(ctx context.Context, reg users.Registration) (*models.User, error)
	Authenticate(ctx context.Context, login, password string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
}

var _ accountService = (*users.Service)(nil)

// Authenticator resolves bearer tokens into users.
type Authenticator struct {
	tokens   tokenService
	accounts accountService
}

func NewAuthenticator(tokens tokenService, accounts accountService) *Authenticator {
	return &Authenticator{tokens: tokens, accounts: accounts}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func (a *Authenticator) resolve(r *http.Request) (*models.User, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, nil
	}
	id, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := a.accounts.Get(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized
	}
	return u, err
}

// Optional attaches the user when a valid token is present and lets anonymous requests through.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := a.resolve(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if u != nil {
			r = r.WithContext(context.WithValue(r.Context(), userKey, u))
		}
		next.ServeHTTP(w, r)
	})
}

// Required rejects requests without a valid token.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return a.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userFromContext(r.Context()) == nil {
			jsonError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// Admin rejects requests from non-admin users.
func (a *Authenticator) Admin(next http.Handler) http.Handler {
	return a.Required(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userFromContext(r.Context()).Role != models.RoleAdmin {
			jsonError(w, "admin role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// AuthHandler serves registration, login and the current-user endpoint.
type AuthHandler struct {
	tokens   tokenService
	accounts accountService
}

func NewAuthHandler(tokens tokenService, accounts accountService) *AuthHandler {
	return &AuthHandler{tokens: tokens, accounts: accounts}
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

func (h *AuthHandler) session(w http.ResponseWriter, r *http.Request, status int, u *models.User) {
	token, exp, err := h.tokens.Issue(u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, sessionResponse{Token: token, ExpiresAt: exp, User: *u})
}

// Register creates a viewer account and returns a session.
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req users.Registration
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.session(w, r, http.StatusCreated, u)
}

// Login exchanges credentials for a session.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.accounts.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.session(w, r, http.StatusOK, u)
}

// Me returns the authenticated user including private fields.
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r.Context()))
}
