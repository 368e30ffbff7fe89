// Package server exposes the HTTP API consumed by the mobile client: the
// venue feed, stories, accounts, and per-user interaction toggles.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"placefeed/internal/accounts"
	"placefeed/internal/catalog"
	"placefeed/internal/interactions"
	"placefeed/internal/session"
	"placefeed/pkg/kv"
)

type ctxKey int

const tokenKey ctxKey = iota

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// ctxSessions resolves the session for whatever bearer token the middleware
// put on the request context, so one interactions.Store serves all requests.
type ctxSessions struct {
	mgr *session.Manager
}

func (p ctxSessions) Current(ctx context.Context) (*session.Session, error) {
	return p.mgr.Current(ctx, tokenFromContext(ctx))
}

type Server struct {
	catalog      catalog.Store
	accounts     *accounts.Service
	sessions     *session.Manager
	interactions *interactions.Store
	log          zerolog.Logger
	router       chi.Router
}

func New(cat catalog.Store, accts *accounts.Service, sessions *session.Manager, store kv.Store, log zerolog.Logger) *Server {
	s := &Server{
		catalog:  cat,
		accounts: accts,
		sessions: sessions,
		log:      log,
	}
	s.interactions = interactions.New(store, ctxSessions{mgr: sessions}, log)

	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(s.bearerToken)

	r.Get("/", s.handleIndex)
	r.Get("/api", s.handleIndex)
	r.Get("/api/posts", s.handlePosts)
	r.Get("/api/posts/{id}", s.handlePost)
	r.Get("/api/stories", s.handleStories)
	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/api/interactions", s.handleInteractions)
	r.Post("/api/interactions/{kind}/{postID}", s.handleToggle)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, apiError{Code: ErrCodeNotFound, Message: "route not found: " + req.URL.Path})
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) bearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			r = r.WithContext(context.WithValue(r.Context(), tokenKey, strings.TrimSpace(token)))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"endpoints": []string{
			"GET /api/posts",
			"GET /api/posts/{id}",
			"GET /api/stories",
			"POST /register",
			"POST /login",
			"POST /logout",
			"GET /api/interactions",
			"POST /api/interactions/{kind}/{postID}",
		},
	})
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	venues, err := s.catalog.Venues(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list venues")
		writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeInternal, Message: "failed to fetch posts"})
		return
	}
	writeJSON(w, http.StatusOK, catalog.NormalizeAll(venues))
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := s.catalog.Venue(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, apiError{Code: ErrCodeNotFound, Message: "post not found"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("get venue")
		writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeInternal, Message: "failed to fetch post"})
		return
	}
	writeJSON(w, http.StatusOK, catalog.Normalize(v, 0))
}

func (s *Server) handleStories(w http.ResponseWriter, r *http.Request) {
	stories, err := s.catalog.Stories(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list stories")
		writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeInternal, Message: "failed to fetch stories"})
		return
	}
	writeJSON(w, http.StatusOK, stories)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSONBody[registerRequest](w, r)
	if !ok {
		return
	}
	u, err := s.accounts.Register(r.Context(), req.Email, req.Name, req.Surname, req.Password, req.Role)
	switch {
	case errors.Is(err, accounts.ErrValidation):
		writeError(w, http.StatusBadRequest, apiError{Code: ErrCodeValidation, Message: err.Error()})
		return
	case errors.Is(err, accounts.ErrEmailTaken):
		writeError(w, http.StatusConflict, apiError{Code: ErrCodeEmailTaken, Message: "email already registered"})
		return
	case err != nil:
		s.log.Error().Err(err).Msg("register")
		writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeInternal, Message: "registration failed"})
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{UserID: u.ID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSONBody[loginRequest](w, r)
	if !ok {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, apiError{Code: ErrCodeValidation, Message: "email and password are required"})
		return
	}
	u, err := s.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, apiError{Code: ErrCodeInvalidCredentials, Message: "invalid email or password"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("login")
		writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeInternal, Message: "login failed"})
		return
	}
	token, err := s.sessions.Start(r.Context(), u.Session())
	if err != nil {
		s.log.Error().Err(err).Msg("start session")
		writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeStorage, Message: "failed to persist session"})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User: userPayload{
			ID:      u.ID,
			Email:   u.Email,
			Name:    u.Name,
			Surname: u.Surname,
			Role:    u.Role,
			Handle:  u.Handle(),
		},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := tokenFromContext(r.Context())
	sess, err := s.sessions.Current(r.Context(), token)
	if err != nil {
		s.log.Error().Err(err).Msg("resolve session for logout")
		writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeStorage, Message: "failed to resolve session"})
		return
	}

	var req logoutRequest
	if body, readErr := io.ReadAll(r.Body); readErr == nil && len(body) > 0 {
		// The body is optional; ignore anything that does not decode.
		_ = json.Unmarshal(body, &req)
	}

	if sess != nil && req.Purge {
		if err := s.interactions.ClearAll(r.Context(), sess.UserID); err != nil {
			s.log.Error().Err(err).Str("user", sess.UserID).Msg("purge interaction sets")
			writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeStorage, Message: "failed to clear interaction state"})
			return
		}
	}
	if err := s.sessions.Clear(r.Context(), token); err != nil {
		s.log.Error().Err(err).Msg("clear session")
		writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeStorage, Message: "failed to clear session"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	liked, err := s.interactions.LikedPosts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeStorage, Message: "failed to read liked posts"})
		return
	}
	favorites, err := s.interactions.FavoritePosts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, apiError{Code: ErrCodeStorage, Message: "failed to read favorite posts"})
		return
	}
	if liked == nil {
		liked = []string{}
	}
	if favorites == nil {
		favorites = []string{}
	}
	writeJSON(w, http.StatusOK, interactionsResponse{
		Authenticated: s.interactions.Authenticated(ctx),
		Liked:         liked,
		Favorites:     favorites,
		LikedCount:    len(liked),
		FavoriteCount: len(favorites),
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	kind := interactions.Kind(chi.URLParam(r, "kind"))
	postID := chi.URLParam(r, "postID")
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, apiError{Code: ErrCodeValidation, Message: "kind must be \"liked\" or \"favorite\""})
		return
	}

	res := s.interactions.Toggle(r.Context(), kind, postID)
	status := http.StatusOK
	switch {
	case res.RequiresAuth:
		status = http.StatusUnauthorized
	case !res.Success:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, toggleResponse{Success: res.Success, RequiresAuth: res.RequiresAuth})
}
