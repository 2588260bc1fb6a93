package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/scoreboard/internal/api/middleware"
	"github.com/mcoot/scoreboard/internal/api/request"
	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/services/auth"
	"github.com/mcoot/scoreboard/internal/services/credentials"
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	// Secure restricts the cookie to HTTPS
	Secure bool
}

// AccountHandler handles registration and session endpoints
type AccountHandler struct {
	credentials *credentials.Service
	authService *auth.Service
	cookie      CookieConfig
	logger      *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(creds *credentials.Service, authService *auth.Service, cookie CookieConfig, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		credentials: creds,
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// Register handles POST /register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if _, err := h.credentials.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.OK("Registration successful"))
}

// Login handles POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password, middleware.GetClientIP(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(session.ExpiresAt.Sub(session.CreatedAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	response.JSON(w, http.StatusOK, response.LoginResponseFromSession(session))
}

// Status handles GET /login, reporting whether the caller is logged in
func (h *AccountHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := response.SessionStatus{Success: true}
	if session := middleware.GetSession(r.Context()); session != nil {
		status.LoggedIn = true
		status.CurrentUser = session.Username
	}
	response.JSON(w, http.StatusOK, status)
}

// Logout handles GET /logout. It always clears the cookie and redirects
// to the login page, whether or not a session existed.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.ExtractToken(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	response.Found(w, r, "/login")
}

// Index handles GET /, sending anonymous callers to the login page
func (h *AccountHandler) Index(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r.Context()) == nil {
		response.Found(w, r, "/login")
		return
	}
	response.Found(w, r, "/leaderboard")
}
