package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/scoreboard/internal/api/handler"
	"github.com/mcoot/scoreboard/internal/api/middleware"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/auth"
	"github.com/mcoot/scoreboard/internal/services/credentials"
	"github.com/mcoot/scoreboard/internal/services/leaderboard"
	"github.com/mcoot/scoreboard/internal/services/ledger"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Game               model.GameType
	CredentialService  *credentials.Service
	AuthService        *auth.Service
	LedgerService      *ledger.Service
	LeaderboardService *leaderboard.Service
	// Health is pinged by GET /healthz
	Health handler.Pinger
	Cookie handler.CookieConfig
	// TrustProxy takes the client IP from X-Forwarded-For
	TrustProxy bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.CredentialService, cfg.AuthService, cfg.Cookie, cfg.Logger)
	scoreHandler := handler.NewScoreHandler(cfg.LedgerService, cfg.LeaderboardService, cfg.AuthService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.Health, cfg.Game, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Common middleware, outermost first
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.ClientIP(cfg.TrustProxy))

	protected := func(h http.HandlerFunc) http.Handler { return authMiddleware(h) }
	optional := func(h http.HandlerFunc) http.Handler { return optionalAuthMiddleware(h) }

	// Account routes (no auth required)
	r.HandleFunc("/register", accountHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", accountHandler.Login).Methods(http.MethodPost)
	r.Handle("/login", optional(accountHandler.Status)).Methods(http.MethodGet)
	r.HandleFunc("/logout", accountHandler.Logout).Methods(http.MethodGet)
	r.Handle("/", optional(accountHandler.Index)).Methods(http.MethodGet)

	// Score routes
	r.Handle("/submit_score", protected(scoreHandler.Submit)).Methods(http.MethodPost)
	r.Handle("/profile", protected(scoreHandler.Profile)).Methods(http.MethodGet)
	r.Handle("/leaderboard", optional(scoreHandler.Leaderboard)).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	r.HandleFunc("/healthz", healthHandler.Check).Methods(http.MethodGet)

	return r
}
