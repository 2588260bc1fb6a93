package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/scoreboard/internal/api/apierr"
	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/model"
)

// Pinger reports whether a backend is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles GET /healthz
type HealthHandler struct {
	db     Pinger
	game   model.GameType
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, game model.GameType, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, game: game, logger: logger}
}

// Check handles GET /healthz
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Error("health check failed", slog.String("error", err.Error()))
		apierr.WriteError(w, apierr.NewInternalError())
		return
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Game: string(h.game)})
}
