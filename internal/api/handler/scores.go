package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/scoreboard/internal/api/middleware"
	"github.com/mcoot/scoreboard/internal/api/request"
	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/auth"
	"github.com/mcoot/scoreboard/internal/services/leaderboard"
	"github.com/mcoot/scoreboard/internal/services/ledger"
)

// profileHistoryLimit is how many recent scores and logins /profile shows
const profileHistoryLimit = 10

// ScoreHandler handles score submission and ranking endpoints
type ScoreHandler struct {
	ledger      *ledger.Service
	leaderboard *leaderboard.Service
	authService *auth.Service
	logger      *slog.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(ldg *ledger.Service, board *leaderboard.Service, authService *auth.Service, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		ledger:      ldg,
		leaderboard: board,
		authService: authService,
		logger:      logger,
	}
}

// Submit handles POST /submit_score
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.SubmitScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if req.Score == nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: score is required", model.ErrInvalidInput))
		return
	}

	_, err := h.ledger.Submit(r.Context(), session.UserID, *req.Score, req.Distance, middleware.GetClientIP(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK("Score submitted"))
}

// Leaderboard handles GET /leaderboard
func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.leaderboard.Board(r.Context(), middleware.GetSession(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromBoard(board))
}

// Profile handles GET /profile
func (h *ScoreHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.MustGetSession(ctx)

	profile := response.Profile{
		Success:  true,
		Username: session.Username,
	}

	best, err := h.leaderboard.PersonalBest(ctx, session.UserID)
	switch {
	case errors.Is(err, model.ErrNoScores):
	case err != nil:
		writeError(w, r, h.logger, err)
		return
	default:
		profile.BestScore = best.Score
		profile.BestDistance = best.Distance
	}

	scores, err := h.ledger.History(ctx, session.UserID, profileHistoryLimit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	profile.RecentScores = response.ScoreRecordsFromModel(scores)

	logins, err := h.authService.LoginHistory(ctx, session.UserID, profileHistoryLimit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	profile.RecentLogins = response.LoginRecordsFromModel(logins)

	response.JSON(w, http.StatusOK, profile)
}
