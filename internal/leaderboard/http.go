package leaderboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/quiz-live/pkg/http/errors"
)

// HTTPHandler exposes REST endpoints for leaderboard queries.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a leaderboard HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "leaderboard_http").Logger(),
	}
}

// HandleGet responds with the ranking of one quiz.
// Route: GET /v1/quizzes/{id}/leaderboard?limit=10
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	quizID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || quizID <= 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidInput, "Invalid quiz id")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	top, err := h.svc.Top(r.Context(), quizID, limit)
	if err != nil {
		h.logger.Warn().Err(err).Int64("quiz_id", quizID).Msg("leaderboard fetch failed")
		httperrors.RespondError(w, http.StatusServiceUnavailable, httperrors.ErrCodeLeaderboardFetchFailed, "Failed to fetch leaderboard")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"quiz_id":     quizID,
		"top":         top,
		"retrievedAt": time.Now().UTC().Format(time.RFC3339),
	})
}
