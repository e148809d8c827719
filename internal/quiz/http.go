package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-live/internal/auth"
	httperrors "github.com/gokatarajesh/quiz-live/pkg/http/errors"
)

// HTTPHandlers exposes quiz authoring endpoints.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "quiz_http").Logger(),
	}
}

// Create handles POST /v1/quizzes
func (h *HTTPHandlers) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	q, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
			return
		}
		h.logger.Error().Err(err).Int64("user_id", claims.UserID).Msg("failed to create quiz")
		httperrors.RespondInternalError(w, "Failed to create quiz")
		return
	}

	httperrors.RespondJSON(w, http.StatusCreated, q)
}

// Get handles GET /v1/quizzes/{id}. Correct answers are only shown to the author.
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidInput, "Invalid quiz id")
		return
	}

	q, err := h.svc.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "Quiz not found")
			return
		}
		h.logger.Error().Err(err).Int64("quiz_id", id).Msg("failed to load quiz")
		httperrors.RespondInternalError(w, "Failed to load quiz")
		return
	}

	if q.AuthorID == claims.UserID {
		httperrors.RespondJSON(w, http.StatusOK, q)
		return
	}

	questions := make([]PublicQuestion, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = question.Public()
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":        q.ID,
		"title":     q.Title,
		"author_id": q.AuthorID,
		"questions": questions,
	})
}
