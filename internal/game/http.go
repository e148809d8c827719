package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-live/internal/auth"
	httperrors "github.com/gokatarajesh/quiz-live/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for session operations.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for session endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "game_http").Logger(),
	}
}

type createSessionRequest struct {
	QuizID int64 `json:"quiz_id"`
}

type submitAnswerRequest struct {
	AnswerID int64 `json:"answer_id"`
}

// CreateSession handles POST /v1/sessions
func (h *HTTPHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.QuizID <= 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "quiz_id is required", "quiz_id")
		return
	}

	code, err := h.service.CreateSession(r.Context(), req.QuizID, caller.ID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, map[string]interface{}{"code": code})
}

// GenerateCode handles POST /v1/sessions/code
func (h *HTTPHandlers) GenerateCode(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"code": h.service.GenerateCode()})
}

// GetSession handles GET /v1/sessions/{code}
func (h *HTTPHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	snap, err := h.service.Snapshot(r.PathValue("code"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, snap)
}

// Join handles POST /v1/sessions/{code}/join
func (h *HTTPHandlers) Join(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	player, err := h.service.JoinSession(r.Context(), r.PathValue("code"), caller)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, player)
}

// Leave handles POST /v1/sessions/{code}/leave
func (h *HTTPHandlers) Leave(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	left, err := h.service.LeaveSession(r.Context(), r.PathValue("code"), caller.ID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"left": left})
}

// Start handles POST /v1/sessions/{code}/start
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	code := r.PathValue("code")
	if err := h.service.StartSession(r.Context(), code, caller.ID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	snap, err := h.service.Snapshot(code)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"started":   snap.GameStage != StageNotStarted,
		"gameStage": snap.GameStage,
	})
}

// SubmitAnswer handles POST /v1/sessions/{code}/answers
func (h *HTTPHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	if err := h.service.SubmitAnswer(r.Context(), r.PathValue("code"), caller.ID, req.AnswerID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusAccepted, map[string]interface{}{"accepted": true})
}

// GetResult handles GET /v1/results/{id}
func (h *HTTPHandlers) GetResult(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(w, r); !ok {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidInput, "Invalid result id")
		return
	}

	res, err := h.service.GetResult(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeResultNotFound, "Result not found")
			return
		}
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, res)
}

func (h *HTTPHandlers) caller(w http.ResponseWriter, r *http.Request) (Caller, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return Caller{}, false
	}
	return Caller{ID: claims.UserID, Username: claims.Username}, true
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error) {
	status, code := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("session request failed")
		httperrors.RespondInternalError(w, "Internal error")
		return
	}
	httperrors.RespondError(w, status, code, err.Error())
}

// ErrorStatus maps service errors onto an HTTP status and error code.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, httperrors.ErrCodeNotFound
	case errors.Is(err, ErrCodeSpaceExhausted):
		return http.StatusServiceUnavailable, httperrors.ErrCodeCodeSpaceExhausted
	case errors.Is(err, ErrAlreadyAnswered):
		return http.StatusConflict, httperrors.ErrCodeAlreadyAnswered
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict, httperrors.ErrCodeAlreadyExists
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, httperrors.ErrCodeForbidden
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict, httperrors.ErrCodeInvalidState
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, httperrors.ErrCodeInvalidInput
	default:
		return http.StatusInternalServerError, httperrors.ErrCodeInternalError
	}
}
