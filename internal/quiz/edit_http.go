package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gokatarajesh/quiz-live/internal/auth"
	httperrors "github.com/gokatarajesh/quiz-live/pkg/http/errors"
)

// AddQuestion handles POST /v1/quizzes/{id}/questions
func (h *HTTPHandlers) AddQuestion(w http.ResponseWriter, r *http.Request) {
	callerID, id, ok := h.editTarget(w, r)
	if !ok {
		return
	}
	var req CreateQuestionRequest
	if !decode(w, r, &req) {
		return
	}

	q, err := h.svc.AddQuestion(r.Context(), callerID, id, req)
	if err != nil {
		h.respondEditError(w, err, "Failed to add question")
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, q)
}

// UpdateQuestion handles PATCH /v1/questions/{id}
func (h *HTTPHandlers) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	callerID, id, ok := h.editTarget(w, r)
	if !ok {
		return
	}
	var req UpdateQuestionRequest
	if !decode(w, r, &req) {
		return
	}

	q, err := h.svc.UpdateQuestion(r.Context(), callerID, id, req)
	if err != nil {
		h.respondEditError(w, err, "Failed to update question")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, q)
}

// DeleteQuestion handles DELETE /v1/questions/{id}
func (h *HTTPHandlers) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	callerID, id, ok := h.editTarget(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteQuestion(r.Context(), callerID, id); err != nil {
		h.respondEditError(w, err, "Failed to delete question")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddAnswer handles POST /v1/questions/{id}/answers
func (h *HTTPHandlers) AddAnswer(w http.ResponseWriter, r *http.Request) {
	callerID, id, ok := h.editTarget(w, r)
	if !ok {
		return
	}
	var req CreateAnswerRequest
	if !decode(w, r, &req) {
		return
	}

	a, err := h.svc.AddAnswer(r.Context(), callerID, id, req)
	if err != nil {
		h.respondEditError(w, err, "Failed to add answer")
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, a)
}

// UpdateAnswer handles PATCH /v1/answers/{id}
func (h *HTTPHandlers) UpdateAnswer(w http.ResponseWriter, r *http.Request) {
	callerID, id, ok := h.editTarget(w, r)
	if !ok {
		return
	}
	var req UpdateAnswerRequest
	if !decode(w, r, &req) {
		return
	}

	a, err := h.svc.UpdateAnswer(r.Context(), callerID, id, req)
	if err != nil {
		h.respondEditError(w, err, "Failed to update answer")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, a)
}

// DeleteAnswer handles DELETE /v1/answers/{id}
func (h *HTTPHandlers) DeleteAnswer(w http.ResponseWriter, r *http.Request) {
	callerID, id, ok := h.editTarget(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteAnswer(r.Context(), callerID, id); err != nil {
		h.respondEditError(w, err, "Failed to delete answer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// editTarget resolves the caller and the {id} path value.
func (h *HTTPHandlers) editTarget(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return 0, 0, false
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidInput, "Invalid id")
		return 0, 0, false
	}
	return claims.UserID, id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return false
	}
	return true
}

func (h *HTTPHandlers) respondEditError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalid):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Only the quiz author can edit it")
	case errors.Is(err, ErrDuplicate):
		httperrors.RespondConflict(w, httperrors.ErrCodeAlreadyExists, err.Error())
	default:
		h.logger.Error().Err(err).Msg(message)
		httperrors.RespondInternalError(w, message)
	}
}
