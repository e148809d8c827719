package quiz

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quiz-live/internal/auth"
	"github.com/gokatarajesh/quiz-live/internal/auth/jwt"
)

func withCaller(r *http.Request, id int64) *http.Request {
	return r.WithContext(auth.WithClaims(r.Context(), &jwt.Claims{UserID: id, Username: "u"}))
}

func newTestMux(repo Repository) *http.ServeMux {
	h := NewHTTPHandlers(NewService(repo, nil, zerolog.Nop()), zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/quizzes", h.Create)
	mux.HandleFunc("GET /v1/quizzes/{id}", h.Get)
	mux.HandleFunc("POST /v1/quizzes/{id}/questions", h.AddQuestion)
	mux.HandleFunc("PATCH /v1/questions/{id}", h.UpdateQuestion)
	mux.HandleFunc("DELETE /v1/questions/{id}", h.DeleteQuestion)
	mux.HandleFunc("POST /v1/questions/{id}/answers", h.AddAnswer)
	mux.HandleFunc("PATCH /v1/answers/{id}", h.UpdateAnswer)
	mux.HandleFunc("DELETE /v1/answers/{id}", h.DeleteAnswer)
	return mux
}

func TestHTTPGetHidesAnswersFromNonAuthors(t *testing.T) {
	mux := newTestMux(&stubRepository{quizzes: map[int64]Quiz{3: sampleQuiz()}})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, withCaller(httptest.NewRequest(http.MethodGet, "/v1/quizzes/3", nil), 2))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "is_correct")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, withCaller(httptest.NewRequest(http.MethodGet, "/v1/quizzes/3", nil), 1))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_correct":true`)
}

func TestHTTPGetErrors(t *testing.T) {
	mux := newTestMux(&stubRepository{quizzes: map[int64]Quiz{}})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, withCaller(httptest.NewRequest(http.MethodGet, "/v1/quizzes/abc", nil), 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, withCaller(httptest.NewRequest(http.MethodGet, "/v1/quizzes/9", nil), 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/quizzes/9", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPCreate(t *testing.T) {
	repo := &stubRepository{}
	mux := newTestMux(repo)

	body, _ := json.Marshal(CreateRequest{Title: "Space"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, withCaller(httptest.NewRequest(http.MethodPost, "/v1/quizzes", bytes.NewReader(body)), 4))
	require.Equal(t, http.StatusCreated, rec.Code)

	var q Quiz
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&q))
	assert.Equal(t, int64(4), q.AuthorID)

	body, _ = json.Marshal(CreateRequest{Title: "Bad", Questions: []CreateQuestionRequest{{Title: "a"}, {Title: "a"}}})
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, withCaller(httptest.NewRequest(http.MethodPost, "/v1/quizzes", bytes.NewReader(body)), 4))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}


func TestHTTPEditStatuses(t *testing.T) {
	mux := newTestMux(&stubRepository{quizzes: map[int64]Quiz{3: sampleQuiz()}})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		caller int64
		want   int
	}{
		{"add question", http.MethodPost, "/v1/quizzes/3/questions", `{"title":"Widest"}`, 1, http.StatusCreated},
		{"add question duplicate title", http.MethodPost, "/v1/quizzes/3/questions", `{"title":"Longest"}`, 1, http.StatusConflict},
		{"add question two correct", http.MethodPost, "/v1/quizzes/3/questions", `{"title":"Deepest","answers":[{"content":"a","is_correct":true},{"content":"b","is_correct":true}]}`, 1, http.StatusBadRequest},
		{"add question not author", http.MethodPost, "/v1/quizzes/3/questions", `{"title":"Widest"}`, 2, http.StatusForbidden},
		{"add question missing quiz", http.MethodPost, "/v1/quizzes/9/questions", `{"title":"Widest"}`, 1, http.StatusNotFound},
		{"rename question", http.MethodPatch, "/v1/questions/30", `{"title":"Longest river"}`, 1, http.StatusOK},
		{"rename question empty", http.MethodPatch, "/v1/questions/30", `{"title":""}`, 1, http.StatusBadRequest},
		{"delete question not author", http.MethodDelete, "/v1/questions/30", ``, 2, http.StatusForbidden},
		{"add answer", http.MethodPost, "/v1/questions/30/answers", `{"content":"Amazon"}`, 1, http.StatusCreated},
		{"add answer bad json", http.MethodPost, "/v1/questions/30/answers", `{`, 1, http.StatusBadRequest},
		{"update answer", http.MethodPatch, "/v1/answers/301", `{"is_correct":true}`, 1, http.StatusOK},
		{"update answer missing", http.MethodPatch, "/v1/answers/999", `{"is_correct":true}`, 1, http.StatusNotFound},
		{"delete answer", http.MethodDelete, "/v1/answers/301", ``, 1, http.StatusNoContent},
		{"delete question", http.MethodDelete, "/v1/questions/30", ``, 1, http.StatusNoContent},
		{"bad id", http.MethodDelete, "/v1/answers/x", ``, 1, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, withCaller(httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)), tt.caller))
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/answers/301", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
