package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/quiz-live/internal/game"
)

func newTestService(t *testing.T, opts ServiceOptions) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client, zerolog.Nop(), opts), mr
}

func TestRecordScoresKeepsBestGame(t *testing.T) {
	svc, _ := newTestService(t, ServiceOptions{})
	ctx := context.Background()

	require.NoError(t, svc.RecordScores(ctx, 7, []game.PlayerScore{
		{UserID: 1, Username: "ada", Score: 900},
		{UserID: 2, Username: "bob", Score: 400},
	}))
	require.NoError(t, svc.RecordScores(ctx, 7, []game.PlayerScore{
		{UserID: 1, Username: "ada", Score: 300},
		{UserID: 2, Username: "bobby", Score: 1000},
	}))

	top, err := svc.Top(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Rank: 1, UserID: 2, Username: "bobby", Score: 1000, Games: 2},
		{Rank: 2, UserID: 1, Username: "ada", Score: 900, Games: 2},
	}, top)
}

func TestRankingsArePerQuiz(t *testing.T) {
	svc, _ := newTestService(t, ServiceOptions{})
	ctx := context.Background()

	require.NoError(t, svc.RecordScores(ctx, 7, []game.PlayerScore{{UserID: 1, Username: "ada", Score: 900}}))
	require.NoError(t, svc.RecordScores(ctx, 8, []game.PlayerScore{{UserID: 2, Username: "bob", Score: 100}}))

	top, err := svc.Top(ctx, 8, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(2), top[0].UserID)

	top, err = svc.Top(ctx, 9, 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestTopRespectsLimit(t *testing.T) {
	svc, _ := newTestService(t, ServiceOptions{TopN: 2})
	ctx := context.Background()
	require.NoError(t, svc.RecordScores(ctx, 7, []game.PlayerScore{
		{UserID: 1, Score: 100}, {UserID: 2, Score: 200}, {UserID: 3, Score: 300},
	}))

	top, err := svc.Top(ctx, 7, 50)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(3), top[0].UserID)

	top, err = svc.Top(ctx, 7, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestEntryTTL(t *testing.T) {
	svc, mr := newTestService(t, ServiceOptions{EntryTTL: time.Hour})
	ctx := context.Background()
	require.NoError(t, svc.RecordScores(ctx, 7, []game.PlayerScore{{UserID: 1, Username: "ada", Score: 100}}))

	assert.Equal(t, time.Hour, mr.TTL("lb:quiz:7"))
	mr.FastForward(2 * time.Hour)
	assert.False(t, mr.Exists("lb:quiz:7"))
}

func TestRecordScoresEmptyIsNoop(t *testing.T) {
	svc, mr := newTestService(t, ServiceOptions{})
	require.NoError(t, svc.RecordScores(context.Background(), 7, nil))
	assert.Empty(t, mr.Keys())
}

func TestHTTPHandleGet(t *testing.T) {
	svc, mr := newTestService(t, ServiceOptions{})
	require.NoError(t, svc.RecordScores(context.Background(), 7, []game.PlayerScore{{UserID: 1, Username: "ada", Score: 1100}}))

	h := NewHTTPHandler(svc, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/quizzes/{id}/leaderboard", h.HandleGet)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/quizzes/7/leaderboard?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		QuizID int64   `json:"quiz_id"`
		Top    []Entry `json:"top"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.QuizID)
	assert.Equal(t, []Entry{{Rank: 1, UserID: 1, Username: "ada", Score: 1100, Games: 1}}, body.Top)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/quizzes/abc/leaderboard", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mr.Close()
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/quizzes/7/leaderboard", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
