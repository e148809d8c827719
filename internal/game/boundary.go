package game

import (
	"context"
	"time"
)

// Broadcaster delivers session events and reports who is subscribed.
// Subscriber ids are decimal user ids.
type Broadcaster interface {
	Publish(ctx context.Context, channel, event string, payload any) error
	Subscribers(ctx context.Context, channel string) ([]string, error)
}

// ChannelFor derives the broadcast channel of a session.
func ChannelFor(code string) string {
	return "session-" + code
}

// PlayerResult is one player's final record for a finished game.
type PlayerResult struct {
	ResultID         int64
	UserID           int64
	Username         string
	Score            int
	CorrectAnswerIDs []int64
}

// ResultStore persists final scores. CreatePlayerResult must write the player
// record and its answer logs atomically.
type ResultStore interface {
	CreateGameResult(ctx context.Context, quizID int64) (int64, error)
	CreatePlayerResult(ctx context.Context, res PlayerResult) (int64, error)
}

// ScoreRecorder receives final scores for per-quiz rankings. Optional.
type ScoreRecorder interface {
	RecordScores(ctx context.Context, quizID int64, scores []PlayerScore) error
}

type PlayerScore struct {
	UserID   int64
	Username string
	Score    int
}

// ResultSummary is a persisted game result with its player rows.
type ResultSummary struct {
	ID        int64               `json:"id"`
	QuizID    int64               `json:"quiz_id"`
	CreatedAt time.Time           `json:"created_at"`
	Players   []PlayerResultEntry `json:"players"`
}

type PlayerResultEntry struct {
	UserID           int64   `json:"user_id"`
	Username         string  `json:"username"`
	Score            int     `json:"score"`
	CorrectAnswerIDs []int64 `json:"correct_answer_ids"`
}
