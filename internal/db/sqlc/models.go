package sqlcgen

import "github.com/jackc/pgx/v5/pgtype"

type Quiz struct {
	QuizID    int64              `json:"quiz_id"`
	Title     string             `json:"title"`
	AuthorID  int64              `json:"author_id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type Question struct {
	QuestionID int64  `json:"question_id"`
	QuizID     int64  `json:"quiz_id"`
	Title      string `json:"title"`
	Position   int32  `json:"position"`
}

type Answer struct {
	AnswerID   int64  `json:"answer_id"`
	QuestionID int64  `json:"question_id"`
	Content    string `json:"content"`
	IsCorrect  bool   `json:"is_correct"`
	Position   int32  `json:"position"`
}

type GameResult struct {
	ResultID  int64              `json:"result_id"`
	QuizID    int64              `json:"quiz_id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type PlayerResult struct {
	PlayerResultID int64  `json:"player_result_id"`
	ResultID       int64  `json:"result_id"`
	UserID         int64  `json:"user_id"`
	Username       string `json:"username"`
	Score          int32  `json:"score"`
}

type AnswerLog struct {
	PlayerResultID int64 `json:"player_result_id"`
	AnswerID       int64 `json:"answer_id"`
}
