package game

import "github.com/gokatarajesh/quiz-live/internal/quiz"

// Event names as seen by clients.
const (
	EventUpdatePlayers          = "UPDATE_PLAYERS"
	EventStartGame              = "START_GAME"
	EventCountdownStartGame     = "COUNTDOWN_START_GAME"
	EventStartQuestion          = "START_QUESTION"
	EventCountdownStartQuestion = "COUNTDOWN_START_QUESTION"
	EventQuestionLoop           = "QUESTION_LOOP"
	EventFinishQuestion         = "FINISH_QUESTION"
	EventFinishGame             = "FINISH_GAME"
)

// AnswerView is a player's entry for one question. While the question is
// live only Answered is filled in; once revealed every field is sent,
// including timeLeft 0 and isCorrect false.
type AnswerView struct {
	Answered  bool  `json:"answered"`
	AnswerID  int64 `json:"answerId,omitempty"`
	TimeLeft  *int  `json:"timeLeft,omitempty"`
	IsCorrect *bool `json:"isCorrect,omitempty"`
}

type PlayerView struct {
	Username        string                `json:"username"`
	Score           int                   `json:"score"`
	QuestionAnswers map[int64]*AnswerView `json:"questionAnswers"`
}

type stages struct {
	GameStage     Stage `json:"gameStage"`
	QuestionStage Stage `json:"questionStage"`
}

type UpdatePlayersPayload struct {
	Players map[int64]PlayerView `json:"players"`
}

type StartGamePayload struct {
	stages
	GameStartCountdown int `json:"gameStartCountdown"`
}

type CountdownStartGamePayload struct {
	stages
	GameStartCountdown int `json:"gameStartCountdown"`
}

type StartQuestionPayload struct {
	stages
	QuestionStartCountdown int                 `json:"questionStartCountdown"`
	CurrentQuestionIndex   int                 `json:"currentQuestionIndex"`
	CurrentQuestion        quiz.PublicQuestion `json:"currentQuestion"`
}

type CountdownStartQuestionPayload struct {
	stages
	QuestionStartCountdown int `json:"questionStartCountdown"`
}

type QuestionLoopPayload struct {
	stages
	QuestionCountdown int `json:"questionCountdown"`
}

type FinishQuestionPayload struct {
	stages
	Players map[int64]PlayerView `json:"players"`
}

// FinishGamePayload carries a nil result id when persistence failed.
type FinishGamePayload struct {
	stages
	GameResultID *int64 `json:"gameResultId"`
}
