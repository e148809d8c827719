package sqlcgen

import "context"

type Querier interface {
	CreateQuiz(ctx context.Context, arg CreateQuizParams) (Quiz, error)
	CreateQuestion(ctx context.Context, arg CreateQuestionParams) (Question, error)
	CreateAnswer(ctx context.Context, arg CreateAnswerParams) (Answer, error)
	GetQuiz(ctx context.Context, quizID int64) (Quiz, error)
	ListQuestionsByQuiz(ctx context.Context, quizID int64) ([]Question, error)
	ListAnswersByQuiz(ctx context.Context, quizID int64) ([]Answer, error)
	GetQuestionOwner(ctx context.Context, questionID int64) (GetQuestionOwnerRow, error)
	GetAnswerOwner(ctx context.Context, answerID int64) (GetAnswerOwnerRow, error)
	QuestionTitleExists(ctx context.Context, arg QuestionTitleExistsParams) (bool, error)
	AnswerContentExists(ctx context.Context, arg AnswerContentExistsParams) (bool, error)
	NextQuestionPosition(ctx context.Context, quizID int64) (int32, error)
	NextAnswerPosition(ctx context.Context, questionID int64) (int32, error)
	UpdateQuestionTitle(ctx context.Context, arg UpdateQuestionTitleParams) (Question, error)
	DeleteQuestion(ctx context.Context, questionID int64) error
	UpdateAnswer(ctx context.Context, arg UpdateAnswerParams) (Answer, error)
	DeleteAnswer(ctx context.Context, answerID int64) error
	ClearOtherCorrectAnswers(ctx context.Context, arg ClearOtherCorrectAnswersParams) error
	PromoteNewestAnswer(ctx context.Context, arg PromoteNewestAnswerParams) (int64, error)
	CreateGameResult(ctx context.Context, quizID int64) (GameResult, error)
	CreatePlayerRecord(ctx context.Context, arg CreatePlayerRecordParams) (PlayerResult, error)
	CreateAnswerLog(ctx context.Context, arg CreateAnswerLogParams) error
	GetGameResult(ctx context.Context, resultID int64) (GameResult, error)
	ListPlayerResults(ctx context.Context, resultID int64) ([]PlayerResult, error)
	ListAnswerLogsByResult(ctx context.Context, resultID int64) ([]AnswerLog, error)
}
