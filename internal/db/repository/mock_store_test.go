package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/gokatarajesh/quiz-live/internal/db/sqlc"
)

// mockStore is both the outer store and the Querier handed to ExecTx.
type mockStore struct {
	mock.Mock
	txCalls int
}

var _ sqlcgen.Querier = (*mockStore)(nil)

func (m *mockStore) ExecTx(ctx context.Context, fn func(sqlcgen.Querier) error) error {
	m.txCalls++
	return fn(m)
}

func (m *mockStore) CreateQuiz(ctx context.Context, arg sqlcgen.CreateQuizParams) (sqlcgen.Quiz, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Quiz), args.Error(1)
}

func (m *mockStore) CreateQuestion(ctx context.Context, arg sqlcgen.CreateQuestionParams) (sqlcgen.Question, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Question), args.Error(1)
}

func (m *mockStore) CreateAnswer(ctx context.Context, arg sqlcgen.CreateAnswerParams) (sqlcgen.Answer, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Answer), args.Error(1)
}

func (m *mockStore) GetQuiz(ctx context.Context, quizID int64) (sqlcgen.Quiz, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(sqlcgen.Quiz), args.Error(1)
}

func (m *mockStore) ListQuestionsByQuiz(ctx context.Context, quizID int64) ([]sqlcgen.Question, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]sqlcgen.Question), args.Error(1)
}

func (m *mockStore) ListAnswersByQuiz(ctx context.Context, quizID int64) ([]sqlcgen.Answer, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]sqlcgen.Answer), args.Error(1)
}

func (m *mockStore) CreateGameResult(ctx context.Context, quizID int64) (sqlcgen.GameResult, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(sqlcgen.GameResult), args.Error(1)
}

func (m *mockStore) CreatePlayerRecord(ctx context.Context, arg sqlcgen.CreatePlayerRecordParams) (sqlcgen.PlayerResult, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.PlayerResult), args.Error(1)
}

func (m *mockStore) CreateAnswerLog(ctx context.Context, arg sqlcgen.CreateAnswerLogParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockStore) GetGameResult(ctx context.Context, resultID int64) (sqlcgen.GameResult, error) {
	args := m.Called(ctx, resultID)
	return args.Get(0).(sqlcgen.GameResult), args.Error(1)
}

func (m *mockStore) ListPlayerResults(ctx context.Context, resultID int64) ([]sqlcgen.PlayerResult, error) {
	args := m.Called(ctx, resultID)
	return args.Get(0).([]sqlcgen.PlayerResult), args.Error(1)
}

func (m *mockStore) ListAnswerLogsByResult(ctx context.Context, resultID int64) ([]sqlcgen.AnswerLog, error) {
	args := m.Called(ctx, resultID)
	return args.Get(0).([]sqlcgen.AnswerLog), args.Error(1)
}

func (m *mockStore) GetQuestionOwner(ctx context.Context, questionID int64) (sqlcgen.GetQuestionOwnerRow, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).(sqlcgen.GetQuestionOwnerRow), args.Error(1)
}

func (m *mockStore) GetAnswerOwner(ctx context.Context, answerID int64) (sqlcgen.GetAnswerOwnerRow, error) {
	args := m.Called(ctx, answerID)
	return args.Get(0).(sqlcgen.GetAnswerOwnerRow), args.Error(1)
}

func (m *mockStore) QuestionTitleExists(ctx context.Context, arg sqlcgen.QuestionTitleExistsParams) (bool, error) {
	args := m.Called(ctx, arg)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) AnswerContentExists(ctx context.Context, arg sqlcgen.AnswerContentExistsParams) (bool, error) {
	args := m.Called(ctx, arg)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) NextQuestionPosition(ctx context.Context, quizID int64) (int32, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *mockStore) NextAnswerPosition(ctx context.Context, questionID int64) (int32, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *mockStore) UpdateQuestionTitle(ctx context.Context, arg sqlcgen.UpdateQuestionTitleParams) (sqlcgen.Question, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Question), args.Error(1)
}

func (m *mockStore) DeleteQuestion(ctx context.Context, questionID int64) error {
	return m.Called(ctx, questionID).Error(0)
}

func (m *mockStore) UpdateAnswer(ctx context.Context, arg sqlcgen.UpdateAnswerParams) (sqlcgen.Answer, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Answer), args.Error(1)
}

func (m *mockStore) DeleteAnswer(ctx context.Context, answerID int64) error {
	return m.Called(ctx, answerID).Error(0)
}

func (m *mockStore) ClearOtherCorrectAnswers(ctx context.Context, arg sqlcgen.ClearOtherCorrectAnswersParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockStore) PromoteNewestAnswer(ctx context.Context, arg sqlcgen.PromoteNewestAnswerParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}
