package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	sqlcgen "github.com/gokatarajesh/quiz-live/internal/db/sqlc"
	"github.com/gokatarajesh/quiz-live/internal/quiz"
)

type quizStore interface {
	GetQuiz(ctx context.Context, quizID int64) (sqlcgen.Quiz, error)
	ListQuestionsByQuiz(ctx context.Context, quizID int64) ([]sqlcgen.Question, error)
	ListAnswersByQuiz(ctx context.Context, quizID int64) ([]sqlcgen.Answer, error)
	GetQuestionOwner(ctx context.Context, questionID int64) (sqlcgen.GetQuestionOwnerRow, error)
	GetAnswerOwner(ctx context.Context, answerID int64) (sqlcgen.GetAnswerOwnerRow, error)
	ExecTx(ctx context.Context, fn func(sqlcgen.Querier) error) error
}

// QuizRepository loads and stores quizzes with their questions and answers.
type QuizRepository struct {
	store quizStore
}

var _ quiz.Repository = (*QuizRepository)(nil)

// NewQuizRepository constructs a new quiz repository.
func NewQuizRepository(store quizStore) *QuizRepository {
	return &QuizRepository{store: store}
}

// Load assembles the full snapshot of quizID, questions and answers in position order.
func (r *QuizRepository) Load(ctx context.Context, quizID int64) (quiz.Quiz, error) {
	row, err := r.store.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quiz.Quiz{}, fmt.Errorf("quiz %d: %w", quizID, quiz.ErrNotFound)
		}
		return quiz.Quiz{}, fmt.Errorf("get quiz %d: %w", quizID, err)
	}

	questions, err := r.store.ListQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("list questions for quiz %d: %w", quizID, err)
	}
	answers, err := r.store.ListAnswersByQuiz(ctx, quizID)
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("list answers for quiz %d: %w", quizID, err)
	}

	byQuestion := make(map[int64][]quiz.Answer, len(questions))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], quiz.Answer{
			ID:        a.AnswerID,
			Content:   a.Content,
			IsCorrect: a.IsCorrect,
		})
	}

	out := quiz.Quiz{
		ID:        row.QuizID,
		Title:     row.Title,
		AuthorID:  row.AuthorID,
		Questions: make([]quiz.Question, 0, len(questions)),
	}
	for _, q := range questions {
		out.Questions = append(out.Questions, quiz.Question{
			ID:      q.QuestionID,
			Title:   q.Title,
			Answers: byQuestion[q.QuestionID],
		})
	}
	return out, nil
}

// Create writes the quiz and all of its questions and answers in one transaction.
func (r *QuizRepository) Create(ctx context.Context, authorID int64, req quiz.CreateRequest) (quiz.Quiz, error) {
	var out quiz.Quiz
	err := r.store.ExecTx(ctx, func(q sqlcgen.Querier) error {
		row, err := q.CreateQuiz(ctx, sqlcgen.CreateQuizParams{Title: req.Title, AuthorID: authorID})
		if err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}
		out = quiz.Quiz{ID: row.QuizID, Title: row.Title, AuthorID: row.AuthorID}

		for i, qr := range req.Questions {
			question, err := q.CreateQuestion(ctx, sqlcgen.CreateQuestionParams{
				QuizID:   row.QuizID,
				Title:    qr.Title,
				Position: int32(i),
			})
			if err != nil {
				return fmt.Errorf("insert question %q: %w", qr.Title, err)
			}

			built := quiz.Question{ID: question.QuestionID, Title: question.Title}
			for j, ar := range qr.Answers {
				answer, err := q.CreateAnswer(ctx, sqlcgen.CreateAnswerParams{
					QuestionID: question.QuestionID,
					Content:    ar.Content,
					IsCorrect:  ar.IsCorrect,
					Position:   int32(j),
				})
				if err != nil {
					return fmt.Errorf("insert answer %q: %w", ar.Content, err)
				}
				built.Answers = append(built.Answers, quiz.Answer{
					ID:        answer.AnswerID,
					Content:   answer.Content,
					IsCorrect: answer.IsCorrect,
				})
			}
			out.Questions = append(out.Questions, built)
		}
		return nil
	})
	if err != nil {
		return quiz.Quiz{}, err
	}
	return out, nil
}
