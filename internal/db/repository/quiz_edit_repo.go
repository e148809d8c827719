package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	sqlcgen "github.com/gokatarajesh/quiz-live/internal/db/sqlc"
	"github.com/gokatarajesh/quiz-live/internal/quiz"
)

// QuizOwner returns the author of quizID.
func (r *QuizRepository) QuizOwner(ctx context.Context, quizID int64) (quiz.Ownership, error) {
	row, err := r.store.GetQuiz(ctx, quizID)
	if err != nil {
		return quiz.Ownership{}, notFound(err, "get quiz")
	}
	return quiz.Ownership{QuizID: row.QuizID, AuthorID: row.AuthorID}, nil
}

// QuestionOwner returns the quiz and author owning questionID.
func (r *QuizRepository) QuestionOwner(ctx context.Context, questionID int64) (quiz.Ownership, error) {
	row, err := r.store.GetQuestionOwner(ctx, questionID)
	if err != nil {
		return quiz.Ownership{}, notFound(err, "get question owner")
	}
	return quiz.Ownership{QuizID: row.QuizID, AuthorID: row.AuthorID, QuestionID: row.QuestionID}, nil
}

// AnswerOwner returns the question, quiz and author owning answerID.
func (r *QuizRepository) AnswerOwner(ctx context.Context, answerID int64) (quiz.Ownership, error) {
	row, err := r.store.GetAnswerOwner(ctx, answerID)
	if err != nil {
		return quiz.Ownership{}, notFound(err, "get answer owner")
	}
	return quiz.Ownership{QuizID: row.QuizID, AuthorID: row.AuthorID, QuestionID: row.QuestionID}, nil
}

// AddQuestion appends a question after the quiz's last one.
func (r *QuizRepository) AddQuestion(ctx context.Context, quizID int64, req quiz.CreateQuestionRequest) (quiz.Question, error) {
	var out quiz.Question
	err := r.store.ExecTx(ctx, func(q sqlcgen.Querier) error {
		taken, err := q.QuestionTitleExists(ctx, sqlcgen.QuestionTitleExistsParams{QuizID: quizID, Title: req.Title})
		if err != nil {
			return fmt.Errorf("check question title: %w", err)
		}
		if taken {
			return fmt.Errorf("question %q: %w", req.Title, quiz.ErrDuplicate)
		}

		position, err := q.NextQuestionPosition(ctx, quizID)
		if err != nil {
			return fmt.Errorf("next question position: %w", err)
		}
		question, err := q.CreateQuestion(ctx, sqlcgen.CreateQuestionParams{QuizID: quizID, Title: req.Title, Position: position})
		if err != nil {
			return fmt.Errorf("insert question %q: %w", req.Title, err)
		}

		out = quiz.Question{ID: question.QuestionID, Title: question.Title}
		for i, ar := range req.Answers {
			answer, err := q.CreateAnswer(ctx, sqlcgen.CreateAnswerParams{
				QuestionID: question.QuestionID,
				Content:    ar.Content,
				IsCorrect:  ar.IsCorrect,
				Position:   int32(i),
			})
			if err != nil {
				return fmt.Errorf("insert answer %q: %w", ar.Content, err)
			}
			out.Answers = append(out.Answers, toAnswer(answer))
		}
		return nil
	})
	if err != nil {
		return quiz.Question{}, duplicateOr(err)
	}
	return out, nil
}

// UpdateQuestion renames questionID unless another question of the quiz has the title.
func (r *QuizRepository) UpdateQuestion(ctx context.Context, questionID int64, req quiz.UpdateQuestionRequest) (quiz.Question, error) {
	var out quiz.Question
	err := r.store.ExecTx(ctx, func(q sqlcgen.Querier) error {
		owner, err := q.GetQuestionOwner(ctx, questionID)
		if err != nil {
			return notFound(err, "get question owner")
		}
		taken, err := q.QuestionTitleExists(ctx, sqlcgen.QuestionTitleExistsParams{
			QuizID:    owner.QuizID,
			Title:     req.Title,
			ExcludeID: questionID,
		})
		if err != nil {
			return fmt.Errorf("check question title: %w", err)
		}
		if taken {
			return fmt.Errorf("question %q: %w", req.Title, quiz.ErrDuplicate)
		}

		row, err := q.UpdateQuestionTitle(ctx, sqlcgen.UpdateQuestionTitleParams{QuestionID: questionID, Title: req.Title})
		if err != nil {
			return fmt.Errorf("update question: %w", err)
		}
		out = quiz.Question{ID: row.QuestionID, Title: row.Title}
		return nil
	})
	if err != nil {
		return quiz.Question{}, duplicateOr(err)
	}
	return out, nil
}

func (r *QuizRepository) DeleteQuestion(ctx context.Context, questionID int64) error {
	return r.store.ExecTx(ctx, func(q sqlcgen.Querier) error {
		if err := q.DeleteQuestion(ctx, questionID); err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		return nil
	})
}

// AddAnswer appends an answer. A correct answer clears the others; an
// incorrect one is promoted when the question had no correct answer yet.
func (r *QuizRepository) AddAnswer(ctx context.Context, questionID int64, req quiz.CreateAnswerRequest) (quiz.Answer, error) {
	var out quiz.Answer
	err := r.store.ExecTx(ctx, func(q sqlcgen.Querier) error {
		taken, err := q.AnswerContentExists(ctx, sqlcgen.AnswerContentExistsParams{QuestionID: questionID, Content: req.Content})
		if err != nil {
			return fmt.Errorf("check answer content: %w", err)
		}
		if taken {
			return fmt.Errorf("answer %q: %w", req.Content, quiz.ErrDuplicate)
		}

		position, err := q.NextAnswerPosition(ctx, questionID)
		if err != nil {
			return fmt.Errorf("next answer position: %w", err)
		}
		row, err := q.CreateAnswer(ctx, sqlcgen.CreateAnswerParams{
			QuestionID: questionID,
			Content:    req.Content,
			IsCorrect:  req.IsCorrect,
			Position:   position,
		})
		if err != nil {
			return fmt.Errorf("insert answer %q: %w", req.Content, err)
		}
		out = toAnswer(row)

		if row.IsCorrect {
			return clearOthers(ctx, q, questionID, row.AnswerID)
		}
		// the new row has the highest id, so it is the one promoted
		promoted, err := q.PromoteNewestAnswer(ctx, sqlcgen.PromoteNewestAnswerParams{QuestionID: questionID})
		if err != nil {
			return fmt.Errorf("promote answer: %w", err)
		}
		out.IsCorrect = promoted > 0
		return nil
	})
	if err != nil {
		return quiz.Answer{}, duplicateOr(err)
	}
	return out, nil
}

// UpdateAnswer applies the non-nil fields of req. Marking an answer correct
// clears the others. Unmarking the correct answer promotes the newest other
// answer; an answer with no siblings stays correct.
func (r *QuizRepository) UpdateAnswer(ctx context.Context, answerID int64, req quiz.UpdateAnswerRequest) (quiz.Answer, error) {
	var out quiz.Answer
	err := r.store.ExecTx(ctx, func(q sqlcgen.Querier) error {
		cur, err := q.GetAnswerOwner(ctx, answerID)
		if err != nil {
			return notFound(err, "get answer")
		}

		content := cur.Content
		if req.Content != nil && *req.Content != cur.Content {
			taken, err := q.AnswerContentExists(ctx, sqlcgen.AnswerContentExistsParams{
				QuestionID: cur.QuestionID,
				Content:    *req.Content,
				ExcludeID:  answerID,
			})
			if err != nil {
				return fmt.Errorf("check answer content: %w", err)
			}
			if taken {
				return fmt.Errorf("answer %q: %w", *req.Content, quiz.ErrDuplicate)
			}
			content = *req.Content
		}

		correct := cur.IsCorrect
		if req.IsCorrect != nil {
			correct = *req.IsCorrect
		}
		if cur.IsCorrect && !correct {
			promoted, err := q.PromoteNewestAnswer(ctx, sqlcgen.PromoteNewestAnswerParams{
				QuestionID: cur.QuestionID,
				ExcludeID:  answerID,
			})
			if err != nil {
				return fmt.Errorf("promote answer: %w", err)
			}
			correct = promoted == 0
		}

		row, err := q.UpdateAnswer(ctx, sqlcgen.UpdateAnswerParams{AnswerID: answerID, Content: content, IsCorrect: correct})
		if err != nil {
			return fmt.Errorf("update answer: %w", err)
		}
		out = toAnswer(row)

		if correct && !cur.IsCorrect {
			return clearOthers(ctx, q, cur.QuestionID, answerID)
		}
		return nil
	})
	if err != nil {
		return quiz.Answer{}, duplicateOr(err)
	}
	return out, nil
}

// DeleteAnswer removes answerID; when it was the correct one the newest
// remaining answer takes its place.
func (r *QuizRepository) DeleteAnswer(ctx context.Context, answerID int64) error {
	return r.store.ExecTx(ctx, func(q sqlcgen.Querier) error {
		cur, err := q.GetAnswerOwner(ctx, answerID)
		if err != nil {
			return notFound(err, "get answer")
		}
		if err := q.DeleteAnswer(ctx, answerID); err != nil {
			return fmt.Errorf("delete answer: %w", err)
		}
		if !cur.IsCorrect {
			return nil
		}
		if _, err := q.PromoteNewestAnswer(ctx, sqlcgen.PromoteNewestAnswerParams{QuestionID: cur.QuestionID}); err != nil {
			return fmt.Errorf("promote answer: %w", err)
		}
		return nil
	})
}

func clearOthers(ctx context.Context, q sqlcgen.Querier, questionID, answerID int64) error {
	err := q.ClearOtherCorrectAnswers(ctx, sqlcgen.ClearOtherCorrectAnswersParams{QuestionID: questionID, AnswerID: answerID})
	if err != nil {
		return fmt.Errorf("clear correct answers: %w", err)
	}
	return nil
}

func toAnswer(row sqlcgen.Answer) quiz.Answer {
	return quiz.Answer{ID: row.AnswerID, Content: row.Content, IsCorrect: row.IsCorrect}
}

// duplicateOr turns a unique violation that slipped past the existence check
// into ErrDuplicate.
func duplicateOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, quiz.ErrDuplicate)
	}
	return err
}

const uniqueViolation = "23505"

func notFound(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return quiz.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
