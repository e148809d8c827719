package quiz

import (
	"context"
	"fmt"
	"strconv"
)

// AddQuestion appends a question (with optional answers) to quizID.
func (s *Service) AddQuestion(ctx context.Context, callerID, quizID int64, req CreateQuestionRequest) (Question, error) {
	if err := req.Validate(); err != nil {
		return Question{}, err
	}
	owner, err := s.authorize(ctx, callerID, s.repo.QuizOwner, quizID, "quiz")
	if err != nil {
		return Question{}, err
	}

	q, err := s.repo.AddQuestion(ctx, quizID, req)
	if err != nil {
		return Question{}, fmt.Errorf("add question to quiz %d: %w", quizID, err)
	}
	s.evict(ctx, owner.QuizID)
	s.logger.Info().Int64("quiz_id", quizID).Int64("question_id", q.ID).Msg("question added")
	return q, nil
}

// UpdateQuestion renames questionID.
func (s *Service) UpdateQuestion(ctx context.Context, callerID, questionID int64, req UpdateQuestionRequest) (Question, error) {
	if err := req.Validate(); err != nil {
		return Question{}, err
	}
	owner, err := s.authorize(ctx, callerID, s.repo.QuestionOwner, questionID, "question")
	if err != nil {
		return Question{}, err
	}

	q, err := s.repo.UpdateQuestion(ctx, questionID, req)
	if err != nil {
		return Question{}, fmt.Errorf("update question %d: %w", questionID, err)
	}
	s.evict(ctx, owner.QuizID)
	return q, nil
}

// DeleteQuestion removes questionID and its answers.
func (s *Service) DeleteQuestion(ctx context.Context, callerID, questionID int64) error {
	owner, err := s.authorize(ctx, callerID, s.repo.QuestionOwner, questionID, "question")
	if err != nil {
		return err
	}
	if err := s.repo.DeleteQuestion(ctx, questionID); err != nil {
		return fmt.Errorf("delete question %d: %w", questionID, err)
	}
	s.evict(ctx, owner.QuizID)
	s.logger.Info().Int64("quiz_id", owner.QuizID).Int64("question_id", questionID).Msg("question deleted")
	return nil
}

// AddAnswer appends an answer to questionID. A correct answer clears the
// question's previous correct one.
func (s *Service) AddAnswer(ctx context.Context, callerID, questionID int64, req CreateAnswerRequest) (Answer, error) {
	if err := req.Validate(); err != nil {
		return Answer{}, err
	}
	owner, err := s.authorize(ctx, callerID, s.repo.QuestionOwner, questionID, "question")
	if err != nil {
		return Answer{}, err
	}

	a, err := s.repo.AddAnswer(ctx, questionID, req)
	if err != nil {
		return Answer{}, fmt.Errorf("add answer to question %d: %w", questionID, err)
	}
	s.evict(ctx, owner.QuizID)
	return a, nil
}

// UpdateAnswer changes content and/or correctness of answerID.
func (s *Service) UpdateAnswer(ctx context.Context, callerID, answerID int64, req UpdateAnswerRequest) (Answer, error) {
	if err := req.Validate(); err != nil {
		return Answer{}, err
	}
	owner, err := s.authorize(ctx, callerID, s.repo.AnswerOwner, answerID, "answer")
	if err != nil {
		return Answer{}, err
	}

	a, err := s.repo.UpdateAnswer(ctx, answerID, req)
	if err != nil {
		return Answer{}, fmt.Errorf("update answer %d: %w", answerID, err)
	}
	s.evict(ctx, owner.QuizID)
	return a, nil
}

// DeleteAnswer removes answerID. Deleting the correct answer promotes the
// newest remaining one.
func (s *Service) DeleteAnswer(ctx context.Context, callerID, answerID int64) error {
	owner, err := s.authorize(ctx, callerID, s.repo.AnswerOwner, answerID, "answer")
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAnswer(ctx, answerID); err != nil {
		return fmt.Errorf("delete answer %d: %w", answerID, err)
	}
	s.evict(ctx, owner.QuizID)
	return nil
}

func (s *Service) authorize(ctx context.Context, callerID int64, lookup func(context.Context, int64) (Ownership, error), id int64, kind string) (Ownership, error) {
	owner, err := lookup(ctx, id)
	if err != nil {
		return Ownership{}, fmt.Errorf("%s %d: %w", kind, id, err)
	}
	if owner.AuthorID != callerID {
		return Ownership{}, fmt.Errorf("%s %d: %w", kind, id, ErrForbidden)
	}
	return owner, nil
}

// evict drops the cached snapshot so the next session sees the edit. An
// in-flight load is forgotten so it cannot be shared with later callers.
func (s *Service) evict(ctx context.Context, quizID int64) {
	s.sf.Forget(strconv.FormatInt(quizID, 10))
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, quizID); err != nil {
		s.logger.Warn().Err(err).Int64("quiz_id", quizID).Msg("quiz cache eviction failed")
	}
}
