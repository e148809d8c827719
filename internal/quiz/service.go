package quiz

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Repository persists authored quizzes. The edit methods keep exactly one
// correct answer on every question that has answers and return ErrDuplicate
// for a taken question title or answer content.
type Repository interface {
	Load(ctx context.Context, quizID int64) (Quiz, error)
	Create(ctx context.Context, authorID int64, req CreateRequest) (Quiz, error)

	QuizOwner(ctx context.Context, quizID int64) (Ownership, error)
	QuestionOwner(ctx context.Context, questionID int64) (Ownership, error)
	AnswerOwner(ctx context.Context, answerID int64) (Ownership, error)

	AddQuestion(ctx context.Context, quizID int64, req CreateQuestionRequest) (Question, error)
	UpdateQuestion(ctx context.Context, questionID int64, req UpdateQuestionRequest) (Question, error)
	DeleteQuestion(ctx context.Context, questionID int64) error
	AddAnswer(ctx context.Context, questionID int64, req CreateAnswerRequest) (Answer, error)
	UpdateAnswer(ctx context.Context, answerID int64, req UpdateAnswerRequest) (Answer, error)
	DeleteAnswer(ctx context.Context, answerID int64) error
}

// SnapshotCache is implemented by the Redis-backed Cache.
type SnapshotCache interface {
	Get(ctx context.Context, quizID int64) (*Quiz, error)
	Set(ctx context.Context, q Quiz) error
	Delete(ctx context.Context, quizID int64) error
}

// Service loads quiz snapshots (cache first, then repository) and handles authoring.
type Service struct {
	repo   Repository
	cache  SnapshotCache
	sf     singleflight.Group
	logger zerolog.Logger
}

func NewService(repo Repository, cache SnapshotCache, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger.With().Str("component", "quiz_service").Logger(),
	}
}

// Load returns the quiz snapshot used to seed a game session. Concurrent
// misses for the same quiz share one repository load.
func (s *Service) Load(ctx context.Context, quizID int64) (Quiz, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, quizID); err == nil && cached != nil {
			return *cached, nil
		} else if err != nil {
			s.logger.Warn().Err(err).Int64("quiz_id", quizID).Msg("quiz cache read failed")
		}
	}

	v, err, _ := s.sf.Do(strconv.FormatInt(quizID, 10), func() (interface{}, error) {
		q, err := s.repo.Load(ctx, quizID)
		if err != nil {
			return Quiz{}, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, q); err != nil {
				s.logger.Warn().Err(err).Int64("quiz_id", quizID).Msg("quiz cache write failed")
			}
		}
		return q, nil
	})
	if err != nil {
		return Quiz{}, fmt.Errorf("load quiz %d: %w", quizID, err)
	}
	return v.(Quiz), nil
}

// Create validates and stores a new quiz owned by authorID.
func (s *Service) Create(ctx context.Context, authorID int64, req CreateRequest) (Quiz, error) {
	if err := req.Validate(); err != nil {
		return Quiz{}, err
	}
	q, err := s.repo.Create(ctx, authorID, req)
	if err != nil {
		return Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	s.logger.Info().Int64("quiz_id", q.ID).Int64("author_id", authorID).Int("questions", len(q.Questions)).Msg("quiz created")
	return q, nil
}
