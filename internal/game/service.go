package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-live/internal/quiz"
)

const maxCodeAttempts = 10

// QuizLoader resolves the snapshot a session plays.
type QuizLoader interface {
	Load(ctx context.Context, quizID int64) (quiz.Quiz, error)
}

// ResultReader looks up persisted results.
type ResultReader interface {
	GetResult(ctx context.Context, resultID int64) (ResultSummary, error)
}

// Caller is an authenticated user acting on a session.
type Caller struct {
	ID       int64
	Username string
}

type ServiceOptions struct {
	CodeLength int
}

// Service is the entry point used by the HTTP and WebSocket handlers.
type Service struct {
	registry   *Registry
	quizzes    QuizLoader
	results    ResultReader
	codeLength int
	logger     zerolog.Logger
}

func NewService(registry *Registry, quizzes QuizLoader, results ResultReader, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.CodeLength <= 0 {
		opts.CodeLength = DefaultCodeLength
	}
	return &Service{
		registry:   registry,
		quizzes:    quizzes,
		results:    results,
		codeLength: opts.CodeLength,
		logger:     logger.With().Str("component", "game_service").Logger(),
	}
}

// CreateSession snapshots quizID and opens a lobby under a fresh code.
func (s *Service) CreateSession(ctx context.Context, quizID, callerID int64) (string, error) {
	q, err := s.quizzes.Load(ctx, quizID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return "", fmt.Errorf("quiz %d: %w", quizID, ErrNotFound)
		}
		return "", err
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := GenerateCode(s.codeLength)
		if _, err := s.registry.Create(code, q); err != nil {
			if errors.Is(err, ErrAlreadyExists) {
				continue
			}
			return "", err
		}
		s.logger.Info().Str("session", code).Int64("quiz_id", quizID).Int64("user_id", callerID).Msg("session opened")
		return code, nil
	}
	return "", fmt.Errorf("%d attempts: %w", maxCodeAttempts, ErrCodeSpaceExhausted)
}

// Snapshot returns the current state of a session.
func (s *Service) Snapshot(code string) (SessionSnapshot, error) {
	g, err := s.session(code)
	if err != nil {
		return SessionSnapshot{}, err
	}
	return g.Snapshot(), nil
}

func (s *Service) JoinSession(ctx context.Context, code string, caller Caller) (PlayerView, error) {
	g, err := s.session(code)
	if err != nil {
		return PlayerView{}, err
	}
	return g.AddPlayer(caller.ID, caller.Username)
}

// LeaveSession reports false when the caller was not playing.
func (s *Service) LeaveSession(ctx context.Context, code string, callerID int64) (bool, error) {
	g, err := s.session(code)
	if err != nil {
		return false, err
	}
	return g.RemovePlayer(callerID), nil
}

// StartSession is reserved to the quiz author.
func (s *Service) StartSession(ctx context.Context, code string, callerID int64) error {
	g, err := s.session(code)
	if err != nil {
		return err
	}
	if g.Quiz().AuthorID != callerID {
		return fmt.Errorf("user %d cannot start session %s: %w", callerID, code, ErrForbidden)
	}
	return g.Start()
}

func (s *Service) SubmitAnswer(ctx context.Context, code string, callerID, answerID int64) error {
	g, err := s.session(code)
	if err != nil {
		return err
	}
	return g.SubmitAnswer(callerID, answerID)
}

// GenerateCode hands out a code that is free right now. It is not reserved.
func (s *Service) GenerateCode() string {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := GenerateCode(s.codeLength)
		if _, taken := s.registry.Get(code); !taken {
			return code
		}
	}
	return GenerateCode(s.codeLength)
}

func (s *Service) GetResult(ctx context.Context, resultID int64) (ResultSummary, error) {
	if s.results == nil {
		return ResultSummary{}, fmt.Errorf("result %d: %w", resultID, ErrNotFound)
	}
	return s.results.GetResult(ctx, resultID)
}

func (s *Service) session(code string) (*GameState, error) {
	g, ok := s.registry.Get(code)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", code, ErrNotFound)
	}
	return g, nil
}
