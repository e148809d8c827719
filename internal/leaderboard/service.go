package leaderboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-live/internal/game"
)

// Entry represents a leaderboard record sent to clients.
type Entry struct {
	Rank     int    `json:"rank"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Games    int    `json:"games"`
}

// ServiceOptions configures leaderboard service behavior.
type ServiceOptions struct {
	TopN           int
	EntryTTL       time.Duration
	RedisKeyPrefix string
}

// Service keeps one ranking per quiz in Redis. A player's rank is driven by
// their best finished game on that quiz.
type Service struct {
	redis    *redis.Client
	logger   zerolog.Logger
	topN     int
	entryTTL time.Duration
	prefix   string
}

var _ game.ScoreRecorder = (*Service)(nil)

// NewService constructs a leaderboard service instance.
func NewService(redis *redis.Client, logger zerolog.Logger, opts ServiceOptions) *Service {
	topN := opts.TopN
	if topN <= 0 {
		topN = 50
	}
	prefix := opts.RedisKeyPrefix
	if prefix == "" {
		prefix = "lb"
	}
	return &Service{
		redis:    redis,
		logger:   logger.With().Str("component", "leaderboard").Logger(),
		topN:     topN,
		entryTTL: opts.EntryTTL,
		prefix:   prefix,
	}
}

// RecordScores folds one finished game into the quiz ranking.
func (s *Service) RecordScores(ctx context.Context, quizID int64, scores []game.PlayerScore) error {
	if len(scores) == 0 {
		return nil
	}
	zKey := s.leaderboardKey(quizID)

	pipe := s.redis.TxPipeline()
	for _, sc := range scores {
		member := strconv.FormatInt(sc.UserID, 10)
		metaKey := s.metaKey(quizID, sc.UserID)

		// GT keeps the best score; a first game still inserts the member
		pipe.ZAddGT(ctx, zKey, redis.Z{Score: float64(sc.Score), Member: member})
		pipe.HIncrBy(ctx, metaKey, "games", 1)
		pipe.HSet(ctx, metaKey, "username", sc.Username)
		if s.entryTTL > 0 {
			pipe.Expire(ctx, metaKey, s.entryTTL)
		}
	}
	if s.entryTTL > 0 {
		pipe.Expire(ctx, zKey, s.entryTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update leaderboard for quiz %d: %w", quizID, err)
	}
	s.logger.Debug().Int64("quiz_id", quizID).Int("players", len(scores)).Msg("leaderboard updated")
	return nil
}

// Top retrieves the best entries of a quiz, highest score first.
func (s *Service) Top(ctx context.Context, quizID int64, limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.topN {
		limit = s.topN
	}

	results, err := s.redis.ZRevRangeWithScores(ctx, s.leaderboardKey(quizID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, z := range results {
		member, _ := z.Member.(string)
		userID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			s.logger.Warn().Str("member", member).Msg("skipping malformed leaderboard member")
			continue
		}
		entry, err := s.readMeta(ctx, quizID, userID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard metadata")
			continue
		}
		entry.Rank = len(entries) + 1
		entry.Score = int(z.Score)
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Service) readMeta(ctx context.Context, quizID, userID int64) (Entry, error) {
	data, err := s.redis.HGetAll(ctx, s.metaKey(quizID, userID)).Result()
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		UserID:   userID,
		Username: data["username"],
		Games:    parseInt(data["games"]),
	}, nil
}

func (s *Service) leaderboardKey(quizID int64) string {
	return fmt.Sprintf("%s:quiz:%d", s.prefix, quizID)
}

func (s *Service) metaKey(quizID, userID int64) string {
	return fmt.Sprintf("%s:quiz:%d:meta:%d", s.prefix, quizID, userID)
}

func parseInt(val string) int {
	if val == "" {
		return 0
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
