package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	sqlcgen "github.com/gokatarajesh/quiz-live/internal/db/sqlc"
	"github.com/gokatarajesh/quiz-live/internal/game"
)

type resultStore interface {
	CreateGameResult(ctx context.Context, quizID int64) (sqlcgen.GameResult, error)
	GetGameResult(ctx context.Context, resultID int64) (sqlcgen.GameResult, error)
	ListPlayerResults(ctx context.Context, resultID int64) ([]sqlcgen.PlayerResult, error)
	ListAnswerLogsByResult(ctx context.Context, resultID int64) ([]sqlcgen.AnswerLog, error)
	ExecTx(ctx context.Context, fn func(sqlcgen.Querier) error) error
}

// ResultRepository persists finished games.
type ResultRepository struct {
	store resultStore
}

var (
	_ game.ResultStore  = (*ResultRepository)(nil)
	_ game.ResultReader = (*ResultRepository)(nil)
)

// NewResultRepository constructs a new result repository.
func NewResultRepository(store resultStore) *ResultRepository {
	return &ResultRepository{store: store}
}

// CreateGameResult inserts the result header row.
func (r *ResultRepository) CreateGameResult(ctx context.Context, quizID int64) (int64, error) {
	row, err := r.store.CreateGameResult(ctx, quizID)
	if err != nil {
		return 0, fmt.Errorf("create game result for quiz %d: %w", quizID, err)
	}
	return row.ResultID, nil
}

// CreatePlayerResult writes one player record and its answer logs atomically.
func (r *ResultRepository) CreatePlayerResult(ctx context.Context, res game.PlayerResult) (int64, error) {
	var id int64
	err := r.store.ExecTx(ctx, func(q sqlcgen.Querier) error {
		row, err := q.CreatePlayerRecord(ctx, sqlcgen.CreatePlayerRecordParams{
			ResultID: res.ResultID,
			UserID:   res.UserID,
			Username: res.Username,
			Score:    int32(res.Score),
		})
		if err != nil {
			return fmt.Errorf("insert player record: %w", err)
		}
		id = row.PlayerResultID

		for _, answerID := range res.CorrectAnswerIDs {
			if err := q.CreateAnswerLog(ctx, sqlcgen.CreateAnswerLogParams{
				PlayerResultID: row.PlayerResultID,
				AnswerID:       answerID,
			}); err != nil {
				return fmt.Errorf("insert answer log %d: %w", answerID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("player %d result %d: %w", res.UserID, res.ResultID, err)
	}
	return id, nil
}

// GetResult loads a result with its player rows and their correct answers.
func (r *ResultRepository) GetResult(ctx context.Context, resultID int64) (game.ResultSummary, error) {
	row, err := r.store.GetGameResult(ctx, resultID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return game.ResultSummary{}, fmt.Errorf("result %d: %w", resultID, game.ErrNotFound)
		}
		return game.ResultSummary{}, fmt.Errorf("get result %d: %w", resultID, err)
	}

	players, err := r.store.ListPlayerResults(ctx, resultID)
	if err != nil {
		return game.ResultSummary{}, fmt.Errorf("list players for result %d: %w", resultID, err)
	}
	logs, err := r.store.ListAnswerLogsByResult(ctx, resultID)
	if err != nil {
		return game.ResultSummary{}, fmt.Errorf("list answer logs for result %d: %w", resultID, err)
	}

	answers := make(map[int64][]int64, len(players))
	for _, l := range logs {
		answers[l.PlayerResultID] = append(answers[l.PlayerResultID], l.AnswerID)
	}

	summary := game.ResultSummary{
		ID:        row.ResultID,
		QuizID:    row.QuizID,
		CreatedAt: row.CreatedAt.Time,
		Players:   make([]game.PlayerResultEntry, 0, len(players)),
	}
	for _, p := range players {
		ids := answers[p.PlayerResultID]
		if ids == nil {
			ids = []int64{}
		}
		summary.Players = append(summary.Players, game.PlayerResultEntry{
			UserID:           p.UserID,
			Username:         p.Username,
			Score:            int(p.Score),
			CorrectAnswerIDs: ids,
		})
	}
	return summary, nil
}
