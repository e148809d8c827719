package sqlcgen

import "context"

const createGameResult = `-- name: CreateGameResult :one
INSERT INTO game_results (quiz_id)
VALUES ($1)
RETURNING result_id, quiz_id, created_at
`

func (q *Queries) CreateGameResult(ctx context.Context, quizID int64) (GameResult, error) {
	row := q.db.QueryRow(ctx, createGameResult, quizID)
	var i GameResult
	err := row.Scan(&i.ResultID, &i.QuizID, &i.CreatedAt)
	return i, err
}

const createPlayerRecord = `-- name: CreatePlayerRecord :one
INSERT INTO player_results (result_id, user_id, username, score)
VALUES ($1, $2, $3, $4)
RETURNING player_result_id, result_id, user_id, username, score
`

type CreatePlayerRecordParams struct {
	ResultID int64  `json:"result_id"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Score    int32  `json:"score"`
}

func (q *Queries) CreatePlayerRecord(ctx context.Context, arg CreatePlayerRecordParams) (PlayerResult, error) {
	row := q.db.QueryRow(ctx, createPlayerRecord, arg.ResultID, arg.UserID, arg.Username, arg.Score)
	var i PlayerResult
	err := row.Scan(&i.PlayerResultID, &i.ResultID, &i.UserID, &i.Username, &i.Score)
	return i, err
}

const createAnswerLog = `-- name: CreateAnswerLog :exec
INSERT INTO answer_logs (player_result_id, answer_id)
VALUES ($1, $2)
`

type CreateAnswerLogParams struct {
	PlayerResultID int64 `json:"player_result_id"`
	AnswerID       int64 `json:"answer_id"`
}

func (q *Queries) CreateAnswerLog(ctx context.Context, arg CreateAnswerLogParams) error {
	_, err := q.db.Exec(ctx, createAnswerLog, arg.PlayerResultID, arg.AnswerID)
	return err
}

const getGameResult = `-- name: GetGameResult :one
SELECT result_id, quiz_id, created_at FROM game_results
WHERE result_id = $1
`

func (q *Queries) GetGameResult(ctx context.Context, resultID int64) (GameResult, error) {
	row := q.db.QueryRow(ctx, getGameResult, resultID)
	var i GameResult
	err := row.Scan(&i.ResultID, &i.QuizID, &i.CreatedAt)
	return i, err
}

const listPlayerResults = `-- name: ListPlayerResults :many
SELECT player_result_id, result_id, user_id, username, score FROM player_results
WHERE result_id = $1
ORDER BY score DESC, player_result_id
`

func (q *Queries) ListPlayerResults(ctx context.Context, resultID int64) ([]PlayerResult, error) {
	rows, err := q.db.Query(ctx, listPlayerResults, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlayerResult
	for rows.Next() {
		var i PlayerResult
		if err := rows.Scan(&i.PlayerResultID, &i.ResultID, &i.UserID, &i.Username, &i.Score); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAnswerLogsByResult = `-- name: ListAnswerLogsByResult :many
SELECT l.player_result_id, l.answer_id
FROM answer_logs l
JOIN player_results p ON p.player_result_id = l.player_result_id
WHERE p.result_id = $1
ORDER BY l.player_result_id, l.answer_id
`

func (q *Queries) ListAnswerLogsByResult(ctx context.Context, resultID int64) ([]AnswerLog, error) {
	rows, err := q.db.Query(ctx, listAnswerLogsByResult, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AnswerLog
	for rows.Next() {
		var i AnswerLog
		if err := rows.Scan(&i.PlayerResultID, &i.AnswerID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
