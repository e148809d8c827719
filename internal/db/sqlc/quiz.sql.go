package sqlcgen

import "context"

const createQuiz = `-- name: CreateQuiz :one
INSERT INTO quizzes (title, author_id)
VALUES ($1, $2)
RETURNING quiz_id, title, author_id, created_at
`

type CreateQuizParams struct {
	Title    string `json:"title"`
	AuthorID int64  `json:"author_id"`
}

func (q *Queries) CreateQuiz(ctx context.Context, arg CreateQuizParams) (Quiz, error) {
	row := q.db.QueryRow(ctx, createQuiz, arg.Title, arg.AuthorID)
	var i Quiz
	err := row.Scan(&i.QuizID, &i.Title, &i.AuthorID, &i.CreatedAt)
	return i, err
}

const createQuestion = `-- name: CreateQuestion :one
INSERT INTO questions (quiz_id, title, position)
VALUES ($1, $2, $3)
RETURNING question_id, quiz_id, title, position
`

type CreateQuestionParams struct {
	QuizID   int64  `json:"quiz_id"`
	Title    string `json:"title"`
	Position int32  `json:"position"`
}

func (q *Queries) CreateQuestion(ctx context.Context, arg CreateQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, createQuestion, arg.QuizID, arg.Title, arg.Position)
	var i Question
	err := row.Scan(&i.QuestionID, &i.QuizID, &i.Title, &i.Position)
	return i, err
}

const createAnswer = `-- name: CreateAnswer :one
INSERT INTO answers (question_id, content, is_correct, position)
VALUES ($1, $2, $3, $4)
RETURNING answer_id, question_id, content, is_correct, position
`

type CreateAnswerParams struct {
	QuestionID int64  `json:"question_id"`
	Content    string `json:"content"`
	IsCorrect  bool   `json:"is_correct"`
	Position   int32  `json:"position"`
}

func (q *Queries) CreateAnswer(ctx context.Context, arg CreateAnswerParams) (Answer, error) {
	row := q.db.QueryRow(ctx, createAnswer, arg.QuestionID, arg.Content, arg.IsCorrect, arg.Position)
	var i Answer
	err := row.Scan(&i.AnswerID, &i.QuestionID, &i.Content, &i.IsCorrect, &i.Position)
	return i, err
}

const getQuiz = `-- name: GetQuiz :one
SELECT quiz_id, title, author_id, created_at FROM quizzes
WHERE quiz_id = $1
`

func (q *Queries) GetQuiz(ctx context.Context, quizID int64) (Quiz, error) {
	row := q.db.QueryRow(ctx, getQuiz, quizID)
	var i Quiz
	err := row.Scan(&i.QuizID, &i.Title, &i.AuthorID, &i.CreatedAt)
	return i, err
}

const listQuestionsByQuiz = `-- name: ListQuestionsByQuiz :many
SELECT question_id, quiz_id, title, position FROM questions
WHERE quiz_id = $1
ORDER BY position, question_id
`

func (q *Queries) ListQuestionsByQuiz(ctx context.Context, quizID int64) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsByQuiz, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		var i Question
		if err := rows.Scan(&i.QuestionID, &i.QuizID, &i.Title, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listAnswersByQuiz = `-- name: ListAnswersByQuiz :many
SELECT a.answer_id, a.question_id, a.content, a.is_correct, a.position
FROM answers a
JOIN questions q ON q.question_id = a.question_id
WHERE q.quiz_id = $1
ORDER BY a.question_id, a.position, a.answer_id
`

func (q *Queries) ListAnswersByQuiz(ctx context.Context, quizID int64) ([]Answer, error) {
	rows, err := q.db.Query(ctx, listAnswersByQuiz, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Answer
	for rows.Next() {
		var i Answer
		if err := rows.Scan(&i.AnswerID, &i.QuestionID, &i.Content, &i.IsCorrect, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
