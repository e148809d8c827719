package sqlcgen

import "context"

const getQuestionOwner = `-- name: GetQuestionOwner :one
SELECT q.question_id, q.quiz_id, z.author_id
FROM questions q
JOIN quizzes z ON z.quiz_id = q.quiz_id
WHERE q.question_id = $1
`

type GetQuestionOwnerRow struct {
	QuestionID int64 `json:"question_id"`
	QuizID     int64 `json:"quiz_id"`
	AuthorID   int64 `json:"author_id"`
}

func (q *Queries) GetQuestionOwner(ctx context.Context, questionID int64) (GetQuestionOwnerRow, error) {
	row := q.db.QueryRow(ctx, getQuestionOwner, questionID)
	var i GetQuestionOwnerRow
	err := row.Scan(&i.QuestionID, &i.QuizID, &i.AuthorID)
	return i, err
}

const getAnswerOwner = `-- name: GetAnswerOwner :one
SELECT a.answer_id, a.question_id, a.content, a.is_correct, q.quiz_id, z.author_id
FROM answers a
JOIN questions q ON q.question_id = a.question_id
JOIN quizzes z ON z.quiz_id = q.quiz_id
WHERE a.answer_id = $1
`

type GetAnswerOwnerRow struct {
	AnswerID   int64  `json:"answer_id"`
	QuestionID int64  `json:"question_id"`
	Content    string `json:"content"`
	IsCorrect  bool   `json:"is_correct"`
	QuizID     int64  `json:"quiz_id"`
	AuthorID   int64  `json:"author_id"`
}

func (q *Queries) GetAnswerOwner(ctx context.Context, answerID int64) (GetAnswerOwnerRow, error) {
	row := q.db.QueryRow(ctx, getAnswerOwner, answerID)
	var i GetAnswerOwnerRow
	err := row.Scan(&i.AnswerID, &i.QuestionID, &i.Content, &i.IsCorrect, &i.QuizID, &i.AuthorID)
	return i, err
}

const questionTitleExists = `-- name: QuestionTitleExists :one
SELECT EXISTS (
    SELECT 1 FROM questions
    WHERE quiz_id = $1 AND title = $2 AND question_id <> $3
)
`

type QuestionTitleExistsParams struct {
	QuizID    int64  `json:"quiz_id"`
	Title     string `json:"title"`
	ExcludeID int64  `json:"exclude_id"`
}

func (q *Queries) QuestionTitleExists(ctx context.Context, arg QuestionTitleExistsParams) (bool, error) {
	row := q.db.QueryRow(ctx, questionTitleExists, arg.QuizID, arg.Title, arg.ExcludeID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const answerContentExists = `-- name: AnswerContentExists :one
SELECT EXISTS (
    SELECT 1 FROM answers
    WHERE question_id = $1 AND lower(content) = lower($2) AND answer_id <> $3
)
`

type AnswerContentExistsParams struct {
	QuestionID int64  `json:"question_id"`
	Content    string `json:"content"`
	ExcludeID  int64  `json:"exclude_id"`
}

func (q *Queries) AnswerContentExists(ctx context.Context, arg AnswerContentExistsParams) (bool, error) {
	row := q.db.QueryRow(ctx, answerContentExists, arg.QuestionID, arg.Content, arg.ExcludeID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const nextQuestionPosition = `-- name: NextQuestionPosition :one
SELECT COALESCE(MAX(position) + 1, 0)::integer FROM questions
WHERE quiz_id = $1
`

func (q *Queries) NextQuestionPosition(ctx context.Context, quizID int64) (int32, error) {
	row := q.db.QueryRow(ctx, nextQuestionPosition, quizID)
	var position int32
	err := row.Scan(&position)
	return position, err
}

const nextAnswerPosition = `-- name: NextAnswerPosition :one
SELECT COALESCE(MAX(position) + 1, 0)::integer FROM answers
WHERE question_id = $1
`

func (q *Queries) NextAnswerPosition(ctx context.Context, questionID int64) (int32, error) {
	row := q.db.QueryRow(ctx, nextAnswerPosition, questionID)
	var position int32
	err := row.Scan(&position)
	return position, err
}

const updateQuestionTitle = `-- name: UpdateQuestionTitle :one
UPDATE questions SET title = $2
WHERE question_id = $1
RETURNING question_id, quiz_id, title, position
`

type UpdateQuestionTitleParams struct {
	QuestionID int64  `json:"question_id"`
	Title      string `json:"title"`
}

func (q *Queries) UpdateQuestionTitle(ctx context.Context, arg UpdateQuestionTitleParams) (Question, error) {
	row := q.db.QueryRow(ctx, updateQuestionTitle, arg.QuestionID, arg.Title)
	var i Question
	err := row.Scan(&i.QuestionID, &i.QuizID, &i.Title, &i.Position)
	return i, err
}

const deleteQuestion = `-- name: DeleteQuestion :exec
DELETE FROM questions WHERE question_id = $1
`

func (q *Queries) DeleteQuestion(ctx context.Context, questionID int64) error {
	_, err := q.db.Exec(ctx, deleteQuestion, questionID)
	return err
}

const updateAnswer = `-- name: UpdateAnswer :one
UPDATE answers SET content = $2, is_correct = $3
WHERE answer_id = $1
RETURNING answer_id, question_id, content, is_correct, position
`

type UpdateAnswerParams struct {
	AnswerID  int64  `json:"answer_id"`
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

func (q *Queries) UpdateAnswer(ctx context.Context, arg UpdateAnswerParams) (Answer, error) {
	row := q.db.QueryRow(ctx, updateAnswer, arg.AnswerID, arg.Content, arg.IsCorrect)
	var i Answer
	err := row.Scan(&i.AnswerID, &i.QuestionID, &i.Content, &i.IsCorrect, &i.Position)
	return i, err
}

const deleteAnswer = `-- name: DeleteAnswer :exec
DELETE FROM answers WHERE answer_id = $1
`

func (q *Queries) DeleteAnswer(ctx context.Context, answerID int64) error {
	_, err := q.db.Exec(ctx, deleteAnswer, answerID)
	return err
}

const clearOtherCorrectAnswers = `-- name: ClearOtherCorrectAnswers :exec
UPDATE answers SET is_correct = FALSE
WHERE question_id = $1 AND answer_id <> $2 AND is_correct
`

type ClearOtherCorrectAnswersParams struct {
	QuestionID int64 `json:"question_id"`
	AnswerID   int64 `json:"answer_id"`
}

func (q *Queries) ClearOtherCorrectAnswers(ctx context.Context, arg ClearOtherCorrectAnswersParams) error {
	_, err := q.db.Exec(ctx, clearOtherCorrectAnswers, arg.QuestionID, arg.AnswerID)
	return err
}

const promoteNewestAnswer = `-- name: PromoteNewestAnswer :execrows
UPDATE answers SET is_correct = TRUE
WHERE answer_id = (
    SELECT answer_id FROM answers
    WHERE question_id = $1 AND answer_id <> $2
    ORDER BY answer_id DESC
    LIMIT 1
)
AND NOT EXISTS (
    SELECT 1 FROM answers
    WHERE question_id = $1 AND answer_id <> $2 AND is_correct
)
`

// PromoteNewestAnswerParams.ExcludeID is never promoted; zero excludes nothing.
type PromoteNewestAnswerParams struct {
	QuestionID int64 `json:"question_id"`
	ExcludeID  int64 `json:"exclude_id"`
}

func (q *Queries) PromoteNewestAnswer(ctx context.Context, arg PromoteNewestAnswerParams) (int64, error) {
	result, err := q.db.Exec(ctx, promoteNewestAnswer, arg.QuestionID, arg.ExcludeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
