package quiz

import "errors"

var (
	// ErrNotFound is returned when a quiz, question or answer id does not
	// resolve to a stored row.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps authoring validation failures.
	ErrInvalid = errors.New("invalid quiz")
	// ErrDuplicate is returned when a question title or answer content is
	// already taken within its parent.
	ErrDuplicate = errors.New("already exists")
	// ErrForbidden is returned when the caller is not the quiz author.
	ErrForbidden = errors.New("only the quiz author can edit it")
)

// Quiz is the immutable snapshot a game session plays through.
type Quiz struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	AuthorID  int64      `json:"author_id"`
	Questions []Question `json:"questions"`
}

// Question holds an ordered answer list with at most one correct answer.
type Question struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Answers []Answer `json:"answers"`
}

// Answer is server-side only while a question is live (IsCorrect must not leak).
type Answer struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

// PublicQuestion is the player-facing view of a question.
type PublicQuestion struct {
	ID      int64          `json:"id"`
	Title   string         `json:"title"`
	Answers []PublicAnswer `json:"answers"`
}

type PublicAnswer struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// Public strips correctness flags.
func (q Question) Public() PublicQuestion {
	answers := make([]PublicAnswer, len(q.Answers))
	for i, a := range q.Answers {
		answers[i] = PublicAnswer{ID: a.ID, Content: a.Content}
	}
	return PublicQuestion{ID: q.ID, Title: q.Title, Answers: answers}
}

// FindAnswer returns the answer with the given id, if it belongs to q.
func (q Question) FindAnswer(answerID int64) (Answer, bool) {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return a, true
		}
	}
	return Answer{}, false
}

// CreateRequest is the authoring payload for a new quiz.
type CreateRequest struct {
	Title     string                  `json:"title"`
	Questions []CreateQuestionRequest `json:"questions,omitempty"`
}

type CreateQuestionRequest struct {
	Title   string                `json:"title"`
	Answers []CreateAnswerRequest `json:"answers,omitempty"`
}

type CreateAnswerRequest struct {
	Content   string `json:"content"`
	IsCorrect bool   `json:"is_correct"`
}

// UpdateQuestionRequest renames a question.
type UpdateQuestionRequest struct {
	Title string `json:"title"`
}

// UpdateAnswerRequest changes an answer; nil fields are left as they are.
type UpdateAnswerRequest struct {
	Content   *string `json:"content,omitempty"`
	IsCorrect *bool   `json:"is_correct,omitempty"`
}

// Ownership locates an editable row inside its quiz. QuestionID is zero for
// the quiz itself.
type Ownership struct {
	QuizID     int64
	AuthorID   int64
	QuestionID int64
}
