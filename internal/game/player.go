package game

import (
	"slices"

	"github.com/gokatarajesh/quiz-live/internal/quiz"
)

// ScoreFactor converts seconds left on the clock into points.
const ScoreFactor = 100

// AnswerRecord is one accepted submission.
type AnswerRecord struct {
	AnswerID  int64
	TimeLeft  int
	IsCorrect bool
}

// PlayerState is one participant's record inside a game. It is owned by the
// GameState and only touched under the game lock.
type PlayerState struct {
	UserID   int64
	Username string
	joinSeq  uint64
	// nil entry = not answered yet
	answers map[int64]*AnswerRecord
}

func newPlayerState(userID int64, username string, q quiz.Quiz) *PlayerState {
	answers := make(map[int64]*AnswerRecord, len(q.Questions))
	for _, question := range q.Questions {
		answers[question.ID] = nil
	}
	return &PlayerState{UserID: userID, Username: username, answers: answers}
}

// HasAnswered reports whether a submission exists for questionID.
func (p *PlayerState) HasAnswered(questionID int64) bool {
	return p.answers[questionID] != nil
}

// Answer returns the stored submission for questionID, if any.
func (p *PlayerState) Answer(questionID int64) (AnswerRecord, bool) {
	rec := p.answers[questionID]
	if rec == nil {
		return AnswerRecord{}, false
	}
	return *rec, true
}

func (p *PlayerState) record(questionID int64, rec AnswerRecord) {
	p.answers[questionID] = &rec
}

// Score is derived from the answer log on every call.
func (p *PlayerState) Score() int {
	return p.scoreExcluding(-1)
}

func (p *PlayerState) scoreExcluding(questionID int64) int {
	score := 0
	for id, rec := range p.answers {
		if rec == nil || !rec.IsCorrect || id == questionID {
			continue
		}
		score += rec.TimeLeft * ScoreFactor
	}
	return score
}

// CorrectAnswerIDs lists the answer ids of every correct submission.
func (p *PlayerState) CorrectAnswerIDs() []int64 {
	var ids []int64
	for _, rec := range p.answers {
		if rec != nil && rec.IsCorrect {
			ids = append(ids, rec.AnswerID)
		}
	}
	slices.Sort(ids)
	return ids
}
