package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerState_ScoreFromAnswerLog(t *testing.T) {
	p := newPlayerState(1, "ada", twoQuestionQuiz())
	assert.Equal(t, 0, p.Score())
	assert.False(t, p.HasAnswered(10))

	p.record(10, AnswerRecord{AnswerID: 100, TimeLeft: 7, IsCorrect: true})
	assert.Equal(t, 700, p.Score())

	p.record(20, AnswerRecord{AnswerID: 200, TimeLeft: 9})
	assert.Equal(t, 700, p.Score(), "wrong answers add nothing")
	assert.Equal(t, 700, p.Score(), "score is stable across reads")

	rec, ok := p.Answer(20)
	assert.True(t, ok)
	assert.Equal(t, AnswerRecord{AnswerID: 200, TimeLeft: 9}, rec)
}

func TestPlayerState_ScoreNeverDecreases(t *testing.T) {
	p := newPlayerState(1, "ada", twoQuestionQuiz())
	prev := p.Score()
	for _, step := range []struct {
		question int64
		rec      AnswerRecord
	}{
		{10, AnswerRecord{AnswerID: 101, TimeLeft: 3}},
		{20, AnswerRecord{AnswerID: 201, TimeLeft: 1, IsCorrect: true}},
	} {
		p.record(step.question, step.rec)
		assert.GreaterOrEqual(t, p.Score(), prev)
		prev = p.Score()
	}
}

func TestPlayerState_ScoreExcludingLiveQuestion(t *testing.T) {
	p := newPlayerState(1, "ada", twoQuestionQuiz())
	p.record(10, AnswerRecord{AnswerID: 100, TimeLeft: 5, IsCorrect: true})
	p.record(20, AnswerRecord{AnswerID: 201, TimeLeft: 2, IsCorrect: true})

	assert.Equal(t, 700, p.Score())
	assert.Equal(t, 500, p.scoreExcluding(20))
}

func TestPlayerState_CorrectAnswerIDsSorted(t *testing.T) {
	p := newPlayerState(1, "ada", twoQuestionQuiz())
	p.record(20, AnswerRecord{AnswerID: 201, TimeLeft: 2, IsCorrect: true})
	p.record(10, AnswerRecord{AnswerID: 100, TimeLeft: 5, IsCorrect: true})
	assert.Equal(t, []int64{100, 201}, p.CorrectAnswerIDs())
}
