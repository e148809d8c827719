package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateRequestValidate(t *testing.T) {
	valid := CreateRequest{
		Title: "Capitals",
		Questions: []CreateQuestionRequest{
			{Title: "France", Answers: []CreateAnswerRequest{{Content: "Paris", IsCorrect: true}, {Content: "Lyon"}}},
			{Title: "Draft question"},
		},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"missing title", CreateRequest{}},
		{"duplicate question titles", CreateRequest{Title: "t", Questions: []CreateQuestionRequest{{Title: "a"}, {Title: "a"}}}},
		{"duplicate answers", CreateRequest{Title: "t", Questions: []CreateQuestionRequest{{
			Title:   "a",
			Answers: []CreateAnswerRequest{{Content: "x", IsCorrect: true}, {Content: "x"}},
		}}}},
		{"duplicate answers ignoring case", CreateRequest{Title: "t", Questions: []CreateQuestionRequest{{
			Title:   "a",
			Answers: []CreateAnswerRequest{{Content: "Paris", IsCorrect: true}, {Content: "paris"}},
		}}}},
		{"no correct answer", CreateRequest{Title: "t", Questions: []CreateQuestionRequest{{
			Title:   "a",
			Answers: []CreateAnswerRequest{{Content: "x"}, {Content: "y"}},
		}}}},
		{"two correct answers", CreateRequest{Title: "t", Questions: []CreateQuestionRequest{{
			Title:   "a",
			Answers: []CreateAnswerRequest{{Content: "x", IsCorrect: true}, {Content: "y", IsCorrect: true}},
		}}}},
		{"empty answer", CreateRequest{Title: "t", Questions: []CreateQuestionRequest{{
			Title:   "a",
			Answers: []CreateAnswerRequest{{Content: " ", IsCorrect: true}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.req.Validate(), ErrInvalid)
		})
	}
}

func TestEditRequestValidate(t *testing.T) {
	empty := " "
	content := "Lyon"
	correct := true

	assert.NoError(t, UpdateQuestionRequest{Title: "Capital of France"}.Validate())
	assert.ErrorIs(t, UpdateQuestionRequest{Title: empty}.Validate(), ErrInvalid)

	assert.NoError(t, UpdateAnswerRequest{Content: &content}.Validate())
	assert.NoError(t, UpdateAnswerRequest{IsCorrect: &correct}.Validate())
	assert.ErrorIs(t, UpdateAnswerRequest{}.Validate(), ErrInvalid)
	assert.ErrorIs(t, UpdateAnswerRequest{Content: &empty}.Validate(), ErrInvalid)

	assert.ErrorIs(t, CreateAnswerRequest{}.Validate(), ErrInvalid)
	assert.NoError(t, CreateQuestionRequest{Title: "Draft"}.Validate())
}

func TestQuestionPublicHidesCorrectness(t *testing.T) {
	q := Question{ID: 1, Title: "2+2", Answers: []Answer{{ID: 10, Content: "4", IsCorrect: true}, {ID: 11, Content: "5"}}}

	pub := q.Public()
	assert.Equal(t, PublicQuestion{ID: 1, Title: "2+2", Answers: []PublicAnswer{{ID: 10, Content: "4"}, {ID: 11, Content: "5"}}}, pub)

	a, ok := q.FindAnswer(10)
	assert.True(t, ok)
	assert.True(t, a.IsCorrect)
	_, ok = q.FindAnswer(99)
	assert.False(t, ok)
}
