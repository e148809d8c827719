package quiz

import (
	"fmt"
	"strings"
)

// Validate enforces authoring rules: a title, unique question titles, unique
// answer contents per question, and exactly one correct answer on every
// question that has answers.
func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}

	titles := make(map[string]struct{}, len(r.Questions))
	for _, q := range r.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
		if _, dup := titles[q.Title]; dup {
			return fmt.Errorf("%w: duplicated question title %q", ErrInvalid, q.Title)
		}
		titles[q.Title] = struct{}{}
	}
	return nil
}

// Validate checks a single question. Answer contents compare case-insensitively.
func (q CreateQuestionRequest) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: question title is required", ErrInvalid)
	}
	if len(q.Answers) == 0 {
		return nil
	}

	contents := make(map[string]struct{}, len(q.Answers))
	correct := 0
	for _, a := range q.Answers {
		if err := a.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(a.Content)
		if _, dup := contents[key]; dup {
			return fmt.Errorf("%w: duplicated answer content %q in question %q", ErrInvalid, a.Content, q.Title)
		}
		contents[key] = struct{}{}
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: question %q must have exactly one correct answer", ErrInvalid, q.Title)
	}
	return nil
}

func (a CreateAnswerRequest) Validate() error {
	if strings.TrimSpace(a.Content) == "" {
		return fmt.Errorf("%w: answer content is required", ErrInvalid)
	}
	return nil
}

func (r UpdateQuestionRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: question title is required", ErrInvalid)
	}
	return nil
}

func (r UpdateAnswerRequest) Validate() error {
	if r.Content == nil && r.IsCorrect == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalid)
	}
	if r.Content != nil && strings.TrimSpace(*r.Content) == "" {
		return fmt.Errorf("%w: answer content is required", ErrInvalid)
	}
	return nil
}
