package game

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-live/internal/quiz"
)

type recordedEvent struct {
	Channel string
	Event   string
	Payload any
}

// fakeBroadcaster records every event and serves a settable presence set.
type fakeBroadcaster struct {
	mu          sync.Mutex
	events      []recordedEvent
	subscribers []string
	subsErr     error
	publishErr  error

	// runs after the presence list is captured, outside the lock
	afterSubscribers func()
}

func (b *fakeBroadcaster) Publish(ctx context.Context, channel, event string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{Channel: channel, Event: event, Payload: payload})
	return b.publishErr
}

func (b *fakeBroadcaster) Subscribers(ctx context.Context, channel string) ([]string, error) {
	b.mu.Lock()
	if b.subsErr != nil {
		b.mu.Unlock()
		return nil, b.subsErr
	}
	ids := append([]string(nil), b.subscribers...)
	hook := b.afterSubscribers
	b.mu.Unlock()

	if hook != nil {
		hook()
	}
	return ids, nil
}

func (b *fakeBroadcaster) setSubscribers(ids ...int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = b.subscribers[:0]
	for _, id := range ids {
		b.subscribers = append(b.subscribers, strconv.FormatInt(id, 10))
	}
}

func (b *fakeBroadcaster) eventNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, len(b.events))
	for i, e := range b.events {
		names[i] = e.Event
	}
	return names
}

func (b *fakeBroadcaster) last(event string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		if b.events[i].Event == event {
			return b.events[i].Payload, true
		}
	}
	return nil, false
}

func (b *fakeBroadcaster) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

type fakeResults struct {
	mu        sync.Mutex
	nextID    int64
	games     []int64
	players   []PlayerResult
	failGame  bool
	failUsers map[int64]bool
}

func (r *fakeResults) CreateGameResult(ctx context.Context, quizID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGame {
		return 0, errors.New("database unavailable")
	}
	r.nextID++
	r.games = append(r.games, quizID)
	return r.nextID, nil
}

func (r *fakeResults) CreatePlayerResult(ctx context.Context, res PlayerResult) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUsers[res.UserID] {
		return 0, errors.New("constraint violation")
	}
	r.players = append(r.players, res)
	return int64(len(r.players)), nil
}

type fakeScores struct {
	mu     sync.Mutex
	quizID int64
	scores []PlayerScore
}

func (s *fakeScores) RecordScores(ctx context.Context, quizID int64, scores []PlayerScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizID = quizID
	s.scores = scores
	return nil
}

type fixture struct {
	registry *Registry
	sched    *ManualScheduler
	bc       *fakeBroadcaster
	results  *fakeResults
	scores   *fakeScores
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sched:   NewManualScheduler(),
		bc:      &fakeBroadcaster{},
		results: &fakeResults{},
		scores:  &fakeScores{},
	}
	f.registry = NewRegistry(Deps{
		Broadcaster: f.bc,
		Results:     f.results,
		Scores:      f.scores,
		Scheduler:   f.sched,
		Timings:     DefaultTimings(),
		Logger:      zerolog.Nop(),
	})
	t.Cleanup(f.registry.Shutdown)
	return f
}

// testQuiz has one question: answer 100 is correct, 101 is not.
func testQuiz() quiz.Quiz {
	return quiz.Quiz{
		ID:       7,
		Title:    "Planets",
		AuthorID: 1,
		Questions: []quiz.Question{{
			ID:    10,
			Title: "Largest planet?",
			Answers: []quiz.Answer{
				{ID: 100, Content: "Jupiter", IsCorrect: true},
				{ID: 101, Content: "Mars"},
			},
		}},
	}
}

func twoQuestionQuiz() quiz.Quiz {
	q := testQuiz()
	q.Questions = append(q.Questions, quiz.Question{
		ID:    20,
		Title: "Closest to the sun?",
		Answers: []quiz.Answer{
			{ID: 200, Content: "Venus"},
			{ID: 201, Content: "Mercury", IsCorrect: true},
		},
	})
	return q
}

func repeat(event string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = event
	}
	return out
}
