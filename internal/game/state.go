package game

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-live/internal/quiz"
)

// Timings drives the stage machine and the idle-cleanup loop.
type Timings struct {
	ShortTick              time.Duration
	LongTick               time.Duration
	StartCountdown         int
	QuestionStartCountdown int
	QuestionCountdown      int
	CleanupInterval        time.Duration
	CleanupTimeout         time.Duration
	PublishTimeout         time.Duration
	PersistTimeout         time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		ShortTick:              time.Second,
		LongTick:               5 * time.Second,
		StartCountdown:         5,
		QuestionStartCountdown: 3,
		QuestionCountdown:      11,
		CleanupInterval:        10 * time.Second,
		CleanupTimeout:         5 * time.Second,
		PublishTimeout:         2 * time.Second,
		PersistTimeout:         10 * time.Second,
	}
}

// Deps are the collaborators shared by every session of a process.
type Deps struct {
	Broadcaster Broadcaster
	Results     ResultStore
	Scores      ScoreRecorder
	Scheduler   Scheduler
	Metrics     *Metrics
	Timings     Timings
	Logger      zerolog.Logger
}

// GameState is one live session. Every exported method and every timer
// callback runs under mu, so stage transitions and player actions are
// serialized and events leave in transition order.
type GameState struct {
	mu sync.Mutex

	code    string
	channel string
	quiz    quiz.Quiz
	deps    Deps
	logger  zerolog.Logger
	onIdle  func(*GameState)

	players              map[int64]*PlayerState
	joinSeq              uint64
	currentQuestionIndex int
	gameStage            Stage
	questionStage        Stage

	gameStartCountdown     int
	questionStartCountdown int
	questionCountdown      int

	stageTimer   Timer
	stageGen     uint64
	cleanupTimer Timer
	cleanupGen   uint64
	destroyed    bool

	gameResultID *int64
}

// newGameState builds a session and arms its idle-cleanup loop. onIdle is
// invoked without the game lock held once presence stays empty.
func newGameState(code string, q quiz.Quiz, deps Deps, onIdle func(*GameState)) *GameState {
	g := &GameState{
		code:                 code,
		channel:              ChannelFor(code),
		quiz:                 q,
		deps:                 deps,
		logger:               deps.Logger.With().Str("session", code).Int64("quiz_id", q.ID).Logger(),
		onIdle:               onIdle,
		players:              make(map[int64]*PlayerState),
		currentQuestionIndex: -1,
	}

	g.mu.Lock()
	g.scheduleCleanup(deps.Timings.CleanupInterval, g.cleanupTick)
	g.mu.Unlock()
	return g
}

func (g *GameState) Code() string { return g.code }

// Quiz returns the immutable snapshot the session was created from.
func (g *GameState) Quiz() quiz.Quiz { return g.quiz }

// Start moves a lobby into the game-start countdown. A session without
// questions or players is left untouched.
func (g *GameState) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return fmt.Errorf("session %s: %w", g.code, ErrNotFound)
	}
	if g.gameStage != StageNotStarted {
		return fmt.Errorf("session %s already %s: %w", g.code, g.gameStage, ErrInvalidState)
	}
	if len(g.quiz.Questions) == 0 || len(g.players) == 0 {
		g.logger.Debug().Int("players", len(g.players)).Msg("start ignored")
		return nil
	}

	g.gameStage = StageStarting
	g.gameStartCountdown = g.deps.Timings.StartCountdown
	g.currentQuestionIndex = -1
	g.logger.Info().Int("players", len(g.players)).Msg("game starting")

	g.publish(EventStartGame, StartGamePayload{
		stages:             g.stages(),
		GameStartCountdown: g.gameStartCountdown,
	})
	g.schedule(g.deps.Timings.ShortTick, g.countdownStartGame)
	return nil
}

func (g *GameState) countdownStartGame() {
	g.gameStartCountdown = decrement(g.gameStartCountdown)
	if g.gameStartCountdown == 0 {
		g.gameStage = StageStarted
	}
	g.publish(EventCountdownStartGame, CountdownStartGamePayload{
		stages:             g.stages(),
		GameStartCountdown: g.gameStartCountdown,
	})
	if g.gameStartCountdown > 0 {
		g.schedule(g.deps.Timings.ShortTick, g.countdownStartGame)
		return
	}
	g.startQuestion()
}

func (g *GameState) startQuestion() {
	g.currentQuestionIndex++
	if g.currentQuestionIndex >= len(g.quiz.Questions) {
		g.gameStage = StageFinished
		g.questionStage = StageNotStarted
		g.finish()
		return
	}

	g.questionStage = StageStarting
	g.questionStartCountdown = g.deps.Timings.QuestionStartCountdown
	g.questionCountdown = g.deps.Timings.QuestionCountdown

	g.publish(EventStartQuestion, StartQuestionPayload{
		stages:                 g.stages(),
		QuestionStartCountdown: g.questionStartCountdown,
		CurrentQuestionIndex:   g.currentQuestionIndex,
		CurrentQuestion:        g.quiz.Questions[g.currentQuestionIndex].Public(),
	})
	g.schedule(g.deps.Timings.ShortTick, g.countdownStartQuestion)
}

func (g *GameState) countdownStartQuestion() {
	g.questionStartCountdown = decrement(g.questionStartCountdown)
	if g.questionStartCountdown == 0 {
		// answer window opens with the full question countdown
		g.questionStage = StageStarted
	}
	g.publish(EventCountdownStartQuestion, CountdownStartQuestionPayload{
		stages:                 g.stages(),
		QuestionStartCountdown: g.questionStartCountdown,
	})
	if g.questionStartCountdown > 0 {
		g.schedule(g.deps.Timings.ShortTick, g.countdownStartQuestion)
		return
	}
	g.schedule(g.deps.Timings.ShortTick, g.questionLoop)
}

func (g *GameState) questionLoop() {
	g.questionCountdown = decrement(g.questionCountdown)
	if g.questionCountdown == 0 {
		g.questionStage = StageFinished
	}
	g.publish(EventQuestionLoop, QuestionLoopPayload{
		stages:            g.stages(),
		QuestionCountdown: g.questionCountdown,
	})
	if g.questionCountdown > 0 {
		g.schedule(g.deps.Timings.ShortTick, g.questionLoop)
		return
	}
	g.finishQuestion()
}

func (g *GameState) finishQuestion() {
	g.publish(EventFinishQuestion, FinishQuestionPayload{
		stages:  g.stages(),
		Players: g.playerViews(false),
	})
	g.schedule(g.deps.Timings.LongTick, g.startQuestion)
}

func (g *GameState) finish() {
	g.stopStageTimer()

	g.gameResultID = g.persistResults()
	g.recordScores()

	g.publish(EventFinishGame, FinishGamePayload{
		stages:       g.stages(),
		GameResultID: g.gameResultID,
	})
	g.logger.Info().Int("players", len(g.players)).Msg("game finished")
}

// persistResults returns nil when no result record could be created.
func (g *GameState) persistResults() *int64 {
	if g.deps.Results == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.deps.Timings.PersistTimeout)
	defer cancel()

	resultID, err := g.deps.Results.CreateGameResult(ctx, g.quiz.ID)
	if err != nil {
		g.deps.Metrics.persistFailed()
		g.logger.Error().Err(err).Msg("failed to persist game result")
		return nil
	}

	for _, p := range g.sortedPlayers() {
		_, err := g.deps.Results.CreatePlayerResult(ctx, PlayerResult{
			ResultID:         resultID,
			UserID:           p.UserID,
			Username:         p.Username,
			Score:            p.Score(),
			CorrectAnswerIDs: p.CorrectAnswerIDs(),
		})
		if err != nil {
			g.deps.Metrics.persistFailed()
			g.logger.Error().Err(err).Int64("result_id", resultID).Int64("user_id", p.UserID).Msg("failed to persist player result")
		}
	}
	return &resultID
}

func (g *GameState) recordScores() {
	if g.deps.Scores == nil || len(g.players) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.deps.Timings.PublishTimeout)
	defer cancel()

	scores := make([]PlayerScore, 0, len(g.players))
	for _, p := range g.sortedPlayers() {
		scores = append(scores, PlayerScore{UserID: p.UserID, Username: p.Username, Score: p.Score()})
	}
	if err := g.deps.Scores.RecordScores(ctx, g.quiz.ID, scores); err != nil {
		g.logger.Warn().Err(err).Msg("failed to record leaderboard scores")
	}
}

// AddPlayer joins userID to the session and announces the new roster.
func (g *GameState) AddPlayer(userID int64, username string) (PlayerView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return PlayerView{}, fmt.Errorf("session %s: %w", g.code, ErrNotFound)
	}
	if _, ok := g.players[userID]; ok {
		return PlayerView{}, fmt.Errorf("player %d in session %s: %w", userID, g.code, ErrAlreadyExists)
	}

	g.joinSeq++
	p := newPlayerState(userID, username, g.quiz)
	p.joinSeq = g.joinSeq
	g.players[userID] = p
	g.logger.Info().Int64("user_id", userID).Msg("player joined")

	g.publish(EventUpdatePlayers, UpdatePlayersPayload{Players: g.playerViews(true)})
	return g.viewOf(p, true), nil
}

// RemovePlayer reports whether userID was present.
func (g *GameState) RemovePlayer(userID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return false
	}
	if _, ok := g.players[userID]; !ok {
		return false
	}
	delete(g.players, userID)
	g.logger.Info().Int64("user_id", userID).Msg("player left")

	g.publish(EventUpdatePlayers, UpdatePlayersPayload{Players: g.playerViews(true)})
	return true
}

// SubmitAnswer records userID's answer for the live question. Submissions are
// silent; results surface at FINISH_QUESTION.
func (g *GameState) SubmitAnswer(userID, answerID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return fmt.Errorf("session %s: %w", g.code, ErrNotFound)
	}
	p, ok := g.players[userID]
	if !ok {
		return fmt.Errorf("user %d is not playing in %s: %w", userID, g.code, ErrForbidden)
	}
	if g.questionStage != StageStarted {
		return fmt.Errorf("answer window is %s: %w", g.questionStage, ErrInvalidState)
	}
	question, ok := g.currentQuestion()
	if !ok {
		return fmt.Errorf("no active question: %w", ErrInvalidState)
	}
	answer, ok := question.FindAnswer(answerID)
	if !ok {
		return fmt.Errorf("answer %d not in question %d: %w", answerID, question.ID, ErrInvalidInput)
	}
	if p.HasAnswered(question.ID) {
		return fmt.Errorf("question %d: %w", question.ID, ErrAlreadyAnswered)
	}

	p.record(question.ID, AnswerRecord{
		AnswerID:  answer.ID,
		TimeLeft:  g.questionCountdown,
		IsCorrect: answer.IsCorrect,
	})
	g.deps.Metrics.answerAccepted(answer.IsCorrect)
	return nil
}

// SessionSnapshot is a point-in-time copy of a session for request handlers.
type SessionSnapshot struct {
	Code                   string               `json:"code"`
	QuizID                 int64                `json:"quizId"`
	QuizTitle              string               `json:"quizTitle"`
	AuthorID               int64                `json:"authorId"`
	QuestionCount          int                  `json:"questionCount"`
	GameStage              Stage                `json:"gameStage"`
	QuestionStage          Stage                `json:"questionStage"`
	CurrentQuestionIndex   int                  `json:"currentQuestionIndex"`
	CurrentQuestion        *quiz.PublicQuestion `json:"currentQuestion,omitempty"`
	GameStartCountdown     int                  `json:"gameStartCountdown"`
	QuestionStartCountdown int                  `json:"questionStartCountdown"`
	QuestionCountdown      int                  `json:"questionCountdown"`
	GameResultID           *int64               `json:"gameResultId,omitempty"`
	Players                map[int64]PlayerView `json:"players"`
}

func (g *GameState) Snapshot() SessionSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := SessionSnapshot{
		Code:                   g.code,
		QuizID:                 g.quiz.ID,
		QuizTitle:              g.quiz.Title,
		AuthorID:               g.quiz.AuthorID,
		QuestionCount:          len(g.quiz.Questions),
		GameStage:              g.gameStage,
		QuestionStage:          g.questionStage,
		CurrentQuestionIndex:   g.currentQuestionIndex,
		GameStartCountdown:     g.gameStartCountdown,
		QuestionStartCountdown: g.questionStartCountdown,
		QuestionCountdown:      g.questionCountdown,
		GameResultID:           g.gameResultID,
		Players:                g.playerViews(true),
	}
	if q, ok := g.currentQuestion(); ok && g.questionStage != StageNotStarted {
		pub := q.Public()
		snap.CurrentQuestion = &pub
	}
	return snap
}

// shutdown cancels every pending timer. Callbacks already waiting on mu see
// destroyed and return.
func (g *GameState) shutdown() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return
	}
	g.destroyed = true
	g.stopStageTimer()
	if g.cleanupTimer != nil {
		g.cleanupTimer.Stop()
		g.cleanupTimer = nil
	}
	g.cleanupGen++
	g.logger.Info().Msg("session destroyed")
}

// schedule replaces the pending stage timer. Caller holds mu.
func (g *GameState) schedule(d time.Duration, next func()) {
	g.stopStageTimer()
	g.stageGen++
	gen := g.stageGen
	g.stageTimer = g.deps.Scheduler.AfterFunc(d, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.destroyed || gen != g.stageGen {
			return
		}
		g.stageTimer = nil
		next()
	})
}

func (g *GameState) stopStageTimer() {
	if g.stageTimer != nil {
		g.stageTimer.Stop()
		g.stageTimer = nil
	}
	g.stageGen++
}

func (g *GameState) publish(event string, payload any) {
	ctx, cancel := context.WithTimeout(context.Background(), g.deps.Timings.PublishTimeout)
	defer cancel()

	if err := g.deps.Broadcaster.Publish(ctx, g.channel, event, payload); err != nil {
		g.deps.Metrics.publishFailed()
		g.logger.Warn().Err(err).Str("event", event).Msg("publish failed")
		return
	}
	g.deps.Metrics.eventPublished(event)
}

func (g *GameState) stages() stages {
	return stages{GameStage: g.gameStage, QuestionStage: g.questionStage}
}

func (g *GameState) currentQuestion() (quiz.Question, bool) {
	if g.currentQuestionIndex < 0 || g.currentQuestionIndex >= len(g.quiz.Questions) {
		return quiz.Question{}, false
	}
	return g.quiz.Questions[g.currentQuestionIndex], true
}

// liveQuestionID is the question whose answers must stay hidden, or -1.
func (g *GameState) liveQuestionID() int64 {
	if g.questionStage != StageStarting && g.questionStage != StageStarted {
		return -1
	}
	q, ok := g.currentQuestion()
	if !ok {
		return -1
	}
	return q.ID
}

func (g *GameState) playerViews(redact bool) map[int64]PlayerView {
	views := make(map[int64]PlayerView, len(g.players))
	for id, p := range g.players {
		views[id] = g.viewOf(p, redact)
	}
	return views
}

func (g *GameState) viewOf(p *PlayerState, redact bool) PlayerView {
	hidden := int64(-1)
	if redact {
		hidden = g.liveQuestionID()
	}

	answers := make(map[int64]*AnswerView, len(p.answers))
	for questionID, rec := range p.answers {
		switch {
		case rec == nil:
			answers[questionID] = nil
		case questionID == hidden:
			answers[questionID] = &AnswerView{Answered: true}
		default:
			timeLeft, correct := rec.TimeLeft, rec.IsCorrect
			answers[questionID] = &AnswerView{
				Answered:  true,
				AnswerID:  rec.AnswerID,
				TimeLeft:  &timeLeft,
				IsCorrect: &correct,
			}
		}
	}
	return PlayerView{
		Username:        p.Username,
		Score:           p.scoreExcluding(hidden),
		QuestionAnswers: answers,
	}
}

func (g *GameState) sortedPlayers() []*PlayerState {
	out := make([]*PlayerState, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (g *GameState) subscriberSet(ids []string) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func decrement(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
