package game

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quiz-live/internal/quiz"
)

// Registry owns every live GameState of the process, keyed by code.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*GameState
	deps     Deps
	logger   zerolog.Logger
}

func NewRegistry(deps Deps) *Registry {
	if deps.Scheduler == nil {
		deps.Scheduler = WallClock{}
	}
	logger := deps.Logger.With().Str("component", "game_registry").Logger()
	deps.Logger = deps.Logger.With().Str("component", "game").Logger()
	return &Registry{
		sessions: make(map[string]*GameState),
		deps:     deps,
		logger:   logger,
	}
}

// Create registers a new session for code. A taken code is rejected so the
// caller can retry with a fresh one.
func (r *Registry) Create(code string, q quiz.Quiz) (*GameState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[code]; exists {
		return nil, fmt.Errorf("session %s: %w", code, ErrAlreadyExists)
	}
	g := newGameState(code, q, r.deps, r.destroyIdle)
	r.sessions[code] = g
	r.deps.Metrics.sessionCreated()
	r.logger.Info().Str("session", code).Int64("quiz_id", q.ID).Msg("session created")
	return g, nil
}

func (r *Registry) Get(code string) (*GameState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.sessions[code]
	return g, ok
}

// Destroy removes the session and cancels all of its timers.
func (r *Registry) Destroy(code string) bool {
	r.mu.Lock()
	g, ok := r.sessions[code]
	if ok {
		delete(r.sessions, code)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	g.shutdown()
	r.deps.Metrics.sessionDestroyed()
	return true
}

// destroyIdle is the idle-cleanup hook; it only removes g itself, never a
// newer session that reused the code.
func (r *Registry) destroyIdle(g *GameState) {
	r.mu.Lock()
	current, ok := r.sessions[g.code]
	if ok && current == g {
		delete(r.sessions, g.code)
	}
	r.mu.Unlock()

	g.shutdown()
	if ok && current == g {
		r.deps.Metrics.sessionDestroyed()
	}
}

// Codes lists live session codes in lexical order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.sessions))
	for code := range r.sessions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Shutdown destroys every session; used on process stop.
func (r *Registry) Shutdown() {
	for _, code := range r.Codes() {
		r.Destroy(code)
	}
}
