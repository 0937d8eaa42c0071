// internal/store/memory.go
//
// In-memory implementation of Store and QuizStore.
// Used for quiz sessions always, and for games when STORE=memory
// (development/testing, or when durability is not required).
//
// Characteristics:
//   - Keeps copies: callers never share a pointer with the store, so a
//     session mutated by a rejected action never leaks back in.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/game"
	"github.com/robalobadob/flaggle/internal/quiz"
)

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a game state.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID; apperr.ErrNotFound if missing.
	Get(ctx context.Context, id string) (*game.Game, error)
}

// QuizStore defines the persistence interface for quiz sessions.
type QuizStore interface {
	SaveQuiz(ctx context.Context, q *quiz.Session) error
	GetQuiz(ctx context.Context, id string) (*quiz.Session, error)
}

// Memory is a map-based Store and QuizStore.
type Memory struct {
	mu      sync.RWMutex
	games   map[string]*game.Game
	quizzes map[string]*quiz.Session
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *Memory {
	return &Memory{
		games:   make(map[string]*game.Game),
		quizzes: make(map[string]*quiz.Session),
	}
}

// Save stores a copy of g.
func (m *Memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g.Clone()
	return nil
}

// Get returns a copy of the stored game.
func (m *Memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g.Clone(), nil
	}
	return nil, apperr.NotFound("game %q", id)
}

// SaveQuiz stores a copy of q.
func (m *Memory) SaveQuiz(ctx context.Context, q *quiz.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q.Clone()
	return nil
}

// GetQuiz returns a copy of the stored quiz.
func (m *Memory) GetQuiz(ctx context.Context, id string) (*quiz.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if q, ok := m.quizzes[id]; ok {
		return q.Clone(), nil
	}
	return nil, apperr.NotFound("quiz %q", id)
}
