// internal/session/manager.go
//
// Manager applies game and quiz actions on stored sessions.
//
// Every action runs as: lock(session id) → load → transition → save → unlock.
// At most one transition applies per submitted action, so two concurrent
// guesses on the last attempt cannot both be counted, and two concurrent
// correct guesses cannot both win. A rejected action saves nothing.
//
// The lock is per process; the stores themselves are the only shared state.

package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/country"
	"github.com/robalobadob/flaggle/internal/daily"
	"github.com/robalobadob/flaggle/internal/feedback"
	"github.com/robalobadob/flaggle/internal/game"
	"github.com/robalobadob/flaggle/internal/quiz"
	"github.com/robalobadob/flaggle/internal/store"
)

// Recorder is told once about every game that reaches a terminal state.
type Recorder interface {
	RecordCompletion(ctx context.Context, g *game.Game) error
}

// HintPosition selects which letter a hint reveals.
type HintPosition string

const (
	HintStart HintPosition = "start"
	HintEnd   HintPosition = "end"
)

// Options tunes a Manager. Zero values pick production defaults.
type Options struct {
	Now      func() time.Time
	Rand     *rand.Rand
	NewID    func() string
	Recorder Recorder
}

// Manager serializes actions per session.
type Manager struct {
	catalog *country.Catalog
	games   store.Store
	quizzes store.QuizStore
	rec     Recorder
	locks   *keyedLocks
	now     func() time.Time
	newID   func() string

	rngMu sync.Mutex // guards rng
	rng   *rand.Rand
}

// Outcome is the result of a game action.
type Outcome struct {
	Game     *game.Game
	Target   country.Country
	Feedback feedback.Record // set by Guess
	Correct  bool            // set by Guess
	Letter   string          // set by Hint
}

// New constructs a Manager.
func New(catalog *country.Catalog, games store.Store, quizzes store.QuizStore, opts Options) *Manager {
	m := &Manager{
		catalog: catalog,
		games:   games,
		quizzes: quizzes,
		rec:     opts.Recorder,
		locks:   newKeyedLocks(),
		now:     opts.Now,
		newID:   opts.NewID,
		rng:     opts.Rand,
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	if m.rng == nil {
		seed := uint64(time.Now().UnixNano())
		m.rng = rand.New(rand.NewPCG(seed, seed>>7|1))
	}
	return m
}

// Catalog exposes the country catalog.
func (m *Manager) Catalog() *country.Catalog { return m.catalog }

// ------------------------------ games ---------------------------------------

// NewPractice starts a practice game against a random target.
func (m *Manager) NewPractice(ctx context.Context, variant game.Variant, playerID string) (*game.Game, error) {
	var target country.Country
	m.withRand(func(r *rand.Rand) { target = m.catalog.Random(r) })

	g := game.New(string(game.ModePractice)+"-"+m.newID(), game.ModePractice, variant, target.Code, m.now())
	g.PlayerID = playerID
	if err := m.games.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}
	log.Debug().Str("gameId", g.ID).Str("variant", string(variant)).Msg("practice game created")
	return g, nil
}

// StartDaily returns the player's daily game for date, creating it against
// target on first request.
func (m *Manager) StartDaily(ctx context.Context, playerID, date, target string, variant game.Variant) (*game.Game, error) {
	if _, err := m.catalog.ByCode(target); err != nil {
		return nil, fmt.Errorf("daily target: %w", err)
	}
	id := daily.GameID(date, playerID)
	unlock := m.locks.lock(id)
	defer unlock()

	g, err := m.games.Get(ctx, id)
	if err == nil {
		return g, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	g = game.New(id, game.ModeDaily, variant, target, m.now())
	g.PlayerID = playerID
	if err := m.games.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("save daily game: %w", err)
	}
	log.Debug().Str("gameId", id).Str("date", date).Msg("daily game created")
	return g, nil
}

// Game loads a game and its target without changing it.
func (m *Manager) Game(ctx context.Context, id string) (*game.Game, country.Country, error) {
	g, err := m.games.Get(ctx, id)
	if err != nil {
		return nil, country.Country{}, err
	}
	target, err := m.catalog.ByCode(g.Target)
	if err != nil {
		return nil, country.Country{}, fmt.Errorf("game %s target: %w", id, err)
	}
	return g, target, nil
}

// Guess submits a country (name or code) against the game.
func (m *Manager) Guess(ctx context.Context, id, ident string) (Outcome, error) {
	guess, err := m.catalog.Resolve(ident)
	if err != nil {
		return Outcome{}, err
	}
	var out Outcome
	err = m.mutateGame(ctx, id, func(g *game.Game, target country.Country) error {
		rec, err := g.ApplyGuess(guess, target, m.now())
		if err != nil {
			return err
		}
		out.Feedback = rec
		out.Correct = guess.Code == target.Code
		return nil
	}, &out)
	return out, err
}

// Hint reveals the first or last letter of the target name.
func (m *Manager) Hint(ctx context.Context, id string, pos HintPosition) (Outcome, error) {
	var use func(*game.Game, country.Country, time.Time) (string, error)
	switch pos {
	case HintStart:
		use = (*game.Game).UseStartHint
	case HintEnd:
		use = (*game.Game).UseEndHint
	default:
		return Outcome{}, apperr.InvalidInput("hint position %q", pos)
	}
	var out Outcome
	err := m.mutateGame(ctx, id, func(g *game.Game, target country.Country) error {
		letter, err := use(g, target, m.now())
		out.Letter = letter
		return err
	}, &out)
	return out, err
}

// RevealFlag unblurs the flag.
func (m *Manager) RevealFlag(ctx context.Context, id string) (Outcome, error) {
	var out Outcome
	err := m.mutateGame(ctx, id, func(g *game.Game, _ country.Country) error {
		return g.RevealFlag(m.now())
	}, &out)
	return out, err
}

// GiveUp ends the game and reveals the target.
func (m *Manager) GiveUp(ctx context.Context, id string) (Outcome, error) {
	var out Outcome
	err := m.mutateGame(ctx, id, func(g *game.Game, _ country.Country) error {
		return g.GiveUp(m.now())
	}, &out)
	return out, err
}

// mutateGame runs fn under the game's lock and saves the result. The
// recorder is notified when fn moved the game into a terminal state.
func (m *Manager) mutateGame(ctx context.Context, id string, fn func(*game.Game, country.Country) error, out *Outcome) error {
	unlock := m.locks.lock(id)
	defer unlock()

	g, target, err := m.Game(ctx, id)
	if err != nil {
		return err
	}
	wasDone := g.Completed
	if err := fn(g, target); err != nil {
		return err
	}
	if err := m.games.Save(ctx, g); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	if !wasDone && g.Completed {
		log.Info().Str("gameId", g.ID).Str("state", string(g.State())).Int("attempts", g.AttemptsUsed).Msg("game finished")
		if m.rec != nil {
			if err := m.rec.RecordCompletion(ctx, g); err != nil {
				log.Warn().Err(err).Str("gameId", g.ID).Msg("record completion")
			}
		}
	}
	out.Game, out.Target = g, target
	return nil
}

// ------------------------------ quizzes -------------------------------------

// StartQuiz builds and opens a new quiz over the whole catalog.
func (m *Manager) StartQuiz(ctx context.Context) (*quiz.Session, error) {
	var (
		q   *quiz.Session
		err error
	)
	m.withRand(func(r *rand.Rand) {
		q, err = quiz.Build("quiz-"+m.newID(), m.catalog.All(), r, m.now())
	})
	if err != nil {
		return nil, err
	}
	if err := q.Start(); err != nil {
		return nil, err
	}
	if err := m.quizzes.SaveQuiz(ctx, q); err != nil {
		return nil, fmt.Errorf("save quiz: %w", err)
	}
	return q, nil
}

// Quiz loads a quiz without changing it.
func (m *Manager) Quiz(ctx context.Context, id string) (*quiz.Session, error) {
	return m.quizzes.GetQuiz(ctx, id)
}

// SelectAnswer records the player's current choice.
func (m *Manager) SelectAnswer(ctx context.Context, id, option string) (*quiz.Session, error) {
	return m.mutateQuiz(ctx, id, func(q *quiz.Session) error { return q.Select(option) })
}

// FiftyFifty spends a lifeline on the current question.
func (m *Manager) FiftyFifty(ctx context.Context, id string) (*quiz.Session, []string, error) {
	var hidden []string
	q, err := m.mutateQuiz(ctx, id, func(q *quiz.Session) error {
		var err error
		m.withRand(func(r *rand.Rand) { hidden, err = q.FiftyFifty(r) })
		return err
	})
	return q, hidden, err
}

// SubmitAnswer scores the current selection.
func (m *Manager) SubmitAnswer(ctx context.Context, id string) (*quiz.Session, bool, error) {
	var correct bool
	q, err := m.mutateQuiz(ctx, id, func(q *quiz.Session) error {
		var err error
		correct, err = q.Submit(m.now())
		return err
	})
	return q, correct, err
}

// AdvanceQuiz moves past question from.
func (m *Manager) AdvanceQuiz(ctx context.Context, id string, from int) (*quiz.Session, error) {
	return m.mutateQuiz(ctx, id, func(q *quiz.Session) error { return q.Advance(from) })
}

func (m *Manager) mutateQuiz(ctx context.Context, id string, fn func(*quiz.Session) error) (*quiz.Session, error) {
	unlock := m.locks.lock("quiz|" + id)
	defer unlock()

	q, err := m.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	if err := m.quizzes.SaveQuiz(ctx, q); err != nil {
		return nil, fmt.Errorf("save quiz: %w", err)
	}
	return q, nil
}

// ------------------------------ helpers -------------------------------------

func (m *Manager) withRand(fn func(*rand.Rand)) {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	fn(m.rng)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
