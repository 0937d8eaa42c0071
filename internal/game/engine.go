// internal/game/engine.go
//
// Core game engine for a single flag-guessing session.
// Responsibilities:
//   - Create new games with the attempt ceiling of their variant.
//   - Apply guesses, producing a feedback record per guess.
//   - Spend aids: first/last letter hints and the flag reveal.
//   - Track state transitions: playing → won / lost / gave_up.
//
// Notes:
//   - Countries are resolved by the caller; the engine only compares them.
//   - Terminal states are sticky: every action on a completed game returns
//     apperr.ErrInvalidState and leaves the game untouched.
//   - The engine is not safe for concurrent use; callers serialize access
//     per game (see internal/session).
package game

import (
	"strings"
	"time"
	"unicode"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/country"
	"github.com/robalobadob/flaggle/internal/feedback"
)

// New constructs a game for target with the ceiling of variant.
func New(id string, mode Mode, variant Variant, target string, now time.Time) *Game {
	return &Game{
		ID:          id,
		Mode:        mode,
		Variant:     variant,
		Target:      strings.ToUpper(target),
		MaxAttempts: variant.Rules().MaxAttempts,
		Guesses:     []Guess{},
		CreatedAt:   now.UTC(),
	}
}

// ApplyGuess scores guess against target and records it.
//
// State transitions:
//   - guess == target → Completed, Won.
//   - else if attempts reach MaxAttempts → Completed (lost).
func (g *Game) ApplyGuess(guess, target country.Country, now time.Time) (feedback.Record, error) {
	if g.Completed {
		return feedback.Record{}, apperr.InvalidState("game finished")
	}
	if err := g.checkTarget(target); err != nil {
		return feedback.Record{}, err
	}

	rec := feedback.Generate(guess, target)
	g.Guesses = append(g.Guesses, Guess{Code: guess.Code, Similarity: rec.Similarity, At: now.UTC()})
	g.AttemptsUsed++

	if guess.Code == target.Code {
		g.finish(true, now)
	} else if g.AttemptsUsed >= g.MaxAttempts {
		g.finish(false, now)
	}
	return rec, nil
}

// UseStartHint reveals the first letter of the target name.
func (g *Game) UseStartHint(target country.Country, now time.Time) (string, error) {
	if err := g.checkTarget(target); err != nil {
		return "", err
	}
	if err := g.spendAid(&g.StartHint, "start hint", now); err != nil {
		return "", err
	}
	return FirstLetter(target.Name), nil
}

// UseEndHint reveals the last letter of the target name.
func (g *Game) UseEndHint(target country.Country, now time.Time) (string, error) {
	if err := g.checkTarget(target); err != nil {
		return "", err
	}
	if err := g.spendAid(&g.EndHint, "end hint", now); err != nil {
		return "", err
	}
	return LastLetter(target.Name), nil
}

// RevealFlag unblurs the target flag.
func (g *Game) RevealFlag(now time.Time) error {
	return g.spendAid(&g.FlagRevealed, "flag reveal", now)
}

// GiveUp ends the game immediately; no attempts remain afterwards.
func (g *Game) GiveUp(now time.Time) error {
	if g.Completed {
		return apperr.InvalidState("game finished")
	}
	g.AttemptsUsed = g.MaxAttempts
	g.GaveUp = true
	g.finish(false, now)
	return nil
}

// State reports the coarse lifecycle state.
func (g *Game) State() State {
	switch {
	case !g.Completed:
		return StatePlaying
	case g.Won:
		return StateWon
	case g.GaveUp:
		return StateGaveUp
	default:
		return StateLost
	}
}

// AttemptsLeft is MaxAttempts - AttemptsUsed.
func (g *Game) AttemptsLeft() int { return g.MaxAttempts - g.AttemptsUsed }

// spendAid marks an aid used. Under rules where aids cost an attempt the
// aid may exhaust the game exactly like a wrong guess.
func (g *Game) spendAid(used *bool, name string, now time.Time) error {
	if g.Completed {
		return apperr.InvalidState("game finished")
	}
	if *used {
		return apperr.InvalidState("%s already used", name)
	}
	costs := g.Variant.Rules().AidsCost
	if costs && g.AttemptsUsed >= g.MaxAttempts {
		return apperr.InvalidState("no attempts left for %s", name)
	}

	*used = true
	if costs {
		g.AttemptsUsed++
		if g.AttemptsUsed >= g.MaxAttempts {
			g.finish(false, now)
		}
	}
	return nil
}

func (g *Game) finish(won bool, now time.Time) {
	g.Completed, g.Won = true, won
	g.FinishedAt = now.UTC()
}

func (g *Game) checkTarget(target country.Country) error {
	if target.Code != g.Target {
		return apperr.InvalidInput("target %s does not belong to game %s", target.Code, g.ID)
	}
	return nil
}

// FirstLetter returns the first letter of name, upper-cased.
func FirstLetter(name string) string {
	for _, r := range name {
		if unicode.IsLetter(r) {
			return string(unicode.ToUpper(r))
		}
	}
	return ""
}

// LastLetter returns the last letter of name, upper-cased.
func LastLetter(name string) string {
	rs := []rune(name)
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsLetter(rs[i]) {
			return string(unicode.ToUpper(rs[i]))
		}
	}
	return ""
}

// Clone returns a copy that shares no mutable state with g.
func (g *Game) Clone() *Game {
	c := *g
	c.Guesses = append([]Guess{}, g.Guesses...)
	return &c
}
