// internal/game/types.go
//
// Core type definitions for the flag-guessing game engine.
// Defines:
//   - Mode: daily or practice.
//   - Variant + Rules: attempt ceiling and which aids cost an attempt.
//   - State: playing / won / lost / gave_up.
//   - Guess: one submitted country with its similarity.
//   - Game: state for a single in-progress or finished puzzle.

package game

import (
	"time"

	"github.com/robalobadob/flaggle/internal/apperr"
)

// Mode tells where the target came from.
type Mode string

const (
	ModeDaily    Mode = "daily"
	ModePractice Mode = "practice"
)

// ParseMode validates a client-supplied mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDaily, ModePractice:
		return Mode(s), nil
	}
	return "", apperr.InvalidInput("mode %q", s)
}

// Variant selects a rule set.
type Variant string

const (
	// VariantClassic: 6 attempts, hints and flag reveal are free.
	VariantClassic Variant = "classic"
	// VariantEnhanced: 5 attempts, every hint and the flag reveal cost one attempt.
	VariantEnhanced Variant = "enhanced"
)

// ParseVariant validates a client-supplied variant; empty means classic.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "":
		return VariantClassic, nil
	case VariantClassic, VariantEnhanced:
		return Variant(s), nil
	}
	return "", apperr.InvalidInput("variant %q", s)
}

// Rules is the rule set a Variant resolves to.
type Rules struct {
	MaxAttempts int
	AidsCost    bool // hints and the flag reveal consume an attempt
}

// Rules returns the rule set for v.
func (v Variant) Rules() Rules {
	if v == VariantEnhanced {
		return Rules{MaxAttempts: 5, AidsCost: true}
	}
	return Rules{MaxAttempts: 6}
}

// State is the coarse lifecycle state of a Game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
	StateGaveUp  State = "gave_up"
)

// Guess is one entry of the append-only guess history.
type Guess struct {
	Code       string    `json:"code"`       // guessed country code
	Similarity int       `json:"similarity"` // 0..100
	At         time.Time `json:"at"`
}

// Game holds the state of a single puzzle.
// Invariant: AttemptsUsed <= MaxAttempts; Completed is set exactly when the
// game is won, attempts run out, or the player gives up.
type Game struct {
	ID           string
	Mode         Mode
	Variant      Variant
	PlayerID     string // anonymous player cookie, empty for API callers
	Target       string // target country code
	AttemptsUsed int
	MaxAttempts  int
	Completed    bool
	Won          bool
	GaveUp       bool
	StartHint    bool // first letter revealed
	EndHint      bool // last letter revealed
	FlagRevealed bool // flag image unblurred
	Guesses      []Guess
	CreatedAt    time.Time
	FinishedAt   time.Time
}
