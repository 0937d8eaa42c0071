package game

import (
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/country"
)

var (
	now    = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	france = country.Country{Code: "FR", Name: "France", Colors: []string{"red", "white", "blue"},
		Region: "Europe", Subregion: "Western Europe", Lat: 48.85, Lon: 2.35}
	spain = country.Country{Code: "ES", Name: "Spain", Colors: []string{"red", "yellow"}, HasEmblem: true,
		Region: "Europe", Subregion: "Southern Europe", Lat: 40, Lon: -4}
)

func TestNewUsesVariantCeiling(t *testing.T) {
	if g := New("a", ModePractice, VariantClassic, "fr", now); g.MaxAttempts != 6 || g.Target != "FR" {
		t.Fatalf("classic: %+v", g)
	}
	if g := New("b", ModePractice, VariantEnhanced, "FR", now); g.MaxAttempts != 5 {
		t.Fatalf("enhanced: max %d", g.MaxAttempts)
	}
}

func TestCorrectGuessWins(t *testing.T) {
	g := New("g", ModePractice, VariantClassic, "FR", now)
	if _, err := g.ApplyGuess(spain, france, now); err != nil {
		t.Fatalf("guess: %v", err)
	}
	rec, err := g.ApplyGuess(france, france, now)
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if rec.Similarity != 100 {
		t.Fatalf("similarity: %d", rec.Similarity)
	}
	if g.State() != StateWon || !g.Completed || !g.Won {
		t.Fatalf("expected won, got %s", g.State())
	}
	if g.AttemptsUsed != 2 || len(g.Guesses) != 2 {
		t.Fatalf("attempts %d guesses %d", g.AttemptsUsed, len(g.Guesses))
	}
	if g.Guesses[0].Code != "ES" || g.Guesses[1].Similarity != 100 {
		t.Fatalf("history: %+v", g.Guesses)
	}
}

func TestSixWrongGuessesLose(t *testing.T) {
	g := New("g", ModeDaily, VariantClassic, "FR", now)
	for i := 0; i < 6; i++ {
		if g.Completed {
			t.Fatalf("completed early at %d", i)
		}
		if _, err := g.ApplyGuess(spain, france, now); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
	}
	if g.State() != StateLost || g.Won || g.AttemptsLeft() != 0 {
		t.Fatalf("expected lost with 0 left, got %s/%d", g.State(), g.AttemptsLeft())
	}
	if g.FinishedAt.IsZero() {
		t.Fatalf("finished time not set")
	}
}

func TestNothingAcceptedAfterCompletion(t *testing.T) {
	finished := []func() *Game{
		func() *Game { g := New("w", ModePractice, VariantClassic, "FR", now); g.ApplyGuess(france, france, now); return g },
		func() *Game { g := New("u", ModePractice, VariantClassic, "FR", now); g.GiveUp(now); return g },
		func() *Game {
			g := New("l", ModePractice, VariantEnhanced, "FR", now)
			for i := 0; i < 5; i++ {
				g.ApplyGuess(spain, france, now)
			}
			return g
		},
	}
	for _, mk := range finished {
		g := mk()
		before := *g
		if _, err := g.ApplyGuess(spain, france, now); !errors.Is(err, apperr.ErrInvalidState) {
			t.Fatalf("%s guess: %v", g.ID, err)
		}
		if _, err := g.UseStartHint(france, now); !errors.Is(err, apperr.ErrInvalidState) {
			t.Fatalf("%s start hint: %v", g.ID, err)
		}
		if _, err := g.UseEndHint(france, now); !errors.Is(err, apperr.ErrInvalidState) {
			t.Fatalf("%s end hint: %v", g.ID, err)
		}
		if err := g.RevealFlag(now); !errors.Is(err, apperr.ErrInvalidState) {
			t.Fatalf("%s reveal: %v", g.ID, err)
		}
		if err := g.GiveUp(now); !errors.Is(err, apperr.ErrInvalidState) {
			t.Fatalf("%s give up: %v", g.ID, err)
		}
		if g.AttemptsUsed != before.AttemptsUsed || g.State() != before.State() || len(g.Guesses) != len(before.Guesses) {
			t.Fatalf("%s mutated after completion", g.ID)
		}
	}
}

func TestClassicHintsAreFree(t *testing.T) {
	g := New("g", ModePractice, VariantClassic, "FR", now)
	l, err := g.UseStartHint(france, now)
	if err != nil || l != "F" {
		t.Fatalf("start hint: %q %v", l, err)
	}
	l, err = g.UseEndHint(france, now)
	if err != nil || l != "E" {
		t.Fatalf("end hint: %q %v", l, err)
	}
	if err := g.RevealFlag(now); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if g.AttemptsUsed != 0 {
		t.Fatalf("classic aids should be free, used %d", g.AttemptsUsed)
	}
	if _, err := g.UseStartHint(france, now); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("second start hint: %v", err)
	}
	if err := g.RevealFlag(now); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("second reveal: %v", err)
	}
}

func TestEnhancedAidsCostAttempts(t *testing.T) {
	g := New("g", ModePractice, VariantEnhanced, "FR", now)
	if _, err := g.UseStartHint(france, now); err != nil {
		t.Fatalf("start hint: %v", err)
	}
	if err := g.RevealFlag(now); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if g.AttemptsUsed != 2 || g.AttemptsLeft() != 3 {
		t.Fatalf("attempts used %d", g.AttemptsUsed)
	}
}

func TestEnhancedHintOnLastAttemptLoses(t *testing.T) {
	g := New("g", ModePractice, VariantEnhanced, "FR", now)
	for i := 0; i < 4; i++ {
		if _, err := g.ApplyGuess(spain, france, now); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
	}
	if _, err := g.UseEndHint(france, now); err != nil {
		t.Fatalf("end hint: %v", err)
	}
	if g.State() != StateLost || g.AttemptsLeft() != 0 || g.Won {
		t.Fatalf("expected lost, got %s", g.State())
	}
	if len(g.Guesses) != 4 {
		t.Fatalf("hint must not add a guess")
	}
}

func TestGiveUp(t *testing.T) {
	g := New("g", ModePractice, VariantClassic, "FR", now)
	g.ApplyGuess(spain, france, now)
	if err := g.GiveUp(now); err != nil {
		t.Fatalf("give up: %v", err)
	}
	if g.State() != StateGaveUp || g.Won || g.AttemptsLeft() != 0 || !g.Completed {
		t.Fatalf("unexpected state %s left %d", g.State(), g.AttemptsLeft())
	}
}

func TestWrongTargetRejected(t *testing.T) {
	g := New("g", ModePractice, VariantClassic, "FR", now)
	if _, err := g.ApplyGuess(france, spain, now); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if g.AttemptsUsed != 0 {
		t.Fatalf("rejected guess mutated game")
	}
}

func TestLetters(t *testing.T) {
	cases := []struct{ in, first, last string }{
		{"France", "F", "E"},
		{"Côte d'Ivoire", "C", "E"},
		{"Korea (South)", "K", "H"},
		{"åland", "Å", "D"},
		{"", "", ""},
	}
	for _, c := range cases {
		if got := FirstLetter(c.in); got != c.first {
			t.Fatalf("first(%q) = %q", c.in, got)
		}
		if got := LastLetter(c.in); got != c.last {
			t.Fatalf("last(%q) = %q", c.in, got)
		}
	}
}

func TestParseModeAndVariant(t *testing.T) {
	if _, err := ParseMode("weekly"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("mode: %v", err)
	}
	if v, err := ParseVariant(""); err != nil || v != VariantClassic {
		t.Fatalf("variant default: %s %v", v, err)
	}
	if _, err := ParseVariant("hard"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("variant: %v", err)
	}
}
