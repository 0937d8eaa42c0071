package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/country"
)

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func countries(n int) []country.Country {
	out := make([]country.Country, n)
	for i := range out {
		out[i] = country.Country{Code: fmt.Sprintf("%c%c", 'A'+i/26, 'A'+i%26), Name: fmt.Sprintf("Country %02d", i)}
	}
	return out
}

func rng(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }

func started(t *testing.T, seed uint64) *Session {
	t.Helper()
	s, err := Build("q", countries(20), rng(seed), now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func TestBuildRequiresTenCountries(t *testing.T) {
	if _, err := Build("q", countries(9), rng(1), now); !errors.Is(err, apperr.ErrInsufficientData) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
}

func TestBuildShape(t *testing.T) {
	s, err := Build("q", countries(12), rng(2), now)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if s.State != StateAwaitingStart || s.LifelinesLeft != 3 {
		t.Fatalf("unexpected initial state %s/%d", s.State, s.LifelinesLeft)
	}
	if len(s.Questions) != TotalQuestions {
		t.Fatalf("questions: %d", len(s.Questions))
	}
	seen := map[string]bool{}
	for i, q := range s.Questions {
		if seen[q.CountryCode] {
			t.Fatalf("question %d repeats %s", i, q.CountryCode)
		}
		seen[q.CountryCode] = true
		if len(q.Options) != OptionsPerQ {
			t.Fatalf("question %d has %d options", i, len(q.Options))
		}
		n := 0
		distinct := map[string]bool{}
		for _, o := range q.Options {
			distinct[o] = true
			if o == q.CorrectAnswer {
				n++
			}
		}
		if n != 1 || len(distinct) != OptionsPerQ {
			t.Fatalf("question %d options %v", i, q.Options)
		}
	}
}

func TestBuildDeterministicWithSeed(t *testing.T) {
	a, _ := Build("a", countries(30), rng(42), now)
	b, _ := Build("b", countries(30), rng(42), now)
	for i := range a.Questions {
		if a.Questions[i].CountryCode != b.Questions[i].CountryCode ||
			!slices.Equal(a.Questions[i].Options, b.Questions[i].Options) {
			t.Fatalf("question %d differs for same seed", i)
		}
	}
}

func TestActionsBeforeStartRejected(t *testing.T) {
	s, _ := Build("q", countries(10), rng(3), now)
	if err := s.Select(s.Current().CorrectAnswer); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("select before start: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("double start: %v", err)
	}
}

func TestSelectOverwrites(t *testing.T) {
	s := started(t, 4)
	q := s.Current()
	if err := s.Select(q.Options[0]); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Select(q.Options[1]); err != nil {
		t.Fatalf("select: %v", err)
	}
	if s.Selected != q.Options[1] {
		t.Fatalf("selection not overwritten: %q", s.Selected)
	}
	if err := s.Select("Atlantis"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown option: %v", err)
	}
}

func TestFiftyFifty(t *testing.T) {
	s := started(t, 5)
	q := s.Current()
	hidden, err := s.FiftyFifty(rng(9))
	if err != nil {
		t.Fatalf("fifty-fifty: %v", err)
	}
	if len(hidden) != 2 {
		t.Fatalf("hidden %v", hidden)
	}
	for _, h := range hidden {
		if h == q.CorrectAnswer {
			t.Fatalf("correct answer hidden")
		}
		if !slices.Contains(q.Options, h) {
			t.Fatalf("hid non-option %q", h)
		}
	}
	if hidden[0] == hidden[1] {
		t.Fatalf("same option hidden twice")
	}
	if s.LifelinesLeft != 2 {
		t.Fatalf("lifelines: %d", s.LifelinesLeft)
	}

	// second use on the same question is rejected and changes nothing
	if _, err := s.FiftyFifty(rng(10)); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("second fifty-fifty: %v", err)
	}
	if s.LifelinesLeft != 2 || !slices.Equal(s.Hidden, hidden) {
		t.Fatalf("second call mutated session")
	}
	if err := s.Select(hidden[0]); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("selecting hidden option: %v", err)
	}
}

func TestFiftyFiftyClearsHiddenSelection(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		s := started(t, seed)
		q := s.Current()
		var wrong string
		for _, o := range q.Options {
			if o != q.CorrectAnswer {
				wrong = o
				break
			}
		}
		s.Select(wrong)
		hidden, err := s.FiftyFifty(rng(seed + 100))
		if err != nil {
			t.Fatalf("fifty-fifty: %v", err)
		}
		if slices.Contains(hidden, wrong) && s.Selected != "" {
			t.Fatalf("hidden option still selected")
		}
		if !slices.Contains(hidden, wrong) && s.Selected != wrong {
			t.Fatalf("visible selection dropped")
		}
	}
}

func TestLifelinesRunOut(t *testing.T) {
	s := started(t, 6)
	for i := 0; i < 3; i++ {
		if _, err := s.FiftyFifty(rng(uint64(i))); err != nil {
			t.Fatalf("lifeline %d: %v", i, err)
		}
		answerAndAdvance(t, s, true)
	}
	if _, err := s.FiftyFifty(rng(99)); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("fourth lifeline: %v", err)
	}
}

func TestSubmitAndAdvance(t *testing.T) {
	s := started(t, 7)
	if _, err := s.Submit(now); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("submit without selection: %v", err)
	}
	if err := s.Advance(0); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("advance before submit: %v", err)
	}
	s.Select(s.Current().CorrectAnswer)
	ok, err := s.Submit(now)
	if err != nil || !ok {
		t.Fatalf("submit: %v %v", ok, err)
	}
	if s.Score != 1 || !s.FeedbackShown {
		t.Fatalf("score %d shown %v", s.Score, s.FeedbackShown)
	}
	if err := s.Select(s.Current().Options[0]); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("select after submit: %v", err)
	}
	if _, err := s.FiftyFifty(rng(1)); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("lifeline after submit: %v", err)
	}
	if err := s.Advance(3); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("stale advance: %v", err)
	}
	if err := s.Advance(0); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.Index != 1 || s.Selected != "" || s.FeedbackShown || s.Hidden != nil {
		t.Fatalf("question state not reset: %+v", s)
	}
	if err := s.Advance(0); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("repeated advance: %v", err)
	}
}

func TestPassThreshold(t *testing.T) {
	for _, c := range []struct {
		correct int
		passed  bool
	}{{7, true}, {6, false}, {10, true}, {0, false}} {
		s := started(t, 8)
		for i := 0; i < TotalQuestions; i++ {
			answerAndAdvance(t, s, i < c.correct)
		}
		if s.State != StateComplete {
			t.Fatalf("expected complete, got %s", s.State)
		}
		r := s.Result()
		if r.Score != c.correct || r.Total != 10 || r.Passed != c.passed {
			t.Fatalf("%d correct: %+v", c.correct, r)
		}
	}
}

func answerAndAdvance(t *testing.T, s *Session, correct bool) {
	t.Helper()
	q := s.Current()
	pick := q.CorrectAnswer
	if !correct {
		for _, o := range q.Options {
			if o != q.CorrectAnswer && !slices.Contains(s.Hidden, o) {
				pick = o
				break
			}
		}
	}
	if err := s.Select(pick); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := s.Submit(now); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := s.Advance(s.Index); err != nil {
		t.Fatalf("advance: %v", err)
	}
}
