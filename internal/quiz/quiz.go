// internal/quiz/quiz.go
//
// Multiple-choice flag quiz.
//
// Lifecycle: awaiting_start → in_progress → complete.
//   - Build draws 10 distinct countries and 4 shuffled options per question.
//   - Start opens the first question.
//   - Per question: Select (any number of times) → optional FiftyFifty →
//     Submit → Advance. Advance is driven from outside (timer or client),
//     never by Submit itself.
//
// All randomness comes from the *rand.Rand handed to Build / FiftyFifty.

package quiz

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/country"
)

const (
	TotalQuestions = 10
	OptionsPerQ    = 4
	PassingScore   = 7
	Lifelines      = 3
)

// State is the quiz lifecycle state.
type State string

const (
	StateAwaitingStart State = "awaiting_start"
	StateInProgress    State = "in_progress"
	StateComplete      State = "complete"
)

// Question is one flag to identify.
type Question struct {
	CountryCode   string   `json:"countryCode"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
}

// Session is a single quiz run.
type Session struct {
	ID            string
	Questions     []Question
	State         State
	Index         int      // current question
	Score         int      // correct answers so far
	LifelinesLeft int      // fifty-fifty uses remaining
	Hidden        []string // options hidden on the current question
	Selected      string   // current selection, "" if none
	FeedbackShown bool     // current question has been submitted
	LastCorrect   bool     // result of the last submission
	CreatedAt     time.Time
	AnsweredAt    time.Time
}

// Result is the outcome reported alongside the numeric score.
type Result struct {
	Score  int  `json:"score"`
	Total  int  `json:"total"`
	Passed bool `json:"passed"`
}

// Build draws the question set from all. It fails with ErrInsufficientData
// when fewer than TotalQuestions countries are available.
func Build(id string, all []country.Country, r *rand.Rand, now time.Time) (*Session, error) {
	if len(all) < TotalQuestions {
		return nil, apperr.InsufficientData("quiz needs %d countries, catalog has %d", TotalQuestions, len(all))
	}

	picked := shuffled(all, r)[:TotalQuestions]
	questions := make([]Question, 0, TotalQuestions)
	for _, target := range picked {
		others := make([]country.Country, 0, len(all)-1)
		for _, c := range all {
			if c.Code != target.Code {
				others = append(others, c)
			}
		}
		opts := []string{target.Name}
		for _, c := range shuffled(others, r)[:OptionsPerQ-1] {
			opts = append(opts, c.Name)
		}
		questions = append(questions, Question{
			CountryCode:   target.Code,
			CorrectAnswer: target.Name,
			Options:       shuffled(opts, r),
		})
	}

	return &Session{
		ID:            id,
		Questions:     questions,
		State:         StateAwaitingStart,
		LifelinesLeft: Lifelines,
		CreatedAt:     now.UTC(),
	}, nil
}

// Start opens the first question.
func (s *Session) Start() error {
	if s.State != StateAwaitingStart {
		return apperr.InvalidState("quiz already started")
	}
	s.State = StateInProgress
	return nil
}

// Current returns the question being played.
func (s *Session) Current() Question { return s.Questions[s.Index] }

// Select records option as the answer for the current question; later
// selections overwrite earlier ones.
func (s *Session) Select(option string) error {
	if err := s.requireOpen(); err != nil {
		return err
	}
	if !slices.Contains(s.Current().Options, option) {
		return apperr.NotFound("option %q", option)
	}
	if slices.Contains(s.Hidden, option) {
		return apperr.InvalidState("option %q is hidden", option)
	}
	s.Selected = option
	return nil
}

// FiftyFifty hides two of the three incorrect options of the current question.
func (s *Session) FiftyFifty(r *rand.Rand) ([]string, error) {
	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	if s.LifelinesLeft <= 0 {
		return nil, apperr.InvalidState("no lifelines left")
	}
	if len(s.Hidden) > 0 {
		return nil, apperr.InvalidState("lifeline already used on this question")
	}

	q := s.Current()
	var wrong []string
	for _, o := range q.Options {
		if o != q.CorrectAnswer {
			wrong = append(wrong, o)
		}
	}
	s.Hidden = shuffled(wrong, r)[:2]
	s.LifelinesLeft--
	if slices.Contains(s.Hidden, s.Selected) {
		s.Selected = ""
	}
	return append([]string(nil), s.Hidden...), nil
}

// Submit checks the selection against the current question.
func (s *Session) Submit(now time.Time) (bool, error) {
	if err := s.requireOpen(); err != nil {
		return false, err
	}
	if s.Selected == "" {
		return false, apperr.InvalidState("no option selected")
	}
	correct := s.Selected == s.Current().CorrectAnswer
	if correct {
		s.Score++
	}
	s.LastCorrect = correct
	s.FeedbackShown = true
	s.AnsweredAt = now.UTC()
	return correct, nil
}

// Advance moves past question from once it has been answered. The last
// question completes the quiz. from guards against stale triggers.
func (s *Session) Advance(from int) error {
	if s.State != StateInProgress {
		return apperr.InvalidState("quiz not in progress")
	}
	if from != s.Index {
		return apperr.InvalidState("question %d is not current", from)
	}
	if !s.FeedbackShown {
		return apperr.InvalidState("question %d not answered", from)
	}
	if s.Index == len(s.Questions)-1 {
		s.State = StateComplete
		return nil
	}
	s.Index++
	s.Selected = ""
	s.Hidden = nil
	s.FeedbackShown = false
	s.LastCorrect = false
	return nil
}

// Result reports the score and whether it passes.
func (s *Session) Result() Result {
	return Result{Score: s.Score, Total: len(s.Questions), Passed: s.Score >= PassingScore}
}

// requireOpen: in progress and the current question not yet submitted.
func (s *Session) requireOpen() error {
	if s.State != StateInProgress {
		return apperr.InvalidState("quiz not in progress")
	}
	if s.FeedbackShown {
		return apperr.InvalidState("question already answered")
	}
	return nil
}

// shuffled returns a Fisher-Yates shuffled copy of in.
func shuffled[T any](in []T, r *rand.Rand) []T {
	out := append([]T(nil), in...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Options = append([]string(nil), q.Options...)
		c.Questions[i] = q
	}
	c.Hidden = append([]string(nil), s.Hidden...)
	return &c
}
