// internal/httpserver/views.go
//
// JSON views of domain records. Same-named fields are filled with
// copier.Copy; derived fields (flag emoji, labels, state) are set by hand.

package httpserver

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/robalobadob/flaggle/internal/country"
	"github.com/robalobadob/flaggle/internal/feedback"
	"github.com/robalobadob/flaggle/internal/game"
	"github.com/robalobadob/flaggle/internal/quiz"
)

// countryBrief is the autocomplete entry.
type countryBrief struct {
	Code string `json:"cca2"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// countryView is the full record, shown when a game ends or on lookup.
type countryView struct {
	Code       string   `json:"cca2"`
	Name       string   `json:"name"`
	Flag       string   `json:"flag"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Colors     []string `json:"colors"`
	HasEmblem  bool     `json:"emblem"`
	Capital    string   `json:"capital,omitempty"`
	Population int64    `json:"population,omitempty"`
	FunFact    string   `json:"fact,omitempty"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
}

func briefOf(c country.Country) countryBrief {
	return countryBrief{Code: c.Code, Name: c.Name, Flag: c.FlagEmoji()}
}

func viewOf(c country.Country) *countryView {
	var v countryView
	_ = copier.Copy(&v, &c)
	v.Flag = c.FlagEmoji()
	return &v
}

// feedbackView adds the presentation label next to the engine tier.
type feedbackView struct {
	Region      feedback.RegionMatch `json:"region"`
	RegionLabel string               `json:"regionLabel"`
	Colors      map[string]bool      `json:"colors"`
	EmblemSame  bool                 `json:"has_emblem"`
	Similarity  int                  `json:"similarity"`
	DistanceKm  int                  `json:"distance_km"`
}

func feedbackOf(rec feedback.Record) feedbackView {
	var v feedbackView
	_ = copier.Copy(&v, &rec)
	v.RegionLabel = feedback.UILabel(rec.Region)
	return v
}

type guessView struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Flag       string    `json:"flag"`
	Similarity int       `json:"similarity"`
	At         time.Time `json:"at"`
}

// gameView is the full state of a game as the client sees it.
type gameView struct {
	ID            string       `json:"gameId"`
	Mode          game.Mode    `json:"mode"`
	Variant       game.Variant `json:"variant"`
	MaxAttempts   int          `json:"maxAttempts"`
	AttemptsUsed  int          `json:"attemptsUsed"`
	AttemptsLeft  int          `json:"attemptsLeft"`
	State         game.State   `json:"state"`
	Guesses       []guessView  `json:"guesses"`
	StartLetter   string       `json:"startLetter,omitempty"`
	EndLetter     string       `json:"endLetter,omitempty"`
	FlagRevealed  bool         `json:"flagRevealed"`
	TargetCode    string       `json:"targetCode"`
	TargetCountry *countryView `json:"targetCountry,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

func (s *Server) gameViewOf(g *game.Game, target country.Country) gameView {
	var v gameView
	_ = copier.Copy(&v, g)
	v.AttemptsLeft = g.AttemptsLeft()
	v.State = g.State()
	v.TargetCode = g.Target
	v.Guesses = make([]guessView, 0, len(g.Guesses))
	cat := s.sessions.Catalog()
	for _, gs := range g.Guesses {
		gv := guessView{Code: gs.Code, Similarity: gs.Similarity, At: gs.At}
		if c, err := cat.ByCode(gs.Code); err == nil {
			gv.Name, gv.Flag = c.Name, c.FlagEmoji()
		}
		v.Guesses = append(v.Guesses, gv)
	}
	if g.StartHint {
		v.StartLetter = game.FirstLetter(target.Name)
	}
	if g.EndHint {
		v.EndLetter = game.LastLetter(target.Name)
	}
	v.TargetCountry = revealed(g, target)
	return v
}

// revealed returns the target record once the game is over.
func revealed(g *game.Game, target country.Country) *countryView {
	if !g.Completed {
		return nil
	}
	return viewOf(target)
}

type questionView struct {
	CountryCode   string   `json:"countryCode"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options"`
}

// quizView is the quiz output record plus the player's progress.
type quizView struct {
	ID             string         `json:"quizId"`
	State          quiz.State     `json:"state"`
	Index          int            `json:"index"`
	Score          int            `json:"score"`
	LifelinesLeft  int            `json:"lifelinesLeft"`
	Hidden         []string       `json:"hidden"`
	Selected       string         `json:"selected,omitempty"`
	FeedbackShown  bool           `json:"feedbackShown"`
	LastCorrect    bool           `json:"lastCorrect"`
	Questions      []questionView `json:"questions"`
	TotalQuestions int            `json:"totalQuestions"`
	PassingScore   int            `json:"passingScore"`
	Result         *quiz.Result   `json:"result,omitempty"`
}

func quizViewOf(q *quiz.Session) quizView {
	var v quizView
	_ = copier.Copy(&v, q)
	if v.Hidden == nil {
		v.Hidden = []string{}
	}
	v.TotalQuestions = quiz.TotalQuestions
	v.PassingScore = quiz.PassingScore
	// copier fills Result from the method; only a finished quiz has one
	v.Result = nil
	if q.State == quiz.StateComplete {
		r := q.Result()
		v.Result = &r
	}
	return v
}
