// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new            → start a practice game (or the daily one)
//   - POST /game/guess          → submit a country name or code
//   - GET  /game/{id}           → current state
//   - POST /game/{id}/hint      → reveal first or last letter
//   - POST /game/{id}/reveal    → unblur the flag
//   - POST /game/{id}/give-up   → end the game, reveal the target

package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/game"
	"github.com/robalobadob/flaggle/internal/session"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/hint", s.handleHint)
		r.Post("/{id}/reveal", s.handleReveal)
		r.Post("/{id}/give-up", s.handleGiveUp)
	})
}

type newGameReq struct {
	Mode    string `json:"mode"`    // "practice" (default) | "daily"
	Variant string `json:"variant"` // "classic" (default) | "enhanced"
}

type newGameRes struct {
	GameID      string       `json:"gameId"`
	Mode        game.Mode    `json:"mode"`
	Variant     game.Variant `json:"variant"`
	TargetCode  string       `json:"targetCode"`
	MaxAttempts int          `json:"maxAttempts"`
}

// handleNewGame creates a practice game. mode=daily hands out the player's
// daily game instead, with the server's daily rules.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	if req.Mode == "" {
		req.Mode = string(game.ModePractice)
	}
	mode, err := game.ParseMode(strings.ToLower(req.Mode))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	variant, err := game.ParseVariant(strings.ToLower(req.Variant))
	if err != nil {
		writeErr(w, r, err)
		return
	}

	var g *game.Game
	if mode == game.ModeDaily {
		g, _, err = s.startDaily(w, r)
	} else {
		g, err = s.sessions.NewPractice(r.Context(), variant, s.ensureAnonID(w, r))
	}
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{
		GameID:      g.ID,
		Mode:        g.Mode,
		Variant:     g.Variant,
		TargetCode:  g.Target,
		MaxAttempts: g.MaxAttempts,
	})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Correct      bool         `json:"correct"`
	Guess        countryBrief `json:"guess"`
	Feedback     feedbackView `json:"feedback"`
	AttemptsLeft int          `json:"attemptsLeft"`
	State        game.State   `json:"state"`
	Target       *countryView `json:"targetCountry,omitempty"`
}

// handleGuess resolves the guess, scores it and returns the feedback.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	req.Guess = strings.TrimSpace(req.Guess)
	if req.GameID == "" || req.Guess == "" {
		writeErr(w, r, apperr.InvalidInput("gameId and guess are required"))
		return
	}
	out, err := s.sessions.Guess(r.Context(), req.GameID, req.Guess)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	last := out.Game.Guesses[len(out.Game.Guesses)-1]
	guessed, _ := s.sessions.Catalog().ByCode(last.Code)
	writeJSON(w, http.StatusOK, guessRes{
		Correct:      out.Correct,
		Guess:        briefOf(guessed),
		Feedback:     feedbackOf(out.Feedback),
		AttemptsLeft: out.Game.AttemptsLeft(),
		State:        out.Game.State(),
		Target:       revealed(out.Game, out.Target),
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, target, err := s.sessions.Game(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.gameViewOf(g, target))
}

type hintReq struct {
	Position string `json:"position"` // "start" | "end"
}

type aidRes struct {
	Letter       string       `json:"letter,omitempty"`
	Position     string       `json:"position,omitempty"`
	FlagRevealed bool         `json:"flagRevealed"`
	TargetCode   string       `json:"targetCode"`
	AttemptsLeft int          `json:"attemptsLeft"`
	State        game.State   `json:"state"`
	Target       *countryView `json:"targetCountry,omitempty"`
}

func aidResOf(out session.Outcome) aidRes {
	return aidRes{
		Letter:       out.Letter,
		FlagRevealed: out.Game.FlagRevealed,
		TargetCode:   out.Game.Target,
		AttemptsLeft: out.Game.AttemptsLeft(),
		State:        out.Game.State(),
		Target:       revealed(out.Game, out.Target),
	}
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	pos := session.HintPosition(strings.ToLower(req.Position))
	out, err := s.sessions.Hint(r.Context(), chi.URLParam(r, "id"), pos)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	res := aidResOf(out)
	res.Position = string(pos)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	out, err := s.sessions.RevealFlag(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, aidResOf(out))
}

// handleGiveUp always reveals the full target record.
func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	out, err := s.sessions.GiveUp(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, aidResOf(out))
}
