// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's game for this player
//   - GET  /daily/leaderboard → top 20 results for today (or a given date)
//
// Guesses, hints and give-up go through the normal /game/* routes.
// The target for a date is chosen once from HMAC(salt, date) and stored, so
// every player gets the same country even if the catalog later changes.
// A player's result is recorded when their daily game is won.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/daily"
	"github.com/robalobadob/flaggle/internal/game"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID      string       `json:"gameId"`
	Date        string       `json:"date"`
	Variant     game.Variant `json:"variant"`
	TargetCode  string       `json:"targetCode"`
	MaxAttempts int          `json:"maxAttempts"`
	State       game.State   `json:"state"`
	Played      bool         `json:"played"` // a winning result is already on the board
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	g, played, err := s.startDaily(w, r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyNewRes{
		GameID:      g.ID,
		Date:        daily.DateKey(g.CreatedAt),
		Variant:     g.Variant,
		TargetCode:  g.Target,
		MaxAttempts: g.MaxAttempts,
		State:       g.State(),
		Played:      played,
	})
}

// startDaily resolves today's target and returns the player's game for it.
func (s *Server) startDaily(w http.ResponseWriter, r *http.Request) (*game.Game, bool, error) {
	if s.daily == nil {
		return nil, false, apperr.InvalidState("daily puzzle is not configured")
	}
	ctx := r.Context()
	uid := s.ensureAnonID(w, r)
	now := s.opts.Now()
	date := daily.DateKey(now)

	cat := s.sessions.Catalog()
	candidate := cat.At(daily.TargetIndex(now, s.opts.DailySalt, cat.Len())).Code
	target, err := s.daily.Target(ctx, date, candidate)
	if err != nil {
		return nil, false, err
	}
	played, err := s.daily.AlreadyPlayed(ctx, uid, date)
	if err != nil {
		return nil, false, err
	}
	g, err := s.sessions.StartDaily(ctx, uid, date, target, s.opts.DailyVariant)
	if err != nil {
		return nil, false, err
	}
	return g, played, nil
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.daily == nil {
		writeErr(w, r, apperr.InvalidState("daily puzzle is not configured"))
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.opts.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeErr(w, r, apperr.InvalidInput("date must be YYYY-MM-DD"))
		return
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
