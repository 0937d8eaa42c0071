// internal/httpserver/routes_quiz.go
//
// Quiz endpoints:
//   - POST /quiz/start              → build and open a 10-question quiz
//   - GET  /quiz/{id}               → current state
//   - POST /quiz/{id}/select        → choose an option
//   - POST /quiz/{id}/fifty-fifty   → hide two wrong options
//   - POST /quiz/{id}/submit        → score the choice; schedules auto-advance
//   - POST /quiz/{id}/next          → advance explicitly
//   - POST /quiz/{id}/share         → signed result token (complete quizzes)
//   - GET  /quiz/share/{token}      → verify a token
//
// Auto-advance and /next both name the question they advance from, so a
// late timer never skips a question the player already moved past.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/quiz"
)

func (s *Server) mountQuiz(r chi.Router) {
	r.Route("/quiz", func(r chi.Router) {
		r.Post("/start", s.handleQuizStart)
		r.Get("/share/{token}", s.handleShareVerify)
		r.Get("/{id}", s.handleQuizGet)
		r.Post("/{id}/select", s.handleQuizSelect)
		r.Post("/{id}/fifty-fifty", s.handleFiftyFifty)
		r.Post("/{id}/submit", s.handleQuizSubmit)
		r.Post("/{id}/next", s.handleQuizNext)
		r.Post("/{id}/share", s.handleShareSign)
	})
}

func (s *Server) handleQuizStart(w http.ResponseWriter, r *http.Request) {
	q, err := s.sessions.StartQuiz(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizViewOf(q))
}

func (s *Server) handleQuizGet(w http.ResponseWriter, r *http.Request) {
	q, err := s.sessions.Quiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizViewOf(q))
}

type selectReq struct {
	Option string `json:"option"`
}

func (s *Server) handleQuizSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	if req.Option == "" {
		writeErr(w, r, apperr.InvalidInput("option is required"))
		return
	}
	q, err := s.sessions.SelectAnswer(r.Context(), chi.URLParam(r, "id"), req.Option)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizViewOf(q))
}

type fiftyRes struct {
	Hidden        []string `json:"hidden"`
	LifelinesLeft int      `json:"lifelinesLeft"`
}

func (s *Server) handleFiftyFifty(w http.ResponseWriter, r *http.Request) {
	q, hidden, err := s.sessions.FiftyFifty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fiftyRes{Hidden: hidden, LifelinesLeft: q.LifelinesLeft})
}

type submitRes struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Score         int    `json:"score"`
	Index         int    `json:"index"`
	Last          bool   `json:"last"`
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	q, correct, err := s.sessions.SubmitAnswer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	s.scheduleAdvance(q.ID, q.Index)
	writeJSON(w, http.StatusOK, submitRes{
		Correct:       correct,
		CorrectAnswer: q.Current().CorrectAnswer,
		Score:         q.Score,
		Index:         q.Index,
		Last:          q.Index == len(q.Questions)-1,
	})
}

// scheduleAdvance moves quiz id past question from after the configured
// delay. A stale trigger (the player already advanced) is ignored.
func (s *Server) scheduleAdvance(id string, from int) {
	delay := s.opts.QuizAdvanceDelay
	if delay <= 0 {
		return
	}
	time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.sessions.AdvanceQuiz(ctx, id, from); err != nil {
			if errors.Is(err, apperr.ErrInvalidState) {
				log.Debug().Str("quizId", id).Int("from", from).Msg("auto-advance skipped")
				return
			}
			log.Warn().Err(err).Str("quizId", id).Int("from", from).Msg("auto-advance")
		}
	})
}

type nextReq struct {
	From *int `json:"from"`
}

func (s *Server) handleQuizNext(w http.ResponseWriter, r *http.Request) {
	var req nextReq
	if err := decode(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	if req.From == nil {
		writeErr(w, r, apperr.InvalidInput("from is required"))
		return
	}
	q, err := s.sessions.AdvanceQuiz(r.Context(), chi.URLParam(r, "id"), *req.From)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizViewOf(q))
}

type shareRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) handleShareSign(w http.ResponseWriter, r *http.Request) {
	if s.share == nil {
		writeErr(w, r, apperr.InvalidState("sharing is not configured"))
		return
	}
	q, err := s.sessions.Quiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if q.State != quiz.StateComplete {
		writeErr(w, r, apperr.InvalidState("quiz is not complete"))
		return
	}
	tok, exp, err := s.share.Sign(q.ID, q.Result())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shareRes{Token: tok, ExpiresAt: exp})
}

func (s *Server) handleShareVerify(w http.ResponseWriter, r *http.Request) {
	if s.share == nil {
		writeErr(w, r, apperr.InvalidState("sharing is not configured"))
		return
	}
	res, err := s.share.Verify(chi.URLParam(r, "token"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
