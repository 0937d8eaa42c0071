package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// mountCountries registers the read-only catalog routes.
func (s *Server) mountCountries(r chi.Router) {
	r.Route("/countries", func(r chi.Router) {
		r.Get("/", s.handleCountries)
		r.Get("/{code}", s.handleCountry)
	})
}

// handleCountries lists every country sorted by name, for autocomplete.
func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	all := s.sessions.Catalog().All()
	out := make([]countryBrief, 0, len(all))
	for _, c := range all {
		out = append(out, briefOf(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	c, err := s.sessions.Catalog().ByCode(chi.URLParam(r, "code"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}
