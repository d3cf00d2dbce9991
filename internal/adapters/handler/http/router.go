package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(candidateHandler *CandidateHandler, voteHandler *VoteHandler, standingsHandler *StandingsHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/candidates", func(r chi.Router) {
			r.Get("/", candidateHandler.List)
			r.Post("/", candidateHandler.Create)
			r.Put("/{id}", candidateHandler.Update)
		})

		r.Route("/votes", func(r chi.Router) {
			r.Post("/", voteHandler.Cast)
			r.Get("/", voteHandler.List)
			r.Get("/export", voteHandler.ExportCSV)
			r.Get("/updated", voteHandler.Updated)
			r.Delete("/", voteHandler.Reset)
		})

		r.Route("/standings", func(r chi.Router) {
			r.Get("/", standingsHandler.Get)
			r.Get("/export", standingsHandler.ExportCSV)
		})
	})

	return r
}
