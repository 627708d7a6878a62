package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the HTTP route table around a handler set
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Route("/game/{mode}", func(rr chi.Router) {
		rr.Get("/current", h.CurrentPeriod)
		rr.Get("/results", h.RecentResults)
	})

	r.Post("/bets", h.PlaceBet)
	r.Post("/users", h.CreateUser)
	r.Get("/users/{id}/snapshot", h.Snapshot)

	r.Route("/admin", func(rr chi.Router) {
		rr.Get("/config", h.GetConfig)
		rr.Post("/override", h.SetOverride)
		rr.Delete("/override/{mode}", h.ClearOverride)
		rr.Post("/emergency-stop", h.SetEmergencyStop)
	})

	return r
}
