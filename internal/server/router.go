package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// newRouter creates the dashboard API router.
func (s *Server) newRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(recovery)
	r.Use(logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/users", s.handleUsers)

		r.Get("/overview", s.recordsHandler(overviewView))
		r.Get("/income", s.recordsHandler(incomeView))
		r.Get("/rarity", s.recordsHandler(rarityView))
		r.Get("/heatmap", s.recordsHandler(heatmapView))
		r.Get("/items", s.handleItems)
		r.Get("/treemap", s.recordsHandler(treemapView))
		r.Get("/groups", s.recordsHandler(groupsView))
		r.Get("/correlation", s.recordsHandler(correlationView))
		r.Get("/activity", s.recordsHandler(activityView))
		r.Get("/dashboard", s.recordsHandler(dashboardView))

		r.Get("/store/status", s.handleStoreStatus)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.Delete("/logs/{user}", s.handleClearLog)

		r.Get("/events", s.handleEvents)
		r.Get("/ws", s.handleWS)
	})

	return r
}
