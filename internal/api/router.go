package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/greenmason/greenmason/internal/api/handlers"
	"github.com/greenmason/greenmason/internal/api/middleware"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Tip-Text", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Root & health
	r.Get("/", h.Index)
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		// Snap & Sort
		r.Post("/classify", h.ClassifyWaste)
		r.Post("/classify/upload", h.ClassifyWasteUpload)

		// EcoChat
		r.Post("/chat", h.Chat)

		// Voice
		r.Route("/voice", func(r chi.Router) {
			r.Post("/speak", h.Speak)
			r.Get("/tip", h.DailyTip)
			r.Get("/tip/text", h.DailyTipText)
			r.Get("/score/{username}", h.ScoreSummary)
		})

		// Green Score & leaderboard
		r.Post("/users", h.CreateUser)
		r.Get("/users/{username}", h.GetUser)
		r.Post("/scores", h.LogScore)
		r.Get("/leaderboard", h.GetLeaderboard)

		// Love Pledges
		r.Route("/pledges", func(r chi.Router) {
			r.Post("/", h.CreatePledge)
			r.Get("/", h.ListPledges)
			r.Post("/{pledgeID}/like", h.LikePledge)
		})

		// PatriotAI integration
		r.Route("/patriotai", func(r chi.Router) {
			r.Get("/agents", h.ListAgents)
			r.Post("/route", h.RouteMessage)
		})

		// Global stats
		r.Get("/stats", h.GetStats)
	})

	return r
}
