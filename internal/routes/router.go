package routes

import (
	"github.com/2mOlaf/gamer-gambit/internal/controllers"
	authmw "github.com/2mOlaf/gamer-gambit/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Controllers holds the handlers a bot exposes. Nil entries leave their
// routes unmounted.
type Controllers struct {
	Health      *controllers.HealthController
	Games       *controllers.GameController
	Assignments *controllers.AssignmentController
}

func SetupRouter(auth *authmw.AuthMiddleware, c Controllers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if c.Health != nil {
		r.Get("/health", c.Health.Health)
	}
	if c.Assignments != nil {
		r.Get("/metrics", c.Assignments.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.ValidateToken)

		if c.Games != nil {
			r.Get("/search", c.Games.Search)
			r.Get("/games/{id}", c.Games.GetByID)
		}
		if c.Assignments != nil {
			r.Get("/assignments/{userID}", c.Assignments.ByUser)
		}
	})

	return r
}
