package wire

import (
	"movie-booking/internal/adaptor"
	"movie-booking/pkg/middleware"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireShow(
	r chi.Router,
	showHandler *adaptor.ShowHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/shows - Browse shows (filter by movie, status, date)
	r.Get("/api/shows", showHandler.GetShows)

	// GET /api/shows/{id} - Show details incl. seat layout and pricing
	r.Get("/api/shows/{id}", showHandler.GetShowByID)

	// GET /api/shows/{id}/seats - Booked + blocked seat map for the seat picker
	r.Get("/api/shows/{id}/seats", showHandler.GetShowSeats)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/shows", func(r chi.Router) {
		r.Use(middleware.Identity(log))
		r.Use(middleware.Admin(config.Auth.AdminKeyHash, log))

		// POST /api/admin/shows - Schedule a new show
		r.Post("/", showHandler.CreateShow)

		// PUT /api/admin/shows/{id} - Update a show (derived fields recomputed)
		r.Put("/{id}", showHandler.UpdateShow)

		// DELETE /api/admin/shows/{id} - Delete a show and its seat state
		r.Delete("/{id}", showHandler.DeleteShow)

		// PUT /api/admin/shows/{id}/seats - Overwrite blocked seats
		r.Put("/{id}/seats", showHandler.UpdateBlockedSeats)
	})
}
