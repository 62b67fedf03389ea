package routes

import (
	"github.com/Negi04/Criminals-Record-Management-System/internal/auth"
	"github.com/Negi04/Criminals-Record-Management-System/internal/handlers"
	"github.com/Negi04/Criminals-Record-Management-System/internal/middleware"
	"github.com/Negi04/Criminals-Record-Management-System/internal/policy"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	criminalHandler *handlers.CriminalHandler,
	officerHandler *handlers.OfficerHandler,
	tokenManager *auth.TokenManager,
) {
	// Rate limiting config for auth endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/register", authHandler.Register)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(tokenManager))

		// Any authenticated user
		r.Get("/profile", userHandler.GetProfile)
		r.Get("/criminals", criminalHandler.ListCriminals)
		r.Get("/criminals/search", criminalHandler.SearchCriminals)
		r.Get("/officers", officerHandler.ListOfficers)

		// Officer routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(policy.CanMutateCriminalRecords))
			r.Post("/criminals", criminalHandler.CreateCriminal)
			r.Patch("/criminals/{id}", criminalHandler.UpdateCriminal)
			r.Put("/criminals/{id}/status", criminalHandler.ChangeStatus)
		})

		r.With(auth.RequirePermission(policy.CanViewOfficerStats)).
			Get("/officers/stats", officerHandler.OfficerStats)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(policy.CanManageUsers))
			r.Get("/users/pending", userHandler.ListPendingUsers)
			r.Put("/users/{id}/decision", userHandler.DecideUser)
		})
	})
}
