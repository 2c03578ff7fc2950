package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/snowpadi/community-backend/internal/config"
	"github.com/snowpadi/community-backend/internal/handlers"
	"github.com/snowpadi/community-backend/internal/middleware"
	"github.com/snowpadi/community-backend/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	profileService *services.ProfileService,
	healthHandler *handlers.HealthHandler,
	feedHandler *handlers.FeedHandler,
	contentHandler *handlers.ContentHandler,
	moderationHandler *handlers.ModerationHandler,
	profileHandler *handlers.ProfileHandler,
) {
	api := app.Group("/api")

	requireAuth := middleware.JWTProtected(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)
	loadViewer := middleware.LoadViewer(profileService, cfg)

	// Public
	api.Get("/health", healthHandler.Check)
	api.Get("/categories", feedHandler.Categories)
	api.Get("/categories/:slug/posts", feedHandler.CategoryPosts)
	api.Get("/posts/:id", contentHandler.GetPost)
	api.Get("/posts/:id/comments", contentHandler.ListComments)
	api.Get("/profiles/:id", profileHandler.Get)
	api.Get("/profiles/:id/badges", profileHandler.Badges)

	// Personalised when a token is sent
	api.Get("/feed", optionalAuth, loadViewer, feedHandler.Home)

	// Protected routes get their middleware per route so public routes
	// under the same prefix stay open.
	api.Post("/posts", requireAuth, loadViewer, contentHandler.CreatePost)
	api.Delete("/posts/:id", requireAuth, loadViewer, contentHandler.DeletePost)
	api.Post("/posts/:id/comments", requireAuth, loadViewer, contentHandler.CreateComment)
	api.Delete("/comments/:id", requireAuth, loadViewer, contentHandler.DeleteComment)
	api.Post("/reports", requireAuth, loadViewer, moderationHandler.CreateReport)
	api.Get("/me", requireAuth, loadViewer, profileHandler.Me)
	api.Get("/me/preferences", requireAuth, loadViewer, profileHandler.GetPreferences)
	api.Put("/me/preferences", requireAuth, loadViewer, profileHandler.UpdatePreferences)

	// Admin moderation panel
	admin := api.Group("/admin", requireAuth, loadViewer, middleware.AdminRequired())
	admin.Get("/reports", moderationHandler.ListReports)
	admin.Post("/reports/:id/resolve", moderationHandler.ResolveReport)
	admin.Post("/reports/:id/delete-content", moderationHandler.DeleteContent)
	admin.Get("/users", moderationHandler.ListUsers)
	admin.Put("/users/:id/ban", moderationHandler.SetBanned)
}
