package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gwlabs/giveaway-backend/internal/config"
	"github.com/gwlabs/giveaway-backend/internal/handlers"
	"github.com/gwlabs/giveaway-backend/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Giveaway *handlers.GiveawayHandler
	Entry    *handlers.EntryHandler
	UserMap  *handlers.UserMapHandler
	Template *handlers.TemplateHandler
	Settings *handlers.SettingsHandler
	Check    *handlers.CheckHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// Entry comes from the platform bridge, which authenticates
		// participants itself.
		public.POST("/giveaways/:guildId/entries", h.Entry.Enter)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		giveaways := protected.Group("/giveaways")
		{
			giveaways.POST("", h.Giveaway.Open)
			giveaways.POST("/quick", h.Giveaway.QuickOpen)
			giveaways.PATCH("/:guildId/message", h.Giveaway.SetMessageID)
			giveaways.POST("/:guildId/end", h.Giveaway.End)
			giveaways.POST("/:guildId/cancel", h.Giveaway.Cancel)
			giveaways.POST("/:guildId/reroll", h.Giveaway.Reroll)
			giveaways.POST("/:guildId/runback", h.Giveaway.PrepareRunback)
			giveaways.POST("/drafts/:draftId/confirm", h.Giveaway.ConfirmDraft)
		}

		guilds := protected.Group("/guilds/:guildId")
		{
			guilds.POST("/templates", h.Template.Create)
			guilds.GET("/templates", h.Template.List)
			guilds.GET("/templates/:name", h.Template.Get)
			guilds.PUT("/templates/:name", h.Template.Update)
			guilds.DELETE("/templates/:name", h.Template.Delete)

			guilds.GET("/settings", h.Settings.Get)
			guilds.PUT("/settings", h.Settings.Set)
		}

		usermap := protected.Group("/usermap")
		{
			usermap.GET("", h.UserMap.List)
			usermap.GET("/:userId", h.UserMap.Get)
			usermap.PUT("/:userId", h.UserMap.Link)
			usermap.DELETE("/:userId", h.UserMap.Unlink)
		}

		check := protected.Group("/check")
		{
			check.GET("/username/:username", h.Check.ByUsername)
			check.GET("/user/:userId", h.Check.ByUser)
		}
	}

	return router
}
