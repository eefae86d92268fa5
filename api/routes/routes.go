package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipecoach/backend/internal/config"
	"github.com/swipecoach/backend/internal/handlers"
	"github.com/swipecoach/backend/internal/middleware"
	"github.com/swipecoach/backend/internal/services"
	"github.com/swipecoach/backend/pkg/auth"
)

// Handlers groups the HTTP handlers wired into the router
type Handlers struct {
	User           *handlers.UserHandler
	Spend          *handlers.SpendHandler
	Card           *handlers.CardHandler
	Catalog        *handlers.CatalogHandler
	Application    *handlers.ApplicationHandler
	Recommendation *handlers.RecommendationHandler
	Reward         *handlers.RewardHandler
	BestCard       *handlers.BestCardHandler
	Recurring      *handlers.RecurringHandler
	Insight        *handlers.InsightHandler
	Chat           *handlers.ChatHandler
	Admin          *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, logger *slog.Logger, h Handlers, verifier *auth.Verifier, userService *services.UserService, adminAuth *services.AdminAuthService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		public.POST("/auth/admin/login", h.Admin.Login)
	}

	// Authenticated routes
	protected := router.Group("/api")
	protected.Use(middleware.Authenticated(verifier, userService, cfg.Auth.DisableAuth))
	{
		protected.GET("/me", h.User.GetMe)
		protected.PATCH("/me", h.User.UpdateMe)
		protected.GET("/status", h.User.GetStatus)
		protected.POST("/auth/resend-verification", h.User.ResendVerification)

		spend := protected.Group("/spend")
		{
			spend.GET("/summary", h.Spend.Summary)
			spend.GET("/details", h.Spend.Details)
		}
		protected.GET("/merchants", h.Spend.Merchants)
		protected.GET("/money-moments", h.Spend.MoneyMoments)

		cards := protected.Group("/cards")
		{
			cards.GET("", h.Card.List)
			cards.POST("", h.Card.Add)
			cards.POST("/import", h.Card.Import)
			cards.POST("/best", h.BestCard.Best)
			cards.GET("/catalog", h.Catalog.List)
			cards.GET("/:id", h.Card.Get)
			cards.PATCH("/:id", h.Card.Update)
			cards.DELETE("/:id", h.Card.Delete)
		}

		protected.POST("/applications", h.Application.Start)
		protected.POST("/applications/approve", h.Application.Approve)

		protected.POST("/recommendations", h.Recommendation.Recommend)

		rewards := protected.Group("/rewards")
		{
			rewards.GET("/estimate", h.Reward.Estimate)
			rewards.POST("/compare", h.Reward.Compare)
		}

		protected.GET("/recurring", h.Recurring.Groups)
		protected.GET("/upcoming", h.Recurring.Upcoming)
		protected.POST("/recurring/scan", h.Recurring.Scan)
		protected.POST("/transactions/relabel", h.Recurring.Relabel)

		insights := protected.Group("/insights")
		{
			insights.GET("/overspend", h.Insight.Overspend)
			insights.GET("/delta", h.Insight.Delta)
			insights.GET("/subscriptions", h.Insight.Subscriptions)
			insights.GET("/category", h.Insight.CategoryDeepDive)
		}

		protected.POST("/chat", h.Chat.Respond)
	}

	// Catalog writes require the locally issued admin token
	admin := router.Group("/api/cards")
	admin.Use(middleware.AdminOnly(adminAuth))
	{
		admin.POST("/catalog", h.Catalog.Create)
	}

	return router
}
