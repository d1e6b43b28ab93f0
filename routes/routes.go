package routes

import (
	"net/http"

	"datex/handlers"
	"datex/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers authentication endpoints.
func RegisterAuthRoutes(r *gin.Engine, h *handlers.AuthHandler) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", h.RegisterHandler)
		api.POST("/login", h.LoginHandler)
		api.POST("/google", h.GoogleSignInHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/logout", h.LogoutHandler)
		api.GET("/me", h.MeHandler)
		api.PUT("/device-token", h.DeviceTokenHandler)
	}
}

// RegisterProductRoutes registers product endpoints.
func RegisterProductRoutes(r *gin.Engine, h *handlers.ProductHandler) {
	api := r.Group("/api/products")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", h.ListProductsHandler)
		api.POST("", h.CreateProductHandler)
		api.GET("/summary", h.SummaryHandler)
		api.PUT("/:id", h.UpdateProductHandler)
		api.DELETE("/:id", h.DeleteProductHandler)
	}
}

// RegisterNotificationRoutes registers notification endpoints.
func RegisterNotificationRoutes(r *gin.Engine, h *handlers.NotificationHandler) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", h.ListNotificationsHandler)
		api.GET("/unread-count", h.UnreadCountHandler)
		api.GET("/stream", h.StreamUnreadCountHandler)
		api.PATCH("/:id/seen", h.MarkSeenHandler)
		api.POST("/seen-all", h.MarkAllSeenHandler)
		api.DELETE("/:id", h.DeleteNotificationHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm DateX"})
	})
}
