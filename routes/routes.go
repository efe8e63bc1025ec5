package routes

import (
	"github.com/gin-gonic/gin"

	"clinic-booking-backend/config"
	"clinic-booking-backend/controllers"
	"clinic-booking-backend/database"
	"clinic-booking-backend/logging"
	"clinic-booking-backend/middleware"
	"clinic-booking-backend/services"
)

// SetupRoutes wires services and controllers onto the router and returns the
// session service so main can run its janitor and shut it down.
func SetupRoutes(router *gin.Engine, cfg *config.Config, logger *logging.Logger) *services.SessionService {
	// Initialize services
	directoryService := services.NewDirectoryService()
	aiService := services.NewAIService(cfg.AI, logger)
	conversationService := services.NewConversationService(directoryService, aiService, logger)
	sessionService := services.NewSessionService(cfg.Session.TTL, logger)
	historyService := services.NewHistoryService(database.GetMongoDB(), logger)
	notificationService := services.NewNotificationService(services.NewEmailSender(cfg.Email, logger), logger)

	// Initialize controllers
	chatController := controllers.NewChatController(conversationService, sessionService, historyService, logger)
	bookingController := controllers.NewBookingController(notificationService, logger)
	wsController := controllers.NewWebSocketController(conversationService, sessionService, historyService, logger)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	public.Use(middleware.EnsureSession(cfg.Session.CookieName))
	{
		// Chat assistant
		public.POST("/chat", chatController.HandleChat)
		public.GET("/chat/history", chatController.GetChatHistory)
		public.GET("/intents", chatController.GetSupportedIntents)

		// Booking commit (dual confirmation emails)
		public.POST("/book-appointment", bookingController.HandleBooking)

		// WebSocket for real-time chat
		public.GET("/ws", wsController.HandleWebSocket)
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error": "Route not found",
			"path":  c.Request.URL.Path,
		})
	})

	return sessionService
}
