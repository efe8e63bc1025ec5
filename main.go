package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"clinic-booking-backend/config"
	"clinic-booking-backend/database"
	"clinic-booking-backend/logging"
	"clinic-booking-backend/routes"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cfg := config.Get()

	logLevel := "info"
	if cfg.Environment == "development" {
		logLevel = "debug"
	}
	logger := logging.New(logLevel)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database (transcript persistence; optional)
	if err := database.Connect(cfg); err != nil {
		logger.Warn("transcript persistence unavailable, continuing without it", "error", err)
	}
	defer database.Disconnect()

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(corsMiddleware(cfg.Security.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		dbStatus := "disabled"
		if database.Connected() {
			dbStatus = "ok"
			if err := database.HealthCheck(); err != nil {
				dbStatus = "unreachable"
			}
		}
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now(),
			"database":  dbStatus,
		})
	})

	// Setup all routes
	sessions := routes.SetupRoutes(router, cfg, logger)
	sessions.StartJanitor(cfg.Session.CleanupInterval)
	defer sessions.Close()

	// Log available endpoints
	logAvailableEndpoints(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// corsMiddleware allows the configured browser origins to call the API.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimSpace(origin)] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// logAvailableEndpoints logs all registered routes
func logAvailableEndpoints(router *gin.Engine) {
	log.Println("\nAvailable endpoints:")
	for _, route := range router.Routes() {
		log.Printf("  %s %s", route.Method, route.Path)
	}
	log.Println("")
}
