package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"alcoltracker/pkg/tracker/auth"
	"alcoltracker/pkg/tracker/config"
	"alcoltracker/pkg/tracker/database"
	"alcoltracker/pkg/tracker/expenses"
	"alcoltracker/pkg/tracker/groups"
	"alcoltracker/pkg/tracker/logging"
	"alcoltracker/pkg/tracker/metrics"
	"alcoltracker/pkg/tracker/models"
)

// @title AlcolTracker API
// @version 1.0
// @description Track alcohol purchases, share them in groups, and compare stats.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	if err := database.Connect(cfg.DBPath); err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := models.AutoMigrate(database.GetDB()); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed", "path", cfg.DBPath)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(), metrics.Middleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health-check", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "alcoltracker",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Groups routes (protected)
		groupsHandler := groups.NewHandler(database.GetDB())
		groupsGroup := api.Group("/groups")
		groupsGroup.Use(auth.AuthMiddleware())
		groupsHandler.RegisterRoutes(groupsGroup)

		// Expenses routes (protected)
		expensesHandler := expenses.NewHandler(database.GetDB())
		expensesHandler.RegisterRoutes(api.Group("", auth.AuthMiddleware()))
	}

	slog.Info("Starting alcoltracker server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
