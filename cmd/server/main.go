package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyreserve/airline-backend/internal/config"
	"github.com/skyreserve/airline-backend/internal/handlers"
	"github.com/skyreserve/airline-backend/internal/middleware"
	"github.com/skyreserve/airline-backend/internal/services"
	"github.com/skyreserve/airline-backend/internal/storage"
	"github.com/skyreserve/airline-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SkyReserve Airline Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize storage
	store, closeStore, err := openStore(cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("Failed to open storage: %v", err)
	}
	defer closeStore()

	if err := store.Ping(); err != nil {
		logger.Fatalf("Failed to ping storage: %v", err)
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := services.NewUserService(store, logger)
	aircraftService := services.NewAircraftService(store, logger)
	crewService := services.NewCrewService(store, logger)
	flightService := services.NewFlightService(store, logger)
	paymentService := services.NewPaymentService(store, logger)
	reservationService := services.NewReservationService(store, paymentService, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, jwtService, logger)
	reservationHandler := handlers.NewReservationHandler(reservationService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	flightHandler := handlers.NewFlightHandler(flightService, logger)
	adminHandler := handlers.NewAdminHandler(aircraftService, crewService, userService, logger)

	// Set up router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		if err := store.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	})

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(jwtService))
		{
			// Flights: reads for everyone, writes admin-only
			authed.GET("/flights", flightHandler.List)
			authed.GET("/flights/:id", flightHandler.Get)
			authed.GET("/flights/:id/seats", flightHandler.SeatMap)

			adminFlights := authed.Group("/flights")
			adminFlights.Use(middleware.RequireRole("admin"))
			{
				adminFlights.POST("", flightHandler.Create)
				adminFlights.DELETE("/:id", flightHandler.Delete)
				adminFlights.POST("/:id/crew/:crew_id", flightHandler.AssignCrew)
				adminFlights.DELETE("/:id/crew/:crew_id", flightHandler.RemoveCrew)
			}

			// Reservations: passengers and booking managers
			reservations := authed.Group("/reservations")
			reservations.Use(middleware.RequireRole("passenger", "booking_manager", "admin"))
			{
				reservations.POST("", reservationHandler.Create)
				reservations.GET("", reservationHandler.List)
				reservations.GET("/:id", reservationHandler.Get)
				reservations.PUT("/:id/seat", reservationHandler.ChangeSeat)
				reservations.DELETE("/:id", reservationHandler.Cancel)
			}

			// Payments
			payments := authed.Group("/payments")
			payments.Use(middleware.RequireRole("passenger", "booking_manager", "admin"))
			{
				payments.GET("", paymentHandler.List)
				payments.GET("/:id", paymentHandler.Get)
				payments.POST("/:id/process", paymentHandler.Process)
				payments.POST("/:id/refund", paymentHandler.Refund)
			}

			// Admin back office
			admin := authed.Group("")
			admin.Use(middleware.RequireRole("admin"))
			{
				admin.POST("/aircraft", adminHandler.CreateAircraft)
				admin.GET("/aircraft", adminHandler.ListAircraft)
				admin.GET("/aircraft/:id", adminHandler.GetAircraft)
				admin.DELETE("/aircraft/:id", adminHandler.DeleteAircraft)

				admin.POST("/crew", adminHandler.CreateCrewMember)
				admin.GET("/crew", adminHandler.ListCrewMembers)
				admin.GET("/crew/:id", adminHandler.GetCrewMember)
				admin.DELETE("/crew/:id", adminHandler.DeleteCrewMember)

				admin.POST("/users", adminHandler.CreateUser)
				admin.GET("/users", adminHandler.ListUsers)
				admin.DELETE("/users/:id", adminHandler.DeleteUser)
			}
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	// Flush in-memory stores to disk. Persistence timing is explicit; it
	// never rides on process teardown ordering.
	logger.Info("Flushing storage...")
	if err := store.Flush(); err != nil {
		logger.Errorf("Failed to flush storage: %v", err)
	}

	logger.Info("Server exited successfully")
}

// openStore selects the storage backend from configuration. The returned
// closer is safe to defer immediately.
func openStore(cfg config.StorageConfig, logger *logrus.Logger) (storage.Store, func(), error) {
	switch cfg.Driver {
	case "postgres":
		logger.Info("Connecting to database...")
		pg, err := storage.OpenPostgres(cfg.PostgresURL, cfg.MaxConnections, cfg.MaxIdleConnections, cfg.ConnMaxLifetime)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database connection established")
		return pg, func() {
			if err := pg.Close(); err != nil {
				logger.Errorf("Failed to close database: %v", err)
			}
		}, nil
	default:
		logger.Infof("Loading JSON stores from %s", cfg.DataDir)
		js, err := storage.Open(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return js, func() {}, nil
	}
}
