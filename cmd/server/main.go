package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"peakform/coaching-app/internal/api"
	"peakform/coaching-app/internal/config"
	"peakform/coaching-app/internal/logger"
	"peakform/coaching-app/internal/repository/mongo"
	"peakform/coaching-app/internal/service"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Coaching App API
// @version 1.0
// @description API for coach availability, lesson booking, and scheduling.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger.Initialize()
	log := logger.Get()
	defer log.Sync()

	log.Info("Starting Coaching App server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("Could not load config", zap.Error(err))
	}
	log.Info("Configuration loaded")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("Database connection established")

	// --- Ensure Indexes ---
	// The partial unique index on lessons is the double-booking guarantee;
	// fail hard if it cannot be created.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureUserIndexes(ctx, appDB.Collection("users")); err != nil {
			log.Fatal("Could not ensure user indexes", zap.Error(err))
		}
		if err := mongo.EnsureLessonIndexes(ctx, appDB.Collection("lessons")); err != nil {
			log.Fatal("Could not ensure lesson indexes", zap.Error(err))
		}
		if err := mongo.EnsureBlockedIntervalIndexes(ctx, appDB.Collection("blocked_intervals")); err != nil {
			log.Fatal("Could not ensure blocked interval indexes", zap.Error(err))
		}
		if err := mongo.EnsureWorkingHoursIndexes(ctx, appDB.Collection("working_hours")); err != nil {
			log.Fatal("Could not ensure working hours indexes", zap.Error(err))
		}
		log.Info("Database indexes ensured")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	lessonRepo := mongo.NewMongoLessonRepository(appDB)
	blockRepo := mongo.NewMongoBlockedIntervalRepository(appDB)
	hoursRepo := mongo.NewMongoWorkingHoursRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	coachService := service.NewCoachService(userRepo)
	scheduleService := service.NewScheduleService(lessonRepo, blockRepo, hoursRepo, userRepo)

	// --- Initialize Gin Engine ---
	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, authService, coachService, scheduleService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info("Server starting", zap.String("address", cfg.Server.Address))

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exiting")
}
