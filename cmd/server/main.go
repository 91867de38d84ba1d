package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FabienBounoir/muscouns/internal/api"
	"github.com/FabienBounoir/muscouns/internal/auth"
	"github.com/FabienBounoir/muscouns/internal/config"
	"github.com/FabienBounoir/muscouns/internal/crypter"
	"github.com/FabienBounoir/muscouns/internal/logging"
	"github.com/FabienBounoir/muscouns/internal/metrics"
	"github.com/FabienBounoir/muscouns/internal/repository/mongo"
	"github.com/FabienBounoir/muscouns/internal/service"
	"github.com/FabienBounoir/muscouns/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// @title Muscouns API
// @version 1.0
// @description Personal workout tracking: workouts, exercise entries and sets.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.JSON)
	log.Infof("starting muscouns server, log level %s", log.GetLevel())

	// The signing secret is read once here; without it nothing can be authenticated.
	tokenService, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		log.Fatalf("could not create token service: %v", err)
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Infof("connected to database %s", cfg.Database.Name)

	// --- Ensure Indexes ---
	// Registration and catalog creation rely on the unique indexes, so they must exist before serving.
	indexCtx, indexCancel := context.WithTimeout(context.Background(), time.Minute)
	err = mongo.NewIndexer(appDB).Ensure(indexCtx)
	indexCancel()
	if err != nil {
		log.Fatalf("could not ensure indexes: %v", err)
	}

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Info("s3.bucket_name not set, workout export disabled")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, crypter.Default, tokenService)
	exerciseService := service.NewExerciseService(exerciseRepo)
	workoutService := service.NewWorkoutService(workoutRepo, exerciseService)
	exportService := service.NewExportService(workoutRepo, fileStorage, cfg.S3.ExportURLExpiry)

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsManager := metrics.NewManager("muscouns", "server", registry)

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger())

	api.SetupRoutes(router, auth.NewAuthenticator(tokenService), metricsManager, registry, api.Services{
		Auth:     authService,
		Exercise: exerciseService,
		Workout:  workoutService,
		Export:   exportService,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	log.Info("server exiting")
}
