package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/solervi/homehaven-be/internal/api"
	"github.com/solervi/homehaven-be/internal/auth"
	"github.com/solervi/homehaven-be/internal/config"
	"github.com/solervi/homehaven-be/internal/database"
	"github.com/solervi/homehaven-be/internal/logger"
	"github.com/solervi/homehaven-be/internal/monitoring"
	"github.com/solervi/homehaven-be/internal/services"
	"github.com/solervi/homehaven-be/internal/storage"
	"github.com/solervi/homehaven-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up object storage (optional, image uploads and backup archives)
	store := buildStorage(cfg)

	// Set up WebSocket hub for the activity feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db, eventService)
	listingService := services.NewListingService(db, eventService)
	backupService := services.NewBackupService(db, cfg.Database.Path, cfg.Backup.Path, store)

	// Set up and run the scheduled backup job
	scheduler, err := monitoring.NewScheduler(backupService, eventService, cfg.Backup.Schedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid backup schedule")
	}
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		Tokens:       tokens,
		Users:        userService,
		Listings:     listingService,
		Events:       eventService,
		Backups:      backupService,
		Store:        store,
		Hub:          hub,
		CORSOrigin:   cfg.Server.CORSOrigin,
		CookieSecure: cfg.Server.CookieSecure,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// buildStorage wires the S3 service when a bucket is configured. Without one
// the app still runs; presigned uploads return 503 and backups stay local.
func buildStorage(cfg config.Config) storage.Service {
	if cfg.Storage.Bucket == "" {
		log.Warn().Msg("No storage bucket configured, image uploads disabled")
		return nil
	}

	awsCfg, err := awscfg.LoadDefaultConfig(context.Background(), awscfg.WithRegion(cfg.Storage.Region))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().Str("bucket", cfg.Storage.Bucket).Str("region", cfg.Storage.Region).Msg("Using S3 storage")
	return storage.NewS3Service(client, storage.Options{
		Bucket:    cfg.Storage.Bucket,
		KeyPrefix: cfg.Storage.KeyPrefix,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
	})
}
