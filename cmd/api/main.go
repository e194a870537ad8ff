package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/norte-express/fleet-api/internal/config"
	"github.com/norte-express/fleet-api/internal/database"
	"github.com/norte-express/fleet-api/internal/dynamo"
	"github.com/norte-express/fleet-api/internal/handler"
	"github.com/norte-express/fleet-api/internal/middleware"
	"github.com/norte-express/fleet-api/internal/repository"
	"github.com/norte-express/fleet-api/internal/router"
	"github.com/norte-express/fleet-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.ConnectDynamo(ctx, database.DynamoOptions{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.DynamoEndpoint,
	})
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to dynamodb: %v", err)
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer cache.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, audit fan-out disabled")
		} else {
			defer natsConn.Close()
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	gateway := dynamo.NewGateway(db)
	activityRepo := repository.NewActivityLogRepository(gateway, cfg.ActivitiesTable)
	userRepo := repository.NewUserRepository(gateway, cfg.UsersTable)
	busRepo := repository.NewBusRepository(gateway, cfg.BusesTable)

	activityService := service.NewActivityService(activityRepo, logger)
	auditTrail := service.NewAuditTrail(activityService, natsConn, cfg.AuditSubject, cfg.AuditQueueSize, logger)
	defer auditTrail.Close()

	userService := service.NewUserService(userRepo, auditTrail, cache, validate, logger, service.UserServiceConfig{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.JWTTokenTTL,
		CacheTTL:   cfg.UserCacheTTL,
		BcryptCost: cfg.BcryptCost,
	})
	busService := service.NewBusService(busRepo, auditTrail, validate, logger)

	userHandler := handler.NewUserHandler(userService, logger)
	busHandler := handler.NewBusHandler(busService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		UserHandler:     userHandler,
		BusHandler:      busHandler,
		ActivityHandler: activityHandler,
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, auditTrail)
}

func waitForShutdown(app *fiber.App, audit *service.AuditTrail) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	// Drain queued audit entries before the process exits.
	audit.Flush()

	log.Println("server stopped")
}
