package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/tourismoam/backoffice/config"
	"github.com/tourismoam/backoffice/internal/consumer"
	"github.com/tourismoam/backoffice/internal/handler"
	"github.com/tourismoam/backoffice/internal/middleware"
	"github.com/tourismoam/backoffice/internal/repository"
	"github.com/tourismoam/backoffice/internal/service"
	"github.com/tourismoam/backoffice/pkg/cache"
	"github.com/tourismoam/backoffice/pkg/database"
	"github.com/tourismoam/backoffice/pkg/logger"
	"github.com/tourismoam/backoffice/pkg/rabbitmq"
	"github.com/tourismoam/backoffice/pkg/storage"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.Must(logger.Options{
		Production: cfg.IsProduction(),
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
	})
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Repositories
	guestRepo := repository.NewGuestRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	airRepo := repository.NewAirTravelRepository(db)
	accommodationRepo := repository.NewAccommodationRepository(db)
	tourRepo := repository.NewTourRepository(db)
	visaRepo := repository.NewVisaRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	timelineRepo := repository.NewTimelineRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	contractRepo := repository.NewContractRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// RabbitMQ: domain events feed the activity log. Optional.
	var publisher service.EventPublisher
	var activityConsumer *consumer.ActivityConsumer
	if cfg.RabbitURL != "" {
		mqPublisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, log)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mqPublisher.Close()
		publisher = mqPublisher

		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, log)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatal("failed to start consuming", zap.Error(err))
		}
		activityConsumer = consumer.NewActivityConsumer(activityRepo, log)
		activityConsumer.Start(msgs)
	} else {
		log.Info("RABBITMQ_URL not set, domain events disabled")
	}

	var analyticsCache service.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			analyticsCache = redisCache
		}
	}

	store, err := storage.NewLocal(cfg.UploadDir, service.FileKinds...)
	if err != nil {
		log.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	// Services
	costs := service.NewCostAggregator(packageRepo, airRepo, accommodationRepo, tourRepo, visaRepo)
	timelineSvc := service.NewTimelineService(timelineRepo, db)
	packageSvc := service.NewPackageService(packageRepo, guestRepo, timelineSvc, costs, publisher, log)
	wizardSvc := service.NewWizardService(guestRepo, packageRepo, airRepo, accommodationRepo, tourRepo, visaRepo, timelineSvc, costs, publisher, log)
	itinerarySvc := service.NewItineraryService(db, airRepo, accommodationRepo, tourRepo, visaRepo, costs)
	guestSvc := service.NewGuestService(guestRepo, packageRepo, paymentRepo, contractRepo)
	quotationSvc := service.NewQuotationService(quotationRepo, packageRepo, guestRepo,
		service.NewQuotationNumberer(quotationRepo, nil), costs, store, publisher, log)
	contractSvc := service.NewContractService(contractRepo, guestRepo, store, publisher, log)
	paymentSvc := service.NewPaymentService(paymentRepo, packageRepo, guestRepo, publisher, log)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, activityRepo, analyticsCache, cfg.AnalyticsCacheTTL, log)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, log)
	fileSvc := service.NewFileService(store, "/files")

	if err := authSvc.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal("failed to create admin user", zap.Error(err))
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Validator = middleware.RequestValidator{}
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMw.Recover())
	e.Use(echoMw.BodyLimit("10M"))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "travel-backoffice"})
	})

	api := e.Group("/api")
	handler.NewAuthHandler(authSvc).RegisterRoutes(api.Group("/auth"), middleware.RateLimit(cfg.LoginRatePerMin, log))
	handler.NewGuestHandler(guestSvc, fileSvc).RegisterRoutes(api.Group("/guests"))
	handler.MountPackages(api,
		handler.NewPackageHandler(packageSvc, wizardSvc),
		middleware.RequirePackage(packageRepo),
		handler.NewItineraryHandler(itinerarySvc),
		handler.NewTimelineHandler(timelineSvc),
		handler.NewQuotationHandler(quotationSvc),
		handler.NewContractHandler(contractSvc),
		handler.NewPaymentHandler(paymentSvc, fileSvc),
	)

	handler.NewAnalyticsHandler(analyticsSvc).RegisterRoutes(api.Group("/analytics"))
	handler.NewUploadHandler(fileSvc, guestSvc, paymentSvc).RegisterRoutes(api.Group("/upload"), e.Group("/files"))

	go func() {
		log.Info("travel back-office starting", zap.String("port", cfg.ServerPort))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
