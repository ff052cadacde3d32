package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/pmalinowski/tutorbase/config"
	"github.com/pmalinowski/tutorbase/internal/handler"
	"github.com/pmalinowski/tutorbase/internal/middleware"
	"github.com/pmalinowski/tutorbase/internal/notify"
	"github.com/pmalinowski/tutorbase/internal/repository"
	"github.com/pmalinowski/tutorbase/internal/service"
	"github.com/pmalinowski/tutorbase/internal/sweeper"
	"github.com/pmalinowski/tutorbase/pkg/database"
	"github.com/pmalinowski/tutorbase/pkg/logging"
	"github.com/pmalinowski/tutorbase/pkg/rabbitmq"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(cfg.Env)
	defer logger.Sync()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ: lesson events for external consumers. The service runs
	// without it, notifications then stay DB-only.
	var publisher notify.EventPublisher
	if mq, err := rabbitmq.NewPublisher(cfg.RabbitURL); err != nil {
		logger.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
	} else {
		publisher = mq
		defer mq.Close()
	}

	// Repositories
	bookingRepo := repository.NewBookingRepository(db)
	userRepo := repository.NewUserRepository(db)
	availRepo := repository.NewAvailabilityRepository(db)
	vacationRepo := repository.NewVacationRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Services
	notifier := notify.NewNotifier(notificationRepo, userRepo, publisher, logger)
	bookingSvc := service.NewBookingService(bookingRepo, userRepo, vacationRepo, settingsRepo, notifier, logger, loc)
	availSvc := service.NewAvailabilityService(availRepo, vacationRepo, bookingRepo, settingsRepo, loc)
	userSvc := service.NewUserService(userRepo, cfg.JWTSecret)
	settingsSvc := service.NewSettingsService(settingsRepo)
	settlementSvc := service.NewSettlementService(settlementRepo, userRepo)
	announcementSvc := service.NewAnnouncementService(announcementRepo)
	reviewSvc := service.NewReviewService(reviewRepo, userRepo)
	notificationSvc := service.NewNotificationService(notificationRepo)

	// Background sweep of past lessons
	sw := sweeper.NewSweeper(bookingSvc, logger, 15*time.Minute)
	sw.Start(context.Background())
	defer sw.Stop()

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.NewErrorHandler(logger)
	e.Validator = middleware.NewValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "tutorbase"})
	})

	authHandler := handler.NewAuthHandler(userSvc)

	public := e.Group("/api/v1")
	authHandler.RegisterPublicRoutes(public)

	api := e.Group("/api/v1", middleware.JWTAuth(cfg.JWTSecret))
	authHandler.RegisterRoutes(api)
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(api)
	handler.NewAvailabilityHandler(availSvc).RegisterRoutes(api)
	handler.NewSettingsHandler(settingsSvc).RegisterRoutes(api)
	handler.NewSettlementHandler(settlementSvc).RegisterRoutes(api)
	handler.NewAnnouncementHandler(announcementSvc).RegisterRoutes(api)
	handler.NewReviewHandler(reviewSvc).RegisterRoutes(api)
	handler.NewNotificationHandler(notificationSvc).RegisterRoutes(api)

	logger.Info("tutorbase starting", zap.String("port", cfg.ServerPort))
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
