package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servihub/config"
	"servihub/cron"
	"servihub/database"
	bookingRepoPkg "servihub/database/repository/booking"
	catalogRepoPkg "servihub/database/repository/catalog"
	customerRepoPkg "servihub/database/repository/customer"
	scheduleRepoPkg "servihub/database/repository/schedule"
	"servihub/handlers"
	"servihub/middleware"
	"servihub/routes"
	"servihub/services/booking"
	"servihub/services/notification"
	"servihub/services/payment"
	scheduleSvcPkg "servihub/services/schedule"
	"servihub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	scheduleRepo := scheduleRepoPkg.NewMongoScheduleRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()
	customerRepo := customerRepoPkg.NewMongoCustomerRepo()

	if err := scheduleRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create schedule indexes: %v", err)
	}
	if err := bookingRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create booking indexes: %v", err)
	}

	// Core services.
	coordinator := &booking.DefaultReservationCoordinator{
		Repo:        scheduleRepo,
		CacheClient: utils.GetCacheClient(),
		Logger:      logger,
	}

	// Background worker: notifications plus the orphaned-claim sweep.
	asynqClient := cron.InitWorker(cron.WorkerDeps{
		Schedules:   scheduleRepo,
		Bookings:    bookingRepo,
		Coordinator: coordinator,
		Logger:      logger,
	})
	notifier := notification.NewAsynqNotificationService(asynqClient, logger)

	pricing := &booking.PricingCalculator{
		Catalog:     catalogRepo,
		TaxRate:     config.AppConfig.TaxRate,
		VisitingFee: config.AppConfig.VisitingFee,
	}
	lifecycle := &booking.LifecycleManager{
		Bookings:  bookingRepo,
		Customers: customerRepo,
		Notifier:  notifier,
		Logger:    logger,
	}
	canceller := booking.NewCancellationEnforcer(
		bookingRepo,
		coordinator,
		time.Duration(config.AppConfig.CancelWindowHours)*time.Hour,
		notifier,
		logger,
	)
	bookingService := &booking.DefaultBookingService{
		Pricing:     pricing,
		Coordinator: coordinator,
		Lifecycle:   lifecycle,
		Canceller:   canceller,
		Bookings:    bookingRepo,
		Logger:      logger,
	}

	scheduleService := &scheduleSvcPkg.DefaultScheduleService{
		Repo:        scheduleRepo,
		CacheClient: utils.GetCacheClient(),
		Logger:      logger,
	}
	paymentService := &payment.StripePaymentService{Logger: logger}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Booking:  handlers.NewBookingHandler(bookingService, logger),
		Schedule: handlers.NewScheduleHandler(scheduleService, logger),
		Payment:  handlers.NewPaymentHandler(paymentService, logger),
	}

	routes.RegisterRoutes(router, handlerBundle)

	queueRedis := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	})
	utils.StartHealthMonitor(utils.GetCacheClient(), queueRedis, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
