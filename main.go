package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homeserve/config"
	"homeserve/database"
	auditRepoPkg "homeserve/database/repository/audit"
	catalogRepoPkg "homeserve/database/repository/catalog"
	inspectionRepoPkg "homeserve/database/repository/inspection"
	providerRepoPkg "homeserve/database/repository/provider"
	schedulerRepoPkg "homeserve/database/repository/scheduler"
	userRepoPkg "homeserve/database/repository/user"
	"homeserve/handlers"
	"homeserve/middleware"
	"homeserve/routes"
	"homeserve/services/booking"
	"homeserve/services/catalog"
	"homeserve/services/inspection"
	"homeserve/services/notification"
	"homeserve/services/provider"
	"homeserve/services/scheduling"
	"homeserve/services/user"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := utils.NewLogger(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	mongoClient, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to MongoDB: %v", err)
	}
	db := mongoClient.Database(cfg.DatabaseName)

	redisClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisSessionDB)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to Redis: %v", err)
	}

	stripe.Key = cfg.StripeKey

	// repositories.
	catalogRepo, err := catalogRepoPkg.NewMongoCatalogRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize catalog repository: %v", err)
	}
	providerRepo, err := providerRepoPkg.NewMongoProviderRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize provider repository: %v", err)
	}
	schedulerRepo, err := schedulerRepoPkg.NewMongoSchedulerRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize scheduler repository: %v", err)
	}
	userRepo, err := userRepoPkg.NewMongoUserRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize user repository: %v", err)
	}
	auditRepo, err := auditRepoPkg.NewMongoAuditRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize audit repository: %v", err)
	}
	inspectionRepo, err := inspectionRepoPkg.NewMongoInspectionRepo(db)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize inspection repository: %v", err)
	}

	// services.
	tokens := utils.NewTokenManager(cfg.JWTSecret)

	userService := &user.DefaultUserService{
		Repo:   userRepo,
		Audit:  auditRepo,
		Tokens: tokens,
		Logger: logger,
	}
	catalogService := &catalog.DefaultCatalogService{Repo: catalogRepo}
	providerService := &provider.DefaultProviderService{Repo: providerRepo}
	inspectionService := &inspection.DefaultInspectionService{
		Repo:   inspectionRepo,
		Logger: logger,
	}

	notifier := notification.NewEmailNotificationService(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom,
		userRepo, logger,
	)

	matchingService := &booking.DefaultMatchingService{
		Catalog:   catalogRepo,
		Providers: providerRepo,
	}
	allocator := &scheduling.Allocator{
		Checker: &scheduling.AvailabilityChecker{
			Providers: providerRepo,
			Scheduler: schedulerRepo,
		},
		Logger: logger,
	}
	bookingService := &booking.DefaultBookingService{
		Catalog:     catalogRepo,
		Providers:   providerRepo,
		Scheduler:   schedulerRepo,
		Inspections: inspectionRepo,
		Matching:    matchingService,
		Allocator:   allocator,
		Notifier:    notifier,
		Audit:       auditRepo,
		Logger:      logger,
	}

	paymentHandler := booking.NewStripePaymentHandler(cfg.Currency, logger)
	sessionStore := booking.NewSessionStore(redisClient)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Tokens:     tokens,
		RateLimit:  middleware.NewRateLimiter(cfg.MaxRequestsPerMin, logger),
		Booking:    handlers.NewBookingHandler(bookingService, matchingService, paymentHandler, sessionStore, logger),
		Catalog:    handlers.NewCatalogHandler(catalogService),
		Provider:   handlers.NewProviderHandler(providerService, matchingService),
		User:       handlers.NewUserHandler(userService),
		Admin:      handlers.NewAdminHandler(userService, auditRepo, logger),
		Inspection: handlers.NewInspectionHandler(inspectionService),
		Health:     handlers.NewHealthHandler(mongoClient, redisClient),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler(logger))
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
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
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
