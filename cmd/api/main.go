package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/grocery-service/internal/api/http"
	"github.com/spec-kit/grocery-service/internal/api/http/handlers"
	"github.com/spec-kit/grocery-service/internal/auth"
	"github.com/spec-kit/grocery-service/internal/config"
	"github.com/spec-kit/grocery-service/internal/events"
	"github.com/spec-kit/grocery-service/internal/observability"
	"github.com/spec-kit/grocery-service/internal/persistence"
	"github.com/spec-kit/grocery-service/internal/repository"
	"github.com/spec-kit/grocery-service/internal/service"
	"github.com/spec-kit/grocery-service/internal/worker"
	"github.com/spec-kit/grocery-service/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.FS, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var forwarder events.MessageWriter
	if writer := persistence.NewKafkaWriter(cfg.Notification, logger); writer != nil {
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Warn("closing kafka writer", zap.Error(err))
			}
		}()
		forwarder = writer
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	promoRepo := repository.NewPromoRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	historyRepo := repository.NewOrderHistoryRepository(pool)
	transactor := repository.NewTransactor(pool)

	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		UserRepo:   userRepo,
		StaffRepo:  staffRepo,
		Logger:     logger,
		Config:     cfg.Notification,
	})
	worker.StartNotificationWorker(dispatcher, notificationService, forwarder, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:  userRepo,
		StaffRepo: staffRepo,
		Tokens:    tokens,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	staffService := service.NewStaffService(staffRepo, cfg.Auth.BcryptCost)
	promoService := service.NewPromoService(promoRepo)
	cartService := service.NewCartService(service.CartDependencies{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:    orderRepo,
		CartRepo:     cartRepo,
		ProductRepo:  productRepo,
		Promos:       promoService,
		Transactor:   transactor,
		Guard:        repository.NewCheckoutGuard(redis.Client),
		Dispatcher:   dispatcher,
		Logger:       logger,
		DeliveryFee:  cfg.Order.DeliveryFee,
		CheckoutLock: cfg.Order.CheckoutLockTTL(),
		ListLimit:    cfg.Order.ListLimit,
	})
	fulfillmentService := service.NewFulfillmentService(service.FulfillmentDependencies{
		OrderRepo:   orderRepo,
		StaffRepo:   staffRepo,
		HistoryRepo: historyRepo,
		Transactor:  transactor,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	analyticsService := service.NewAnalyticsService(orderRepo)
	catalogService := service.NewCatalogService(productRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		RequestTimeout: cfg.App.RequestTimeout(),
		SoftFail:       cfg.App.SoftFailErrors,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Staff:          handlers.NewStaffHandler(authService, staffService),
		Cart:           handlers.NewCartHandler(cartService),
		Orders:         handlers.NewOrdersHandler(orderService, fulfillmentService),
		Promos:         handlers.NewPromosHandler(promoService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		Products:       handlers.NewProductsHandler(catalogService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, userRepo, staffRepo),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
