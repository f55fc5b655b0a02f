package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/agamariel/polofashions/internal/auth"
	"github.com/agamariel/polofashions/internal/config"
	"github.com/agamariel/polofashions/internal/events"
	"github.com/agamariel/polofashions/internal/handlers"
	"github.com/agamariel/polofashions/internal/logging"
	"github.com/agamariel/polofashions/internal/migrations"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/agamariel/polofashions/internal/services"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/agamariel/polofashions/internal/tracing"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	dbPool *pgxpool.Pool
	echo   *echo.Echo
	server *http.Server

	hub           *events.Hub
	kafka         *events.KafkaPublisher
	worker        *services.RentalWorker
	workerDone    <-chan struct{}
	traceShutdown tracing.ShutdownFunc

	userHandler    *handlers.UserHandler
	orderHandler   *handlers.OrderHandler
	catalogHandler *handlers.CatalogHandler
	bookingHandler *handlers.BookingHandler
	adminHandler   *handlers.AdminHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &App{
		cfg:    cfg,
		logger: logger,
	}

	app.traceShutdown, err = tracing.Init(ctx, tracing.Config{
		ExporterURL: cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := app.initDatabase(ctx); err != nil {
		app.closeResources(ctx)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initDependencies(ctx); err != nil {
		app.closeResources(ctx)
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app.initServer()

	return app, nil
}

// initDatabase подключается к базе данных и выполняет миграции.
func (app *App) initDatabase(ctx context.Context) error {
	if app.cfg.DatabaseURI == "" {
		return fmt.Errorf("DATABASE_URI is required")
	}

	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return fmt.Errorf("unable to ping database: %w", err)
	}

	app.logger.Info("running database migrations")
	sqlDB := stdlib.OpenDBFromPool(dbPool)
	defer sqlDB.Close()

	if err := migrations.Run(ctx, sqlDB); err != nil {
		dbPool.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	version, err := migrations.Version(sqlDB)
	if err != nil {
		dbPool.Close()
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	app.dbPool = dbPool
	app.logger.Infow("connected to database", "schema_version", version)

	return nil
}

// initDependencies собирает хранилища, сервисы, обработчики и публикацию событий.
func (app *App) initDependencies(ctx context.Context) error {
	userStorage := storage.NewPostgresUserStorage(app.dbPool)
	catalogStorage := storage.NewPostgresCatalogStorage(app.dbPool)
	orderStorage := storage.NewPostgresOrderStorage(app.dbPool)
	bookingStorage := storage.NewPostgresBookingStorage(app.dbPool)

	app.hub = events.NewHub(app.logger)
	publishers := events.Multi{app.hub}
	if len(app.cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(ctx, app.cfg.KafkaBrokers, app.cfg.KafkaTopic, app.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to kafka: %w", err)
		}
		app.kafka = kafka
		publishers = append(publishers, kafka)
	} else {
		app.logger.Warn("KAFKA_BROKERS is not configured, order events go to the admin feed only")
	}

	flow := orderflow.New(orderflow.WithDirectPickup(app.cfg.OrderFlow.DirectPickup))

	userService := services.NewUserService(userStorage, app.cfg.JWTSecret, app.cfg.TokenExpiration, app.logger)
	catalogService := services.NewCatalogService(catalogStorage)
	orderService := services.NewOrderService(orderStorage, catalogStorage, userStorage, flow, publishers, app.logger)
	bookingService := services.NewBookingService(bookingStorage, userStorage, app.logger)
	statsService := services.NewStatsService(orderStorage, bookingStorage, userStorage)

	if _, err := userService.EnsureAdmin(ctx, app.cfg.AdminLogin, app.cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}

	app.userHandler = handlers.NewUserHandler(userService)
	app.orderHandler = handlers.NewOrderHandler(orderService)
	app.catalogHandler = handlers.NewCatalogHandler(catalogService)
	app.bookingHandler = handlers.NewBookingHandler(bookingService)
	app.adminHandler = handlers.NewAdminHandler(orderService, userService, statsService, app.hub)

	app.worker = services.NewRentalWorker(orderStorage, publishers, app.cfg.RentalCheckInterval, app.logger)

	return nil
}

// initServer настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()
	e.HideBanner = true

	e.Use(logging.RequestLogger(app.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE},
	}))

	// Публичные маршруты
	e.POST("/api/accounts/register", app.userHandler.Register)
	e.POST("/api/accounts/login", app.userHandler.Login)
	e.GET("/api/catalog/:kind", app.catalogHandler.List)
	e.GET("/api/catalog/:kind/:id", app.catalogHandler.Get)

	jwt := auth.JWTMiddleware(app.cfg.JWTSecret)

	protected := e.Group("/api", jwt)
	protected.GET("/accounts/me", app.userHandler.Me)
	protected.POST("/orders", app.orderHandler.Create)
	protected.GET("/orders", app.orderHandler.List)
	protected.GET("/orders/:id", app.orderHandler.Get)
	protected.POST("/bookings", app.bookingHandler.Create)
	protected.GET("/bookings", app.bookingHandler.List)

	admin := e.Group("/api/admin", jwt, auth.RequireAdmin())
	admin.GET("/orders", app.adminHandler.ListOrders)
	admin.GET("/orders/export", app.adminHandler.ExportOrders)
	admin.GET("/orders/:id", app.adminHandler.GetOrder)
	admin.PATCH("/orders/:id/status", app.adminHandler.UpdateOrderStatus)
	admin.POST("/orders/:id/cancel", app.adminHandler.CancelOrder)
	admin.GET("/orders/:id/history", app.adminHandler.OrderHistory)
	admin.GET("/stats", app.adminHandler.Stats)
	admin.GET("/customers", app.adminHandler.Customers)
	admin.PATCH("/customers/:id/measurement", app.adminHandler.UpdateMeasurement)
	admin.POST("/catalog/:kind", app.catalogHandler.Create)
	admin.DELETE("/catalog/:kind/:id", app.catalogHandler.Deactivate)
	admin.PATCH("/bookings/:id/status", app.bookingHandler.UpdateStatus)
	admin.GET("/ws", app.adminHandler.Feed)

	app.echo = e
	app.server = &http.Server{
		Addr:    app.cfg.RunAddress,
		Handler: otelhttp.NewHandler(e, app.cfg.ServiceName),
	}
}

// StartWorker запускает воркер просрочек аренды.
func (app *App) StartWorker(ctx context.Context) {
	app.workerDone = app.worker.Start(ctx)
	app.logger.Infow("rental worker started", "interval", app.cfg.RentalCheckInterval)
}

// Start запускает HTTP-сервер и блокируется до его остановки.
func (app *App) Start() error {
	app.logger.Infow("starting server", "address", app.cfg.RunAddress, "direct_pickup", app.cfg.OrderFlow.DirectPickup)
	if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// Shutdown корректно завершает работу приложения.
// Ошибка остановки сервера не прерывает освобождение остальных ресурсов.
func (app *App) Shutdown(ctx context.Context) error {
	app.logger.Info("shutting down server")

	var shutdownErr error
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Errorw("failed to shutdown server", "error", err)
		shutdownErr = fmt.Errorf("failed to shutdown server: %w", err)
	}

	if app.workerDone != nil {
		select {
		case <-app.workerDone:
		case <-ctx.Done():
			app.logger.Warn("rental worker did not stop in time")
		}
	}

	app.closeResources(ctx)

	if shutdownErr == nil {
		app.logger.Info("server gracefully stopped")
	}
	_ = app.logger.Sync()
	return shutdownErr
}

// closeResources освобождает всё, что успело открыться. Подходит и для частично собранного App.
func (app *App) closeResources(ctx context.Context) {
	if app.hub != nil {
		app.hub.Close()
	}
	if app.kafka != nil {
		app.kafka.Close()
	}
	if app.dbPool != nil {
		app.dbPool.Close()
	}
	if app.traceShutdown != nil {
		if err := app.traceShutdown(ctx); err != nil {
			app.logger.Warnw("failed to flush traces", "error", err)
		}
	}
}
