package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appstock "github.com/lager/backend/internal/application/stock"
	"github.com/lager/backend/internal/domain/stock"
	"github.com/lager/backend/internal/infrastructure/config"
	"github.com/lager/backend/internal/infrastructure/event"
	"github.com/lager/backend/internal/infrastructure/logger"
	"github.com/lager/backend/internal/infrastructure/persistence"
	"github.com/lager/backend/internal/infrastructure/telemetry"
	"github.com/lager/backend/internal/interfaces/http/handler"
	"github.com/lager/backend/internal/interfaces/http/middleware"
	"github.com/lager/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting stock service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry providers, no-ops when disabled
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := telemetry.RegisterOtelGorm(db.DB, cfg.Telemetry.DBTraceEnabled, cfg.Database.DBName, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories and transaction scope
	materialRepo := persistence.NewGormMaterialRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	positionRepo := persistence.NewGormPositionRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Event bus with the low stock alert handler
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(appstock.NewLowStockAlertHandler(log), stock.EventTypeMaterialBelowMinStock)

	// Application services
	movementService := appstock.NewMovementService(scope)
	movementService.SetEventPublisher(eventBus)
	locationService := appstock.NewLocationService(scope, locationRepo)
	queryService := appstock.NewQueryService(materialRepo, locationRepo, positionRepo, movementRepo, userRepo)
	reconciliationService := appstock.NewReconciliationService(scope, materialRepo, log)

	stockMetrics, err := telemetry.NewStockMetrics()
	if err != nil {
		log.Fatal("Failed to create stock metrics", zap.Error(err))
	}

	// HTTP engine and middleware chain
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	systemHandler := handler.NewSystemHandler(db, cfg.App.Name)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewMovementHandler(movementService, queryService, stockMetrics))
	r.Register(handler.NewMaterialHandler(queryService))
	r.Register(handler.NewLocationHandler(locationService, queryService))
	r.Register(handler.NewReconciliationHandler(reconciliationService, stockMetrics))
	r.Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Periodic aggregate reconciliation
	reconcileCtx, stopReconcile := context.WithCancel(ctx)
	defer stopReconcile()
	if cfg.Reconciliation.Enabled {
		go runReconciliationLoop(reconcileCtx, cfg.Reconciliation, reconciliationService, stockMetrics, log)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")
	stopReconcile()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer provider shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}

// runReconciliationLoop repairs aggregate stock on a fixed interval until
// the context is cancelled
func runReconciliationLoop(
	ctx context.Context,
	cfg config.ReconciliationConfig,
	service *appstock.ReconciliationService,
	metrics *telemetry.StockMetrics,
	log *zap.Logger,
) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info("Reconciliation loop started", zap.Duration("interval", cfg.Interval))
	for {
		select {
		case <-ctx.Done():
			log.Info("Reconciliation loop stopped")
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			report, err := service.Sync(sweepCtx)
			cancel()
			if err != nil {
				log.Error("Reconciliation sweep failed", zap.Error(err))
				continue
			}
			metrics.RecordReconciliationRepairs(ctx, report.Repaired)
		}
	}
}
