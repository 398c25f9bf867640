package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	docapp "github.com/distributor/backend/internal/application/document"
	mdapp "github.com/distributor/backend/internal/application/masterdata"
	"github.com/distributor/backend/internal/infrastructure/backend"
	"github.com/distributor/backend/internal/infrastructure/cache"
	"github.com/distributor/backend/internal/infrastructure/config"
	"github.com/distributor/backend/internal/infrastructure/logger"
	"github.com/distributor/backend/internal/infrastructure/migration"
	"github.com/distributor/backend/internal/infrastructure/persistence"
	"github.com/distributor/backend/internal/infrastructure/sap"
	"github.com/distributor/backend/internal/infrastructure/storage"
	"github.com/distributor/backend/internal/infrastructure/telemetry"
	"github.com/distributor/backend/internal/interfaces/http/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting distributor backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("backend", string(cfg.Backend.Mode)),
	)

	ctx := context.Background()

	lp, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if lp.IsEnabled() {
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, lp.Core(level))
		}))
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	metrics, err := telemetry.NewMetrics(mp.Meter(telemetry.MeterName))
	if err != nil {
		log.Fatal("Failed to create metrics", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	dbSystem := "postgresql"
	if db.Driver() == "sqlite" {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        dbSystem,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(db, log); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	var client *sap.Client
	if cfg.Backend.Mode == config.BackendRemote {
		client, err = sap.NewClient(sap.Config{
			BaseURL:            cfg.SAP.BaseURL,
			CompanyDB:          cfg.SAP.CompanyDB,
			Username:           cfg.SAP.Username,
			Password:           cfg.SAP.Password,
			Timeout:            cfg.SAP.Timeout,
			PageSize:           cfg.SAP.PageSize,
			InsecureSkipVerify: cfg.SAP.InsecureSkipVerify,
		}, sap.WithSessionStore(sap.NewSessionStore()), sap.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create Service Layer client", zap.Error(err))
		}
	}

	sel, err := backend.NewSelector(cfg.Backend.Mode, db.DB, client)
	if err != nil {
		log.Fatal("Failed to select backend", zap.Error(err))
	}
	services := mdapp.NewServices(sel, log, metrics)

	files, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize file storage", zap.Error(err))
	}
	idempotency := cache.NewIdempotencyStore(ctx, cfg.Redis, log)

	documents := docapp.NewService(sel.Documents(), files, services.Customers, services.Vendors, log,
		docapp.WithIdempotency(idempotency, cfg.Redis.IdempotencyTTL),
		docapp.WithMetrics(metrics),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	deps := components{
		db:        db,
		services:  services,
		documents: documents,
		files:     files,
	}
	if sel.Remote() {
		deps.session = sel.Client()
	}
	engine := newEngine(cfg, log, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if client != nil {
		client.Logout(shutdownCtx)
	}
	if err := idempotency.Close(); err != nil {
		log.Error("Failed to close idempotency store", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown meter provider", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	if err := lp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown logger provider", zap.Error(err))
	}

	log.Info("Server exited")
}

// migrate creates the schema. PostgreSQL uses the versioned SQL migrations,
// SQLite the gorm models.
func migrate(db *persistence.Database, log *zap.Logger) error {
	if db.Driver() == "sqlite" {
		return persistence.AutoMigrate(db.DB)
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, nil, log)
	if err != nil {
		return err
	}
	// Close would also close sqlDB through the postgres driver.
	return m.Up()
}
