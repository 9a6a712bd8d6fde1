package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shift-report/config"
	"shift-report/internal/api/handler"
	"shift-report/internal/api/middleware"
	"shift-report/internal/api/router"
	"shift-report/internal/repository"
	"shift-report/internal/service"
	"shift-report/pkg/database"
	"shift-report/pkg/jwt"
	"shift-report/pkg/redis"

	// time zone data for hosts without /usr/share/zoneinfo
	_ "time/tzdata"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("db", cfg.Database.Path),
		zap.String("timezone", cfg.Report.Timezone))

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDatabase(db, logger)

	// redis is optional: without it sessions live in process memory and login is not rate limited
	var (
		store   service.SessionStore
		limiter middleware.RateLimiter
		rdb     *redis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory session store", zap.Error(err))
			rdb = nil
		}
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		store = rdb
		limiter = rdb
	} else {
		store = service.NewMemorySessionStore()
	}

	jwtMgr := jwt.NewManager(&cfg.Admin)

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, store, logger)
	h := handler.NewHandler(svc)
	engine := router.Setup(cfg, h, svc.Admin, limiter, db, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("http server failed", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}

// openDatabase opens the SQLite file and applies pending migrations.
func openDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func closeDatabase(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
}
