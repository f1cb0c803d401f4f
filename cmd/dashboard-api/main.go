package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/internal/metrics"
	"github.com/noah-isme/sma-attendance-dashboard/internal/mock"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/config"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/logger"
)

// @title Attendance Dashboard API
// @version 1.0.0
// @description Student and attendance administration served from the in-memory mock backend
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	db := repository.NewMockDatabase(repository.GeneratorConfig{
		Seed:     cfg.Mock.Seed,
		Students: cfg.Mock.Students,
		Days:     cfg.Mock.Days,
	}, logger.Component(logr, "mockdb"))

	server := mock.NewServer(db, mock.Options{
		Prefix:     cfg.APIPrefix,
		Hosts:      cfg.Mock.Hosts,
		LatencyMin: cfg.Mock.LatencyMin,
		LatencyMax: cfg.Mock.LatencyMax,
		Seed:       cfg.Mock.Seed,
		PDFFont:    cfg.Exports.PDFFont,
		Logger:     logger.Component(logr, "mock"),
		Metrics:    m,
	})

	r := newRouter(cfg, routerDeps{db: db, server: server, metrics: m, logger: logr})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
