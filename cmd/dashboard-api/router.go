package main

import (
	"errors"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-attendance-dashboard/api/swagger"
	"github.com/noah-isme/sma-attendance-dashboard/internal/handler"
	"github.com/noah-isme/sma-attendance-dashboard/internal/metrics"
	internalmiddleware "github.com/noah-isme/sma-attendance-dashboard/internal/middleware"
	"github.com/noah-isme/sma-attendance-dashboard/internal/mock"
	"github.com/noah-isme/sma-attendance-dashboard/internal/repository"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/config"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-attendance-dashboard/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-attendance-dashboard/pkg/middleware/requestid"
)

type routerDeps struct {
	db      *repository.MockDatabase
	server  *mock.Server
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func newRouter(cfg *config.Config, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.metrics))

	system := handler.NewSystemHandler(func() error {
		if deps.db == nil {
			return errors.New("mock dataset not loaded")
		}
		return nil
	})
	r.GET("/health", system.Health)
	r.GET("/ready", system.Ready)

	metricsHandler := handler.NewMetricsHandler(deps.metrics)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	audit := internalmiddleware.Audit(logger.Component(deps.logger, "audit"))

	admin := r.Group("/admin")
	{
		mockAdmin := handler.NewMockAdminHandler(deps.db, deps.metrics, logger.Component(deps.logger, "admin"))
		admin.GET("/mock/stats", mockAdmin.Stats)
		admin.POST("/mock/reset", audit, mockAdmin.Reset)
		admin.GET("/metrics", metricsHandler.Snapshot)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := gin.WrapH(deps.server)
	r.Any(deps.server.Prefix()+"/*path", audit, api)

	return r
}
