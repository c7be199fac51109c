package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/canvas-assistant-api/api/swagger"
	"github.com/noah-isme/canvas-assistant-api/internal/handler"
	"github.com/noah-isme/canvas-assistant-api/internal/middleware"
	"github.com/noah-isme/canvas-assistant-api/internal/service"
	"github.com/noah-isme/canvas-assistant-api/internal/upstream"
	"github.com/noah-isme/canvas-assistant-api/pkg/cache"
	"github.com/noah-isme/canvas-assistant-api/pkg/config"
	"github.com/noah-isme/canvas-assistant-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/canvas-assistant-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/canvas-assistant-api/pkg/middleware/requestid"
)

// @title Canvas Assistant API
// @version 1.0.0
// @description Backend-for-frontend aggregating Canvas LMS data with prioritization and summarization
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

	metricsSvc := service.NewMetricsService()

	cacheRepo := buildCacheRepo(cfg, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)

	canvasClient := upstream.NewCanvasClient(cfg.Canvas, logr, metricsSvc)
	geminiClient := upstream.NewGeminiClient(cfg.Gemini, logr, metricsSvc)

	summarySvc := service.NewSummaryService(geminiClient, logr)
	assignmentSvc := service.NewAssignmentService(service.AssignmentServiceParams{
		Canvas:    canvasClient,
		Summaries: summarySvc,
		Cache:     cacheSvc,
		Logger:    logr,
		Config: service.AssignmentServiceConfig{
			DefaultLimit:       cfg.Assignments.DefaultLimit,
			MaxLimit:           cfg.Assignments.MaxLimit,
			PlaceholderEntries: cfg.Assignments.PlaceholderEntries,
			CacheTTL:           cfg.Cache.TTL,
		},
	})
	courseSvc := service.NewCourseService(canvasClient, logr)
	analyticsSvc := service.NewAnalyticsService(canvasClient, cacheSvc, logr, service.AnalyticsServiceConfig{
		CacheTTL: cfg.Analytics.CacheTTL,
	})
	exportSvc := service.NewExportService(assignmentSvc)

	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/snapshot", metricsHandler.Snapshot)

	api := r.Group(cfg.APIPrefix)
	api.GET("/assignments", assignmentHandler.List)
	api.GET("/assignment/:id/summary", assignmentHandler.Summary)
	api.GET("/courses", courseHandler.List)
	if cfg.Analytics.Enabled {
		api.GET("/analytics/:course_id", analyticsHandler.Analytics)
		api.GET("/course_statistics/:course_id", analyticsHandler.Statistics)
	}
	if cfg.Export.Enabled {
		api.GET("/assignments/export", exportHandler.Export)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// buildCacheRepo selects the result-cache backend. A Redis failure degrades
// to the in-memory store rather than refusing to start; the cache is an
// optimisation, not a dependency.
func buildCacheRepo(cfg *config.Config, logr *zap.Logger) service.CacheRepository {
	if cfg.Cache.Backend == config.CacheBackendRedis {
		client, err := cache.NewRedis(cfg.Redis)
		if err == nil {
			return cache.NewRedisStore(client)
		}
		logr.Warn("redis unavailable, falling back to in-memory cache", zap.Error(err))
	}
	return cache.NewMemoryStore()
}
