package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tra-capacitacion/inscripciones-api/api/swagger"
	"github.com/tra-capacitacion/inscripciones-api/internal/handler"
	"github.com/tra-capacitacion/inscripciones-api/internal/middleware"
	"github.com/tra-capacitacion/inscripciones-api/internal/refdata"
	"github.com/tra-capacitacion/inscripciones-api/internal/repository"
	"github.com/tra-capacitacion/inscripciones-api/internal/service"
	"github.com/tra-capacitacion/inscripciones-api/pkg/cache"
	"github.com/tra-capacitacion/inscripciones-api/pkg/config"
	"github.com/tra-capacitacion/inscripciones-api/pkg/database"
	"github.com/tra-capacitacion/inscripciones-api/pkg/logger"
	corsmiddleware "github.com/tra-capacitacion/inscripciones-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tra-capacitacion/inscripciones-api/pkg/middleware/requestid"
	"github.com/tra-capacitacion/inscripciones-api/pkg/storage"
)

// @title Inscripciones TRA API
// @version 0.1.0
// @description Instructor course-registration service
// @BasePath /api/v1
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

	metricsSvc := service.NewMetricsService()

	var snapshotCache service.SnapshotCache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		cacheRepo := repository.NewCacheRepository(client, logr)
		defer cacheRepo.Close() //nolint:errcheck
		snapshotCache = cacheRepo
	}

	refdataSvc := service.NewRefDataService(
		refdata.NewSource(cfg.Sources.Instructors, nil),
		refdata.NewSource(cfg.Sources.Courses, nil),
		snapshotCache,
		cfg.Sources.CacheTTL,
		metricsSvc,
		logr,
	)
	eligibilitySvc := service.NewEligibilityService(refdataSvc, logr)

	var store service.EnrollmentStore
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect database", "error", err)
		}
		defer db.Close() //nolint:errcheck
		store = repository.NewPostgresStore(db)
	default:
		store = repository.NewCSVStore(cfg.Store.CSVPath, logr)
	}

	enrollmentSvc := service.NewEnrollmentService(
		store,
		eligibilitySvc,
		validator.New(),
		metricsSvc,
		logr,
		cfg.Registration.TargetYear,
		cfg.Registration.MaxCapacity,
	)

	exportStorage, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	exportSvc := service.NewExportService(enrollmentSvc, exportStorage, nil, nil, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", handler.NewMetricsHandler(metricsSvc).Expose)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	instructorHandler := handler.NewInstructorHandler(eligibilitySvc)
	courseHandler := handler.NewCourseHandler(eligibilitySvc, cfg.Registration.TargetYear)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, exportSvc)
	refdataHandler := handler.NewRefDataHandler(refdataSvc)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/instructors", instructorHandler.List)
		api.GET("/instructors/:name/courses", instructorHandler.Courses)
		api.GET("/courses/:code/instances", courseHandler.Instances)
		api.GET("/enrollments", enrollmentHandler.List)
		api.POST("/enrollments", enrollmentHandler.Create)
		api.GET("/enrollments/export", enrollmentHandler.Export)
		api.POST("/refdata/refresh", refdataHandler.Refresh)
		api.GET("/refdata/status", refdataHandler.Status)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
