package main

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fieldservice/internal/activity"
	"fieldservice/internal/handler"
	"fieldservice/internal/middleware"
	"fieldservice/internal/model"
	"fieldservice/internal/repository"
	"fieldservice/internal/service"
	"fieldservice/pkg/config"
	"fieldservice/pkg/database"
	"fieldservice/pkg/jwtutil"
	"fieldservice/pkg/logger"
	"fieldservice/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting field service...", zap.String("environment", cfg.Server.Env))

	// Initialize JWT utilities
	jwtutil.Initialize(&cfg.JWT)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)

	// Initialize database and run migrations
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(
		&model.Tenant{},
		&model.User{},
		&model.Job{},
		&model.Task{},
		&model.ChecklistTemplate{},
		&model.MaterialUsage{},
		&model.TimeEntry{},
		&model.FileAttachment{},
		&model.ActivityLog{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.DB.Host),
		zap.String("db_name", cfg.DB.DBName))

	// Wire repositories, services and handlers
	writer := activity.NewWriter(db)
	jobService := service.NewJobService(repository.NewScoped[model.Job](db))
	taskService := service.NewTaskService(
		repository.NewScoped[model.Task](db),
		repository.NewScoped[model.User](db),
		jobService,
		writer,
	)
	materialService := service.NewMaterialService(repository.NewScoped[model.MaterialUsage](db), jobService, writer)
	timeEntryService := service.NewTimeEntryService(repository.NewScoped[model.TimeEntry](db), jobService, writer)
	fileService := service.NewFileService(repository.NewScoped[model.FileAttachment](db), jobService, writer)

	jobHandler := handler.NewJobHandler(jobService)
	taskHandler := handler.NewTaskHandler(taskService)
	materialHandler := handler.NewMaterialHandler(materialService)
	timeEntryHandler := handler.NewTimeEntryHandler(timeEntryService)
	fileHandler := handler.NewFileHandler(fileService)
	activityHandler := handler.NewActivityHandler(writer)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)

	// Request logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := c.Response().Status

			log := logger.FromEcho(c)
			log.Info("HTTP Request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Float64("duration_s", duration),
				zap.String("ip", c.RealIP()),
			)

			prometheus.HttpRequestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Inc()

			prometheus.HttpRequestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Observe(duration)

			return err
		}
	})

	// Public routes
	e.GET("/", handler.HealthCheck)
	e.GET("/health", handler.HealthCheck)

	// Prometheus metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API routes that require authentication and tenant context
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)
	api.Use(middleware.RequireTenantContext)

	api.GET("/jobs", jobHandler.List)
	api.POST("/jobs", jobHandler.Create)
	api.GET("/jobs/:job_id", jobHandler.Get)

	api.GET("/jobs/:job_id/tasks", taskHandler.List)
	api.POST("/jobs/:job_id/tasks", taskHandler.Create)
	api.PATCH("/jobs/:job_id/tasks/:task_id", taskHandler.Update)
	api.DELETE("/jobs/:job_id/tasks/:task_id", taskHandler.Remove)

	api.GET("/jobs/:job_id/materials", materialHandler.List)
	api.POST("/jobs/:job_id/materials", materialHandler.Create)
	api.PATCH("/jobs/:job_id/materials/:material_id", materialHandler.Update)
	api.DELETE("/jobs/:job_id/materials/:material_id", materialHandler.Remove)

	api.GET("/jobs/:job_id/time-entries", timeEntryHandler.List)
	api.POST("/jobs/:job_id/time-entries", timeEntryHandler.Create)
	api.PATCH("/jobs/:job_id/time-entries/:entry_id", timeEntryHandler.Update)
	api.DELETE("/jobs/:job_id/time-entries/:entry_id", timeEntryHandler.Remove)

	api.GET("/jobs/:job_id/files", fileHandler.List)
	api.POST("/jobs/:job_id/files", fileHandler.Create)
	api.DELETE("/jobs/:job_id/files/:file_id", fileHandler.Remove)

	api.GET("/activity", activityHandler.List)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
