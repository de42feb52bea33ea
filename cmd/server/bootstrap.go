package main

import (
	"context"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/config"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/handlers"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/storage"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/utils"
	"github.com/Tharnickanth/credit-ratings-model-sub000/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	taskQueue       services.TaskQueue
	worker          *services.Worker
	cache           *services.RedisTemplateCache
	cleanup         *services.LogCleanupScheduler
	activityLogger  *services.ActivityLogger
	authHandler     *handlers.AuthHandler
	templateHandler *handlers.TemplateHandler
	assessHandler   *handlers.AssessmentHandler
	activityHandler *handlers.ActivityLogHandler
	healthHandler   *handlers.HealthHandler
	dashHandler     *handlers.DashboardHandler
	metricsHandler  *handlers.MetricsHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	db := models.GetDB()

	// Activity log pipeline (uses Redis if enabled, otherwise sync mode)
	activityLogService := services.NewActivityLogService(db)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(activityLogService.Write)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(activityLogService.Write)
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start activity worker")
			}
		}
	}
	activityLogger := services.NewActivityLogger(taskQueue)

	gw := services.Gateways{
		Templates:   storage.NewTemplateStore(db),
		Assessments: storage.NewAssessmentStore(db),
		Customers:   storage.NewCustomerDirectory(db),
		Tx:          storage.NewTransactor(db),
		Activity:    activityLogger,
	}

	var cache *services.RedisTemplateCache
	if cfg.Redis.Enabled {
		c, err := services.NewRedisTemplateCache(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Template cache disabled")
		} else {
			cache = c
			gw.Cache = c
		}
	}

	templateService := services.NewTemplateService(gw, services.TemplateRulesFromConfig(cfg.Rating))
	exporter, err := services.NewPDFExporterFromConfig(&cfg.Export)
	if err != nil {
		logger.Warn().Err(err).Msg("Export font unavailable, using the built-in cp1252 font")
		exporter = services.NewPDFExporter()
	}
	assessmentService := services.NewAssessmentService(gw, exporter)

	// Create default admin user
	authService := services.NewAuthService(db, &cfg.JWT)
	if err := authService.CreateAdminIfNotExists(cfg.Seed.AdminPassword); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	// Seed templates
	if cfg.Seed.TemplatesPath != "" {
		seeder := services.Actor{Username: "admin", Role: models.RoleAdmin}
		n, err := templateService.SeedFromFile(context.Background(), seeder, cfg.Seed.TemplatesPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Seed.TemplatesPath).Msg("Failed to seed templates")
		} else if n > 0 {
			logger.Infof("Seeded %d assessment templates", n)
		}
	}

	// Activity log cleanup scheduler
	cleanup := services.NewLogCleanupScheduler(activityLogService, cfg.ActivityLog.RetentionDays)
	if err := cleanup.Start(cfg.ActivityLog.CleanupCron); err != nil {
		logger.Warn().Err(err).Msg("Failed to start activity log cleanup")
	}

	return &appServices{
		taskQueue:       taskQueue,
		worker:          worker,
		cache:           cache,
		cleanup:         cleanup,
		activityLogger:  activityLogger,
		authHandler:     handlers.NewAuthHandler(authService),
		templateHandler: handlers.NewTemplateHandler(templateService),
		assessHandler:   handlers.NewAssessmentHandler(assessmentService),
		activityHandler: handlers.NewActivityLogHandler(activityLogService),
		healthHandler:   handlers.NewHealthHandler(db, taskQueue, templateService, assessmentService),
		dashHandler:     handlers.NewDashboardHandler(services.NewDashboardService(db)),
		metricsHandler:  handlers.NewMetricsHandler(db, taskQueue),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.cleanup.Stop()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	if s.cache != nil {
		s.cache.Close()
	}
}
