package main

import (
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/middleware"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for login
	loginLimiter := middleware.NewRateLimiter(1, 5)

	r.GET("/health", svc.healthHandler.CheckHealth)
	r.GET("/metrics", svc.metricsHandler.Metrics)

	api := r.Group("/api")
	api.Use(middleware.AuditLog(svc.activityLogger))
	{
		// Auth routes (public)
		api.POST("/auth/login", loginLimiter.Middleware(), svc.authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.PUT("/auth/password", svc.authHandler.ChangePassword)

			// Templates (read for all users)
			protected.GET("/templates", svc.templateHandler.List)
			protected.GET("/templates/selectable", svc.templateHandler.ListSelectable)
			protected.GET("/templates/:id", svc.templateHandler.GetByID)

			authors := protected.Group("", middleware.RoleRequired(models.RoleAuthor))
			{
				authors.POST("/templates", svc.templateHandler.Create)
				authors.PUT("/templates/:id", svc.templateHandler.Update)
				authors.POST("/templates/:id/resubmit", svc.templateHandler.Resubmit)
				authors.PUT("/templates/:id/status", svc.templateHandler.SetStatus)
				authors.DELETE("/templates/:id", svc.templateHandler.Delete)
			}

			// Customer assessments (read for all users)
			protected.GET("/customer-assessments", svc.assessHandler.List)
			protected.GET("/customer-assessments/:id", svc.assessHandler.GetByID)
			protected.GET("/customer-assessments/:id/export", svc.assessHandler.Export)
			protected.GET("/customers/lookup", svc.assessHandler.LookupCustomer)
			protected.GET("/customers/:customer_id/assessments", svc.assessHandler.ListByCustomer)
			protected.POST("/scoring/preview", svc.assessHandler.Preview)
			protected.GET("/dashboard/stats", svc.dashHandler.GetStats)

			assessors := protected.Group("", middleware.RoleRequired(models.RoleAssessor))
			{
				assessors.POST("/customer-assessments", svc.assessHandler.Submit)
				assessors.PUT("/customer-assessments/:id", svc.assessHandler.EditAndResubmit)
			}

			approvers := protected.Group("", middleware.RoleRequired(models.RoleApprover))
			{
				approvers.POST("/templates/:id/approve", svc.templateHandler.Approve)
				approvers.POST("/templates/:id/reject", svc.templateHandler.Reject)
				approvers.POST("/customer-assessments/:id/approve", svc.assessHandler.Approve)
				approvers.POST("/customer-assessments/:id/reject", svc.assessHandler.Reject)
			}

			// Admin only
			admin := protected.Group("", middleware.AdminRequired())
			{
				admin.POST("/users", svc.authHandler.CreateUser)
				admin.GET("/activity-logs", svc.activityHandler.List)
				admin.GET("/activity-logs/modules", svc.activityHandler.GetModules)
			}
		}
	}
}
