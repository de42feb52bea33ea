package handlers

import (
	"net/http"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports subsystem status and approval backlog.
type HealthHandler struct {
	db          *gorm.DB
	queue       services.TaskQueue
	templates   *services.TemplateService
	assessments *services.AssessmentService
}

func NewHealthHandler(db *gorm.DB, queue services.TaskQueue, templates *services.TemplateService, assessments *services.AssessmentService) *HealthHandler {
	return &HealthHandler{db: db, queue: queue, templates: templates, assessments: assessments}
}

// CheckHealth returns the health status of all subsystems.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"
	ctx := c.Request.Context()

	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	queueMode := "sync"
	if h.queue != nil && h.queue.IsAsync() {
		queueMode = "async (Redis)"
	}

	components := gin.H{
		"database":   dbStatus,
		"queue_mode": queueMode,
	}
	if overall == "healthy" {
		if n, err := h.templates.CountPending(ctx); err == nil {
			components["pending_templates"] = n
		}
		if n, err := h.assessments.CountPending(ctx); err == nil {
			components["pending_assessments"] = n
		}
	}

	status := http.StatusOK
	if overall != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":     overall,
		"service":    "credit-ratings",
		"components": components,
	})
}
