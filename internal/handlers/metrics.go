package handlers

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var startTime = time.Now()

type MetricsHandler struct {
	db    *gorm.DB
	queue services.TaskQueue
}

func NewMetricsHandler(db *gorm.DB, queue services.TaskQueue) *MetricsHandler {
	return &MetricsHandler{db: db, queue: queue}
}

// Metrics returns Prometheus-compatible text format metrics.
// GET /metrics
func (h *MetricsHandler) Metrics(c *gin.Context) {
	var b strings.Builder

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeGauge(&b, "credit_ratings_uptime_seconds", "Time since server start in seconds", time.Since(startTime).Seconds())
	writeGauge(&b, "credit_ratings_goroutines", "Number of active goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "credit_ratings_memory_alloc_bytes", "Current heap allocation in bytes", float64(m.Alloc))

	queueAsync := 0.0
	if h.queue != nil && h.queue.IsAsync() {
		queueAsync = 1.0
	}
	writeGauge(&b, "credit_ratings_queue_async_enabled", "Whether the activity log queue runs on Redis (1=yes, 0=no)", queueAsync)

	if h.db != nil {
		ctx := c.Request.Context()
		if sqlDB, err := h.db.DB(); err == nil {
			stats := sqlDB.Stats()
			writeGauge(&b, "credit_ratings_db_open_connections", "Number of open DB connections", float64(stats.OpenConnections))
			writeGauge(&b, "credit_ratings_db_in_use_connections", "Number of in-use DB connections", float64(stats.InUse))
		}

		statuses := []models.ApprovalStatus{models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected}
		for _, family := range []struct {
			name  string
			help  string
			model interface{}
		}{
			{"credit_ratings_templates", "Assessment templates by approval status", &models.AssessmentTemplate{}},
			{"credit_ratings_assessments", "Customer assessments by approval status", &models.CustomerAssessment{}},
		} {
			fmt.Fprintf(&b, "# HELP %s %s\n", family.name, family.help)
			fmt.Fprintf(&b, "# TYPE %s gauge\n", family.name)
			for _, status := range statuses {
				var count int64
				h.db.WithContext(ctx).Model(family.model).Where("approval_status = ?", status).Count(&count)
				fmt.Fprintf(&b, "%s{status=%q} %d\n", family.name, status, count)
			}
			b.WriteString("\n")
		}

		var customers, users int64
		h.db.WithContext(ctx).Model(&models.Customer{}).Count(&customers)
		h.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true).Count(&users)
		writeGauge(&b, "credit_ratings_customers_total", "Number of customers in the directory", float64(customers))
		writeGauge(&b, "credit_ratings_users_active", "Number of active users", float64(users))
	}

	c.Data(200, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s gauge\n", name)
	fmt.Fprintf(b, "%s %g\n\n", name, value)
}
