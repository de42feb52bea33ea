package services

import (
	"context"
	"time"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const moduleCreditRating = "credit_rating"

// ActivityLogger records activity through a TaskQueue. Enqueue failures are
// logged and swallowed.
type ActivityLogger struct {
	queue TaskQueue
}

func NewActivityLogger(queue TaskQueue) *ActivityLogger {
	return &ActivityLogger{queue: queue}
}

// Record implements ActivityRecorder.
func (l *ActivityLogger) Record(username, action, description string) {
	l.Enqueue(&ActivityTask{
		Username:    username,
		Module:      moduleCreditRating,
		Action:      action,
		Description: description,
	})
}

// Enqueue submits a fully populated task, used by the HTTP audit middleware.
func (l *ActivityLogger) Enqueue(task *ActivityTask) {
	if l == nil || l.queue == nil {
		return
	}
	if task.At.IsZero() {
		task.At = time.Now()
	}
	if err := l.queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).
			Str("username", task.Username).
			Str("action", task.Action).
			Msg("activity log enqueue failed")
	}
}

type ActivityLogService struct {
	db *gorm.DB
}

func NewActivityLogService(db *gorm.DB) *ActivityLogService {
	return &ActivityLogService{db: db}
}

// Write stores one task; it is the processor for both queue kinds.
func (s *ActivityLogService) Write(ctx context.Context, task *ActivityTask) error {
	entry := &models.ActivityLog{
		Username:    task.Username,
		Module:      task.Module,
		Action:      task.Action,
		Description: task.Description,
		IP:          task.IP,
		UserAgent:   task.UserAgent,
		Extra:       task.Extra,
		CreatedAt:   task.At,
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

type ActivityLogListRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Username  string `form:"username"`
	Module    string `form:"module"`
	Action    string `form:"action"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Search    string `form:"search"`
}

type ActivityLogListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []models.ActivityLog `json:"items"`
}

func (s *ActivityLogService) List(ctx context.Context, req *ActivityLogListRequest) (*ActivityLogListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var logs []models.ActivityLog
	var total int64

	query := s.db.WithContext(ctx).Model(&models.ActivityLog{})

	if req.Username != "" {
		query = query.Where("username = ?", req.Username)
	}
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}
	if req.Action != "" {
		query = query.Where("action LIKE ?", "%"+req.Action+"%")
	}
	if req.StartDate != "" {
		query = query.Where("created_at >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("created_at <= ?", req.EndDate+" 23:59:59")
	}
	if req.Search != "" {
		query = query.Where("description LIKE ?", "%"+req.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return &ActivityLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}

func (s *ActivityLogService) GetModules(ctx context.Context) ([]string, error) {
	var modules []string
	if err := s.db.WithContext(ctx).Model(&models.ActivityLog{}).Distinct("module").Pluck("module", &modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// CleanupOldLogs deletes logs older than retentionDays and returns the count.
func (s *ActivityLogService) CleanupOldLogs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// LogCleanupScheduler runs CleanupOldLogs on a cron schedule.
type LogCleanupScheduler struct {
	service       *ActivityLogService
	locker        *SchedulerLocker
	retentionDays int
	cron          *cron.Cron
}

const cleanupLockName = "activity_log_cleanup"

func NewLogCleanupScheduler(service *ActivityLogService, retentionDays int) *LogCleanupScheduler {
	return &LogCleanupScheduler{
		service:       service,
		locker:        NewSchedulerLocker(service.db),
		retentionDays: retentionDays,
		cron:          cron.New(),
	}
}

// Start runs one cleanup immediately and then on the cron schedule.
func (s *LogCleanupScheduler) Start(spec string) error {
	if s.retentionDays <= 0 {
		logger.Infof("[ActivityLog] Log cleanup disabled (retention_days <= 0)")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return err
	}
	go s.RunOnce()
	s.cron.Start()
	logger.Infof("[ActivityLog] Cleanup scheduled (%s, keep %d days)", spec, s.retentionDays)
	return nil
}

func (s *LogCleanupScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce cleans up at most once per day across instances.
func (s *LogCleanupScheduler) RunOnce() {
	ctx := context.Background()
	day := s.locker.now().Format("2006-01-02")
	acquired, err := s.locker.TryAcquire(ctx, cleanupLockName, day, 23*time.Hour)
	if err != nil {
		logger.Errorf("[ActivityLog] Failed to acquire cleanup lock: %v", err)
		return
	}
	if !acquired {
		logger.Debug().Str("day", day).Msg("[ActivityLog] Cleanup already claimed by another instance")
		return
	}

	deleted, err := s.service.CleanupOldLogs(ctx, s.retentionDays)
	if err != nil {
		logger.Errorf("[ActivityLog] Failed to cleanup old logs: %v", err)
		return
	}
	if deleted > 0 {
		logger.Infof("[ActivityLog] Cleaned up %d logs older than %d days", deleted, s.retentionDays)
	}
}
