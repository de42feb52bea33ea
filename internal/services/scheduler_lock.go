package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SchedulerLocker hands out database-backed locks so a scheduled job runs on
// one instance only.
type SchedulerLocker struct {
	db     *gorm.DB
	holder string
	now    func() time.Time
}

func NewSchedulerLocker(db *gorm.DB) *SchedulerLocker {
	host, _ := os.Hostname()
	return &SchedulerLocker{
		db:     db,
		holder: fmt.Sprintf("%s:%d", host, os.Getpid()),
		now:    time.Now,
	}
}

// TryAcquire claims (name, key) until ttl passes. It reports false when
// another holder has a live lock for the same pair.
func (l *SchedulerLocker) TryAcquire(ctx context.Context, name, key string, ttl time.Duration) (bool, error) {
	now := l.now()
	db := l.db.WithContext(ctx)

	if err := db.Where("lock_name = ? AND lock_key = ? AND expires_at < ?", name, key, now).
		Delete(&models.SchedulerLock{}).Error; err != nil {
		return false, fmt.Errorf("purge expired lock: %w", err)
	}

	lock := models.SchedulerLock{
		LockName:  name,
		LockKey:   key,
		LockedBy:  l.holder,
		LockedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&lock)
	if result.Error != nil {
		return false, fmt.Errorf("acquire lock %s/%s: %w", name, key, result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Release drops a lock held by this instance.
func (l *SchedulerLocker) Release(ctx context.Context, name, key string) error {
	return l.db.WithContext(ctx).
		Where("lock_name = ? AND lock_key = ? AND locked_by = ?", name, key, l.holder).
		Delete(&models.SchedulerLock{}).Error
}
