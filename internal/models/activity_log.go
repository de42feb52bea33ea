package models

import "time"

// ActivityLog records who did what; written fire-and-forget.
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:100;index" json:"username"`
	Module      string    `gorm:"size:100;index" json:"module"`
	Action      string    `gorm:"size:200;index" json:"action"`
	Description string    `gorm:"type:text" json:"description"`
	IP          string    `gorm:"size:50" json:"ip"`
	UserAgent   string    `gorm:"size:500" json:"user_agent"`
	Extra       string    `gorm:"type:text" json:"extra"` // JSON extra data
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
