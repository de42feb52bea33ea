package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles recognised by the approval workflow.
const (
	RoleAdmin    = "admin"
	RoleAuthor   = "author"   // builds and resubmits templates
	RoleApprover = "approver" // decides templates and customer assessments
	RoleAssessor = "assessor" // loan officer filling in assessments
)

// User represents a system user
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash
	Nickname  string         `gorm:"size:100" json:"nickname"`
	Role      string         `gorm:"size:50;default:assessor" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAuthor, RoleApprover, RoleAssessor:
		return true
	}
	return false
}
