package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TemplateStatusActive   = "active"
	TemplateStatusInactive = "inactive"
)

// Answer is one selectable option of a question.
type Answer struct {
	AnswerID string      `json:"answer_id" validate:"required,max=64"`
	Text     string      `json:"text" validate:"required"`
	Score    TrackValues `json:"score"`
}

// Question carries a customer-type specific weight in percentage points.
type Question struct {
	QuestionID     string      `json:"question_id" validate:"required,max=64"`
	Text           string      `json:"text" validate:"required"`
	ProposedWeight TrackValues `json:"proposed_weight"`
	Answers        []Answer    `json:"answers" validate:"min=1,dive"`
}

// Category groups questions; its score is the weighted sum of its answers.
type Category struct {
	CategoryID   string     `json:"category_id" validate:"required,max=64"`
	CategoryName string     `json:"category_name" validate:"required,max=200"`
	Questions    []Question `json:"questions" validate:"dive"`
}

// AssessmentTemplate is an authored credit-rating questionnaire
type AssessmentTemplate struct {
	ID               string                        `gorm:"primaryKey;size:36" json:"id"`
	Name             string                        `gorm:"size:200;not null;index" json:"name"`
	Description      string                        `gorm:"size:1000" json:"description"`
	Status           string                        `gorm:"size:20;default:active;index" json:"status"` // active, inactive
	ApprovalStatus   ApprovalStatus                `gorm:"size:20;default:pending;index" json:"approval_status"`
	ApprovalComments string                        `gorm:"type:text" json:"approval_comments"`
	Categories       datatypes.JSONSlice[Category] `json:"categories"`
	Version          int                           `gorm:"not null;default:1" json:"version"`
	CreatedBy        string                        `gorm:"size:100" json:"created_by"`
	UpdatedBy        string                        `gorm:"size:100" json:"updated_by"`
	ApprovedBy       string                        `gorm:"size:100" json:"approved_by"`
	ApprovedAt       *time.Time                    `json:"approved_at"`
	RejectedBy       string                        `gorm:"size:100" json:"rejected_by"`
	RejectedAt       *time.Time                    `json:"rejected_at"`
	DeletedBy        string                        `gorm:"size:100" json:"-"`
	CreatedAt        time.Time                     `json:"created_at"`
	UpdatedAt        time.Time                     `json:"updated_at"`
	DeletedAt        gorm.DeletedAt                `gorm:"index" json:"-"`
}

func (AssessmentTemplate) TableName() string { return "assessment_templates" }

func (t *AssessmentTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *AssessmentTemplate) ApprovalState() ApprovalStatus { return t.ApprovalStatus }
func (t *AssessmentTemplate) EntityID() string              { return t.ID }
func (t *AssessmentTemplate) EntityKind() string            { return "assessment template" }

// IsSelectable reports whether new customer assessments may use the template.
func (t *AssessmentTemplate) IsSelectable() bool {
	return t.ApprovalStatus == ApprovalApproved && t.Status == TemplateStatusActive
}

// QuestionCount returns the number of questions across all categories.
func (t *AssessmentTemplate) QuestionCount() int {
	n := 0
	for _, c := range t.Categories {
		n += len(c.Questions)
	}
	return n
}
