package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnswerSnapshot is the answer given to one question, with score and weight
// already resolved for the assessment's customer type.
type AnswerSnapshot struct {
	CategoryID   string          `json:"category_id"`
	QuestionID   string          `json:"question_id"`
	QuestionText string          `json:"question_text"`
	AnswerID     string          `json:"answer_id"`
	AnswerText   string          `json:"answer_text"`
	Score        decimal.Decimal `json:"score"`
	Weight       decimal.Decimal `json:"weight"`
}

// CategoryScore is the weighted score of one template category.
type CategoryScore struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Score        decimal.Decimal `json:"score"`
}

// CustomerAssessment is one customer's filled-in template with its own approval cycle
type CustomerAssessment struct {
	ID                     string                              `gorm:"primaryKey;size:36" json:"id"`
	CustomerID             string                              `gorm:"size:100;not null;index" json:"customer_id"`
	CustomerName           string                              `gorm:"size:200;not null" json:"customer_name"`
	NIC                    string                              `gorm:"size:50;index" json:"nic"`
	CustomerType           CustomerType                        `gorm:"size:20;not null" json:"customer_type"`
	AssessmentTemplateID   string                              `gorm:"size:36;not null;index" json:"assessment_template_id"`
	AssessmentTemplateName string                              `gorm:"size:200" json:"assessment_template_name"`
	Answers                datatypes.JSONSlice[AnswerSnapshot] `json:"answers"`
	CategoryScores         datatypes.JSONSlice[CategoryScore]  `json:"category_scores"`
	TotalScore             decimal.Decimal                     `gorm:"type:decimal(65,30)" json:"total_score"`
	Rating                 string                              `gorm:"size:5;index" json:"rating"`
	ApprovalStatus         ApprovalStatus                      `gorm:"size:20;default:pending;index" json:"approval_status"`
	RejectionRemarks       string                              `gorm:"type:text" json:"rejection_remarks"`
	AssessedBy             string                              `gorm:"size:100" json:"assessed_by"`
	ApprovedBy             string                              `gorm:"size:100" json:"approved_by"`
	ApprovedAt             *time.Time                          `json:"approved_at"`
	RejectedBy             string                              `gorm:"size:100" json:"rejected_by"`
	RejectedAt             *time.Time                          `json:"rejected_at"`
	Version                int                                 `gorm:"not null;default:1" json:"version"`
	CreatedBy              string                              `gorm:"size:100" json:"created_by"`
	UpdatedBy              string                              `gorm:"size:100" json:"updated_by"`
	CreatedAt              time.Time                           `gorm:"index" json:"created_at"`
	UpdatedAt              time.Time                           `json:"updated_at"`
	DeletedAt              gorm.DeletedAt                      `gorm:"index" json:"-"`
}

func (CustomerAssessment) TableName() string { return "customer_assessments" }

func (a *CustomerAssessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *CustomerAssessment) ApprovalState() ApprovalStatus { return a.ApprovalStatus }
func (a *CustomerAssessment) EntityID() string              { return a.ID }
func (a *CustomerAssessment) EntityKind() string            { return "customer assessment" }
