package storage

import (
	"context"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"gorm.io/gorm"
)

type AssessmentStore struct {
	db *gorm.DB
}

var _ services.AssessmentStore = (*AssessmentStore)(nil)

func NewAssessmentStore(db *gorm.DB) *AssessmentStore {
	return &AssessmentStore{db: db}
}

func (s *AssessmentStore) GetByID(ctx context.Context, id string) (*models.CustomerAssessment, error) {
	var a models.CustomerAssessment
	if err := conn(ctx, s.db).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *AssessmentStore) ListByCustomer(ctx context.Context, customerID string) ([]models.CustomerAssessment, error) {
	var items []models.CustomerAssessment
	err := conn(ctx, s.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *AssessmentStore) ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]models.CustomerAssessment, error) {
	var items []models.CustomerAssessment
	err := conn(ctx, s.db).
		Where("approval_status = ?", status).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (s *AssessmentStore) List(ctx context.Context, filter services.AssessmentFilter) ([]models.CustomerAssessment, int64, error) {
	var items []models.CustomerAssessment
	var total int64

	query := conn(ctx, s.db).Model(&models.CustomerAssessment{})
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.NIC != "" {
		query = query.Where("nic = ?", filter.NIC)
	}
	if filter.ApprovalStatus != "" {
		query = query.Where("approval_status = ?", filter.ApprovalStatus)
	}
	if filter.TemplateID != "" {
		query = query.Where("assessment_template_id = ?", filter.TemplateID)
	}
	if filter.Rating != "" {
		query = query.Where("rating = ?", filter.Rating)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(query, filter.Page, filter.PageSize).
		Order("created_at DESC, id").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *AssessmentStore) Create(ctx context.Context, a *models.CustomerAssessment) error {
	return conn(ctx, s.db).Create(a).Error
}

func (s *AssessmentStore) Update(ctx context.Context, id string, expect services.Expect, patch map[string]interface{}) error {
	return casUpdate[models.CustomerAssessment](ctx, s.db, id, expect, patch)
}

func (s *AssessmentStore) CountByTemplate(ctx context.Context, templateID string) (int64, error) {
	var count int64
	err := conn(ctx, s.db).Model(&models.CustomerAssessment{}).
		Where("assessment_template_id = ?", templateID).
		Count(&count).Error
	return count, err
}
