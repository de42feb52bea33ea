package storage

import (
	"context"
	"strings"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"gorm.io/gorm"
)

type TemplateStore struct {
	db *gorm.DB
}

var _ services.TemplateStore = (*TemplateStore)(nil)

func NewTemplateStore(db *gorm.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func (s *TemplateStore) GetByID(ctx context.Context, id string) (*models.AssessmentTemplate, error) {
	var tpl models.AssessmentTemplate
	if err := conn(ctx, s.db).Where("id = ?", id).First(&tpl).Error; err != nil {
		return nil, notFound(err)
	}
	return &tpl, nil
}

func (s *TemplateStore) List(ctx context.Context, filter services.TemplateFilter) ([]models.AssessmentTemplate, int64, error) {
	var templates []models.AssessmentTemplate
	var total int64

	query := conn(ctx, s.db).Model(&models.AssessmentTemplate{})
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.ApprovalStatus != "" {
		query = query.Where("approval_status = ?", filter.ApprovalStatus)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(query, filter.Page, filter.PageSize).
		Order("created_at DESC, id").
		Find(&templates).Error; err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

func (s *TemplateStore) Create(ctx context.Context, tpl *models.AssessmentTemplate) error {
	return conn(ctx, s.db).Create(tpl).Error
}

func (s *TemplateStore) Update(ctx context.Context, id string, expect services.Expect, patch map[string]interface{}) error {
	return casUpdate[models.AssessmentTemplate](ctx, s.db, id, expect, patch)
}

func (s *TemplateStore) SoftDelete(ctx context.Context, id string, deletedBy string) error {
	db := conn(ctx, s.db)
	result := db.Model(&models.AssessmentTemplate{}).Where("id = ?", id).Update("deleted_by", deletedBy)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrRecordNotFound
	}
	return db.Where("id = ?", id).Delete(&models.AssessmentTemplate{}).Error
}

// ExistsByName compares names case-insensitively among non-deleted templates.
func (s *TemplateStore) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	var count int64
	query := conn(ctx, s.db).Model(&models.AssessmentTemplate{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
