package services

import (
	"context"
	"time"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStatsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type DashboardStats struct {
	TotalAssessments    int64           `json:"total_assessments"`
	PendingAssessments  int64           `json:"pending_assessments"`
	ApprovedAssessments int64           `json:"approved_assessments"`
	RejectedAssessments int64           `json:"rejected_assessments"`
	Customers           int64           `json:"customers"`
	AverageScore        decimal.Decimal `json:"average_score"`
	PendingTemplates    int64           `json:"pending_templates"`
}

type RatingCount struct {
	Rating Rating `json:"rating"`
	Count  int64  `json:"count"`
}

type AssessorStats struct {
	AssessedBy      string          `json:"assessed_by"`
	AssessmentCount int64           `json:"assessment_count"`
	AvgScore        decimal.Decimal `json:"avg_score"`
}

type TemplateUsage struct {
	AssessmentTemplateID   string `json:"assessment_template_id"`
	AssessmentTemplateName string `json:"assessment_template_name"`
	AssessmentCount        int64  `json:"assessment_count"`
}

type DashboardResponse struct {
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Stats         DashboardStats  `json:"stats"`
	Ratings       []RatingCount   `json:"ratings"`
	AssessorStats []AssessorStats `json:"assessor_stats"`
	TemplateUsage []TemplateUsage `json:"template_usage"`
}

func parseDateRange(req *DashboardStatsRequest, now time.Time) (time.Time, time.Time) {
	startDate := now.AddDate(0, 0, -30)
	if req.StartDate != "" {
		if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			startDate = t
		}
	}

	endDate := now
	if req.EndDate != "" {
		if t, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			endDate = t.Add(24*time.Hour - time.Second)
		}
	}
	return startDate, endDate
}

// GetStats summarises assessments created in the requested window. The
// rating distribution counts approved assessments only.
func (s *DashboardService) GetStats(ctx context.Context, req *DashboardStatsRequest) (*DashboardResponse, error) {
	startDate, endDate := parseDateRange(req, time.Now())
	db := s.db.WithContext(ctx)
	inRange := func() *gorm.DB {
		return db.Model(&models.CustomerAssessment{}).Where("created_at BETWEEN ? AND ?", startDate, endDate)
	}

	var stats DashboardStats
	if err := inRange().Count(&stats.TotalAssessments).Error; err != nil {
		return nil, dependencyError("assessment store", err)
	}
	inRange().Where("approval_status = ?", models.ApprovalPending).Count(&stats.PendingAssessments)
	inRange().Where("approval_status = ?", models.ApprovalApproved).Count(&stats.ApprovedAssessments)
	inRange().Where("approval_status = ?", models.ApprovalRejected).Count(&stats.RejectedAssessments)
	inRange().Distinct("customer_id").Count(&stats.Customers)

	var avg decimal.NullDecimal
	if err := inRange().Select("AVG(total_score)").Row().Scan(&avg); err != nil {
		return nil, dependencyError("assessment store", err)
	}
	stats.AverageScore = avg.Decimal.Round(2)

	db.Model(&models.AssessmentTemplate{}).
		Where("approval_status = ?", models.ApprovalPending).
		Count(&stats.PendingTemplates)

	var rows []RatingCount
	inRange().
		Select("rating, COUNT(*) as count").
		Where("approval_status = ?", models.ApprovalApproved).
		Group("rating").
		Scan(&rows)
	byRating := make(map[Rating]int64, len(rows))
	for _, r := range rows {
		byRating[r.Rating] = r.Count
	}
	ratings := make([]RatingCount, 0, len(Ratings()))
	for _, r := range Ratings() {
		ratings = append(ratings, RatingCount{Rating: r, Count: byRating[r]})
	}

	var assessorStats []AssessorStats
	inRange().
		Select("assessed_by, COUNT(*) as assessment_count, COALESCE(AVG(total_score), 0) as avg_score").
		Group("assessed_by").
		Order("assessment_count DESC").
		Limit(10).
		Scan(&assessorStats)
	for i := range assessorStats {
		assessorStats[i].AvgScore = assessorStats[i].AvgScore.Round(2)
	}

	var usage []TemplateUsage
	inRange().
		Select("assessment_template_id, MAX(assessment_template_name) as assessment_template_name, COUNT(*) as assessment_count").
		Group("assessment_template_id").
		Order("assessment_count DESC").
		Limit(10).
		Scan(&usage)

	return &DashboardResponse{
		StartDate:     startDate.Format("2006-01-02"),
		EndDate:       endDate.Format("2006-01-02"),
		Stats:         stats,
		Ratings:       ratings,
		AssessorStats: assessorStats,
		TemplateUsage: usage,
	}, nil
}
