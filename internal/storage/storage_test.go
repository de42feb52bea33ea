package storage

import (
	"strings"
	"testing"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/config"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := models.OpenDB(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + name + "?mode=memory&cache=shared",
	}, logger.Silent)
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testCategories() []models.Category {
	w := func(n, e int64) models.TrackValues {
		return models.NewTrackValues(decimal.NewFromInt(n), decimal.NewFromInt(e))
	}
	return []models.Category{{
		CategoryID:   "fin",
		CategoryName: "Financial",
		Questions: []models.Question{
			{QuestionID: "q1", Text: "Turnover", ProposedWeight: w(60, 50), Answers: []models.Answer{
				{AnswerID: "a1", Text: "high", Score: w(80, 90)},
				{AnswerID: "a2", Text: "low", Score: w(20, 10)},
			}},
			{QuestionID: "q2", Text: "Debt", ProposedWeight: w(40, 50), Answers: []models.Answer{
				{AnswerID: "a3", Text: "none", Score: w(50, 100)},
			}},
		},
	}}
}

func newTemplate(name string) *models.AssessmentTemplate {
	return &models.AssessmentTemplate{
		Name:           name,
		Status:         models.TemplateStatusActive,
		ApprovalStatus: models.ApprovalPending,
		Categories:     testCategories(),
		Version:        1,
		CreatedBy:      "alice",
	}
}
