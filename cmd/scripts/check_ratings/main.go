package main

import (
	"fmt"
	"os"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/config"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"gorm.io/gorm/logger"
)

// Reports stored assessments whose rating no longer matches the rating
// bands for their total score.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := models.OpenDB(&cfg.Database, logger.Silent)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	var assessments []models.CustomerAssessment
	if err := db.Order("created_at").Find(&assessments).Error; err != nil {
		fmt.Printf("Failed to read assessments: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Checking %d assessments\n\n", len(assessments))

	mismatched := 0
	for _, a := range assessments {
		expected := services.ClassifyRating(a.TotalScore)
		if string(expected) == a.Rating {
			continue
		}
		mismatched++
		fmt.Printf("%-38s %-20s total=%s stored=%s expected=%s\n",
			a.ID, a.CustomerID, a.TotalScore.StringFixed(2), a.Rating, expected)
	}

	if mismatched > 0 {
		fmt.Printf("\n%d assessments have a stale rating\n", mismatched)
		os.Exit(1)
	}
	fmt.Println("All ratings match")
}
