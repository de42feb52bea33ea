package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/config"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/storage"
	"gorm.io/gorm/logger"
)

// Usage: seed_templates <templates.yaml>
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	path := cfg.Seed.TemplatesPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		fmt.Println("Usage: seed_templates <templates.yaml>")
		os.Exit(2)
	}

	db, err := models.OpenDB(&cfg.Database, logger.Warn)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	if err := models.Migrate(db); err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		os.Exit(1)
	}

	svc := services.NewTemplateService(services.Gateways{
		Templates:   storage.NewTemplateStore(db),
		Assessments: storage.NewAssessmentStore(db),
		Tx:          storage.NewTransactor(db),
	}, services.TemplateRulesFromConfig(cfg.Rating))

	actor := services.Actor{Username: "seed", Role: models.RoleAdmin}
	n, err := svc.SeedFromFile(context.Background(), actor, path)
	if err != nil {
		fmt.Printf("Failed to seed templates: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d templates from %s\n", n, path)

	var templates []models.AssessmentTemplate
	if err := db.Order("created_at").Find(&templates).Error; err != nil {
		fmt.Printf("Failed to read templates: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("")
	fmt.Printf("%-38s %-40s %-10s %-10s %s\n", "ID", "Name", "Approval", "Status", "Questions")
	for _, t := range templates {
		fmt.Printf("%-38s %-40s %-10s %-10s %d\n", t.ID, t.Name, t.ApprovalStatus, t.Status, t.QuestionCount())
	}
}
