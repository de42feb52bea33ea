package services

import (
	"context"
	"fmt"
	"os"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/pkg/logger"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TemplateSeedFile is the YAML layout of questionnaire definitions.
type TemplateSeedFile struct {
	Templates []TemplateSeed `yaml:"templates"`
}

type TemplateSeed struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Categories  []CategorySeed `yaml:"categories"`
}

type CategorySeed struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Questions []QuestionSeed `yaml:"questions"`
}

type QuestionSeed struct {
	ID      string       `yaml:"id"`
	Text    string       `yaml:"text"`
	Weight  TrackSeed    `yaml:"weight"`
	Answers []AnswerSeed `yaml:"answers"`
}

type AnswerSeed struct {
	ID    string    `yaml:"id"`
	Text  string    `yaml:"text"`
	Score TrackSeed `yaml:"score"`
}

// TrackSeed leaves a missing value nil so validation reports it.
type TrackSeed struct {
	New      *float64 `yaml:"new"`
	Existing *float64 `yaml:"existing"`
}

func (t TrackSeed) values() models.TrackValues {
	var tv models.TrackValues
	if t.New != nil {
		d := decimal.NewFromFloat(*t.New)
		tv.New = &d
	}
	if t.Existing != nil {
		d := decimal.NewFromFloat(*t.Existing)
		tv.Existing = &d
	}
	return tv
}

// Content converts the seed into authored template content.
func (s TemplateSeed) Content() TemplateContent {
	content := TemplateContent{Name: s.Name, Description: s.Description}
	for _, c := range s.Categories {
		category := models.Category{CategoryID: c.ID, CategoryName: c.Name}
		for _, q := range c.Questions {
			question := models.Question{QuestionID: q.ID, Text: q.Text, ProposedWeight: q.Weight.values()}
			for _, a := range q.Answers {
				question.Answers = append(question.Answers, models.Answer{AnswerID: a.ID, Text: a.Text, Score: a.Score.values()})
			}
			category.Questions = append(category.Questions, question)
		}
		content.Categories = append(content.Categories, category)
	}
	return content
}

func ParseTemplateSeed(data []byte) (*TemplateSeedFile, error) {
	var file TemplateSeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse template seed: %w", err)
	}
	return &file, nil
}

// SeedFromFile creates every template in path whose name is not taken yet.
// Seeded templates enter the approval queue as pending like any other.
func (s *TemplateService) SeedFromFile(ctx context.Context, actor Actor, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	file, err := ParseTemplateSeed(data)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, seed := range file.Templates {
		exists, err := s.gw.Templates.ExistsByName(ctx, seed.Name, "")
		if err != nil {
			return created, dependencyError("template store", err)
		}
		if exists {
			continue
		}
		if _, err := s.Create(ctx, actor, seed.Content()); err != nil {
			return created, fmt.Errorf("seed template %q: %w", seed.Name, err)
		}
		created++
	}

	if created > 0 {
		logger.Infof("[TemplateSeed] Created %d template(s) from %s", created, path)
	}
	return created, nil
}
