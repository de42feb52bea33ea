package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/config"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// TemplateContent is the authored part of a template.
type TemplateContent struct {
	Name        string            `json:"name" validate:"required,max=200"`
	Description string            `json:"description" validate:"max=1000"`
	Categories  []models.Category `json:"categories" validate:"dive"`
}

// TemplateRules configures ingestion checks beyond the structural schema.
type TemplateRules struct {
	WeightSumRule string // off, per_category, total
	Tolerance     decimal.Decimal
}

// DefaultTemplateRules requires all question weights of a track to total 100.
func DefaultTemplateRules() TemplateRules {
	return TemplateRules{
		WeightSumRule: config.WeightSumTotal,
		Tolerance:     decimal.NewFromFloat(0.01),
	}
}

func TemplateRulesFromConfig(cfg config.RatingConfig) TemplateRules {
	return TemplateRules{
		WeightSumRule: cfg.NormalizedWeightSumRule(),
		Tolerance:     decimal.NewFromFloat(cfg.Tolerance).Abs(),
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateTemplate checks content against the template schema and rules.
// All problems are reported at once.
func ValidateTemplate(content *TemplateContent, rules TemplateRules) error {
	content.Name = strings.TrimSpace(content.Name)

	var fields []string
	if err := getValidator().Struct(content); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return newValidationError("invalid template", err.Error())
		}
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", trimNamespace(fe.Namespace()), fe.Tag()))
		}
	}

	fields = append(fields, checkIdentifiers(content.Categories)...)
	fields = append(fields, checkValueRanges(content.Categories)...)
	if len(fields) > 0 {
		return newValidationError("invalid template", fields...)
	}

	if fields := checkWeightSums(content.Categories, rules); len(fields) > 0 {
		return newValidationError("question weights do not sum to 100", fields...)
	}
	return nil
}

func trimNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func checkIdentifiers(categories []models.Category) []string {
	var fields []string
	categoryIDs := make(map[string]bool)
	questionIDs := make(map[string]bool)
	for _, c := range categories {
		if c.CategoryID != "" {
			if categoryIDs[c.CategoryID] {
				fields = append(fields, "duplicate category_id "+c.CategoryID)
			}
			categoryIDs[c.CategoryID] = true
		}
		for _, q := range c.Questions {
			if q.QuestionID != "" {
				if questionIDs[q.QuestionID] {
					fields = append(fields, "duplicate question_id "+q.QuestionID)
				}
				questionIDs[q.QuestionID] = true
			}
			answerIDs := make(map[string]bool)
			for _, a := range q.Answers {
				if a.AnswerID == "" {
					continue
				}
				if answerIDs[a.AnswerID] {
					fields = append(fields, fmt.Sprintf("duplicate answer_id %s in question %s", a.AnswerID, q.QuestionID))
				}
				answerIDs[a.AnswerID] = true
			}
		}
	}
	return fields
}

// maxValuePlaces bounds weights and scores so score*weight/100 fits the
// 30-place total_score column exactly.
const maxValuePlaces = 14

func checkValueRanges(categories []models.Category) []string {
	var fields []string
	check := func(path string, v decimal.Decimal) {
		if v.IsNegative() {
			fields = append(fields, path+" is negative")
		}
		if !v.Truncate(maxValuePlaces).Equal(v) {
			fields = append(fields, fmt.Sprintf("%s has more than %d decimal places", path, maxValuePlaces))
		}
	}
	for _, c := range categories {
		for _, q := range c.Questions {
			for _, ct := range []models.CustomerType{models.CustomerTypeNew, models.CustomerTypeExisting} {
				if w, ok := q.ProposedWeight.For(ct); ok {
					check(fmt.Sprintf("%s.proposed_weight.%s", q.QuestionID, ct), w)
				}
				for _, a := range q.Answers {
					if s, ok := a.Score.For(ct); ok {
						check(fmt.Sprintf("%s.%s.score.%s", q.QuestionID, a.AnswerID, ct), s)
					}
				}
			}
		}
	}
	return fields
}

func checkWeightSums(categories []models.Category, rules TemplateRules) []string {
	target := decimal.NewFromInt(100)
	var fields []string
	for _, ct := range []models.CustomerType{models.CustomerTypeNew, models.CustomerTypeExisting} {
		switch rules.WeightSumRule {
		case config.WeightSumPerCategory:
			for _, c := range categories {
				sum := sumWeights(c.Questions, ct)
				if sum.Sub(target).Abs().GreaterThan(rules.Tolerance) {
					fields = append(fields, fmt.Sprintf("category %s (%s) = %s", c.CategoryID, ct, sum.String()))
				}
			}
		case config.WeightSumTotal:
			sum := decimal.Zero
			for _, c := range categories {
				sum = sum.Add(sumWeights(c.Questions, ct))
			}
			if sum.Sub(target).Abs().GreaterThan(rules.Tolerance) {
				fields = append(fields, fmt.Sprintf("total (%s) = %s", ct, sum.String()))
			}
		}
	}
	return fields
}

func sumWeights(questions []models.Question, ct models.CustomerType) decimal.Decimal {
	sum := decimal.Zero
	for _, q := range questions {
		if w, ok := q.ProposedWeight.For(ct); ok {
			sum = sum.Add(w)
		}
	}
	return sum
}
