package services

import (
	"sort"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/shopspring/decimal"
)

// Selections maps question id to the chosen answer id.
type Selections map[string]string

// ScoreResult is the output of ComputeScores. Values keep full precision;
// use Display for two-decimal presentation.
type ScoreResult struct {
	CustomerType   models.CustomerType     `json:"customer_type"`
	CategoryScores []models.CategoryScore  `json:"category_scores"`
	Answers        []models.AnswerSnapshot `json:"answers"`
	TotalScore     decimal.Decimal         `json:"total_score"`
	Rating         Rating                  `json:"rating"`
}

// ScoreDisplay is ScoreResult rounded for presentation.
type ScoreDisplay struct {
	CategoryScores map[string]string `json:"category_scores"`
	TotalScore     string            `json:"total_score"`
	Rating         Rating            `json:"rating"`
}

func (r *ScoreResult) Display() ScoreDisplay {
	d := ScoreDisplay{
		CategoryScores: make(map[string]string, len(r.CategoryScores)),
		TotalScore:     r.TotalScore.StringFixed(2),
		Rating:         r.Rating,
	}
	for _, c := range r.CategoryScores {
		d.CategoryScores[c.CategoryID] = c.Score.StringFixed(2)
	}
	return d
}

// ComputeScores scores one set of selections against a template's categories.
// Each answered question contributes score*weight/100 for the customer type's
// track; category scores are summed into the total which is then classified.
func ComputeScores(categories []models.Category, customerType models.CustomerType, selections Selections) (*ScoreResult, error) {
	if !customerType.Valid() {
		return nil, newValidationError("invalid customer type", string(customerType))
	}

	known := make(map[string]struct{})
	var unanswered []string
	for _, c := range categories {
		for _, q := range c.Questions {
			known[q.QuestionID] = struct{}{}
			if selections[q.QuestionID] == "" {
				unanswered = append(unanswered, q.QuestionID)
			}
		}
	}

	var unknown []string
	for qid := range selections {
		if _, ok := known[qid]; !ok {
			unknown = append(unknown, qid)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, newValidationError("unknown question ids", unknown...)
	}
	if len(unanswered) > 0 {
		return nil, newValidationError("unanswered questions", unanswered...)
	}

	result := &ScoreResult{
		CustomerType:   customerType,
		CategoryScores: make([]models.CategoryScore, 0, len(categories)),
		TotalScore:     decimal.Zero,
	}

	for _, c := range categories {
		categoryTotal := decimal.Zero
		for _, q := range c.Questions {
			answerID := selections[q.QuestionID]
			answer := findAnswer(q, answerID)
			if answer == nil {
				return nil, newValidationError("answer does not belong to question", q.QuestionID+"="+answerID)
			}
			weight, ok := q.ProposedWeight.For(customerType)
			if !ok {
				return nil, newValidationError("question has no weight for customer type", q.QuestionID)
			}
			score, ok := answer.Score.For(customerType)
			if !ok {
				return nil, newValidationError("answer has no score for customer type", q.QuestionID+"="+answerID)
			}

			categoryTotal = categoryTotal.Add(score.Mul(weight).Shift(-2))
			result.Answers = append(result.Answers, models.AnswerSnapshot{
				CategoryID:   c.CategoryID,
				QuestionID:   q.QuestionID,
				QuestionText: q.Text,
				AnswerID:     answer.AnswerID,
				AnswerText:   answer.Text,
				Score:        score,
				Weight:       weight,
			})
		}
		result.CategoryScores = append(result.CategoryScores, models.CategoryScore{
			CategoryID:   c.CategoryID,
			CategoryName: c.CategoryName,
			Score:        categoryTotal,
		})
		result.TotalScore = result.TotalScore.Add(categoryTotal)
	}

	result.Rating = ClassifyRating(result.TotalScore)
	return result, nil
}

func findAnswer(q models.Question, answerID string) *models.Answer {
	for i := range q.Answers {
		if q.Answers[i].AnswerID == answerID {
			return &q.Answers[i]
		}
	}
	return nil
}

// SelectionsFromSnapshot rebuilds the selections stored on an assessment.
func SelectionsFromSnapshot(answers []models.AnswerSnapshot) Selections {
	sel := make(Selections, len(answers))
	for _, a := range answers {
		sel[a.QuestionID] = a.AnswerID
	}
	return sel
}
