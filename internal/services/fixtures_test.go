package services

import (
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/shopspring/decimal"
)

func track(newValue, existingValue float64) models.TrackValues {
	return models.NewTrackValues(decimal.NewFromFloat(newValue), decimal.NewFromFloat(existingValue))
}

func answer(id string, newScore, existingScore float64) models.Answer {
	return models.Answer{AnswerID: id, Text: "answer " + id, Score: track(newScore, existingScore)}
}

// sampleCategories is a two-category questionnaire whose weights total 100
// on both tracks.
func sampleCategories() []models.Category {
	return []models.Category{
		{
			CategoryID:   "fin",
			CategoryName: "Financial",
			Questions: []models.Question{
				{
					QuestionID:     "q1",
					Text:           "Annual turnover",
					ProposedWeight: track(60, 40),
					Answers:        []models.Answer{answer("a1", 80, 70), answer("a2", 20, 10)},
				},
				{
					QuestionID:     "q2",
					Text:           "Debt ratio",
					ProposedWeight: track(40, 30),
					Answers:        []models.Answer{answer("a3", 50, 90), answer("a4", 100, 100)},
				},
			},
		},
		{
			CategoryID:   "beh",
			CategoryName: "Behaviour",
			Questions: []models.Question{
				{
					QuestionID:     "q3",
					Text:           "Repayment history",
					ProposedWeight: track(0, 30),
					Answers:        []models.Answer{answer("a5", 0, 100), answer("a6", 0, 0)},
				},
			},
		},
	}
}

func sampleContent(name string) TemplateContent {
	return TemplateContent{Name: name, Description: "SME questionnaire", Categories: sampleCategories()}
}
