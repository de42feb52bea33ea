package services

import (
	"errors"
	"testing"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/shopspring/decimal"
)

func TestComputeScores_SingleCategory(t *testing.T) {
	categories := []models.Category{{
		CategoryID:   "c1",
		CategoryName: "Only",
		Questions: []models.Question{
			{QuestionID: "q1", Text: "first", ProposedWeight: track(60, 0), Answers: []models.Answer{answer("a", 80, 0)}},
			{QuestionID: "q2", Text: "second", ProposedWeight: track(40, 0), Answers: []models.Answer{answer("b", 50, 0)}},
		},
	}}

	result, err := ComputeScores(categories, models.CustomerTypeNew, Selections{"q1": "a", "q2": "b"})
	if err != nil {
		t.Fatalf("ComputeScores() error = %v", err)
	}
	if !result.TotalScore.Equal(decimal.NewFromInt(68)) {
		t.Errorf("TotalScore = %s, expected 68", result.TotalScore)
	}
	if result.Rating != RatingB {
		t.Errorf("Rating = %q, expected %q", result.Rating, RatingB)
	}
	if len(result.CategoryScores) != 1 || !result.CategoryScores[0].Score.Equal(decimal.NewFromInt(68)) {
		t.Errorf("CategoryScores = %+v, expected one category scoring 68", result.CategoryScores)
	}
}

func TestComputeScores_UsesCustomerTypeTrack(t *testing.T) {
	selections := Selections{"q1": "a1", "q2": "a3", "q3": "a5"}

	tests := []struct {
		customerType models.CustomerType
		fin          string
		beh          string
		total        string
		rating       Rating
	}{
		// new: 80*60/100 + 50*40/100 = 68, q3 weight 0
		{models.CustomerTypeNew, "68", "0", "68", RatingB},
		// existing: 70*40/100 + 90*30/100 = 55, 100*30/100 = 30
		{models.CustomerTypeExisting, "55", "30", "85", RatingA},
	}

	for _, tt := range tests {
		t.Run(string(tt.customerType), func(t *testing.T) {
			result, err := ComputeScores(sampleCategories(), tt.customerType, selections)
			if err != nil {
				t.Fatalf("ComputeScores() error = %v", err)
			}
			if got := result.CategoryScores[0].Score; !got.Equal(decimal.RequireFromString(tt.fin)) {
				t.Errorf("fin score = %s, expected %s", got, tt.fin)
			}
			if got := result.CategoryScores[1].Score; !got.Equal(decimal.RequireFromString(tt.beh)) {
				t.Errorf("beh score = %s, expected %s", got, tt.beh)
			}
			if !result.TotalScore.Equal(decimal.RequireFromString(tt.total)) {
				t.Errorf("TotalScore = %s, expected %s", result.TotalScore, tt.total)
			}
			if result.Rating != tt.rating {
				t.Errorf("Rating = %q, expected %q", result.Rating, tt.rating)
			}
		})
	}
}

func TestComputeScores_TotalIsSumOfCategories(t *testing.T) {
	result, err := ComputeScores(sampleCategories(), models.CustomerTypeExisting, Selections{"q1": "a2", "q2": "a4", "q3": "a6"})
	if err != nil {
		t.Fatalf("ComputeScores() error = %v", err)
	}
	sum := decimal.Zero
	for _, c := range result.CategoryScores {
		sum = sum.Add(c.Score)
	}
	if !sum.Equal(result.TotalScore) {
		t.Errorf("sum of categories = %s, TotalScore = %s", sum, result.TotalScore)
	}
	if len(result.Answers) != 3 {
		t.Errorf("Answers length = %d, expected 3", len(result.Answers))
	}
}

func TestComputeScores_ScalesLinearlyWithWeight(t *testing.T) {
	build := func(weight float64) []models.Category {
		return []models.Category{{
			CategoryID: "c", CategoryName: "C",
			Questions: []models.Question{{
				QuestionID: "q", Text: "q", ProposedWeight: track(weight, weight),
				Answers: []models.Answer{answer("a", 73, 73)},
			}},
		}}
	}

	base, err := ComputeScores(build(10), models.CustomerTypeNew, Selections{"q": "a"})
	if err != nil {
		t.Fatalf("ComputeScores() error = %v", err)
	}
	doubled, err := ComputeScores(build(20), models.CustomerTypeNew, Selections{"q": "a"})
	if err != nil {
		t.Fatalf("ComputeScores() error = %v", err)
	}
	if !doubled.TotalScore.Equal(base.TotalScore.Mul(decimal.NewFromInt(2))) {
		t.Errorf("doubling the weight gave %s, expected %s", doubled.TotalScore, base.TotalScore.Mul(decimal.NewFromInt(2)))
	}
}

func TestComputeScores_Deterministic(t *testing.T) {
	selections := Selections{"q1": "a2", "q2": "a3", "q3": "a6"}

	for _, customerType := range []models.CustomerType{models.CustomerTypeNew, models.CustomerTypeExisting} {
		t.Run(string(customerType), func(t *testing.T) {
			first, err := ComputeScores(sampleCategories(), customerType, selections)
			if err != nil {
				t.Fatalf("ComputeScores() error = %v", err)
			}
			second, err := ComputeScores(sampleCategories(), customerType, selections)
			if err != nil {
				t.Fatalf("ComputeScores() error = %v", err)
			}

			if !first.TotalScore.Equal(second.TotalScore) {
				t.Errorf("TotalScore = %s, expected %s", second.TotalScore, first.TotalScore)
			}
			if first.Rating != second.Rating {
				t.Errorf("Rating = %q, expected %q", second.Rating, first.Rating)
			}
			if len(first.CategoryScores) != len(second.CategoryScores) {
				t.Fatalf("len(CategoryScores) = %d, expected %d", len(second.CategoryScores), len(first.CategoryScores))
			}
			for i, c := range first.CategoryScores {
				got := second.CategoryScores[i]
				if got.CategoryID != c.CategoryID || got.CategoryName != c.CategoryName || !got.Score.Equal(c.Score) {
					t.Errorf("CategoryScores[%d] = %+v, expected %+v", i, got, c)
				}
			}
			if len(first.Answers) != len(second.Answers) {
				t.Fatalf("len(Answers) = %d, expected %d", len(second.Answers), len(first.Answers))
			}
			for i, a := range first.Answers {
				got := second.Answers[i]
				if got.CategoryID != a.CategoryID || got.QuestionID != a.QuestionID || got.QuestionText != a.QuestionText ||
					got.AnswerID != a.AnswerID || got.AnswerText != a.AnswerText ||
					!got.Score.Equal(a.Score) || !got.Weight.Equal(a.Weight) {
					t.Errorf("Answers[%d] = %+v, expected %+v", i, got, a)
				}
			}
		})
	}
}

func TestComputeScores_NoCategories(t *testing.T) {
	result, err := ComputeScores(nil, models.CustomerTypeNew, Selections{})
	if err != nil {
		t.Fatalf("ComputeScores() error = %v", err)
	}
	if !result.TotalScore.IsZero() {
		t.Errorf("TotalScore = %s, expected 0", result.TotalScore)
	}
	if result.Rating != RatingD {
		t.Errorf("Rating = %q, expected %q", result.Rating, RatingD)
	}
}

func TestComputeScores_Errors(t *testing.T) {
	tests := []struct {
		name         string
		customerType models.CustomerType
		selections   Selections
		message      string
		fields       []string
	}{
		{
			name:         "invalid customer type",
			customerType: "corporate",
			selections:   Selections{"q1": "a1", "q2": "a3", "q3": "a5"},
			message:      "invalid customer type",
		},
		{
			name:         "unanswered",
			customerType: models.CustomerTypeNew,
			selections:   Selections{"q2": "a3"},
			message:      "unanswered questions",
			fields:       []string{"q1", "q3"},
		},
		{
			name:         "unknown question",
			customerType: models.CustomerTypeNew,
			selections:   Selections{"q1": "a1", "q2": "a3", "q3": "a5", "zz": "a1", "q9": "a1"},
			message:      "unknown question ids",
			fields:       []string{"q9", "zz"},
		},
		{
			name:         "answer from another question",
			customerType: models.CustomerTypeNew,
			selections:   Selections{"q1": "a3", "q2": "a3", "q3": "a5"},
			message:      "answer does not belong to question",
			fields:       []string{"q1=a3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeScores(sampleCategories(), tt.customerType, tt.selections)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, expected ValidationError", err)
			}
			if verr.Message != tt.message {
				t.Errorf("Message = %q, expected %q", verr.Message, tt.message)
			}
			if tt.fields == nil {
				return
			}
			if len(verr.Fields) != len(tt.fields) {
				t.Fatalf("Fields = %v, expected %v", verr.Fields, tt.fields)
			}
			for i := range tt.fields {
				if verr.Fields[i] != tt.fields[i] {
					t.Errorf("Fields[%d] = %q, expected %q", i, verr.Fields[i], tt.fields[i])
				}
			}
		})
	}
}

func TestScoreResult_Display(t *testing.T) {
	categories := []models.Category{{
		CategoryID: "c", CategoryName: "C",
		Questions: []models.Question{{
			QuestionID: "q", Text: "q", ProposedWeight: track(33.333, 33.333),
			Answers: []models.Answer{answer("a", 100, 100)},
		}},
	}}

	result, err := ComputeScores(categories, models.CustomerTypeNew, Selections{"q": "a"})
	if err != nil {
		t.Fatalf("ComputeScores() error = %v", err)
	}
	if !result.TotalScore.Equal(decimal.RequireFromString("33.333")) {
		t.Errorf("TotalScore = %s, expected full precision 33.333", result.TotalScore)
	}

	display := result.Display()
	if display.TotalScore != "33.33" {
		t.Errorf("Display().TotalScore = %q, expected %q", display.TotalScore, "33.33")
	}
	if display.CategoryScores["c"] != "33.33" {
		t.Errorf("Display().CategoryScores[c] = %q, expected %q", display.CategoryScores["c"], "33.33")
	}
}

func TestSelectionsFromSnapshot(t *testing.T) {
	selections := Selections{"q1": "a2", "q2": "a4", "q3": "a6"}
	result, err := ComputeScores(sampleCategories(), models.CustomerTypeNew, selections)
	if err != nil {
		t.Fatalf("ComputeScores() error = %v", err)
	}

	got := SelectionsFromSnapshot(result.Answers)
	for qid, aid := range selections {
		if got[qid] != aid {
			t.Errorf("selection[%s] = %q, expected %q", qid, got[qid], aid)
		}
	}
}
