package services

import "github.com/shopspring/decimal"

type Rating string

const (
	RatingAPlus  Rating = "A+"
	RatingA      Rating = "A"
	RatingAMinus Rating = "A-"
	RatingB      Rating = "B"
	RatingCPlus  Rating = "C+"
	RatingC      Rating = "C"
	RatingCMinus Rating = "C-"
	RatingD      Rating = "D"
)

type ratingBand struct {
	min    decimal.Decimal
	rating Rating
}

// Inclusive lower bounds, highest first.
var ratingBands = []ratingBand{
	{decimal.NewFromInt(90), RatingAPlus},
	{decimal.NewFromInt(80), RatingA},
	{decimal.NewFromInt(70), RatingAMinus},
	{decimal.NewFromInt(60), RatingB},
	{decimal.NewFromInt(50), RatingCPlus},
	{decimal.NewFromInt(40), RatingC},
	{decimal.NewFromInt(30), RatingCMinus},
}

// ClassifyRating maps a total score to its letter grade. Scores outside
// [0, 100] still classify: above 100 is A+, below 30 (negatives included) is D.
func ClassifyRating(score decimal.Decimal) Rating {
	for _, band := range ratingBands {
		if score.GreaterThanOrEqual(band.min) {
			return band.rating
		}
	}
	return RatingD
}

// Ratings returns every grade from best to worst.
func Ratings() []Rating {
	out := make([]Rating, 0, len(ratingBands)+1)
	for _, band := range ratingBands {
		out = append(out, band.rating)
	}
	return append(out, RatingD)
}
