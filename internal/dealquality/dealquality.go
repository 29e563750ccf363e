// Package dealquality compares an advertised price against a predicted
// fair price and renders a verdict.
package dealquality

import (
	"fmt"
	"math"

	"github.com/dealscope/dealscope/internal/models"
)

// Threshold is the percentage band around the predicted price that still
// counts as a Fair deal. At or below -Threshold is Good, above +Threshold
// is Poor; both boundaries are inclusive on the lower side.
const Threshold = 10.0

// Evaluate produces the deal verdict for a listing priced at
// listingPriceUSD against predictedPrice. hasPrice is false when the
// listing carries no usable advertised price.
func Evaluate(listingPriceUSD float64, hasPrice bool, predictedPrice float64) models.DealAssessment {
	if !hasPrice || listingPriceUSD <= 0 || predictedPrice <= 0 {
		return models.DealAssessment{
			Quality:        models.DealUnknown,
			Explanation:    "No listing price available",
			MarketPosition: models.PositionUnknown,
		}
	}

	difference := listingPriceUSD - predictedPrice
	percent := difference / predictedPrice * 100

	assessment := models.DealAssessment{
		Difference:        difference,
		DifferencePercent: percent,
	}

	switch {
	case percent <= -Threshold:
		assessment.Quality = models.DealGood
		assessment.MarketPosition = models.PositionBelowAverage
		assessment.Explanation = fmt.Sprintf("Listed %.1f%% below predicted value", math.Abs(percent))
	case percent <= Threshold:
		assessment.Quality = models.DealFair
		assessment.MarketPosition = models.PositionAverage
		assessment.Explanation = fmt.Sprintf("Listed within %.1f%% of predicted value", math.Abs(percent))
	default:
		assessment.Quality = models.DealPoor
		assessment.MarketPosition = models.PositionAboveAverage
		assessment.Explanation = fmt.Sprintf("Overpriced by %.1f%% versus predicted value", percent)
	}

	return assessment
}
