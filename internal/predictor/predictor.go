// Package predictor defines the price-prediction contract consumed by
// the valuation pipeline and ships a heuristic default model.
package predictor

import (
	"github.com/dealscope/dealscope/internal/models"
)

// PriceFloor is the minimum a prediction may come back as. The pipeline
// clamps anything below it (including non-finite garbage) instead of
// failing the request.
const PriceFloor = 500.0

// Predictor estimates a fair market price for a normalized listing.
// Confidence is 0-100 and the range is advisory; neither alters control
// flow upstream.
type Predictor interface {
	Predict(listing models.NormalizedListing) (models.Prediction, error)
}
