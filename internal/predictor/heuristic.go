package predictor

import (
	"math"
	"strings"
	"time"

	"github.com/dealscope/dealscope/internal/models"
)

// segmentBase maps manufacturers to a new-vehicle base price for the
// depreciation curve. Coarse by design; the statistical model behind the
// Predictor interface owns real accuracy.
var segmentBase = map[string]float64{
	"toyota": 32000, "honda": 31000, "mazda": 29000, "subaru": 31000,
	"nissan": 28000, "hyundai": 27000, "kia": 26000, "volkswagen": 30000,
	"ford": 34000, "chevrolet": 33000, "dodge": 35000, "ram": 42000,
	"jeep": 38000, "gmc": 44000, "bmw": 55000, "mercedes-benz": 58000,
	"audi": 52000, "lexus": 50000, "acura": 42000, "infiniti": 44000,
	"volvo": 48000, "porsche": 95000, "tesla": 55000, "land rover": 70000,
}

const defaultBase = 28000

// conditionFactor scales the depreciated value by condition.
var conditionFactor = map[models.Condition]float64{
	models.ConditionNew:       1.15,
	models.ConditionLikeNew:   1.05,
	models.ConditionExcellent: 1.00,
	models.ConditionGood:      0.92,
	models.ConditionFair:      0.80,
	models.ConditionPoor:      0.60,
}

// fuelFactor nudges value for drivetrain desirability.
var fuelFactor = map[models.FuelType]float64{
	models.FuelElectric: 1.10,
	models.FuelHybrid:   1.05,
}

// Heuristic is a depreciation-curve model implementing Predictor. It is
// the default collaborator when no trained model is wired in.
type Heuristic struct {
	now func() time.Time
}

// NewHeuristic creates the default heuristic model.
func NewHeuristic() *Heuristic {
	return &Heuristic{now: time.Now}
}

// Predict estimates a fair price from age, mileage, condition, fuel
// type, and engine size.
func (h *Heuristic) Predict(listing models.NormalizedListing) (models.Prediction, error) {
	base, knownMake := segmentBase[strings.ToLower(listing.Make)]
	if !knownMake {
		base = defaultBase
	}

	age := h.age(listing.Year)
	value := base * math.Pow(0.87, math.Min(age, 25))

	// Mileage penalty relative to ~16,000 km/year; worn-out odometers
	// converge toward 40% of the depreciated value.
	if listing.Mileage > 0 {
		wear := listing.Mileage / 300000
		value *= math.Max(0.4, 1-wear*0.6)
	}

	value *= conditionFactor[listing.Condition]
	if f, ok := fuelFactor[listing.FuelType]; ok {
		value *= f
	}

	// Larger engines carry a mild premium in the used market.
	value *= 1 + (listing.EngineSize-2.0)*0.04

	if value < PriceFloor || math.IsNaN(value) || math.IsInf(value, 0) {
		value = PriceFloor
	}

	confidence := h.confidence(listing, knownMake)
	margin := value * (0.35 - confidence*0.0025)

	return models.Prediction{
		PredictedPrice: math.Round(value),
		Confidence:     confidence,
		PriceRange: models.PriceRange{
			Min: math.Max(PriceFloor, math.Round(value-margin)),
			Max: math.Round(value + margin),
		},
	}, nil
}

func (h *Heuristic) age(year int) float64 {
	if year == 0 {
		return 8 // unknown model year, assume mid-life
	}
	age := float64(h.now().Year() - year)
	if age < 0 {
		return 0
	}
	return age
}

// confidence grows with the number of real features the listing carried.
func (h *Heuristic) confidence(listing models.NormalizedListing, knownMake bool) float64 {
	confidence := 40.0
	if knownMake {
		confidence += 15
	}
	if listing.Year != 0 {
		confidence += 15
	}
	if listing.Mileage > 0 {
		confidence += 15
	}
	if listing.Model != "" {
		confidence += 5
	}
	if confidence > 95 {
		confidence = 95
	}
	return confidence
}
