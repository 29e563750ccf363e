package models

import "strings"

// Condition is the canonical vehicle condition scale.
type Condition string

const (
	ConditionNew       Condition = "New"
	ConditionLikeNew   Condition = "Like New"
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionPoor      Condition = "Poor"
)

// ParseCondition maps free-form condition text to the canonical scale.
// Unrecognized values default to Good.
func ParseCondition(s string) Condition {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new", "brand new":
		return ConditionNew
	case "like new", "likenew", "like-new", "certified pre-owned", "cpo":
		return ConditionLikeNew
	case "excellent", "mint":
		return ConditionExcellent
	case "good", "used", "very good":
		return ConditionGood
	case "fair", "average", "acceptable":
		return ConditionFair
	case "poor", "salvage", "for parts", "damaged", "rough":
		return ConditionPoor
	default:
		return ConditionGood
	}
}

// FuelType is the canonical fuel type.
type FuelType string

const (
	FuelGasoline FuelType = "Gasoline"
	FuelDiesel   FuelType = "Diesel"
	FuelHybrid   FuelType = "Hybrid"
	FuelElectric FuelType = "Electric"
	FuelLPG      FuelType = "LPG"
	FuelCNG      FuelType = "CNG"
)

// ParseFuelType maps free-form fuel text to the canonical enum.
// Unrecognized values default to Gasoline.
func ParseFuelType(s string) FuelType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gasoline", "gas", "petrol", "benzine":
		return FuelGasoline
	case "diesel":
		return FuelDiesel
	case "hybrid", "plug-in hybrid", "phev", "hev", "mild hybrid":
		return FuelHybrid
	case "electric", "ev", "bev":
		return FuelElectric
	case "lpg", "autogas":
		return FuelLPG
	case "cng", "natural gas":
		return FuelCNG
	default:
		return FuelGasoline
	}
}

// RawListing is the platform-specific field bag an extraction driver
// produces. Values are kept as scraped; parsing and defaulting happen in
// the normalizer. Fields a platform does not expose stay empty.
type RawListing struct {
	Platform   string
	URL        string
	Title      string
	Make       string
	Model      string
	Year       string
	Mileage    string
	MileageKm  bool // true when Mileage is already in kilometers
	Condition  string
	FuelType   string
	EngineSize string
	Cylinders  string
	Location   string
	Price      string
	Currency   string
	ImageURLs  []string

	// Attributes carries any extra platform-specific key/value pairs the
	// driver found (spec rows, detail tables). Consulted by the normalizer
	// as a fallback for the typed fields above.
	Attributes map[string]string
}

// MaxImageURLs bounds how many listing photos survive normalization.
const MaxImageURLs = 5

// NormalizedListing is the canonical listing schema every platform's raw
// output converges to. Mileage is in kilometers; Price stays in the
// listing's original currency.
type NormalizedListing struct {
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Year       int       `json:"year"`
	Mileage    float64   `json:"mileage"`
	Condition  Condition `json:"condition"`
	FuelType   FuelType  `json:"fuel_type"`
	EngineSize float64   `json:"engine_size"`
	Cylinders  int       `json:"cylinders"`
	Location   string    `json:"location"`
	ImageURLs  []string  `json:"image_urls,omitempty"`
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
}

// HasPrice reports whether the listing carries a usable advertised price.
func (n NormalizedListing) HasPrice() bool {
	return n.Price > 0
}
