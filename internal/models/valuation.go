package models

// DealQuality is the verdict comparing advertised price to predicted value.
type DealQuality string

const (
	DealGood    DealQuality = "Good"
	DealFair    DealQuality = "Fair"
	DealPoor    DealQuality = "Poor"
	DealUnknown DealQuality = "Unknown"
)

// MarketPosition describes where the advertised price sits relative to the
// predicted market value.
type MarketPosition string

const (
	PositionBelowAverage MarketPosition = "Below Average"
	PositionAverage      MarketPosition = "Average"
	PositionAboveAverage MarketPosition = "Above Average"
	PositionUnknown      MarketPosition = "Unknown"
)

// PriceRange is the advisory band around a predicted price.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Prediction is what a price predictor returns for one set of features.
type Prediction struct {
	PredictedPrice float64
	Confidence     float64
	PriceRange     PriceRange
}

// DealAssessment is the output of the deal quality evaluator.
type DealAssessment struct {
	Quality           DealQuality
	Explanation       string
	MarketPosition    MarketPosition
	Difference        float64
	DifferencePercent float64
}

// ValuationResult is the client-facing outcome of valuing one listing URL.
// All monetary fields are USD.
type ValuationResult struct {
	PredictedPrice    float64            `json:"predicted_price"`
	Confidence        float64            `json:"confidence"`
	PriceRange        PriceRange         `json:"price_range"`
	DealQuality       DealQuality        `json:"deal_quality"`
	DealExplanation   string             `json:"deal_explanation"`
	MarketPosition    MarketPosition     `json:"market_position"`
	ListingPrice      *float64           `json:"listing_price,omitempty"`
	PriceDifference   *float64           `json:"price_difference,omitempty"`
	DifferencePercent *float64           `json:"difference_percent,omitempty"`
	Platform          string             `json:"platform"`
	Currency          string             `json:"currency"`
	Listing           *NormalizedListing `json:"listing,omitempty"`
}

// BatchError is the per-item failure payload in a batch response.
type BatchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchItem pairs one input URL with its valuation outcome. Exactly one of
// Data and Error is set.
type BatchItem struct {
	URL     string           `json:"url"`
	Success bool             `json:"success"`
	Data    *ValuationResult `json:"data,omitempty"`
	Error   *BatchError      `json:"error,omitempty"`
}

// BatchSummary aggregates a batch run; Total == Successful + Failed.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}
