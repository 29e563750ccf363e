package models

import "time"

// HistoryRecord is the persisted snapshot of one successful valuation.
// Append-only analytics data; stored in ClickHouse.
type HistoryRecord struct {
	ID              string    `gorm:"column:id;primaryKey" json:"id"`
	URL             string    `gorm:"column:url" json:"url"`
	Platform        string    `gorm:"column:platform" json:"platform"`
	Success         bool      `gorm:"column:success" json:"success"`
	Make            string    `gorm:"column:make" json:"make"`
	Model           string    `gorm:"column:model" json:"model"`
	Year            int       `gorm:"column:year" json:"year"`
	MileageKm       float64   `gorm:"column:mileage_km;type:Float64" json:"mileage_km"`
	Condition       string    `gorm:"column:condition" json:"condition"`
	ListingPriceUSD float64   `gorm:"column:listing_price_usd;type:Float64" json:"listing_price_usd"`
	PredictedPrice  float64   `gorm:"column:predicted_price;type:Float64" json:"predicted_price"`
	Confidence      float64   `gorm:"column:confidence;type:Float64" json:"confidence"`
	DealQuality     string    `gorm:"column:deal_quality" json:"deal_quality"`
	CreatedAt       time.Time `gorm:"column:created_at;type:DateTime;default:now()" json:"created_at"`
}

func (HistoryRecord) TableName() string {
	return "valuation_history"
}

func (HistoryRecord) TableOptions() string {
	return "ENGINE = MergeTree() ORDER BY (created_at, platform)"
}
