// Package history records completed valuations. Every recorder is
// best-effort: a failed write is logged and never surfaces to the
// request that produced it.
package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/dealscope/dealscope/internal/models"
	"github.com/dealscope/dealscope/internal/repository"
)

// Recorder persists one valuation outcome.
type Recorder interface {
	Save(ctx context.Context, record *models.HistoryRecord) error
}

// NewRecord builds a history record from a finished valuation.
func NewRecord(url string, listing models.NormalizedListing, result *models.ValuationResult) *models.HistoryRecord {
	record := &models.HistoryRecord{
		ID:             uuid.NewString(),
		URL:            url,
		Platform:       result.Platform,
		Success:        true,
		Make:           listing.Make,
		Model:          listing.Model,
		Year:           listing.Year,
		MileageKm:      listing.Mileage,
		Condition:      string(listing.Condition),
		PredictedPrice: result.PredictedPrice,
		Confidence:     result.Confidence,
		DealQuality:    string(result.DealQuality),
	}
	if result.ListingPrice != nil {
		record.ListingPriceUSD = *result.ListingPrice
	}
	return record
}

// StoreRecorder writes records through the valuation repository.
type StoreRecorder struct {
	repo repository.ValuationRepository
}

func NewStoreRecorder(repo repository.ValuationRepository) *StoreRecorder {
	return &StoreRecorder{repo: repo}
}

func (r *StoreRecorder) Save(ctx context.Context, record *models.HistoryRecord) error {
	return r.repo.Insert(ctx, record)
}

// Fanout saves to every recorder, returning the first error after all
// have been attempted.
type Fanout []Recorder

func (f Fanout) Save(ctx context.Context, record *models.HistoryRecord) error {
	var firstErr error
	for _, recorder := range f {
		if err := recorder.Save(ctx, record); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
