package valuation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dealscope/dealscope/internal/models"
	"github.com/dealscope/dealscope/utils"
)

const (
	// WindowSize is the hard ceiling on concurrent single-URL
	// valuations within a batch. It bounds load against upstream
	// listing sites and must not be raised opportunistically.
	WindowSize = 5

	// MaxBatchURLs is the most URLs one batch call accepts after blank
	// entries are dropped.
	MaxBatchURLs = 100
)

// ValueBatch fans urls out to the single-URL pipeline in sequential
// windows of WindowSize. Results keep the positional order of the input;
// one item failing never aborts its siblings.
func (s *Service) ValueBatch(ctx context.Context, urls []string) ([]models.BatchItem, models.BatchSummary, *Error) {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	if len(cleaned) == 0 {
		return nil, models.BatchSummary{}, invalidBatchError("batch contains no usable URLs")
	}
	if len(cleaned) > MaxBatchURLs {
		return nil, models.BatchSummary{},
			invalidBatchError(fmt.Sprintf("batch exceeds the %d URL limit", MaxBatchURLs))
	}

	items := make([]models.BatchItem, len(cleaned))

	for windowIdx, window := range utils.ChunkSlice(cleaned, WindowSize) {
		base := windowIdx * WindowSize

		var wg sync.WaitGroup
		for offset, u := range window {
			wg.Add(1)
			go func(idx int, itemURL string) {
				defer wg.Done()
				items[idx] = s.valueItem(ctx, itemURL)
			}(base+offset, u)
		}
		wg.Wait()
	}

	summary := models.BatchSummary{Total: len(items)}
	for _, item := range items {
		if item.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	return items, summary, nil
}

// valueItem runs one batch member and converts any outcome, panics
// included, into a BatchItem so a fault cannot drop a sibling's slot.
func (s *Service) valueItem(ctx context.Context, itemURL string) (item models.BatchItem) {
	item.URL = itemURL
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("panic valuing %s: %v", itemURL, r)
			item.Success = false
			item.Data = nil
			item.Error = &models.BatchError{Code: CodeInternal, Message: "internal error"}
		}
	}()

	result, _, verr := s.ValueURL(ctx, itemURL)
	if verr != nil {
		item.Error = &models.BatchError{Code: verr.Code, Message: verr.Message}
		return item
	}
	item.Success = true
	item.Data = result
	return item
}
