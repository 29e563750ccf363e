// Package valuation orchestrates the pipeline that turns a listing URL
// into a price verdict: cache check, platform detection, fetch,
// normalization, prediction, deal evaluation, then best-effort cache and
// history writes.
package valuation

import (
	"context"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/cache"
	"github.com/dealscope/dealscope/internal/currency"
	"github.com/dealscope/dealscope/internal/dealquality"
	"github.com/dealscope/dealscope/internal/history"
	"github.com/dealscope/dealscope/internal/models"
	"github.com/dealscope/dealscope/internal/normalizer"
	"github.com/dealscope/dealscope/internal/predictor"
	"github.com/dealscope/dealscope/internal/scraper"
)

// DefaultFetchTimeout bounds one listing fetch, independent of the retry
// backoff inside the fetch client.
const DefaultFetchTimeout = 30 * time.Second

// recordTimeout bounds the best-effort history write.
const recordTimeout = 3 * time.Second

// Dependencies wires the collaborators into a Service. Recorder may be
// nil when history is disabled.
type Dependencies struct {
	Registry     *scraper.Registry
	Cache        *cache.Cache
	Converter    *currency.Converter
	Predictor    predictor.Predictor
	Recorder     history.Recorder
	Logger       *logrus.Logger
	FetchTimeout time.Duration
}

// Service is the single-URL valuation orchestrator.
type Service struct {
	registry     *scraper.Registry
	cache        *cache.Cache
	converter    *currency.Converter
	predictor    predictor.Predictor
	recorder     history.Recorder
	logger       *logrus.Logger
	fetchTimeout time.Duration
}

// NewService creates the orchestrator.
func NewService(deps Dependencies) *Service {
	timeout := deps.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Service{
		registry:     deps.Registry,
		cache:        deps.Cache,
		converter:    deps.Converter,
		predictor:    deps.Predictor,
		recorder:     deps.Recorder,
		logger:       deps.Logger,
		fetchTimeout: timeout,
	}
}

// Registry exposes the platform registry for the platforms and health
// endpoints.
func (s *Service) Registry() *scraper.Registry { return s.registry }

// CacheSize reports live cache entries for the health endpoint.
func (s *Service) CacheSize() int { return s.cache.Size() }

// ValueURL runs the full pipeline for one listing URL. The second return
// is true when the response came from cache without touching the
// upstream site.
func (s *Service) ValueURL(ctx context.Context, rawURL string) (*models.ValuationResult, bool, *Error) {
	u, verr := validateURL(rawURL)
	if verr != nil {
		s.logger.Warnf("rejected url %q: %s", rawURL, verr.Message)
		return nil, false, verr
	}

	key := CanonicalURL(u)
	if entry, ok := s.cache.Get(key); ok {
		result := entry.Result // copy; cached entries are immutable
		return &result, true, nil
	}

	driver, ok := s.registry.Detect(rawURL)
	if !ok {
		s.logger.Warnf("no platform matches %q", rawURL)
		return nil, false, unsupportedPlatformError(s.registry.Platforms())
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	raw, err := driver.Fetch(fetchCtx, rawURL)
	if err != nil {
		verr := fromFetchError(err)
		s.logger.Errorf("[%s] fetch failed for %s: %v", driver.Name(), rawURL, err)
		return nil, false, verr
	}

	listing := normalizer.Normalize(raw)
	result := s.value(listing, driver.Name())

	entry := &cache.Entry{Result: *result, Listing: listing, CreatedAt: time.Now()}
	s.cache.Set(key, entry)

	s.record(ctx, key, listing, result)

	return result, false, nil
}

// value runs the pure tail of the pipeline: currency conversion,
// prediction, and deal evaluation.
func (s *Service) value(listing models.NormalizedListing, platform string) *models.ValuationResult {
	var listingUSD float64
	hasPrice := false
	if listing.HasPrice() {
		if usd, ok := s.converter.ToUSD(listing.Price, listing.Currency); ok && usd > 0 {
			listingUSD = usd
			hasPrice = true
		}
	}

	prediction := s.predict(listing, platform)
	assessment := dealquality.Evaluate(listingUSD, hasPrice, prediction.PredictedPrice)

	result := &models.ValuationResult{
		PredictedPrice:  prediction.PredictedPrice,
		Confidence:      prediction.Confidence,
		PriceRange:      prediction.PriceRange,
		DealQuality:     assessment.Quality,
		DealExplanation: assessment.Explanation,
		MarketPosition:  assessment.MarketPosition,
		Platform:        platform,
		Currency:        "USD",
		Listing:         &listing,
	}
	if hasPrice {
		result.ListingPrice = &listingUSD
		difference := assessment.Difference
		percent := assessment.DifferencePercent
		result.PriceDifference = &difference
		result.DifferencePercent = &percent
	}
	return result
}

// predict calls the predictor and enforces its contract: a finite price
// at or above the floor and a sane confidence and range. Violations are
// clamped and logged, never failed, since the prediction is the product
// even when the model misbehaves.
func (s *Service) predict(listing models.NormalizedListing, platform string) models.Prediction {
	prediction, err := s.predictor.Predict(listing)
	if err != nil {
		s.logger.Warnf("[%s] predictor failed for %s %s: %v, clamping to floor", platform, listing.Make, listing.Model, err)
		prediction = models.Prediction{PredictedPrice: predictor.PriceFloor, Confidence: 0}
	}

	if math.IsNaN(prediction.PredictedPrice) || math.IsInf(prediction.PredictedPrice, 0) ||
		prediction.PredictedPrice < predictor.PriceFloor {
		s.logger.Warnf("[%s] predictor returned out-of-contract price %v, clamping to floor", platform, prediction.PredictedPrice)
		prediction.PredictedPrice = predictor.PriceFloor
	}
	if prediction.Confidence < 0 {
		prediction.Confidence = 0
	}
	if prediction.Confidence > 100 {
		prediction.Confidence = 100
	}
	if prediction.PriceRange.Min <= 0 || prediction.PriceRange.Max < prediction.PredictedPrice {
		spread := prediction.PredictedPrice * 0.15
		prediction.PriceRange = models.PriceRange{
			Min: math.Max(predictor.PriceFloor, prediction.PredictedPrice-spread),
			Max: prediction.PredictedPrice + spread,
		}
	}
	return prediction
}

// record persists the valuation best-effort. A recorder failure is
// logged and swallowed; the response is already computed.
func (s *Service) record(ctx context.Context, url string, listing models.NormalizedListing, result *models.ValuationResult) {
	if s.recorder == nil {
		return
	}
	recordCtx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	record := history.NewRecord(url, listing, result)
	if err := s.recorder.Save(recordCtx, record); err != nil {
		s.logger.Errorf("history write failed for %s: %v", url, err)
	}
}

// validateURL performs the format and scheme checks that run before any
// network activity.
func validateURL(rawURL string) (*url.URL, *Error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, invalidURLError("empty URL")
	}
	if strings.ContainsAny(trimmed, " \t\n") {
		return nil, invalidURLError("URL contains whitespace")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, invalidURLError("malformed URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, invalidURLError("scheme must be http or https")
	}
	if u.Host == "" {
		return nil, invalidURLError("missing host")
	}
	return u, nil
}
