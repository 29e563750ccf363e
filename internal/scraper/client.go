package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/dealscope/dealscope/internal/faulttolerance"
)

const (
	// maxBodyBytes caps how much of a listing page is read. Marketplace
	// pages are large but anything past this is not listing data.
	maxBodyBytes = 5 << 20

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
)

// ClientConfig holds the shared fetch client settings.
type ClientConfig struct {
	UserAgent         string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
	Retry             faulttolerance.RetryConfig
	Breaker           faulttolerance.CircuitBreakerConfig
}

// DefaultClientConfig returns fetch settings polite enough for listing
// sites: 1 req/s sustained with a small burst, 10s request timeout.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		UserAgent:         defaultUserAgent,
		RequestTimeout:    10 * time.Second,
		RequestsPerSecond: 1,
		Burst:             3,
		Retry:             faulttolerance.DefaultRetryConfig("fetch"),
		Breaker:           faulttolerance.CircuitBreakerConfig{MaxFailures: 5, Timeout: 60 * time.Second},
	}
}

// Client is the HTTP fetch client all drivers share. It owns the outbound
// rate limit, retry/backoff, and one circuit breaker per platform, so
// adding a driver never adds a new place to get politeness wrong.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	retryer    *faulttolerance.Retryer
	logger     *logrus.Logger
	cfg        *ClientConfig

	mu       sync.Mutex
	breakers map[string]*faulttolerance.CircuitBreaker
}

// NewClient creates the shared fetch client.
func NewClient(cfg *ClientConfig, logger *logrus.Logger) *Client {
	if cfg == nil {
		cfg = DefaultClientConfig()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	retryCfg := cfg.Retry
	retryCfg.ShouldRetry = func(err error) bool {
		if errors.Is(err, faulttolerance.ErrCircuitOpen) {
			return false
		}
		return KindOf(err).Retryable()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		retryer:    faulttolerance.NewRetryer(retryCfg, logger),
		logger:     logger,
		cfg:        cfg,
		breakers:   make(map[string]*faulttolerance.CircuitBreaker),
	}
}

// FetchPage downloads rawURL on behalf of platform, applying the rate
// limit, retry with backoff, and the platform's circuit breaker. All
// failures are *Error values.
func (c *Client) FetchPage(ctx context.Context, platform, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, c.classifyCtxErr(platform, rawURL, err)
	}

	breaker := c.breakerFor(platform)

	var body []byte
	err := c.retryer.ExecuteWithCircuitBreaker(ctx, breaker, func() error {
		b, reqErr := c.doRequest(ctx, platform, rawURL)
		if reqErr != nil {
			return reqErr
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, c.normalizeErr(platform, rawURL, err)
	}
	return body, nil
}

// FetchDocument downloads rawURL and parses it as HTML.
func (c *Client) FetchDocument(ctx context.Context, platform, rawURL string) (*goquery.Document, error) {
	body, err := c.FetchPage(ctx, platform, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, NewError(KindScraping, platform, rawURL, fmt.Errorf("parsing html: %w", err))
	}
	return doc, nil
}

func (c *Client) doRequest(ctx context.Context, platform, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, NewError(KindScraping, platform, rawURL, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classifyTransportErr(platform, rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, NewHTTPError(KindNotFound, platform, rawURL, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return nil, NewHTTPError(KindRateLimited, platform, rawURL, resp.StatusCode)
	default:
		return nil, NewHTTPError(KindUpstreamHTTP, platform, rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, NewError(KindConnection, platform, rawURL, fmt.Errorf("reading body: %w", err))
	}
	return body, nil
}

func (c *Client) breakerFor(platform string) *faulttolerance.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	cb, ok := c.breakers[platform]
	if !ok {
		cfg := c.cfg.Breaker
		cfg.Name = platform
		cb = faulttolerance.NewCircuitBreaker(cfg, c.logger)
		c.breakers[platform] = cb
	}
	return cb
}

// classifyTransportErr maps net/http transport failures into the taxonomy.
func (c *Client) classifyTransportErr(platform, rawURL string, err error) *Error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return NewError(KindTimeout, platform, rawURL, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindTimeout, platform, rawURL, err)
	}
	return NewError(KindConnection, platform, rawURL, err)
}

func (c *Client) classifyCtxErr(platform, rawURL string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindTimeout, platform, rawURL, err)
	}
	return NewError(KindScraping, platform, rawURL, err)
}

// normalizeErr guarantees callers always see a *Error even when the
// retryer or breaker contributed the failure.
func (c *Client) normalizeErr(platform, rawURL string, err error) error {
	if _, ok := AsError(err); ok {
		return err
	}
	if errors.Is(err, faulttolerance.ErrCircuitOpen) {
		return NewError(KindConnection, platform, rawURL, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindTimeout, platform, rawURL, err)
	}
	return NewError(KindScraping, platform, rawURL, err)
}
