package valuation

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dealscope/dealscope/internal/scraper"
)

// Stable machine-readable error codes surfaced to clients.
const (
	CodeInvalidURL          = "invalid_url"
	CodeUnsupportedPlatform = "unsupported_platform"
	CodeInvalidBatch        = "invalid_batch"
	CodeTimeout             = "timeout"
	CodeConnectionFailed    = "connection_failed"
	CodeListingNotFound     = "listing_not_found"
	CodeRateLimited         = "rate_limited"
	CodeUpstreamError       = "upstream_error"
	CodeInvalidListing      = "invalid_listing"
	CodeScrapingFailed      = "scraping_failed"
	CodeInternal            = "internal_error"
)

// Error is the client-facing failure of one valuation. Nothing below the
// orchestrator boundary leaks a transport or library error type past it.
type Error struct {
	Status    int      // HTTP status to surface
	Code      string   // stable machine-readable code
	Message   string   // human-readable message
	Platforms []string // set for unsupported_platform responses
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalidURLError(reason string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidURL,
		Message: "invalid listing URL: " + reason,
	}
}

func unsupportedPlatformError(platforms []string) *Error {
	return &Error{
		Status:    http.StatusBadRequest,
		Code:      CodeUnsupportedPlatform,
		Message:   "no scraper supports this URL; supported platforms: " + strings.Join(platforms, ", "),
		Platforms: platforms,
	}
}

func invalidBatchError(message string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidBatch,
		Message: message,
	}
}

func internalError(message string) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: message,
	}
}

// fromFetchError maps the fetch-layer taxonomy onto client-facing status
// codes. Unclassified failures surface as 500s.
func fromFetchError(err error) *Error {
	kind := scraper.KindOf(err)

	var status int
	var code string
	switch kind {
	case scraper.KindTimeout:
		status, code = http.StatusRequestTimeout, CodeTimeout
	case scraper.KindConnection:
		status, code = http.StatusServiceUnavailable, CodeConnectionFailed
	case scraper.KindNotFound:
		status, code = http.StatusNotFound, CodeListingNotFound
	case scraper.KindRateLimited:
		status, code = http.StatusTooManyRequests, CodeRateLimited
	case scraper.KindUpstreamHTTP:
		status, code = http.StatusBadGateway, CodeUpstreamError
	case scraper.KindValidation:
		status, code = http.StatusBadRequest, CodeInvalidListing
	default:
		status, code = http.StatusInternalServerError, CodeScrapingFailed
	}

	message := humanMessage(kind)
	return &Error{Status: status, Code: code, Message: message}
}

func humanMessage(kind scraper.ErrorKind) string {
	switch kind {
	case scraper.KindTimeout:
		return "fetching the listing timed out"
	case scraper.KindConnection:
		return "the listing site could not be reached"
	case scraper.KindNotFound:
		return "the listing no longer exists or has expired"
	case scraper.KindRateLimited:
		return "the listing site is throttling requests, try again later"
	case scraper.KindUpstreamHTTP:
		return "the listing site returned an unexpected response"
	case scraper.KindValidation:
		return "the listing page did not contain usable vehicle data"
	default:
		return "extracting the listing failed"
	}
}
