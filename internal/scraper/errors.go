package scraper

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fetch-layer failure. Every error escaping a
// driver carries exactly one kind; the valuation layer maps kinds to
// client-facing status codes.
type ErrorKind string

const (
	KindTimeout      ErrorKind = "timeout"           // fetch exceeded its bound
	KindConnection   ErrorKind = "connection_failed" // upstream unreachable
	KindNotFound     ErrorKind = "listing_not_found" // listing removed or expired
	KindRateLimited  ErrorKind = "rate_limited"      // upstream throttling detected
	KindUpstreamHTTP ErrorKind = "upstream_error"    // any other non-2xx response
	KindValidation   ErrorKind = "invalid_listing"   // fetched page failed shape checks
	KindScraping     ErrorKind = "scraping_failed"   // uncategorized extraction failure
)

// Error is the typed failure produced by the fetch layer.
type Error struct {
	Kind     ErrorKind
	Platform string
	URL      string
	Status   int // upstream HTTP status, when one was received
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s fetch failed (%s)", e.Platform, e.URL, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s, status %d", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a typed fetch error.
func NewError(kind ErrorKind, platform, url string, err error) *Error {
	return &Error{Kind: kind, Platform: platform, URL: url, Err: err}
}

// NewHTTPError builds a typed fetch error carrying the upstream status.
func NewHTTPError(kind ErrorKind, platform, url string, status int) *Error {
	return &Error{Kind: kind, Platform: platform, URL: url, Status: status}
}

// AsError extracts the typed fetch error from an error chain. Errors
// without one are uncategorized scrape failures.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// KindOf returns the taxonomy kind for err, defaulting to KindScraping
// for anything the fetch layer did not classify.
func KindOf(err error) ErrorKind {
	if se, ok := AsError(err); ok {
		return se.Kind
	}
	return KindScraping
}

// Retryable reports whether a failure of this kind is worth retrying.
// Missing listings and malformed pages do not get better on retry.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindTimeout, KindConnection, KindRateLimited, KindUpstreamHTTP:
		return true
	default:
		return false
	}
}
