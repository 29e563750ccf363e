// Package scraper defines the extraction-strategy interface every
// marketplace driver implements, the registry that dispatches a listing
// URL to the right driver, and the shared HTTP fetch client the drivers
// go through.
package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/dealscope/dealscope/internal/models"
)

// Scraper is implemented by every marketplace extraction driver.
type Scraper interface {
	// Name is the stable platform identifier (lowercase, e.g. "autotrader").
	Name() string

	// Match reports whether this driver handles listings at u.
	// Pure; no I/O.
	Match(u *url.URL) bool

	// Fetch downloads and extracts one listing. Failures are *Error
	// values from this package.
	Fetch(ctx context.Context, rawURL string) (*models.RawListing, error)
}

// Registry maps listing URLs to drivers. First match wins, so drivers
// with narrower host patterns should be registered first.
type Registry struct {
	scrapers []Scraper
}

// NewRegistry creates a registry over the given drivers.
func NewRegistry(scrapers ...Scraper) *Registry {
	return &Registry{scrapers: scrapers}
}

// Detect returns the driver for rawURL, or false when no driver matches
// or the URL does not parse. Pure; never touches the network.
func (r *Registry) Detect(rawURL string) (Scraper, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, false
	}
	for _, s := range r.scrapers {
		if s.Match(u) {
			return s, true
		}
	}
	return nil, false
}

// Platforms returns the names of all registered drivers in registration
// order.
func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.scrapers))
	for _, s := range r.scrapers {
		names = append(names, s.Name())
	}
	return names
}

// Size returns the number of registered drivers.
func (r *Registry) Size() int {
	return len(r.scrapers)
}

// HostMatches reports whether host equals domain or is a subdomain of it.
// Shared by driver Match implementations.
func HostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
