// Package carvana extracts listings from carvana.com vehicle pages.
// Carvana publishes its inventory as schema.org Product offers.
package carvana

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/models"
	"github.com/dealscope/dealscope/internal/scraper"
)

const platformName = "carvana"

// mileageRe captures "12,345 miles" fragments from the detail header.
var mileageRe = regexp.MustCompile(`([\d,]+)\s*miles`)

type Scraper struct {
	client *scraper.Client
	logger *logrus.Logger
}

func New(client *scraper.Client, logger *logrus.Logger) *Scraper {
	return &Scraper{client: client, logger: logger}
}

func (s *Scraper) Name() string { return platformName }

func (s *Scraper) Match(u *url.URL) bool {
	return scraper.HostMatches(u.Host, "carvana.com") &&
		strings.Contains(u.Path, "/vehicle/")
}

func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*models.RawListing, error) {
	doc, err := s.client.FetchDocument(ctx, platformName, rawURL)
	if err != nil {
		return nil, err
	}

	ld, ok := scraper.FindVehicleLD(doc)
	if !ok {
		return nil, scraper.NewError(scraper.KindValidation, platformName, rawURL,
			errors.New("page carries no product data"))
	}
	raw := scraper.ExtractVehicleLD(ld, platformName, rawURL)

	// Carvana inventory is used by definition; the Product node rarely
	// says so.
	if raw.Condition == "" {
		raw.Condition = "used"
	}
	if raw.Mileage == "" {
		header := scraper.SelectorText(doc, `[data-qa="vehicle-mileage"]`)
		if m := mileageRe.FindStringSubmatch(header); m != nil {
			raw.Mileage = m[1]
		}
	}

	s.logger.Debugf("[%s] extracted %q", platformName, raw.Title)
	return raw, nil
}
