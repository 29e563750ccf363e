// Package truecar extracts listings from truecar.com used-car detail
// pages via their data-test annotated markup.
package truecar

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/models"
	"github.com/dealscope/dealscope/internal/scraper"
)

const platformName = "truecar"

type Scraper struct {
	client *scraper.Client
	logger *logrus.Logger
}

func New(client *scraper.Client, logger *logrus.Logger) *Scraper {
	return &Scraper{client: client, logger: logger}
}

func (s *Scraper) Name() string { return platformName }

func (s *Scraper) Match(u *url.URL) bool {
	return scraper.HostMatches(u.Host, "truecar.com") &&
		strings.Contains(u.Path, "/used-cars-for-sale/listing/")
}

func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*models.RawListing, error) {
	doc, err := s.client.FetchDocument(ctx, platformName, rawURL)
	if err != nil {
		return nil, err
	}

	raw := &models.RawListing{
		Platform:   platformName,
		URL:        rawURL,
		Title:      scraper.SelectorText(doc, `[data-test="marketplaceVdpHeader"] h1`),
		Price:      scraper.SelectorText(doc, `[data-test="unifiedPricingInfoPrice"]`),
		Mileage:    scraper.SelectorText(doc, `[data-test="vdpOverviewMileage"]`),
		FuelType:   scraper.SelectorText(doc, `[data-test="vdpOverviewFuelType"]`),
		Location:   scraper.SelectorText(doc, `[data-test="vdpDealerLocation"]`),
		Attributes: map[string]string{},
	}

	if raw.Title == "" {
		raw.Title = scraper.MetaContent(doc, "og:title")
	}
	if ld, ok := scraper.FindVehicleLD(doc); ok {
		ldRaw := scraper.ExtractVehicleLD(ld, platformName, rawURL)
		if raw.Make == "" {
			raw.Make, raw.Model, raw.Year = ldRaw.Make, ldRaw.Model, ldRaw.Year
		}
		if raw.Price == "" {
			raw.Price, raw.Currency = ldRaw.Price, ldRaw.Currency
		}
		if len(raw.ImageURLs) == 0 {
			raw.ImageURLs = ldRaw.ImageURLs
		}
	}

	if raw.Title == "" && raw.Make == "" {
		return nil, scraper.NewError(scraper.KindValidation, platformName, rawURL,
			errors.New("page has no recognizable listing content"))
	}

	s.logger.Debugf("[%s] extracted %q", platformName, raw.Title)
	return raw, nil
}
