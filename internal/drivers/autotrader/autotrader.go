// Package autotrader extracts listings from autotrader.com vehicle detail
// pages.
package autotrader

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/models"
	"github.com/dealscope/dealscope/internal/scraper"
)

const platformName = "autotrader"

type Scraper struct {
	client *scraper.Client
	logger *logrus.Logger
}

func New(client *scraper.Client, logger *logrus.Logger) *Scraper {
	return &Scraper{client: client, logger: logger}
}

func (s *Scraper) Name() string { return platformName }

func (s *Scraper) Match(u *url.URL) bool {
	return scraper.HostMatches(u.Host, "autotrader.com") &&
		strings.Contains(u.Path, "/cars-for-sale/")
}

func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*models.RawListing, error) {
	doc, err := s.client.FetchDocument(ctx, platformName, rawURL)
	if err != nil {
		return nil, err
	}

	var raw *models.RawListing
	if ld, ok := scraper.FindVehicleLD(doc); ok {
		raw = scraper.ExtractVehicleLD(ld, platformName, rawURL)
	} else {
		raw = &models.RawListing{Platform: platformName, URL: rawURL, Attributes: map[string]string{}}
	}

	if raw.Title == "" {
		raw.Title = scraper.MetaContent(doc, "og:title")
	}
	if raw.Price == "" {
		raw.Price = scraper.SelectorText(doc, `[data-cmp="pricing"] span`)
	}
	if raw.Mileage == "" {
		raw.Mileage = scraper.SelectorText(doc, `[data-cmp="mileageSpecification"]`)
	}
	if raw.Location == "" {
		raw.Location = scraper.SelectorText(doc, `[data-cmp="ownerDistance"]`)
	}
	if len(raw.ImageURLs) == 0 {
		if img := scraper.MetaContent(doc, "og:image"); img != "" {
			raw.ImageURLs = []string{img}
		}
	}

	if raw.Title == "" && raw.Make == "" {
		return nil, scraper.NewError(scraper.KindValidation, platformName, rawURL,
			errors.New("page has no recognizable listing content"))
	}

	s.logger.Debugf("[%s] extracted %q", platformName, raw.Title)
	return raw, nil
}
