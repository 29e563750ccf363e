// Package cargurus extracts listings from cargurus.com vehicle detail
// pages.
package cargurus

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/models"
	"github.com/dealscope/dealscope/internal/scraper"
)

const platformName = "cargurus"

type Scraper struct {
	client *scraper.Client
	logger *logrus.Logger
}

func New(client *scraper.Client, logger *logrus.Logger) *Scraper {
	return &Scraper{client: client, logger: logger}
}

func (s *Scraper) Name() string { return platformName }

func (s *Scraper) Match(u *url.URL) bool {
	return scraper.HostMatches(u.Host, "cargurus.com") &&
		strings.Contains(strings.ToLower(u.Path), "/cars/")
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
		raw.Title = scraper.MetaContent(doc, "og:title")
		raw.Price = scraper.SelectorText(doc, `[data-cg-ft="vdp-price"]`)
	}

	if raw.Mileage == "" {
		raw.Mileage = scraper.SelectorText(doc, `[data-cg-ft="vdp-mileage"]`)
	}
	if raw.Location == "" {
		raw.Location = scraper.SelectorText(doc, `[data-cg-ft="vdp-dealer-location"]`)
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
