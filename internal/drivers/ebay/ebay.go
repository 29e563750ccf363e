// Package ebay extracts listings from eBay Motors item pages.
package ebay

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/models"
	"github.com/dealscope/dealscope/internal/scraper"
)

const platformName = "ebay"

type Scraper struct {
	client *scraper.Client
	logger *logrus.Logger
}

func New(client *scraper.Client, logger *logrus.Logger) *Scraper {
	return &Scraper{client: client, logger: logger}
}

func (s *Scraper) Name() string { return platformName }

func (s *Scraper) Match(u *url.URL) bool {
	return scraper.HostMatches(u.Host, "ebay.com") &&
		strings.Contains(u.Path, "/itm/")
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
		raw.Title = scraper.SelectorText(doc, ".x-item-title__mainTitle")
	}
	if raw.Price == "" {
		raw.Price = scraper.SelectorText(doc, ".x-price-primary")
	}
	if raw.Location == "" {
		raw.Location = scraper.SelectorText(doc, ".ux-seller-section__item--location")
	}

	// "Item specifics" table: Make / Model / Year / Mileage / Fuel Type /
	// Engine Size rows keyed by their label column.
	doc.Find(".ux-labels-values").Each(func(_ int, sel *goquery.Selection) {
		label := strings.TrimSpace(sel.Find(".ux-labels-values__labels").Text())
		value := strings.TrimSpace(sel.Find(".ux-labels-values__values").Text())
		if label == "" || value == "" {
			return
		}
		raw.Attributes[strings.ToLower(strings.TrimSuffix(label, ":"))] = value
	})
	if raw.Make == "" {
		raw.Make = raw.Attributes["make"]
	}
	if raw.Model == "" {
		raw.Model = raw.Attributes["model"]
	}
	if raw.Year == "" {
		raw.Year = raw.Attributes["year"]
	}
	if raw.Mileage == "" {
		raw.Mileage = raw.Attributes["mileage"]
	}
	if raw.FuelType == "" {
		raw.FuelType = raw.Attributes["fuel type"]
	}
	if raw.EngineSize == "" {
		raw.EngineSize = raw.Attributes["engine size"]
	}
	if raw.Condition == "" {
		raw.Condition = raw.Attributes["condition"]
	}

	if raw.Title == "" {
		return nil, scraper.NewError(scraper.KindValidation, platformName, rawURL,
			errors.New("item page has no title, likely ended"))
	}

	s.logger.Debugf("[%s] extracted %q", platformName, raw.Title)
	return raw, nil
}
