// Package carscom extracts listings from cars.com vehicle detail pages.
// cars.com embeds the listing as JSON inside the page head; JSON-LD is
// present as a fallback on older page variants.
package carscom

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/models"
	"github.com/dealscope/dealscope/internal/scraper"
)

const platformName = "cars.com"

// initialActivityRe captures the embedded listing JSON blob.
var initialActivityRe = regexp.MustCompile(`window\.CARS\.digitalData\s*=\s*(\{.*?\});`)

type Scraper struct {
	client *scraper.Client
	logger *logrus.Logger
}

func New(client *scraper.Client, logger *logrus.Logger) *Scraper {
	return &Scraper{client: client, logger: logger}
}

func (s *Scraper) Name() string { return platformName }

func (s *Scraper) Match(u *url.URL) bool {
	return scraper.HostMatches(u.Host, "cars.com") &&
		strings.Contains(u.Path, "/vehicledetail/")
}

func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*models.RawListing, error) {
	body, err := s.client.FetchPage(ctx, platformName, rawURL)
	if err != nil {
		return nil, err
	}

	raw := &models.RawListing{Platform: platformName, URL: rawURL, Attributes: map[string]string{}}

	if m := initialActivityRe.FindSubmatch(body); m != nil {
		s.fillFromDigitalData(raw, m[1])
	}

	doc, err := scraper.ParseDocument(body)
	if err != nil {
		return nil, scraper.NewError(scraper.KindScraping, platformName, rawURL, err)
	}
	if ld, ok := scraper.FindVehicleLD(doc); ok {
		ldRaw := scraper.ExtractVehicleLD(ld, platformName, rawURL)
		mergeMissing(raw, ldRaw)
	}
	if raw.Title == "" {
		raw.Title = scraper.MetaContent(doc, "og:title")
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

// digitalData is the subset of the embedded page blob the extractor needs.
type digitalData struct {
	Page struct {
		Vehicle struct {
			Make      string  `json:"make"`
			Model     string  `json:"model"`
			Year      string  `json:"model_year"`
			Price     string  `json:"price"`
			Mileage   string  `json:"mileage"`
			FuelType  string  `json:"fuel_type"`
			StockType string  `json:"stock_type"`
			Seller    struct {
				City  string `json:"city"`
				State string `json:"state"`
			} `json:"seller"`
		} `json:"vehicle"`
	} `json:"page"`
}

func (s *Scraper) fillFromDigitalData(raw *models.RawListing, blob []byte) {
	var dd digitalData
	if err := json.Unmarshal(blob, &dd); err != nil {
		s.logger.Debugf("[%s] embedded blob did not parse: %v", platformName, err)
		return
	}

	v := dd.Page.Vehicle
	raw.Make = v.Make
	raw.Model = v.Model
	raw.Year = v.Year
	raw.Price = v.Price
	raw.Mileage = v.Mileage
	raw.FuelType = v.FuelType
	if v.StockType != "" {
		raw.Condition = v.StockType // "new" / "used" / "cpo"
	}
	if v.Seller.City != "" {
		raw.Location = strings.TrimSuffix(v.Seller.City+", "+v.Seller.State, ", ")
	}
}

func mergeMissing(dst, src *models.RawListing) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Make == "" {
		dst.Make = src.Make
	}
	if dst.Model == "" {
		dst.Model = src.Model
	}
	if dst.Year == "" {
		dst.Year = src.Year
	}
	if dst.Price == "" {
		dst.Price = src.Price
	}
	if dst.Currency == "" {
		dst.Currency = src.Currency
	}
	if dst.Mileage == "" {
		dst.Mileage = src.Mileage
		dst.MileageKm = src.MileageKm
	}
	if dst.FuelType == "" {
		dst.FuelType = src.FuelType
	}
	if dst.Condition == "" {
		dst.Condition = src.Condition
	}
	if dst.EngineSize == "" {
		dst.EngineSize = src.EngineSize
	}
	if dst.Cylinders == "" {
		dst.Cylinders = src.Cylinders
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if len(dst.ImageURLs) == 0 {
		dst.ImageURLs = src.ImageURLs
	}
}
