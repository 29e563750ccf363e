// Package craigslist extracts listings from craigslist cars+trucks posts.
// Craigslist pages carry no vehicle JSON-LD; the attributes live in
// .attrgroup spans and the title/price in the posting header.
package craigslist

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/models"
	"github.com/dealscope/dealscope/internal/scraper"
)

const platformName = "craigslist"

// titleYearRe pulls a model year out of the posting title, e.g.
// "2016 Honda Civic EX - $9,800".
var titleYearRe = regexp.MustCompile(`\b(19[5-9]\d|20[0-4]\d)\b`)

type Scraper struct {
	client *scraper.Client
	logger *logrus.Logger
}

func New(client *scraper.Client, logger *logrus.Logger) *Scraper {
	return &Scraper{client: client, logger: logger}
}

func (s *Scraper) Name() string { return platformName }

func (s *Scraper) Match(u *url.URL) bool {
	return scraper.HostMatches(u.Host, "craigslist.org") &&
		(strings.Contains(u.Path, "/cto/") || strings.Contains(u.Path, "/ctd/") ||
			strings.Contains(u.Path, "/cars-trucks/"))
}

func (s *Scraper) Fetch(ctx context.Context, rawURL string) (*models.RawListing, error) {
	doc, err := s.client.FetchDocument(ctx, platformName, rawURL)
	if err != nil {
		return nil, err
	}

	raw := &models.RawListing{
		Platform:   platformName,
		URL:        rawURL,
		Title:      scraper.SelectorText(doc, "#titletextonly"),
		Price:      scraper.SelectorText(doc, ".price"),
		Location:   strings.Trim(scraper.SelectorText(doc, ".postingtitletext small"), "() "),
		Attributes: map[string]string{},
	}

	s.collectAttrGroups(doc, raw)

	if raw.Year == "" {
		raw.Year = titleYearRe.FindString(raw.Title)
	}
	if raw.Mileage == "" {
		raw.Mileage = raw.Attributes["odometer"]
	}
	if raw.Condition == "" {
		raw.Condition = raw.Attributes["condition"]
	}
	if raw.FuelType == "" {
		raw.FuelType = raw.Attributes["fuel"]
	}
	if raw.Cylinders == "" {
		raw.Cylinders = strings.TrimSuffix(raw.Attributes["cylinders"], " cylinders")
	}

	doc.Find(".gallery img, #thumbs a").Each(func(_ int, sel *goquery.Selection) {
		if len(raw.ImageURLs) >= models.MaxImageURLs {
			return
		}
		src, ok := sel.Attr("src")
		if !ok {
			src, _ = sel.Attr("href")
		}
		if src != "" {
			raw.ImageURLs = append(raw.ImageURLs, src)
		}
	})

	if raw.Title == "" {
		return nil, scraper.NewError(scraper.KindValidation, platformName, rawURL,
			errors.New("posting has no title, likely removed"))
	}

	s.logger.Debugf("[%s] extracted %q", platformName, raw.Title)
	return raw, nil
}

// collectAttrGroups reads the "makemodel" line and the key: value spans
// craigslist renders under the posting body.
func (s *Scraper) collectAttrGroups(doc *goquery.Document, raw *models.RawListing) {
	doc.Find(".attrgroup span").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		if key, value, found := strings.Cut(text, ":"); found {
			raw.Attributes[strings.TrimSpace(strings.ToLower(key))] = strings.TrimSpace(value)
			return
		}
		// The bare span is the year + make/model line.
		if raw.Make == "" && titleYearRe.MatchString(text) {
			fields := strings.Fields(text)
			if len(fields) >= 2 {
				raw.Year = fields[0]
				raw.Make = fields[1]
			}
			if len(fields) >= 3 {
				raw.Model = strings.Join(fields[2:], " ")
			}
		}
	})
}
