package craigslist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/faulttolerance"
	"github.com/dealscope/dealscope/internal/scraper"
)

const postingHTML = `<!DOCTYPE html>
<html>
<body>
<h1 class="postingtitle">
  <span class="postingtitletext">
    <span id="titletextonly">2016 Honda Civic EX</span>
    <span class="price">$9,800</span>
    <small> (SE Portland)</small>
  </span>
</h1>
<div class="mapAndAttrs">
  <p class="attrgroup"><span><b>2016 Honda Civic</b></span></p>
  <p class="attrgroup">
    <span>condition: <b>excellent</b></span>
    <span>odometer: <b>98,000</b></span>
    <span>fuel: <b>gas</b></span>
    <span>cylinders: <b>4 cylinders</b></span>
    <span>title status: <b>clean</b></span>
  </p>
</div>
<figure class="gallery"><img src="https://images.craigslist.org/abc_600x450.jpg"></figure>
</body>
</html>`

func newDriver(t *testing.T) *Scraper {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	client := scraper.NewClient(&scraper.ClientConfig{
		RequestTimeout:    time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
		Retry:             faulttolerance.RetryConfig{MaxAttempts: 1, Name: "test"},
	}, logger)
	return New(client, logger)
}

func TestMatch(t *testing.T) {
	driver := newDriver(t)

	matching := []string{
		"https://portland.craigslist.org/mlt/cto/d/portland-2016-honda/7712345.html",
		"https://sfbay.craigslist.org/sby/ctd/d/dealer-listing/7712399.html",
		"https://newyork.craigslist.org/search/cars-trucks/7712400.html",
	}
	for _, rawURL := range matching {
		u, _ := url.Parse(rawURL)
		if !driver.Match(u) {
			t.Errorf("%s should match", rawURL)
		}
	}

	nonMatching := []string{
		"https://portland.craigslist.org/mlt/apa/d/apartment/7712345.html", // housing
		"https://example.org/cto/d/fake/1.html",
	}
	for _, rawURL := range nonMatching {
		u, _ := url.Parse(rawURL)
		if driver.Match(u) {
			t.Errorf("%s should not match", rawURL)
		}
	}
}

func TestFetchExtractsPosting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(postingHTML))
	}))
	defer srv.Close()

	raw, err := newDriver(t).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if raw.Title != "2016 Honda Civic EX" {
		t.Errorf("title = %q", raw.Title)
	}
	if raw.Price != "$9,800" {
		t.Errorf("price = %q", raw.Price)
	}
	if raw.Year != "2016" || raw.Make != "Honda" || raw.Model != "Civic" {
		t.Errorf("identity = %q %q %q", raw.Year, raw.Make, raw.Model)
	}
	if raw.Mileage != "98,000" {
		t.Errorf("mileage = %q", raw.Mileage)
	}
	if raw.Condition != "excellent" {
		t.Errorf("condition = %q", raw.Condition)
	}
	if raw.FuelType != "gas" {
		t.Errorf("fuel = %q", raw.FuelType)
	}
	if raw.Cylinders != "4" {
		t.Errorf("cylinders = %q", raw.Cylinders)
	}
	if raw.Location != "SE Portland" {
		t.Errorf("location = %q", raw.Location)
	}
	if len(raw.ImageURLs) != 1 {
		t.Errorf("images = %v", raw.ImageURLs)
	}
	if raw.Attributes["title status"] != "clean" {
		t.Errorf("attributes = %v", raw.Attributes)
	}
}

func TestFetchRemovedPosting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h2>This posting has been deleted by its author.</h2></body></html>`))
	}))
	defer srv.Close()

	_, err := newDriver(t).Fetch(context.Background(), srv.URL)
	if scraper.KindOf(err) != scraper.KindValidation {
		t.Errorf("kind = %s, want %s (%v)", scraper.KindOf(err), scraper.KindValidation, err)
	}
}
