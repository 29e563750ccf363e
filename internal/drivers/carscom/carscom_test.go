package carscom

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

const detailHTML = `<!DOCTYPE html>
<html>
<head>
<meta property="og:title" content="Used 2019 Mazda CX-5 Touring">
<meta property="og:image" content="https://images.cars.com/1.jpg">
<script>
window.CARS.digitalData = {"page":{"vehicle":{"make":"Mazda","model":"CX-5","model_year":"2019","price":"21500","mileage":"41000","fuel_type":"Gasoline","stock_type":"used","seller":{"city":"Denver","state":"CO"}}}};
</script>
</head>
<body></body>
</html>`

const ldOnlyHTML = `<html><head>
<script type="application/ld+json">
{"@type":"Car","name":"2017 Ford Escape SE",
 "brand":{"name":"Ford"},"model":"Escape",
 "offers":{"price":"13400","priceCurrency":"USD"}}
</script>
</head><body></body></html>`

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

	u, _ := url.Parse("https://www.cars.com/vehicledetail/abc123/")
	if !driver.Match(u) {
		t.Error("vehicle detail URL should match")
	}
	u, _ = url.Parse("https://www.cars.com/shopping/results/")
	if driver.Match(u) {
		t.Error("search results URL should not match")
	}
}

func TestFetchFromEmbeddedBlob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailHTML))
	}))
	defer srv.Close()

	raw, err := newDriver(t).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if raw.Make != "Mazda" || raw.Model != "CX-5" || raw.Year != "2019" {
		t.Errorf("identity = %q %q %q", raw.Make, raw.Model, raw.Year)
	}
	if raw.Price != "21500" || raw.Mileage != "41000" {
		t.Errorf("price/mileage = %q %q", raw.Price, raw.Mileage)
	}
	if raw.Condition != "used" {
		t.Errorf("condition = %q", raw.Condition)
	}
	if raw.Location != "Denver, CO" {
		t.Errorf("location = %q", raw.Location)
	}
	if raw.Title != "Used 2019 Mazda CX-5 Touring" {
		t.Errorf("title fallback = %q", raw.Title)
	}
	if len(raw.ImageURLs) != 1 {
		t.Errorf("images = %v", raw.ImageURLs)
	}
}

func TestFetchFallsBackToJSONLD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ldOnlyHTML))
	}))
	defer srv.Close()

	raw, err := newDriver(t).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.Make != "Ford" || raw.Model != "Escape" {
		t.Errorf("identity = %q %q", raw.Make, raw.Model)
	}
	if raw.Price != "13400" || raw.Currency != "USD" {
		t.Errorf("price = %q %q", raw.Price, raw.Currency)
	}
}

func TestFetchUnrecognizablePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>nothing here</body></html>`))
	}))
	defer srv.Close()

	_, err := newDriver(t).Fetch(context.Background(), srv.URL)
	if scraper.KindOf(err) != scraper.KindValidation {
		t.Errorf("kind = %s, want %s (%v)", scraper.KindOf(err), scraper.KindValidation, err)
	}
}
