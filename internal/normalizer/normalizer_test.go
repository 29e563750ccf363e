package normalizer

import (
	"math"
	"testing"

	"github.com/dealscope/dealscope/internal/models"
)

func approx(got, want float64) bool {
	return math.Abs(got-want) < 0.01
}

func TestNormalizeTotalOnEmptyInput(t *testing.T) {
	for _, raw := range []*models.RawListing{nil, {}} {
		n := Normalize(raw)
		if n.Make != "" || n.Model != "" || n.Year != 0 {
			t.Errorf("empty identity should stay empty, got %q %q %d", n.Make, n.Model, n.Year)
		}
		if n.Condition != models.ConditionGood {
			t.Errorf("condition default = %s, want %s", n.Condition, models.ConditionGood)
		}
		if n.FuelType != models.FuelGasoline {
			t.Errorf("fuel default = %s, want %s", n.FuelType, models.FuelGasoline)
		}
		if n.EngineSize != DefaultEngineSize {
			t.Errorf("engine default = %v, want %v", n.EngineSize, DefaultEngineSize)
		}
		if n.Cylinders != DefaultCylinders {
			t.Errorf("cylinders default = %d, want %d", n.Cylinders, DefaultCylinders)
		}
		if n.Location != DefaultLocation {
			t.Errorf("location default = %q, want %q", n.Location, DefaultLocation)
		}
		if n.Currency != DefaultCurrency {
			t.Errorf("currency default = %q, want %q", n.Currency, DefaultCurrency)
		}
		if n.Price != 0 || n.Mileage != 0 {
			t.Errorf("numeric fields should zero out, got price %v mileage %v", n.Price, n.Mileage)
		}
	}
}

func TestNormalizeFullListing(t *testing.T) {
	raw := &models.RawListing{
		Title:      "2016 Honda Civic EX",
		Make:       "Honda",
		Model:      "Civic",
		Year:       "2016",
		Mileage:    "45,000 miles",
		Price:      "$17,900",
		Condition:  "excellent",
		FuelType:   "hybrid",
		EngineSize: "1.8L",
		Cylinders:  "4 cylinders",
		Location:   "  Portland,   OR ",
	}
	n := Normalize(raw)

	if n.Make != "Honda" || n.Model != "Civic" || n.Year != 2016 {
		t.Errorf("identity = %q %q %d", n.Make, n.Model, n.Year)
	}
	if !approx(n.Mileage, 45000*1.60934) {
		t.Errorf("mileage = %v, want miles converted to km", n.Mileage)
	}
	if n.Price != 17900 {
		t.Errorf("price = %v, want 17900", n.Price)
	}
	if n.Currency != "USD" {
		t.Errorf("currency = %q, want USD from the $ symbol", n.Currency)
	}
	if n.Condition != models.ConditionExcellent {
		t.Errorf("condition = %s", n.Condition)
	}
	if n.FuelType != models.FuelHybrid {
		t.Errorf("fuel = %s", n.FuelType)
	}
	if !approx(n.EngineSize, 1.8) {
		t.Errorf("engine = %v", n.EngineSize)
	}
	if n.Location != "Portland, OR" {
		t.Errorf("location = %q, whitespace should collapse", n.Location)
	}
}

func TestIdentityFromTitle(t *testing.T) {
	cases := []struct {
		title     string
		wantMake  string
		wantModel string
		wantYear  int
	}{
		{"2016 Honda Civic EX", "Honda", "Civic EX", 2016},
		{"2019 Land Rover Discovery Sport", "Land Rover", "Discovery Sport", 2019},
		{"Alfa Romeo Giulia 2020", "Alfa Romeo", "Giulia", 2020},
		{"Toyota Corolla", "Toyota", "Corolla", 0},
		{"", "", "", 0},
	}
	for _, tc := range cases {
		n := Normalize(&models.RawListing{Title: tc.title})
		if n.Make != tc.wantMake || n.Model != tc.wantModel || n.Year != tc.wantYear {
			t.Errorf("%q: got %q %q %d, want %q %q %d",
				tc.title, n.Make, n.Model, n.Year, tc.wantMake, tc.wantModel, tc.wantYear)
		}
	}
}

func TestTypedFieldsWinOverTitle(t *testing.T) {
	n := Normalize(&models.RawListing{
		Title: "2010 Ford Focus",
		Make:  "Honda",
		Model: "Civic",
		Year:  "2016",
	})
	if n.Make != "Honda" || n.Model != "Civic" || n.Year != 2016 {
		t.Errorf("typed fields must win, got %q %q %d", n.Make, n.Model, n.Year)
	}
}

func TestParseMileageUnits(t *testing.T) {
	cases := []struct {
		name string
		raw  models.RawListing
		want float64
	}{
		{"explicit km", models.RawListing{Mileage: "72 000 km"}, 72000},
		{"kilometers word", models.RawListing{Mileage: "60,000 kilometers"}, 60000},
		{"miles converted", models.RawListing{Mileage: "10,000 miles"}, 10000 * 1.60934},
		{"bare number is miles", models.RawListing{Mileage: "10000"}, 10000 * 1.60934},
		{"km flag from driver", models.RawListing{Mileage: "10000", MileageKm: true}, 10000},
		{"garbage", models.RawListing{Mileage: "call for info"}, 0},
		{"sign ignored", models.RawListing{Mileage: "-500 miles"}, 500 * 1.60934},
	}
	for _, tc := range cases {
		n := Normalize(&tc.raw)
		if !approx(n.Mileage, tc.want) {
			t.Errorf("%s: mileage = %v, want %v", tc.name, n.Mileage, tc.want)
		}
	}
}

func TestParsePriceCurrency(t *testing.T) {
	cases := []struct {
		price     string
		currency  string
		wantValue float64
		wantCode  string
	}{
		{"$17,900", "", 17900, "USD"},
		{"€21.500", "", 21500, "EUR"},
		{"£9,995", "", 9995, "GBP"},
		{"C$18,000", "", 18000, "CAD"},
		{"12000", "eur", 12000, "EUR"},
		{"ask", "", 0, "USD"},
		{"", "", 0, "USD"},
	}
	for _, tc := range cases {
		n := Normalize(&models.RawListing{Price: tc.price, Currency: tc.currency})
		if n.Price != tc.wantValue || n.Currency != tc.wantCode {
			t.Errorf("price %q/%q: got %v %q, want %v %q",
				tc.price, tc.currency, n.Price, n.Currency, tc.wantValue, tc.wantCode)
		}
	}
}

func TestParseEngineSize(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.8L", 1.8},
		{"1998 cc", 1.998},
		{"", DefaultEngineSize},
		{"unknown", DefaultEngineSize},
		{"50", DefaultEngineSize}, // 50L is not a road car
	}
	for _, tc := range cases {
		n := Normalize(&models.RawListing{EngineSize: tc.in})
		if !approx(n.EngineSize, tc.want) {
			t.Errorf("engine %q = %v, want %v", tc.in, n.EngineSize, tc.want)
		}
	}
}

func TestImageURLCap(t *testing.T) {
	urls := make([]string, models.MaxImageURLs+3)
	for i := range urls {
		urls[i] = "https://img.example.com/p.jpg"
	}
	n := Normalize(&models.RawListing{ImageURLs: urls})
	if len(n.ImageURLs) != models.MaxImageURLs {
		t.Errorf("images = %d, want cap %d", len(n.ImageURLs), models.MaxImageURLs)
	}
}

func TestParseYearBounds(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1949", 0},
		{"1950", 1950},
		{"2020", 2020},
		{"2049", 0}, // beyond next model year
		{"next year", 0},
	}
	for _, tc := range cases {
		n := Normalize(&models.RawListing{Year: tc.in})
		if n.Year != tc.want {
			t.Errorf("year %q = %d, want %d", tc.in, n.Year, tc.want)
		}
	}
}
