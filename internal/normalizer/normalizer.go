// Package normalizer maps platform-specific raw listings onto the
// canonical listing schema. It is total: any field a driver failed to
// extract is coerced to a documented default, never rejected.
package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dealscope/dealscope/internal/models"
)

const (
	// DefaultEngineSize is assumed when a listing omits displacement.
	DefaultEngineSize = 2.0
	// DefaultCylinders is assumed when a listing omits the cylinder count.
	DefaultCylinders = 4
	// DefaultLocation marks listings without any location text.
	DefaultLocation = "Unknown"
	// DefaultCurrency is assumed when no currency is stated or implied.
	DefaultCurrency = "USD"

	milesToKm = 1.60934
)

var (
	numberRe = regexp.MustCompile(`[\d][\d,. ]*`)
	yearRe   = regexp.MustCompile(`\b(19[5-9]\d|20[0-4]\d)\b`)
	// European thousands format, "21.500" meaning 21500.
	thousandsDotRe = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
)

// multiWordMakes are manufacturer names the title splitter must not cut
// in half.
var multiWordMakes = []string{
	"alfa romeo", "aston martin", "land rover", "mercedes-benz", "mercedes benz", "rolls-royce", "rolls royce",
}

// currencySymbols maps price-prefix symbols to ISO codes.
var currencySymbols = map[string]string{
	"$": "USD", "€": "EUR", "£": "GBP", "zł": "PLN", "C$": "CAD", "A$": "AUD",
}

// Normalize converts a raw listing into the canonical schema.
func Normalize(raw *models.RawListing) models.NormalizedListing {
	if raw == nil {
		raw = &models.RawListing{}
	}

	n := models.NormalizedListing{
		Condition:  models.ParseCondition(raw.Condition),
		FuelType:   models.ParseFuelType(raw.FuelType),
		EngineSize: parseEngineSize(raw.EngineSize),
		Cylinders:  parseCylinders(raw.Cylinders),
		Location:   normalizeText(raw.Location),
		Currency:   strings.ToUpper(strings.TrimSpace(raw.Currency)),
	}

	n.Make, n.Model, n.Year = identity(raw)
	n.Mileage = parseMileage(raw)
	n.Price, n.Currency = parsePrice(raw.Price, n.Currency)

	if n.Location == "" {
		n.Location = DefaultLocation
	}
	if n.Currency == "" {
		n.Currency = DefaultCurrency
	}

	if len(raw.ImageURLs) > models.MaxImageURLs {
		n.ImageURLs = raw.ImageURLs[:models.MaxImageURLs]
	} else {
		n.ImageURLs = raw.ImageURLs
	}

	return n
}

// identity resolves make, model, and year from the typed fields, falling
// back to splitting the listing title ("2016 Honda Civic EX").
func identity(raw *models.RawListing) (make, model string, year int) {
	make = normalizeText(raw.Make)
	model = normalizeText(raw.Model)
	year = parseYear(raw.Year)

	if make != "" && model != "" && year != 0 {
		return make, model, year
	}

	title := normalizeText(raw.Title)
	if title == "" {
		return make, model, year
	}

	if year == 0 {
		year = parseYear(yearRe.FindString(title))
	}

	if make == "" {
		rest := strings.TrimSpace(yearRe.ReplaceAllString(title, ""))
		lower := strings.ToLower(rest)
		for _, mw := range multiWordMakes {
			if strings.HasPrefix(lower, mw) {
				make = rest[:len(mw)]
				if model == "" {
					model = strings.TrimSpace(rest[len(mw):])
				}
				return make, model, year
			}
		}
		fields := strings.Fields(rest)
		if len(fields) > 0 {
			make = fields[0]
		}
		if model == "" && len(fields) > 1 {
			model = strings.Join(fields[1:], " ")
		}
	}
	return make, model, year
}

func parseYear(s string) int {
	match := yearRe.FindString(s)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	if year > time.Now().Year()+1 {
		return 0
	}
	return year
}

// parseMileage returns the odometer reading in kilometers. Values stated
// in miles (the default for US platforms) are converted.
func parseMileage(raw *models.RawListing) float64 {
	s := strings.ToLower(raw.Mileage)
	value := parseNumber(s)
	if value <= 0 {
		return 0
	}
	if raw.MileageKm || strings.Contains(s, "km") || strings.Contains(s, "kilometer") {
		return value
	}
	return value * milesToKm
}

// parsePrice extracts the numeric price and resolves the currency, using
// a leading symbol when the driver did not state a code. Negative or
// unparsable prices normalize to 0, which downstream treats as
// price-absent.
func parsePrice(s, currency string) (float64, string) {
	s = strings.TrimSpace(s)
	if currency == "" {
		for symbol, code := range currencySymbols {
			if strings.Contains(s, symbol) {
				currency = code
				break
			}
		}
		// "C$" and "A$" both contain "$"; prefer the longer match.
		if strings.Contains(s, "C$") {
			currency = "CAD"
		} else if strings.Contains(s, "A$") {
			currency = "AUD"
		}
	}

	value := parseNumber(s)
	if value < 0 {
		value = 0
	}
	return value, currency
}

func parseEngineSize(s string) float64 {
	value := parseNumber(strings.ToLower(s))
	if value <= 0 {
		return DefaultEngineSize
	}
	// Displacement quoted in cc rather than liters.
	if value > 100 {
		value = value / 1000
	}
	if value > 12 {
		return DefaultEngineSize
	}
	return value
}

func parseCylinders(s string) int {
	value := int(parseNumber(s))
	if value <= 0 || value > 16 {
		return DefaultCylinders
	}
	return value
}

// parseNumber pulls the first numeric run out of free text, tolerating
// thousands separators ("45,000", "72 000").
func parseNumber(s string) float64 {
	match := numberRe.FindString(s)
	if match == "" {
		return 0
	}
	match = strings.ReplaceAll(match, ",", "")
	match = strings.ReplaceAll(match, " ", "")
	match = strings.TrimRight(match, ".")
	if thousandsDotRe.MatchString(match) {
		match = strings.ReplaceAll(match, ".", "")
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return value
}

// normalizeText collapses runs of whitespace and trims the result.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
