// Package currency converts listing prices to USD.
package currency

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// RateSource provides the USD value of one unit of a currency.
// Implementations may back this with a live feed; the default is a
// static table.
type RateSource interface {
	Rate(code string) (float64, bool)
}

// StaticRates is the built-in rate table.
type StaticRates struct {
	rates map[string]float64
}

// NewStaticRates returns the default table. Values are approximate spot
// rates; precision matters less than having a sane conversion for the
// non-USD platforms.
func NewStaticRates() *StaticRates {
	return &StaticRates{rates: map[string]float64{
		"USD": 1.0,
		"EUR": 1.08,
		"GBP": 1.27,
		"CAD": 0.73,
		"AUD": 0.66,
		"CHF": 1.12,
		"PLN": 0.25,
		"SEK": 0.095,
		"JPY": 0.0067,
		"MXN": 0.055,
	}}
}

func (s *StaticRates) Rate(code string) (float64, bool) {
	rate, ok := s.rates[strings.ToUpper(code)]
	return rate, ok
}

// Converter turns listing prices into USD.
type Converter struct {
	source RateSource
	logger *logrus.Logger
}

func NewConverter(source RateSource, logger *logrus.Logger) *Converter {
	return &Converter{source: source, logger: logger}
}

// ToUSD converts amount from code to USD. USD is an exact identity, not
// a conversion through the rate table, so cached responses never pick up
// rounding drift. The second return is false when no rate is known;
// callers treat the price as absent rather than failing.
func (c *Converter) ToUSD(amount float64, code string) (float64, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == "USD" {
		return amount, true
	}
	rate, ok := c.source.Rate(code)
	if !ok {
		c.logger.Warnf("no conversion rate for %s, treating price as unavailable", code)
		return 0, false
	}
	return amount * rate, true
}
