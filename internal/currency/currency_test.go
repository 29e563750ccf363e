package currency

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestConverter() *Converter {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewConverter(NewStaticRates(), logger)
}

func TestToUSDIdentity(t *testing.T) {
	c := newTestConverter()

	// USD must be an exact identity, not a multiplication by 1.0 that
	// could drift.
	for _, code := range []string{"USD", "usd", " USD ", ""} {
		got, ok := c.ToUSD(17900.37, code)
		if !ok || got != 17900.37 {
			t.Errorf("ToUSD(17900.37, %q) = %v, %v; want exact identity", code, got, ok)
		}
	}
}

func TestToUSDKnownRates(t *testing.T) {
	c := newTestConverter()

	got, ok := c.ToUSD(1000, "EUR")
	if !ok {
		t.Fatal("EUR should convert")
	}
	if got != 1080 {
		t.Errorf("ToUSD(1000, EUR) = %v, want 1080", got)
	}

	if _, ok := c.ToUSD(1000, "gbp"); !ok {
		t.Error("currency codes must be case-insensitive")
	}
}

func TestToUSDUnknownCurrency(t *testing.T) {
	c := newTestConverter()

	got, ok := c.ToUSD(1000, "XYZ")
	if ok || got != 0 {
		t.Errorf("unknown currency must fail closed, got %v, %v", got, ok)
	}
}
