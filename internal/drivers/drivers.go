// Package drivers assembles the marketplace extraction drivers into the
// dispatch registry.
package drivers

import (
	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/drivers/autoscout"
	"github.com/dealscope/dealscope/internal/drivers/autotrader"
	"github.com/dealscope/dealscope/internal/drivers/cargurus"
	"github.com/dealscope/dealscope/internal/drivers/carscom"
	"github.com/dealscope/dealscope/internal/drivers/carvana"
	"github.com/dealscope/dealscope/internal/drivers/craigslist"
	"github.com/dealscope/dealscope/internal/drivers/ebay"
	"github.com/dealscope/dealscope/internal/drivers/truecar"
	"github.com/dealscope/dealscope/internal/scraper"
)

// NewRegistry builds the registry over every supported platform, all
// sharing one fetch client.
func NewRegistry(client *scraper.Client, logger *logrus.Logger) *scraper.Registry {
	return scraper.NewRegistry(
		autotrader.New(client, logger),
		carscom.New(client, logger),
		cargurus.New(client, logger),
		craigslist.New(client, logger),
		carvana.New(client, logger),
		truecar.New(client, logger),
		ebay.New(client, logger),
		autoscout.New(client, logger),
	)
}
