// valuate values one listing URL, or a file of URLs, from the command
// line without running the API server.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dealscope/dealscope/configs"
	"github.com/dealscope/dealscope/internal/cache"
	"github.com/dealscope/dealscope/internal/currency"
	"github.com/dealscope/dealscope/internal/drivers"
	"github.com/dealscope/dealscope/internal/logging"
	"github.com/dealscope/dealscope/internal/predictor"
	"github.com/dealscope/dealscope/internal/scraper"
	"github.com/dealscope/dealscope/internal/valuation"
)

func main() {
	var (
		singleURL string
		urlFile   string
	)

	flag.StringVar(&singleURL, "url", "", "Listing URL to value")
	flag.StringVar(&urlFile, "file", "", "File with one listing URL per line (batch mode)")
	flag.Parse()

	if singleURL == "" && urlFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -url <listing-url> | -file <urls.txt>\n", os.Args[0])
		os.Exit(1)
	}

	cfg := configs.Load()
	logger := logging.NewLogger()

	clientCfg := scraper.DefaultClientConfig()
	clientCfg.RequestTimeout = cfg.RequestTimeout
	clientCfg.RequestsPerSecond = cfg.RequestsPerSecond
	client := scraper.NewClient(clientCfg, logger)

	service := valuation.NewService(valuation.Dependencies{
		Registry:     drivers.NewRegistry(client, logger),
		Cache:        cache.New(cfg.CacheTTL),
		Converter:    currency.NewConverter(currency.NewStaticRates(), logger),
		Predictor:    predictor.NewHeuristic(),
		Logger:       logger,
		FetchTimeout: cfg.FetchTimeout,
	})

	ctx := context.Background()

	if singleURL != "" {
		result, _, verr := service.ValueURL(ctx, singleURL)
		if verr != nil {
			logger.Fatalf("valuation failed: %s", verr.Message)
		}
		printJSON(result)
		return
	}

	urls, err := readURLs(urlFile)
	if err != nil {
		logger.Fatalf("reading %s: %v", urlFile, err)
	}

	items, summary, verr := service.ValueBatch(ctx, urls)
	if verr != nil {
		logger.Fatalf("batch rejected: %s", verr.Message)
	}
	printJSON(map[string]any{"results": items, "summary": summary})
}

func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		urls = append(urls, sc.Text())
	}
	return urls, sc.Err()
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
