package main

import (
	"flag"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"

	"github.com/dealscope/dealscope/configs"
	"github.com/dealscope/dealscope/internal/cache"
	"github.com/dealscope/dealscope/internal/currency"
	"github.com/dealscope/dealscope/internal/drivers"
	"github.com/dealscope/dealscope/internal/handler"
	"github.com/dealscope/dealscope/internal/history"
	"github.com/dealscope/dealscope/internal/logging"
	"github.com/dealscope/dealscope/internal/predictor"
	"github.com/dealscope/dealscope/internal/repository"
	"github.com/dealscope/dealscope/internal/router"
	"github.com/dealscope/dealscope/internal/scraper"
	"github.com/dealscope/dealscope/internal/valuation"
)

func main() {
	cfg := configs.Load()
	logger := logging.NewLogger()

	migrateFlag := flag.Bool("migrate", false, "Run database migrations before serving")
	flag.Parse()

	clientCfg := scraper.DefaultClientConfig()
	clientCfg.RequestTimeout = cfg.RequestTimeout
	clientCfg.RequestsPerSecond = cfg.RequestsPerSecond
	client := scraper.NewClient(clientCfg, logger)

	registry := drivers.NewRegistry(client, logger)

	var recorder history.Recorder
	var historyHandler *handler.HistoryHandler

	if cfg.HistoryEnabled {
		db, err := gorm.Open(clickhouse.Open(cfg.ClickHouseDSN), &gorm.Config{})
		if err != nil {
			// History is best-effort; the valuation pipeline runs
			// without it.
			logger.Errorf("history store unavailable, continuing without history: %v", err)
		} else {
			if *migrateFlag {
				runMigrations(db, logger)
			}

			repo := repository.NewGormValuationRepository(db)
			recorders := history.Fanout{history.NewStoreRecorder(repo)}
			if cfg.KafkaBroker != "" {
				recorders = append(recorders, history.NewPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger))
			}
			recorder = recorders
			historyHandler = handler.NewHistoryHandler(repo, logger)
		}
	}

	service := valuation.NewService(valuation.Dependencies{
		Registry:     registry,
		Cache:        cache.New(cfg.CacheTTL),
		Converter:    currency.NewConverter(currency.NewStaticRates(), logger),
		Predictor:    predictor.NewHeuristic(),
		Recorder:     recorder,
		Logger:       logger,
		FetchTimeout: cfg.FetchTimeout,
	})

	routerConfig := &router.Config{
		ValuationHandler: handler.NewValuationHandler(service),
		HistoryHandler:   historyHandler,
	}
	r := router.NewRouter(routerConfig)

	logger.Infof("serving on :%s with %d scrapers", cfg.ServerPort, registry.Size())
	if err := r.Run(fmt.Sprintf(":%s", cfg.ServerPort)); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

func runMigrations(db *gorm.DB, logger *logrus.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatalf("failed to get sql.DB: %v", err)
	}
	if err := goose.SetDialect("clickhouse"); err != nil {
		logger.Fatalf("goose: failed to set dialect: %v", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		logger.Fatalf("goose migration failed: %v", err)
	}
}
