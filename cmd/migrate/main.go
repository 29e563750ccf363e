// Command migrate applies the valuation history schema to ClickHouse.
// It exists so deployments can run migrations separately from the API
// server, which only migrates when started with -migrate.
package main

import (
	"database/sql"

	_ "github.com/ClickHouse/clickhouse-go/v2" // ClickHouse driver
	"github.com/pressly/goose/v3"

	"github.com/dealscope/dealscope/configs"
	"github.com/dealscope/dealscope/internal/logging"
)

func main() {
	cfg := configs.Load()
	logger := logging.NewLogger()

	db, err := sql.Open("clickhouse", cfg.ClickHouseDSN)
	if err != nil {
		logger.Fatalf("failed to connect to history store: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("failed to ping history store: %v", err)
	}

	if err := goose.SetDialect("clickhouse"); err != nil {
		logger.Fatalf("goose: failed to set dialect: %v", err)
	}

	logger.Info("running history store migrations")
	if err := goose.Up(db, "migrations"); err != nil {
		logger.Fatalf("goose migration failed: %v", err)
	}
	logger.Info("migrations completed")
}
