// Package configs provides application configuration loaded from
// environment variables. All configuration is externalized for 12-factor
// deployment; a local .env file is honored when present.
package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration. Load it once at startup.
type AppConfig struct {
	// ServerPort is the HTTP listen port.
	ServerPort string

	// ClickHouseDSN is the history store connection string.
	ClickHouseDSN string

	// HistoryEnabled toggles the history recorder and endpoints.
	HistoryEnabled bool

	// KafkaBroker and KafkaTopic configure the valuation event
	// publisher. An empty broker disables publishing.
	KafkaBroker string
	KafkaTopic  string

	// CacheTTL is how long a valuation is served from cache.
	CacheTTL time.Duration

	// FetchTimeout bounds one listing fetch end to end.
	FetchTimeout time.Duration

	// RequestTimeout bounds a single HTTP request to an upstream site.
	RequestTimeout time.Duration

	// RequestsPerSecond is the sustained outbound fetch rate.
	RequestsPerSecond float64
}

// Load reads configuration from the environment.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &AppConfig{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		ClickHouseDSN:     getDatabaseDSN(),
		HistoryEnabled:    getEnvBool("HISTORY_ENABLED", true),
		KafkaBroker:       getEnv("KAFKA_BROKER", ""),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "valuation_events"),
		CacheTTL:          getEnvDuration("CACHE_TTL", 24*time.Hour),
		FetchTimeout:      getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		RequestsPerSecond: getEnvFloat("REQUESTS_PER_SECOND", 1.0),
	}
}

// getDatabaseDSN constructs the ClickHouse DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("CLICKHOUSE_USER", "default")
	dbPassword := getEnv("CLICKHOUSE_PASSWORD", "")
	dbHost := getEnv("CLICKHOUSE_HOST", "localhost")
	dbPort := getEnv("CLICKHOUSE_TCP_PORT", "9000")
	dbName := getEnv("CLICKHOUSE_DB", "default")

	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s&read_timeout=20s",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("invalid bool for %s: %q, using default", key, value)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		log.Printf("invalid number for %s: %q, using default", key, value)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		log.Printf("invalid duration for %s: %q, using default", key, value)
		return defaultValue
	}
	return parsed
}
