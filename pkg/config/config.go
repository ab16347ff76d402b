package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spotarb/spot-arb/pkg/types"
)

// Credentials holds optional API credentials for one venue. All public
// read endpoints work without them.
type Credentials struct {
	APIKey     string
	Secret     string
	Passphrase string
}

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Opportunity engine
	TradeSizeUSDT   float64
	MinRawSpreadPct float64
	MinTradeUSDT    float64
	Debug           bool

	// Scan scheduler
	ScanInterval  time.Duration
	ScanBatchSize int
	ScanVenues    []types.VenueID

	// Exchange adapters
	AdapterTimeout   time.Duration
	AdapterRateRPS   float64
	AdapterRateBurst int
	ResponseCacheTTL time.Duration
	VenueCredentials map[types.VenueID]Credentials

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Engine defaults
		TradeSizeUSDT:   getFloat64OrDefault("TRADE_SIZE_USDT", 25.0),
		MinRawSpreadPct: getFloat64OrDefault("MIN_RAW_SPREAD_PCT", 0.0),
		MinTradeUSDT:    getFloat64OrDefault("MIN_TRADE_USDT", 1.0),
		Debug:           getBoolOrDefault("ARB_DEBUG", false),

		// Scheduler defaults
		ScanInterval:  time.Duration(getIntOrDefault("SCAN_INTERVAL_MS", 3000)) * time.Millisecond,
		ScanBatchSize: getIntOrDefault("SCAN_BATCH_SIZE", 30),
		ScanVenues:    getVenuesOrDefault("SCAN_VENUES"),

		// Adapter defaults
		AdapterTimeout:   time.Duration(getIntOrDefault("ADAPTER_TIMEOUT_MS", 30000)) * time.Millisecond,
		AdapterRateRPS:   getFloat64OrDefault("ADAPTER_RATE_RPS", 10.0),
		AdapterRateBurst: getIntOrDefault("ADAPTER_RATE_BURST", 20),
		ResponseCacheTTL: time.Duration(getIntOrDefault("RESPONSE_CACHE_TTL_MS", 500)) * time.Millisecond,
		VenueCredentials: loadVenueCredentials(),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "spotarb"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "spotarb"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "spot_arb"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid. Misconfiguration is
// the only fatal error class; everything else is recovered at runtime.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.TradeSizeUSDT <= 0 {
		return fmt.Errorf("TRADE_SIZE_USDT must be positive, got %f", c.TradeSizeUSDT)
	}

	if c.MinRawSpreadPct < 0 {
		return fmt.Errorf("MIN_RAW_SPREAD_PCT cannot be negative, got %f", c.MinRawSpreadPct)
	}

	if c.MinTradeUSDT <= 0 {
		return fmt.Errorf("MIN_TRADE_USDT must be positive, got %f", c.MinTradeUSDT)
	}

	if c.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL_MS must be positive, got %s", c.ScanInterval)
	}

	if c.ScanBatchSize <= 0 {
		return fmt.Errorf("SCAN_BATCH_SIZE must be positive, got %d", c.ScanBatchSize)
	}

	if len(c.ScanVenues) == 0 {
		return fmt.Errorf("SCAN_VENUES resolved to an empty venue set")
	}

	for _, v := range c.ScanVenues {
		if !types.IsVenue(v) {
			return fmt.Errorf("SCAN_VENUES contains unsupported venue %q", v)
		}
	}

	if c.StorageMode != "console" && c.StorageMode != "postgres" {
		return fmt.Errorf("STORAGE_MODE must be 'console' or 'postgres', got %q", c.StorageMode)
	}

	return nil
}

// loadVenueCredentials reads optional per-venue credentials, keyed as
// BINANCE_API_KEY, KUCOIN_SECRET, KUCOIN_PASSPHRASE and so on.
func loadVenueCredentials() map[types.VenueID]Credentials {
	creds := make(map[types.VenueID]Credentials)
	for _, v := range types.Venues() {
		prefix := strings.ToUpper(string(v))
		c := Credentials{
			APIKey:     os.Getenv(prefix + "_API_KEY"),
			Secret:     os.Getenv(prefix + "_SECRET"),
			Passphrase: os.Getenv(prefix + "_PASSPHRASE"),
		}
		if c.APIKey != "" || c.Secret != "" || c.Passphrase != "" {
			creds[v] = c
		}
	}
	return creds
}

func getVenuesOrDefault(key string) []types.VenueID {
	value := os.Getenv(key)
	if value == "" {
		return types.Venues()
	}

	var venues []types.VenueID
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		venues = append(venues, types.VenueID(part))
	}
	return venues
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}
