package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application. Server, cache and
// logging settings come from environment variables; the bots file carries
// the network, scenario and token configuration.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	Bots      BotsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CacheConfig holds report cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
	WindowSize        time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string
	Environment string
	OutputPaths []string
}

// BotsConfig is the YAML bots file: data-node endpoints, scenario
// definitions, the privileged token allow-set and the wallet state file.
type BotsConfig struct {
	Network    NetworkConfig             `yaml:"network"`
	Scenarios  map[string]ScenarioConfig `yaml:"scenarios"`
	AuthTokens []string                  `yaml:"auth_tokens"`
	Wallet     WalletConfig              `yaml:"wallet"`
}

// NetworkConfig lists the candidate REST hosts in failover order.
type NetworkConfig struct {
	RestEndpoints []string `yaml:"rest_endpoints"`
	// MaxLagBlocks is how far behind the best-known block height an
	// endpoint may be and still count as healthy.
	MaxLagBlocks uint64 `yaml:"max_lag_blocks"`
}

// WalletConfig points at the wallet collaborator's state file.
type WalletConfig struct {
	StateFile string `yaml:"state_file"`
}

// ScenarioConfig describes one trading scenario: its target market and the
// per-category trader parameters.
type ScenarioConfig struct {
	MarketName      string       `yaml:"market_name"`
	EnableTopUp     bool         `yaml:"enable_top_up"`
	MarketMaker     TraderParams `yaml:"market_maker"`
	AuctionTrader   TraderParams `yaml:"auction_trader"`
	RandomTrader    TraderParams `yaml:"random_trader"`
	SensitiveTrader TraderParams `yaml:"sensitive_trader"`
}

// TraderParams holds the funding parameters for one trader category.
type TraderParams struct {
	// Traders caps how many rows the report emits for this category.
	Traders int `yaml:"traders"`
	// InitialMint is the wanted token amount, in whole tokens.
	InitialMint float64 `yaml:"initial_mint"`
}

// LoadConfig loads environment configuration and the bots file. The bots
// file path comes from BOTS_CONFIG_FILE and defaults to ./config.yaml.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Cache: CacheConfig{
			TTL: getDurationEnv("REPORT_CACHE_TTL", time.Minute),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getIntEnv("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
			WindowSize:        getDurationEnv("RATE_LIMIT_WINDOW_SIZE", time.Minute),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Environment: getEnv("LOG_ENVIRONMENT", "development"),
			OutputPaths: []string{getEnv("LOG_OUTPUT_PATH", "stdout")},
		},
	}

	botsFile := getEnv("BOTS_CONFIG_FILE", "./config.yaml")
	bots, err := loadBotsConfig(botsFile)
	if err != nil {
		return nil, err
	}
	cfg.Bots = *bots

	return cfg, nil
}

func loadBotsConfig(path string) (*BotsConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bots config %s: %w", path, err)
	}

	var bots BotsConfig
	if err := yaml.Unmarshal(raw, &bots); err != nil {
		return nil, fmt.Errorf("decoding bots config %s: %w", path, err)
	}

	if err := bots.validate(); err != nil {
		return nil, fmt.Errorf("invalid bots config %s: %w", path, err)
	}

	return &bots, nil
}

func (b *BotsConfig) validate() error {
	if len(b.Network.RestEndpoints) == 0 {
		return fmt.Errorf("network.rest_endpoints must list at least one host")
	}

	if b.Network.MaxLagBlocks == 0 {
		b.Network.MaxLagBlocks = 100
	}

	for name, scenario := range b.Scenarios {
		if scenario.MarketName == "" {
			return fmt.Errorf("scenario %q is missing market_name", name)
		}
		// A scenario always has exactly one market maker unless the file
		// says otherwise.
		if scenario.MarketMaker.Traders == 0 {
			scenario.MarketMaker.Traders = 1
			b.Scenarios[name] = scenario
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
