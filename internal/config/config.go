package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Inventory InventoryConfig
	Machine   MachineConfig
	LogLevel  string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for deposit and vend
}

type InventoryConfig struct {
	Source  string // File path or URL; empty selects the embedded inventory
	Timeout int    // Seconds allowed for fetching a remote source
}

type MachineConfig struct {
	InitialBalance decimal.Decimal
	Ordering       string // "observed" or "atomic"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	rawBalance := getEnv("INITIAL_BALANCE", "10.00")
	balance, err := decimal.NewFromString(rawBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: invalid INITIAL_BALANCE %q: %w", rawBalance, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", []string{"apitest"}),
		},
		Inventory: InventoryConfig{
			Source:  getEnv("INVENTORY_SOURCE", ""),
			Timeout: getEnvAsInt("INVENTORY_TIMEOUT", 30),
		},
		Machine: MachineConfig{
			InitialBalance: balance,
			Ordering:       strings.ToLower(getEnv("VEND_ORDERING", "observed")),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	if c.Inventory.Timeout <= 0 {
		return fmt.Errorf("INVENTORY_TIMEOUT must be positive")
	}

	if c.Machine.InitialBalance.IsNegative() {
		return fmt.Errorf("INITIAL_BALANCE must not be negative")
	}

	if c.Machine.Ordering != "observed" && c.Machine.Ordering != "atomic" {
		return fmt.Errorf("invalid VEND_ORDERING: %s (must be observed or atomic)", c.Machine.Ordering)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
