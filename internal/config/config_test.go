package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "HOST", "API_KEYS", "INVENTORY_SOURCE", "INITIAL_BALANCE", "VEND_ORDERING", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Inventory.Source != "" {
		t.Errorf("expected embedded inventory, got %q", cfg.Inventory.Source)
	}
	if !cfg.Machine.InitialBalance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected initial balance 10, got %s", cfg.Machine.InitialBalance)
	}
	if cfg.Machine.Ordering != "observed" {
		t.Errorf("expected observed ordering, got %s", cfg.Machine.Ordering)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "apitest" {
		t.Errorf("unexpected API keys %v", cfg.Auth.APIKeys)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_KEYS", "one, two,")
	t.Setenv("INVENTORY_SOURCE", "/etc/vending/inventory.yaml")
	t.Setenv("INITIAL_BALANCE", "2.75")
	t.Setenv("VEND_ORDERING", "ATOMIC")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if len(cfg.Auth.APIKeys) != 2 || cfg.Auth.APIKeys[1] != "two" {
		t.Errorf("unexpected API keys %v", cfg.Auth.APIKeys)
	}
	if cfg.Inventory.Source != "/etc/vending/inventory.yaml" {
		t.Errorf("unexpected inventory source %q", cfg.Inventory.Source)
	}
	if !cfg.Machine.InitialBalance.Equal(decimal.RequireFromString("2.75")) {
		t.Errorf("expected initial balance 2.75, got %s", cfg.Machine.InitialBalance)
	}
	if cfg.Machine.Ordering != "atomic" {
		t.Errorf("expected atomic ordering, got %s", cfg.Machine.Ordering)
	}
}

func TestLoad_InvalidInitialBalance(t *testing.T) {
	for _, raw := range []string{"ten", "1.2.3", "-1"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("INITIAL_BALANCE", raw)

			cfg, err := Load()
			if err == nil {
				t.Fatalf("Load() expected error for INITIAL_BALANCE=%q, got balance %s", raw, cfg.Machine.InitialBalance)
			}
			if cfg != nil {
				t.Error("Load() returned a config alongside an error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			Auth:      AuthConfig{APIKeys: []string{"apitest"}},
			Inventory: InventoryConfig{Timeout: 30},
			Machine:   MachineConfig{InitialBalance: decimal.NewFromInt(10), Ordering: "observed"},
			LogLevel:  "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"no api keys", func(c *Config) { c.Auth.APIKeys = nil }, true},
		{"zero inventory timeout", func(c *Config) { c.Inventory.Timeout = 0 }, true},
		{"negative balance", func(c *Config) { c.Machine.InitialBalance = decimal.NewFromInt(-1) }, true},
		{"zero balance", func(c *Config) { c.Machine.InitialBalance = decimal.Zero }, false},
		{"unknown ordering", func(c *Config) { c.Machine.Ordering = "strict" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
