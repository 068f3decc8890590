package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the operational values loaded from config.yaml.
// Secrets (database DSN, payment keys, JWT secret) stay in the environment.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Cart     CartConfig     `yaml:"cart"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type CatalogConfig struct {
	DefaultPageLimit int `yaml:"default_page_limit"`
	MaxPageLimit     int `yaml:"max_page_limit"`
}

type CheckoutConfig struct {
	// CommissionRate is the platform-wide cut of each sale, e.g. 0.10.
	CommissionRate float64 `yaml:"commission_rate"`
	Currency       string  `yaml:"currency"`
	// SuccessURL and CancelURL are printf templates taking the tenant slug.
	SuccessURL string `yaml:"success_url"`
	CancelURL  string `yaml:"cancel_url"`
}

type CartConfig struct {
	// Dir is where per-device cart snapshots are persisted.
	Dir string `yaml:"dir"`
}

// Load reads filename and applies defaults for anything left unset.
// A missing file yields the defaults.
func Load(filename string) (*AppConfig, error) {
	cfg := &AppConfig{}

	file, err := os.Open(filename)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = GetEnv("APP_PORT", "8080")
	}
	if cfg.Catalog.DefaultPageLimit == 0 {
		cfg.Catalog.DefaultPageLimit = 12
	}
	if cfg.Catalog.MaxPageLimit == 0 {
		cfg.Catalog.MaxPageLimit = 100
	}
	if cfg.Checkout.CommissionRate == 0 {
		cfg.Checkout.CommissionRate = 0.10
	}
	if cfg.Checkout.Currency == "" {
		cfg.Checkout.Currency = "usd"
	}
	if cfg.Checkout.SuccessURL == "" {
		cfg.Checkout.SuccessURL = "http://localhost:3000/tenants/%s/checkout?success=true"
	}
	if cfg.Checkout.CancelURL == "" {
		cfg.Checkout.CancelURL = "http://localhost:3000/tenants/%s/checkout?cancel=true"
	}
	if cfg.Cart.Dir == "" {
		cfg.Cart.Dir = "./carts"
	}
	return cfg, nil
}

// GetEnv reads an environment variable with a fallback.
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
