package app

import (
	"errors"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	DataDir    string `envconfig:"DATA_DIR" default:"data"`
	ReceiptDir string `envconfig:"RECEIPT_DIR" default:""`

	VIPDiscount       float64 `envconfig:"VIP_DISCOUNT" default:"0.1"`
	LowStockThreshold int     `envconfig:"LOW_STOCK_THRESHOLD" default:"5"`

	AdminKey string `envconfig:"ADMIN_KEY" default:"admin123"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		return nil, errors.New("data directory must be provided")
	}
	if cfg.VIPDiscount < 0 || cfg.VIPDiscount > 1 {
		return nil, errors.New("vip discount must be within [0,1]")
	}
	if cfg.ReceiptDir == "" {
		cfg.ReceiptDir = filepath.Join(cfg.DataDir, "transactions")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
