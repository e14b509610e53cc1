package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Binance BinanceConfig `yaml:"binance"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type BinanceConfig struct {
	APIKey         string               `yaml:"api_key"`
	APISecret      string               `yaml:"api_secret"`
	Timeout        time.Duration        `yaml:"timeout"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
}

const defaultConfigPath = "config/config.yml"

var envConfigPaths = map[string]string{
	environmentProduction: "config/config.production.yml",
	environmentStaging:    "config/config.staging.yml",
}

// LoadConfig reads the YAML configuration at path, falling back to an
// environment specific file when APP_ENV selects one. Exchange credentials
// from the environment always win over the file so keys never have to live
// on disk.
func LoadConfig(path string) (*Config, error) {
	path = resolveEnvSpecificPath(path, defaultConfigPath, envConfigPaths)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Binance: BinanceConfig{
			Timeout: 15 * time.Second,
			ConnectionPool: ConnectionPoolConfig{
				MaxIdleConns:    10,
				MaxConnsPerHost: 10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		config.Binance.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		config.Binance.APISecret = strings.TrimSpace(v)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if cfg.App.Version == "" {
		return fmt.Errorf("app.version is required")
	}

	if cfg.Binance.Timeout <= 0 {
		return fmt.Errorf("binance.timeout must be greater than 0")
	}
	if cfg.Binance.ConnectionPool.MaxIdleConns <= 0 {
		return fmt.Errorf("binance.connection_pool.max_idle_conns must be greater than 0")
	}
	if cfg.Binance.ConnectionPool.MaxConnsPerHost <= 0 {
		return fmt.Errorf("binance.connection_pool.max_conns_per_host must be greater than 0")
	}

	// Account endpoints cannot be reached without credentials. Only
	// production-like environments treat missing keys as fatal so the public
	// market data reports keep working in development.
	if IsProductionLike(AppEnvironment()) {
		if cfg.Binance.APIKey == "" || cfg.Binance.APISecret == "" {
			return fmt.Errorf("binance.api_key and binance.api_secret are required")
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required when metrics are enabled")
	}

	return nil
}
