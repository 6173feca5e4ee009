package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Sheets  SheetsConfig  `yaml:"sheets" envconfig:"SHEETS"`
	HTTP    HTTPConfig    `yaml:"http" envconfig:"HTTP"`
	Reports ReportsConfig `yaml:"reports" envconfig:"REPORTS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// SheetsConfig configures access to the Google Sheets data source. The
// dataset id may be overridden per request; this is only the default.
type SheetsConfig struct {
	APIKey            string  `yaml:"api_key" envconfig:"API_KEY"`
	CredentialsFile   string  `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	DatasetID         string  `yaml:"dataset_id" envconfig:"DATASET_ID"`
	OrdersTable       string  `yaml:"orders_table" envconfig:"ORDERS_TABLE" default:"orders"`
	LineItemsTable    string  `yaml:"line_items_table" envconfig:"LINE_ITEMS_TABLE" default:"line_items"`
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" default:"1"`
	Burst             int     `yaml:"burst" envconfig:"BURST" default:"4"`
}

// HTTPConfig contains request-level protections for the API surface.
type HTTPConfig struct {
	RateLimitEnabled bool    `yaml:"rate_limit_enabled" envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RateLimitRPS     float64 `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst   int     `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"10"`
}

// ReportsConfig contains export output configuration.
type ReportsConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"reports"`
}

// Load reads configuration from environment variables, then fills anything
// the environment left at its zero value from an optional YAML file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("REFUND", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if path := configFilePath(); path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays env values on top of the file config; the environment wins
// wherever it set something.
func merge(file, env Config) Config {
	if env.Server.Port == 0 {
		env.Server.Port = file.Server.Port
	}
	if env.Server.ReadTimeout == 0 {
		env.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if env.Server.WriteTimeout == 0 {
		env.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if env.Server.IdleTimeout == 0 {
		env.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if env.Server.ShutdownTimeout == 0 {
		env.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}
	if env.Logging.Level == "" {
		env.Logging.Level = file.Logging.Level
	}
	if env.Logging.Output == "" {
		env.Logging.Output = file.Logging.Output
	}
	if env.Logging.FilePath == "" {
		env.Logging.FilePath = file.Logging.FilePath
	}
	if env.Sheets.APIKey == "" {
		env.Sheets.APIKey = file.Sheets.APIKey
	}
	if env.Sheets.CredentialsFile == "" {
		env.Sheets.CredentialsFile = file.Sheets.CredentialsFile
	}
	if env.Sheets.DatasetID == "" {
		env.Sheets.DatasetID = file.Sheets.DatasetID
	}
	if env.Sheets.OrdersTable == "" {
		env.Sheets.OrdersTable = file.Sheets.OrdersTable
	}
	if env.Sheets.LineItemsTable == "" {
		env.Sheets.LineItemsTable = file.Sheets.LineItemsTable
	}
	if env.Reports.Dir == "" {
		env.Reports.Dir = file.Reports.Dir
	}
	return env
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Sheets.OrdersTable == "" || c.Sheets.LineItemsTable == "" {
		return fmt.Errorf("sheets table names must not be empty")
	}
	if c.Sheets.RequestsPerSecond <= 0 {
		c.Sheets.RequestsPerSecond = 1
	}
	if c.Sheets.Burst <= 0 {
		c.Sheets.Burst = 1
	}
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	return nil
}

// configFilePath returns the first config file found in the usual spots.
func configFilePath() string {
	for _, location := range []string{"config.yaml", "configs/config.yaml"} {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the built-in configuration, used by tests and by the CLI
// when no environment is set up.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Sheets: SheetsConfig{
			OrdersTable:       "orders",
			LineItemsTable:    "line_items",
			RequestsPerSecond: 1,
			Burst:             4,
		},
		HTTP: HTTPConfig{
			RateLimitEnabled: true,
			RateLimitRPS:     20,
			RateLimitBurst:   10,
		},
		Reports: ReportsConfig{Dir: "reports"},
	}
}
