package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Filter  FilterConfig  `yaml:"filter" envconfig:"FILTER"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
	Loader  LoaderConfig  `yaml:"loader" envconfig:"LOADER"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// FilterConfig contains limits for filter evaluation
type FilterConfig struct {
	MaxConditions int `yaml:"max_conditions" envconfig:"MAX_CONDITIONS"`
	PreviewRows   int `yaml:"preview_rows" envconfig:"PREVIEW_ROWS"`
}

// ExportConfig contains naming rules for the exported workbook
type ExportConfig struct {
	MaxFilenameLength  int    `yaml:"max_filename_length" envconfig:"MAX_FILENAME_LENGTH"`
	MaxSheetNameLength int    `yaml:"max_sheet_name_length" envconfig:"MAX_SHEET_NAME_LENGTH"`
	TimestampFormat    string `yaml:"timestamp_format" envconfig:"TIMESTAMP_FORMAT"`
}

// LoaderConfig contains limits for dataset loading
type LoaderConfig struct {
	MaxFileSizeMB int64 `yaml:"max_file_size_mb" envconfig:"MAX_FILE_SIZE_MB"`
}

// Load loads configuration from an optional config file overlaid with
// environment variables (env takes precedence over file, file over defaults)
func Load() (*Config, error) {
	cfg := Default()

	configFile := getConfigFilePath()
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("SHEETSPLIT", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Filter.MaxConditions <= 0 {
		return fmt.Errorf("filter max conditions must be positive")
	}

	if c.Export.MaxSheetNameLength <= 4 {
		// Needs room for the truncation marker plus at least one character
		return fmt.Errorf("sheet name length cap too small: %d", c.Export.MaxSheetNameLength)
	}

	if c.Export.MaxFilenameLength <= len(c.Export.TimestampFormat)+10 {
		return fmt.Errorf("filename length cap too small: %d", c.Export.MaxFilenameLength)
	}

	if c.Loader.MaxFileSizeMB <= 0 {
		return fmt.Errorf("loader max file size must be positive")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Filter: FilterConfig{
			MaxConditions: 10,
			PreviewRows:   20,
		},
		Export: ExportConfig{
			MaxFilenameLength:  200,
			MaxSheetNameLength: 31,
			TimestampFormat:    "20060102_150405",
		},
		Loader: LoaderConfig{
			MaxFileSizeMB: 100,
		},
	}
}
