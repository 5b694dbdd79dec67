package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "BIOMARKERS"

type ExtractionMode string

const (
	ModeLocal  ExtractionMode = "local"
	ModeRemote ExtractionMode = "remote"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	History    HistoryConfig    `mapstructure:"history"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Export     ExportConfig     `mapstructure:"export"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ExtractionConfig struct {
	Mode          ExtractionMode `mapstructure:"mode"`
	Engine        string         `mapstructure:"engine"`
	MinTextLength int            `mapstructure:"min_text_length"`
	MaxUploadMB   int            `mapstructure:"max_upload_mb"`
	PageWorkers   int            `mapstructure:"page_workers"`
	RemoteURL     string         `mapstructure:"remote_url"`
	Timeout       time.Duration  `mapstructure:"timeout"`
}

// MaxUploadBytes is the upload limit in bytes.
func (c ExtractionConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

type HistoryConfig struct {
	MaxEntries             int  `mapstructure:"max_entries"`
	OverwriteMissingFields bool `mapstructure:"overwrite_missing_fields"`
	DeriveTrend            bool `mapstructure:"derive_trend"`
}

type CatalogConfig struct {
	RangesFile string `mapstructure:"ranges_file"`
}

type ExportConfig struct {
	Dir      string `mapstructure:"dir"`
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Prefix string `mapstructure:"s3_prefix"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("extraction.mode", string(ModeLocal))
	v.SetDefault("extraction.engine", "pdf")
	v.SetDefault("extraction.min_text_length", 100)
	v.SetDefault("extraction.max_upload_mb", 20)
	v.SetDefault("extraction.page_workers", 4)
	v.SetDefault("extraction.remote_url", "")
	v.SetDefault("extraction.timeout", 60*time.Second)

	v.SetDefault("history.max_entries", 6)
	v.SetDefault("history.overwrite_missing_fields", false)
	v.SetDefault("history.derive_trend", false)

	v.SetDefault("catalog.ranges_file", "")

	v.SetDefault("export.dir", ".")
	v.SetDefault("export.s3_bucket", "")
	v.SetDefault("export.s3_prefix", "exports/")
}

// Load reads configuration from the optional YAML file at path, then from
// BIOMARKERS_* environment variables, falling back to built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Extraction.Mode {
	case ModeLocal:
	case ModeRemote:
		if c.Extraction.RemoteURL == "" {
			errs = append(errs, errors.New("extraction.remote_url is required in remote mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown extraction.mode %q", c.Extraction.Mode))
	}
	switch c.Extraction.Engine {
	case "pdf", "fitz":
	default:
		errs = append(errs, fmt.Errorf("unknown extraction.engine %q", c.Extraction.Engine))
	}
	if c.Extraction.MinTextLength < 0 {
		errs = append(errs, errors.New("extraction.min_text_length must not be negative"))
	}
	if c.Extraction.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("extraction.max_upload_mb must be positive"))
	}
	if c.Extraction.PageWorkers <= 0 {
		errs = append(errs, errors.New("extraction.page_workers must be positive"))
	}
	if c.Extraction.Timeout <= 0 {
		errs = append(errs, errors.New("extraction.timeout must be positive"))
	}
	if c.History.MaxEntries < 1 {
		errs = append(errs, errors.New("history.max_entries must be at least 1"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server.port %d", c.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
