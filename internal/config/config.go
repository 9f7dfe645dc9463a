// Package config loads skrinja settings from an optional file and SKRINJA_*
// environment variables. Environment variables take precedence.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// SKRINJA_STORAGE_DRIVER for storage.driver.
const EnvPrefix = "SKRINJA"

// Config groups all settings.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Label   LabelConfig   `mapstructure:"label"`
	Share   ShareConfig   `mapstructure:"share"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig selects the database holding the inventory.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	Path   string `mapstructure:"path"`   // SQLite file
	DSN    string `mapstructure:"dsn"`    // Postgres connection URL
}

// DataSource returns the path or DSN for the configured driver.
func (c StorageConfig) DataSource() string {
	if c.Driver == "postgres" {
		return c.DSN
	}
	return c.Path
}

// LabelConfig controls generated labels.
type LabelConfig struct {
	Size int `mapstructure:"size"` // QR code size in pixels
}

// ShareConfig selects where shared documents go.
type ShareConfig struct {
	Driver string   `mapstructure:"driver"` // dir or s3
	Dir    string   `mapstructure:"dir"`
	S3     S3Config `mapstructure:"s3"`
}

// S3Config configures the S3 share driver.
type S3Config struct {
	Bucket          string        `mapstructure:"bucket"`
	Region          string        `mapstructure:"region"`
	Prefix          string        `mapstructure:"prefix"`
	Endpoint        string        `mapstructure:"endpoint"`
	PathStyle       bool          `mapstructure:"path_style"`
	Expiry          time.Duration `mapstructure:"expiry"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
}

// MetricsConfig controls metrics output.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"` // empty disables metrics
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn or error
}

// SlogLevel parses Level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "skrinja.sqlite3")
	v.SetDefault("storage.dsn", "")

	v.SetDefault("label.size", 512)

	v.SetDefault("share.driver", "dir")
	v.SetDefault("share.dir", "labels")
	v.SetDefault("share.s3.bucket", "")
	v.SetDefault("share.s3.region", "us-east-1")
	v.SetDefault("share.s3.prefix", "")
	v.SetDefault("share.s3.endpoint", "")
	v.SetDefault("share.s3.path_style", false)
	v.SetDefault("share.s3.expiry", "24h")
	v.SetDefault("share.s3.access_key_id", "")
	v.SetDefault("share.s3.secret_access_key", "")

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("log.level", "warn")
}

// Load reads configuration. path may be empty, in which case only defaults
// and the environment are used. The file format follows its extension
// (yaml, toml, json, env).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail later.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Share.Driver {
	case "dir":
	case "s3":
		if c.Share.S3.Bucket == "" {
			return fmt.Errorf("share.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown share.driver %q", c.Share.Driver)
	}

	if c.Label.Size <= 0 {
		return fmt.Errorf("label.size must be positive")
	}
	return nil
}
