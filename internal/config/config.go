// Package config loads the defaults of the rowset CLI from an optional config
// file and ROWSET_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Alp4ka/rowset"
	"github.com/Alp4ka/rowset/export"
)

// EnvPrefix is the prefix of the environment variables read by Load:
// ROWSET_LOG_LEVEL, ROWSET_PAGE_SIZE, ROWSET_EXPORT_FORMAT and
// ROWSET_EXPORT_COMPRESSION.
const EnvPrefix = "ROWSET"

// FormatJSON is the output format that writes rows as JSON Lines instead of
// delimited text.
const FormatJSON = "json"

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Page   PageConfig   `mapstructure:"page"`
	Export ExportConfig `mapstructure:"export"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type PageConfig struct {
	Size int `mapstructure:"size"`
}

type ExportConfig struct {
	Format      string `mapstructure:"format"`
	Compression string `mapstructure:"compression"`
}

// Load reads path when it is not empty, then the environment. Every key has
// a default so an empty environment yields a usable Config.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log.level", rowset.LogLevelInfo.String())
	v.SetDefault("page.size", rowset.DefaultRowsPerPage)
	v.SetDefault("export.format", FormatJSON)
	v.SetDefault("export.compression", string(export.CompressionNone))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks every value. Page sizes are clamped rather than rejected.
func (c *Config) Validate() error {
	if _, err := rowset.ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Export.Format != FormatJSON {
		if _, err := export.ParseFormat(c.Export.Format); err != nil {
			return err
		}
	}
	if _, err := export.ParseCompression(c.Export.Compression); err != nil {
		return err
	}
	c.Page.Size = rowset.NormalizeRowsPerPage(c.Page.Size)

	return nil
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() rowset.LogLevel {
	l, _ := rowset.ParseLogLevel(c.Log.Level)
	return l
}
