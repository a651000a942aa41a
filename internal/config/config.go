// Package config loads bom-oscars settings from defaults, an optional
// bom-oscars.yaml file, a .env file, BOM_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file name searched for without an extension.
	FileName = "bom-oscars"
	// EnvPrefix prefixes environment overrides, e.g. BOM_START_YEAR.
	EnvPrefix = "BOM"

	DefaultBaseURL    = "http://www.boxofficemojo.com"
	DefaultStartYear  = 1950
	DefaultEndYear    = 2017
	DefaultOutputPath = "bom_oscars.csv"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL      = errors.New("base_url is required")
	ErrInvalidYearRange    = errors.New("start_year must be positive and not after end_year")
	ErrMissingOutputPath   = errors.New("output.path is required")
	ErrInvalidOutputFormat = errors.New("output.format must be 'csv' or 'xlsx'")
	ErrInvalidTimeout      = errors.New("http.timeout must be non-negative")
	ErrInvalidLogLevel     = errors.New("log.level must be one of: debug, info, warn, error")
)

// Config is the complete run configuration.
type Config struct {
	BaseURL        string       `mapstructure:"base_url"`
	StartYear      int          `mapstructure:"start_year"`
	EndYear        int          `mapstructure:"end_year"`
	Lenient        bool         `mapstructure:"lenient"`
	SearchFallback bool         `mapstructure:"search_fallback"`
	CategoriesFile string       `mapstructure:"categories_file"`
	Output         OutputConfig `mapstructure:"output"`
	HTTP           HTTPConfig   `mapstructure:"http"`
	Log            LogConfig    `mapstructure:"log"`
}

// OutputConfig controls where the table is written.
type OutputConfig struct {
	Path string `mapstructure:"path"`
	// Format is csv or xlsx. Empty selects by the path's extension.
	Format string `mapstructure:"format"`
	// NominationsPath optionally receives the flat nomination records.
	NominationsPath string `mapstructure:"nominations_path"`
}

// HTTPConfig configures the page fetcher.
type HTTPConfig struct {
	// Timeout of zero leaves requests unbounded.
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// FlagBindings maps command-line flag names to config keys.
var FlagBindings = map[string]string{
	"base-url":        "base_url",
	"start":           "start_year",
	"end":             "end_year",
	"search-fallback": "search_fallback",
	"categories":      "categories_file",
	"out":             "output.path",
	"format":          "output.format",
	"noms-out":        "output.nominations_path",
	"timeout":         "http.timeout",
	"user-agent":      "http.user_agent",
	"log-level":       "log.level",
}

// Load builds a Config. path names an explicit config file; when empty,
// bom-oscars.yaml is looked up in the working directory and may be absent.
// Flags present in flags and listed in FlagBindings override other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("start_year", DefaultStartYear)
	v.SetDefault("end_year", DefaultEndYear)
	v.SetDefault("lenient", true)
	v.SetDefault("search_fallback", false)
	v.SetDefault("categories_file", "")
	v.SetDefault("output.path", DefaultOutputPath)
	v.SetDefault("output.format", "")
	v.SetDefault("output.nominations_path", "")
	v.SetDefault("http.timeout", time.Duration(0))
	v.SetDefault("http.user_agent", "")
	v.SetDefault("log.level", "info")
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if c.StartYear <= 0 || c.StartYear > c.EndYear {
		return fmt.Errorf("%w (got %d-%d)", ErrInvalidYearRange, c.StartYear, c.EndYear)
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		return ErrMissingOutputPath
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "csv", "xlsx":
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidOutputFormat, c.Output.Format)
	}
	if c.HTTP.Timeout < 0 {
		return ErrInvalidTimeout
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidLogLevel, c.Log.Level)
	}
	return nil
}

// Years returns the inclusive list of years to process.
func (c *Config) Years() []int {
	if c.StartYear > c.EndYear {
		return nil
	}
	years := make([]int, 0, c.EndYear-c.StartYear+1)
	for y := c.StartYear; y <= c.EndYear; y++ {
		years = append(years, y)
	}
	return years
}
