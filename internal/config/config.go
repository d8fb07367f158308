package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/hospiviz-cli/internal/dataset"
)

// Global configuration structure.
type Global struct {
	// Input
	DataURL    string `mapstructure:"data_url" yaml:"data_url"`
	NameColumn string `mapstructure:"name_column" yaml:"name_column"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	Decimal    string `mapstructure:"decimal" yaml:"decimal"`
	Thousands  string `mapstructure:"thousands" yaml:"thousands"`
	Sheet      string `mapstructure:"sheet" yaml:"sheet"`

	// Synthesis
	Seed uint64 `mapstructure:"seed" yaml:"seed"`

	// Output
	OutputDir          string  `mapstructure:"output_dir" yaml:"output_dir"`
	MapRadiusScale     float64 `mapstructure:"map_radius_scale" yaml:"map_radius_scale"`
	ChartRadiusScale   float64 `mapstructure:"chart_radius_scale" yaml:"chart_radius_scale"`
	PopupIncludeRating bool    `mapstructure:"popup_include_rating" yaml:"popup_include_rating"`
	// ChartPopupIncludeRating applies to the map drawn alongside the charts by render.
	ChartPopupIncludeRating bool `mapstructure:"chart_popup_include_rating" yaml:"chart_popup_include_rating"`
	MapZoom                 int  `mapstructure:"map_zoom" yaml:"map_zoom"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	ServeAddr string `mapstructure:"serve_addr" yaml:"serve_addr"`
}

var defaults = map[string]any{
	"data_url":                   dataset.DefaultLocation,
	"name_column":                "",
	"delimiter":                  "",
	"decimal":                    "",
	"thousands":                  "",
	"sheet":                      "",
	"seed":                       0,
	"output_dir":                 ".",
	"map_radius_scale":           10.0,
	"chart_radius_scale":         20.0,
	"popup_include_rating":       false,
	"chart_popup_include_rating": true,
	"map_zoom":                   6,
	"http_timeout_sec":           60,
	"retry_max_attempts":         3,
	"retry_base_delay_ms":        500,
	"retry_max_delay_ms":         4000,
	"log_level":                  "info",
	"serve_addr":                 ":8080",
}

// Keys lists every configuration key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultPath is ~/.hospiviz/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".hospiviz", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.hospiviz/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (HOSPIVIZ_*, including values from a local .env) > config file > defaults.
// Command-line flags are applied on top by the caller.
func Load(cfgFile string) (*Global, error) {
	// .env is optional; existing environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HOSPIVIZ")
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns a configuration key from its string form.
func (c *Global) Set(key, value string) error {
	parseInt := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid integer %q", key, value)
		}
		return n, nil
	}
	parseFloat := func() (float64, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid number %q", key, value)
		}
		return f, nil
	}
	var err error
	switch key {
	case "data_url":
		c.DataURL = value
	case "name_column":
		c.NameColumn = value
	case "delimiter":
		c.Delimiter = value
	case "decimal":
		c.Decimal = value
	case "thousands":
		c.Thousands = value
	case "sheet":
		c.Sheet = value
	case "seed":
		c.Seed, err = strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("seed: invalid unsigned integer %q", value)
		}
	case "output_dir":
		c.OutputDir = value
	case "map_radius_scale":
		c.MapRadiusScale, err = parseFloat()
	case "chart_radius_scale":
		c.ChartRadiusScale, err = parseFloat()
	case "popup_include_rating":
		c.PopupIncludeRating, err = strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("popup_include_rating: invalid boolean %q", value)
		}
	case "chart_popup_include_rating":
		c.ChartPopupIncludeRating, err = strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("chart_popup_include_rating: invalid boolean %q", value)
		}
	case "map_zoom":
		c.MapZoom, err = parseInt()
	case "http_timeout_sec":
		c.HTTPTimeoutSec, err = parseInt()
	case "retry_max_attempts":
		c.RetryMaxAttempts, err = parseInt()
	case "retry_base_delay_ms":
		c.RetryBaseDelayMs, err = parseInt()
	case "retry_max_delay_ms":
		c.RetryMaxDelayMs, err = parseInt()
	case "log_level":
		c.LogLevel = value
	case "serve_addr":
		c.ServeAddr = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return err
}

// NumberFormat returns the configured numeric cell format.
func (c *Global) NumberFormat() (dataset.NumberFormat, error) {
	dec, err := singleRune("decimal", c.Decimal)
	if err != nil {
		return dataset.NumberFormat{}, err
	}
	thou, err := singleRune("thousands", c.Thousands)
	if err != nil {
		return dataset.NumberFormat{}, err
	}
	if dec != 0 && dec == thou {
		return dataset.NumberFormat{}, fmt.Errorf("decimal and thousands separators must differ")
	}
	return dataset.NumberFormat{Decimal: dec, Thousands: thou}, nil
}

// DelimiterRune returns the configured CSV delimiter, 0 for auto.
// "tab" and "\t" both mean a tab.
func (c *Global) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "tab", `\t`:
		return '\t', nil
	}
	return singleRune("delimiter", c.Delimiter)
}

func singleRune(key, s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", key, s)
	}
	return r[0], nil
}
