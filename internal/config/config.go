// Package config loads safezone settings from defaults, an optional config
// file, SAFEZONE_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/safezone/internal/colour"
)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "SAFEZONE"

// Config is the full set of settings.
type Config struct {
	Canvas      CanvasConfig      `mapstructure:"canvas"`
	Coordinator CoordinatorConfig `mapstructure:"coordinator"`
	Recommend   RecommendConfig   `mapstructure:"recommend"`
	WCAG        WCAGConfig        `mapstructure:"wcag"`
	Worker      WorkerConfig      `mapstructure:"worker"`
	Log         LogConfig         `mapstructure:"log"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// CanvasConfig is the size of the sampled plane in pixels.
type CanvasConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type CoordinatorConfig struct {
	Throttle time.Duration `mapstructure:"throttle"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type RecommendConfig struct {
	SafetyMargin float64 `mapstructure:"safety_margin"`
}

// WCAGConfig selects the contrast threshold.
type WCAGConfig struct {
	Level    string `mapstructure:"level"`
	Category string `mapstructure:"category"`
	Element  string `mapstructure:"element"`
}

type WorkerConfig struct {
	Isolated  bool `mapstructure:"isolated"`
	CacheSize int  `mapstructure:"cache_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// Options controls where Load looks for settings.
type Options struct {
	// Path is an explicit config file. When empty, safezone.{yaml,json,toml}
	// is looked up in the working directory and the user config directory,
	// and a missing file is not an error.
	Path string
	// Flags maps config keys to command-line flags. A flag only overrides
	// the other sources when it was set explicitly.
	Flags map[string]*pflag.Flag
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("canvas.width", 240)
	v.SetDefault("canvas.height", 240)
	v.SetDefault("coordinator.throttle", 100*time.Millisecond)
	v.SetDefault("coordinator.timeout", 2000*time.Millisecond)
	v.SetDefault("recommend.safety_margin", 3.0)
	v.SetDefault("wcag.level", string(colour.LevelAA))
	v.SetDefault("wcag.category", string(colour.CategoryText))
	v.SetDefault("wcag.element", string(colour.ElementNormal))
	v.SetDefault("worker.isolated", false)
	v.SetDefault("worker.cache_size", 64)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("metrics.address", "")
}

// Load reads the configuration and validates it.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
	} else {
		v.SetConfigName("safezone")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "safezone"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %q: %w", flag.Name, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.Path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings for values the engine cannot use.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Coordinator.Throttle <= 0 {
		return fmt.Errorf("coordinator.throttle must be greater than zero")
	}
	if c.Coordinator.Timeout <= 0 {
		return fmt.Errorf("coordinator.timeout must be greater than zero")
	}
	if c.Recommend.SafetyMargin < 0 {
		return fmt.Errorf("recommend.safety_margin cannot be negative")
	}
	if c.Worker.CacheSize < 0 {
		return fmt.Errorf("worker.cache_size cannot be negative")
	}
	if _, err := c.Threshold(); err != nil {
		return err
	}
	return nil
}

// Threshold is the contrast ratio required by the WCAG settings.
func (c *Config) Threshold() (float64, error) {
	level, err := colour.ParseLevel(c.WCAG.Level)
	if err != nil {
		return 0, err
	}
	category, err := colour.ParseCategory(c.WCAG.Category)
	if err != nil {
		return 0, err
	}
	element, err := colour.ParseElement(c.WCAG.Element)
	if err != nil {
		return 0, err
	}
	return colour.ContrastThreshold(level, category, element)
}
