// Package config loads the client settings from pixelchat.toml and
// PIXELCHAT_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds every tunable the client reads at startup.
type Config struct {
	Port       int  `mapstructure:"port"`
	GridWidth  int  `mapstructure:"grid_width"`
	GridHeight int  `mapstructure:"grid_height"`
	MaxColors  int  `mapstructure:"max_colors"`
	Dither     bool `mapstructure:"dither"`
}

// Load reads pixelchat.toml from the working directory, if present,
// with environment variables taking precedence. A missing file just
// means defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("port", 8890)
	v.SetDefault("grid_width", 32)
	v.SetDefault("grid_height", 32)
	v.SetDefault("max_colors", 16)
	v.SetDefault("dither", false)

	v.SetConfigName("pixelchat")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("pixelchat")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Printf("[CONFIG] Loaded %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.GridWidth <= 0 || cfg.GridHeight <= 0 {
		return Config{}, fmt.Errorf("invalid grid size %dx%d", cfg.GridWidth, cfg.GridHeight)
	}
	if cfg.MaxColors < 2 {
		return Config{}, fmt.Errorf("max_colors %d must be at least 2", cfg.MaxColors)
	}
	return cfg, nil
}
