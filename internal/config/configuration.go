package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultUserAgent is sent with every yt-dlp request unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Config struct {
	// External binaries
	YtdlpPath  string `mapstructure:"YTFETCH_YTDLP_PATH" validate:"required"`
	FFmpegPath string `mapstructure:"YTFETCH_FFMPEG_PATH" validate:"required"`

	// Download defaults
	OutputDir    string        `mapstructure:"YTFETCH_OUTPUT_DIR" validate:"required"`
	AudioQuality int           `mapstructure:"YTFETCH_AUDIO_QUALITY" validate:"min=32,max=320"`
	MaxHeight    int           `mapstructure:"YTFETCH_MAX_HEIGHT" validate:"min=144"`
	IgnoreErrors bool          `mapstructure:"YTFETCH_IGNORE_ERRORS"`
	ProbeTimeout time.Duration `mapstructure:"YTFETCH_PROBE_TIMEOUT" validate:"min=0"`
	UserAgent    string        `mapstructure:"YTFETCH_USER_AGENT" validate:"required"`

	// CookiesBrowser forces a browser for --cookies-from-browser; "none" disables cookies.
	CookiesBrowser string `mapstructure:"YTFETCH_COOKIES_BROWSER" validate:"omitempty,oneof=safari chrome chromium firefox edge opera brave none"`

	LogLevel string `mapstructure:"YTFETCH_LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag != "" {
			_ = viper.BindEnv(tag)
		}
	}
}

// DefaultOutputDir returns ~/Downloads, or ./Downloads if the home directory is unknown.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "Downloads"
	}
	return filepath.Join(home, "Downloads")
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("YTFETCH_YTDLP_PATH", "yt-dlp")
	viper.SetDefault("YTFETCH_FFMPEG_PATH", "ffmpeg")
	viper.SetDefault("YTFETCH_OUTPUT_DIR", DefaultOutputDir())
	viper.SetDefault("YTFETCH_AUDIO_QUALITY", 320)
	viper.SetDefault("YTFETCH_MAX_HEIGHT", 1080)
	viper.SetDefault("YTFETCH_IGNORE_ERRORS", true)
	viper.SetDefault("YTFETCH_PROBE_TIMEOUT", "60s")
	viper.SetDefault("YTFETCH_USER_AGENT", DefaultUserAgent)
	viper.SetDefault("YTFETCH_LOG_LEVEL", "warn")

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	slog.Debug("Loaded configuration", "config", cfg)

	return &cfg, nil
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}
