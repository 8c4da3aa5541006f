package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	App struct {
		Title    string `yaml:"title" validate:"required"`
		Caption  string `yaml:"caption"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`
	Pair struct {
		SymbolA      string `yaml:"symbol_a" validate:"required,nefield=SymbolB"`
		SymbolB      string `yaml:"symbol_b" validate:"required"`
		LookbackDays int    `yaml:"lookback_days" validate:"gte=2,lte=3650"`
	} `yaml:"pair"`
	DataSource struct {
		BaseURL      string        `yaml:"base_url" validate:"omitempty,url"`
		APIKey       string        `yaml:"api_key"`
		Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
		RatePerSec   float64       `yaml:"rate_per_sec" validate:"gt=0"`
		Burst        int           `yaml:"burst" validate:"gte=1"`
		BreakerTrips uint32        `yaml:"breaker_trips" validate:"gte=1"`
	} `yaml:"data_source"`
	Cache struct {
		TTL        time.Duration `yaml:"ttl" validate:"gte=0"`
		MaxEntries int           `yaml:"max_entries" validate:"gte=1"`
	} `yaml:"cache"`
	HTTP struct {
		Addr         string        `yaml:"addr" validate:"required,hostname_port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"http"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file is not an error: defaults cover every field.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load() // best-effort

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PAIRWATCH_SYMBOL_A"); v != "" {
		c.Pair.SymbolA = v
	}
	if v := os.Getenv("PAIRWATCH_SYMBOL_B"); v != "" {
		c.Pair.SymbolB = v
	}
	if v := os.Getenv("PAIRWATCH_LOOKBACK_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PAIRWATCH_LOOKBACK_DAYS: %w", err)
		}
		c.Pair.LookbackDays = days
	}
	if v := os.Getenv("PAIRWATCH_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.Cache.TTL = ttl
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Title == "" {
		c.App.Title = "BTC vs GODS Correlation Dashboard"
	}
	if c.App.Caption == "" {
		c.App.Caption = "Whether the two instruments move together or in opposite directions"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Pair.SymbolA == "" {
		c.Pair.SymbolA = "BTC-USD"
	}
	if c.Pair.SymbolB == "" {
		c.Pair.SymbolB = "GODS-USD"
	}
	if c.Pair.LookbackDays == 0 {
		c.Pair.LookbackDays = 90
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.DataSource.RatePerSec == 0 {
		c.DataSource.RatePerSec = 2
	}
	if c.DataSource.Burst == 0 {
		c.DataSource.Burst = 4
	}
	if c.DataSource.BreakerTrips == 0 {
		c.DataSource.BreakerTrips = 3
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 512
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = "127.0.0.1:8501"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 60 * time.Second
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 0 9 * * *"
	}
}

// Validate checks field constraints declared in struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether alerts and commands should run.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}
