package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		IndexSymbol string `yaml:"index_symbol"`
		CacheTTL    string `yaml:"cache_ttl"`
		MaxRetries  int    `yaml:"max_retries"`
		RetryDelay  string `yaml:"retry_delay"`
	} `yaml:"data_source"`
	Analysis struct {
		Workers       int    `yaml:"workers"`
		TickerTimeout string `yaml:"ticker_timeout"`
		TopN          int    `yaml:"top_n"`
	} `yaml:"analysis"`
	Universe struct {
		SourceURL string `yaml:"source_url"`
	} `yaml:"universe"`
	// Sectors maps GICS sector names to benchmark ETF symbols for the
	// projection's sector component.
	Sectors  map[string]string `yaml:"sectors"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		AnalysisCron string `yaml:"analysis_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// defaultSectors covers the eleven GICS sectors with their SPDR ETFs.
var defaultSectors = map[string]string{
	"Technology":             "XLK",
	"Healthcare":             "XLV",
	"Financial Services":     "XLF",
	"Consumer Cyclical":      "XLY",
	"Consumer Defensive":     "XLP",
	"Industrials":            "XLI",
	"Energy":                 "XLE",
	"Utilities":              "XLU",
	"Real Estate":            "XLRE",
	"Basic Materials":        "XLB",
	"Communication Services": "XLC",
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine; defaults still apply.
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

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("INDEX_SYMBOL"); v != "" {
		cfg.DataSource.IndexSymbol = v
	}
	if v := os.Getenv("ANALYSIS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Workers = n
		}
	}
	if v := os.Getenv("UNIVERSE_SOURCE_URL"); v != "" {
		cfg.Universe.SourceURL = v
	}
	if v := os.Getenv("CRON_ANALYSIS"); v != "" {
		cfg.Schedule.AnalysisCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.IndexSymbol == "" {
		cfg.DataSource.IndexSymbol = "^GSPC"
	}
	if cfg.DataSource.CacheTTL == "" {
		cfg.DataSource.CacheTTL = "30m"
	}
	if cfg.DataSource.MaxRetries == 0 {
		cfg.DataSource.MaxRetries = 3
	}
	if cfg.DataSource.RetryDelay == "" {
		cfg.DataSource.RetryDelay = "1s"
	}
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = 4
	}
	if cfg.Analysis.TickerTimeout == "" {
		cfg.Analysis.TickerTimeout = "60s"
	}
	if cfg.Analysis.TopN == 0 {
		cfg.Analysis.TopN = 5
	}
	if len(cfg.Sectors) == 0 {
		cfg.Sectors = defaultSectors
	}
	if cfg.Schedule.AnalysisCron == "" {
		// Weekday mornings before the US open.
		cfg.Schedule.AnalysisCron = "0 0 8 * * 1-5"
	}

	return cfg, nil
}

// Validate checks field consistency. Telegram settings are optional as a
// pair: a token without a chat ID (or vice versa) is a configuration error.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("analysis.workers must be at least 1")
	}
	if c.Analysis.TopN < 1 {
		return fmt.Errorf("analysis.top_n must be at least 1")
	}
	if c.DataSource.MaxRetries < 1 {
		return fmt.Errorf("data_source.max_retries must be at least 1")
	}
	if _, err := c.CacheTTL(); err != nil {
		return fmt.Errorf("data_source.cache_ttl: %w", err)
	}
	if _, err := c.RetryDelay(); err != nil {
		return fmt.Errorf("data_source.retry_delay: %w", err)
	}
	if _, err := c.TickerTimeout(); err != nil {
		return fmt.Errorf("analysis.ticker_timeout: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether Telegram delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// CacheTTL parses the data-source cache TTL.
func (c *Config) CacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.DataSource.CacheTTL)
}

// RetryDelay parses the data-source retry base delay.
func (c *Config) RetryDelay() (time.Duration, error) {
	return time.ParseDuration(c.DataSource.RetryDelay)
}

// TickerTimeout parses the per-ticker analysis deadline.
func (c *Config) TickerTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Analysis.TickerTimeout)
}
