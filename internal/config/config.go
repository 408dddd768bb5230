package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SignalSentinel/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level string `yaml:"level" validate:"oneof=trace debug info warn error"`
	} `yaml:"log"`
	Market struct {
		Tickers          []string      `yaml:"tickers" validate:"min=1,dive,required"`
		Period           string        `yaml:"period" validate:"required"`
		Interval         string        `yaml:"interval" validate:"required"`
		VolatilitySymbol string        `yaml:"volatility_symbol"`
		RefreshInterval  time.Duration `yaml:"refresh_interval" validate:"gte=10s"`
	} `yaml:"market"`
	DataSource struct {
		BaseURL   string  `yaml:"base_url" validate:"omitempty,url"`
		APIKey    string  `yaml:"api_key"`
		RateLimit float64 `yaml:"rate_limit" validate:"gte=0"` // requests per second
	} `yaml:"data_source"`
	Params Thresholds `yaml:"thresholds"`
	Alerts struct {
		SelectedSignals []string `yaml:"selected_signals"`
		MaxRetries      int      `yaml:"max_retries" validate:"gte=0,lte=10"`
	} `yaml:"alerts"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Email struct {
		SMTPHost  string `yaml:"smtp_host"`
		SMTPPort  int    `yaml:"smtp_port" validate:"gte=0,lte=65535"`
		Sender    string `yaml:"sender" validate:"omitempty,email"`
		Password  string `yaml:"password"`
		Recipient string `yaml:"recipient" validate:"omitempty,email"`
	} `yaml:"email"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Cache struct {
		PatternTTL time.Duration `yaml:"pattern_ttl" validate:"gt=0"`
	} `yaml:"cache"`
	Proxy string `yaml:"proxy"`
}

// Thresholds mirrors model.Thresholds in the config file. Zero means default.
type Thresholds struct {
	PriceChange         float64 `yaml:"price_change" validate:"gte=0"`
	VolumeChange        float64 `yaml:"volume_change" validate:"gte=0"`
	PivotPriceChange    float64 `yaml:"pivot_price_change" validate:"gte=0"`
	PivotVolumeChange   float64 `yaml:"pivot_volume_change" validate:"gte=0"`
	CriticalPivotMin    int     `yaml:"critical_pivot_min" validate:"gte=0"`
	Gap                 float64 `yaml:"gap" validate:"gte=0"`
	ContinuousUp        int     `yaml:"continuous_up" validate:"gte=0"`
	ContinuousDown      int     `yaml:"continuous_down" validate:"gte=0"`
	StreakRSIGate       bool    `yaml:"streak_rsi_gate"`
	PercentileCut       float64 `yaml:"percentile" validate:"gte=0,lte=50"`
	BodyRatio           float64 `yaml:"body_ratio" validate:"gte=0,lte=1"`
	ShadowRatio         float64 `yaml:"shadow_ratio" validate:"gte=0"`
	DojiRatio           float64 `yaml:"doji_ratio" validate:"gte=0,lte=1"`
	StrongBodyRatio     float64 `yaml:"strong_body_ratio" validate:"gte=0,lte=1"`
	MFIDivergenceWindow int     `yaml:"mfi_divergence_window" validate:"gte=0"`
	VIXHigh             float64 `yaml:"vix_high" validate:"gte=0"`
	VIXLow              float64 `yaml:"vix_low" validate:"gte=0"`
	VIXFastSpan         int     `yaml:"vix_ema_fast" validate:"gte=0"`
	VIXSlowSpan         int     `yaml:"vix_ema_slow" validate:"gte=0"`
}

// DefaultSelectedSignals is the stock strict-match selection.
var DefaultSelectedSignals = []string{
	string(model.LabelContinuousUpBuy),
	string(model.LabelSMA50Down),
	string(model.LabelEMASMADowntrendSell),
	string(model.LabelNewBuy),
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and fills defaults. A missing file is not an error.
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

	// .env is optional; variables already in the environment win.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		c.Email.Sender = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv("RECIPIENT_EMAIL"); v != "" {
		c.Email.Recipient = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.Email.SMTPHost = v
	}
	if v := os.Getenv("TICKERS"); v != "" {
		c.Market.Tickers = splitList(v)
	}
	if v := os.Getenv("DATA_SOURCE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := parseInterval(v)
		if err != nil {
			return fmt.Errorf("REFRESH_INTERVAL: %w", err)
		}
		c.Market.RefreshInterval = d
	}
	return nil
}

// parseInterval accepts a Go duration or a bare number of seconds.
func parseInterval(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if len(c.Market.Tickers) == 0 {
		c.Market.Tickers = []string{"TSLA", "NIO", "TSLL"}
	}
	if c.Market.Period == "" {
		c.Market.Period = "5d"
	}
	if c.Market.Interval == "" {
		c.Market.Interval = "5m"
	}
	if c.Market.VolatilitySymbol == "" {
		c.Market.VolatilitySymbol = "^VIX"
	}
	if c.Market.RefreshInterval == 0 {
		c.Market.RefreshInterval = 144 * time.Second
	}
	if c.DataSource.RateLimit == 0 {
		c.DataSource.RateLimit = 2
	}
	if c.Alerts.SelectedSignals == nil {
		c.Alerts.SelectedSignals = append([]string(nil), DefaultSelectedSignals...)
	}
	if c.Alerts.MaxRetries == 0 {
		c.Alerts.MaxRetries = 3
	}
	if c.Email.SMTPHost == "" {
		c.Email.SMTPHost = "smtp.gmail.com"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 465
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/signal_sentinel.db"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9108"
	}
	if c.Cache.PatternTTL == 0 {
		c.Cache.PatternTTL = 300 * time.Second
	}
}

var validate = validator.New()

// Validate checks field constraints and cross-field consistency.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var errs []error
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		errs = append(errs, errors.New("telegram.bot_token and telegram.chat_id must be set together"))
	}
	if c.Email.Recipient != "" && (c.Email.Sender == "" || c.Email.Password == "") {
		errs = append(errs, errors.New("email.sender and email.password are required when email.recipient is set"))
	}
	if _, err := c.SelectedLabels(); err != nil {
		errs = append(errs, err)
	}
	th := c.Thresholds()
	switch th.PercentileCut {
	case 1, 5, 10, 20:
	default:
		errs = append(errs, fmt.Errorf("thresholds.percentile must be one of 1, 5, 10, 20, got %g", th.PercentileCut))
	}
	if th.VIXLow >= th.VIXHigh {
		errs = append(errs, fmt.Errorf("thresholds.vix_low (%.1f) must be below vix_high (%.1f)", th.VIXLow, th.VIXHigh))
	}
	if th.VIXFastSpan >= th.VIXSlowSpan {
		errs = append(errs, fmt.Errorf("thresholds.vix_ema_fast (%d) must be below vix_ema_slow (%d)", th.VIXFastSpan, th.VIXSlowSpan))
	}
	return errors.Join(errs...)
}

// TelegramEnabled reports whether chat delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// EmailEnabled reports whether email delivery is configured.
func (c *Config) EmailEnabled() bool {
	return c.Email.Recipient != "" && c.Email.Sender != "" && c.Email.Password != ""
}

// SelectedLabels resolves the strict-match selection against the catalog.
func (c *Config) SelectedLabels() ([]model.Label, error) {
	out := make([]model.Label, 0, len(c.Alerts.SelectedSignals))
	for _, name := range c.Alerts.SelectedSignals {
		l, err := model.ParseLabel(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("alerts.selected_signals: %w", err)
		}
		out = append(out, l)
	}
	return out, nil
}

// Thresholds returns the immutable parameter set for evaluation.
func (c *Config) Thresholds() model.Thresholds {
	th := model.DefaultThresholds()
	t := c.Params

	setF := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setI := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	setF(&th.PriceSurge, t.PriceChange)
	setF(&th.VolumeSurge, t.VolumeChange)
	setF(&th.PivotPriceChange, t.PivotPriceChange)
	setF(&th.PivotVolumeChange, t.PivotVolumeChange)
	setI(&th.CriticalPivotMin, t.CriticalPivotMin)
	setF(&th.Gap, t.Gap)
	setI(&th.ContinuousUp, t.ContinuousUp)
	setI(&th.ContinuousDown, t.ContinuousDown)
	th.StreakRSIGate = t.StreakRSIGate
	setF(&th.PercentileCut, t.PercentileCut)
	setF(&th.BodyRatio, t.BodyRatio)
	setF(&th.ShadowRatio, t.ShadowRatio)
	setF(&th.DojiRatio, t.DojiRatio)
	setF(&th.StrongBodyRatio, t.StrongBodyRatio)
	setI(&th.MFIDivergenceWindow, t.MFIDivergenceWindow)
	setF(&th.VIXHigh, t.VIXHigh)
	setF(&th.VIXLow, t.VIXLow)
	setI(&th.VIXFastSpan, t.VIXFastSpan)
	setI(&th.VIXSlowSpan, t.VIXSlowSpan)
	return th
}
