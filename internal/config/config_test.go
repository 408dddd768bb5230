package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"TSLA", "NIO", "TSLL"}, cfg.Market.Tickers)
	assert.Equal(t, "5d", cfg.Market.Period)
	assert.Equal(t, "5m", cfg.Market.Interval)
	assert.Equal(t, "^VIX", cfg.Market.VolatilitySymbol)
	assert.Equal(t, 144*time.Second, cfg.Market.RefreshInterval)
	assert.Equal(t, 300*time.Second, cfg.Cache.PatternTTL)
	assert.Equal(t, DefaultSelectedSignals, cfg.Alerts.SelectedSignals)
	assert.Equal(t, model.DefaultThresholds(), cfg.Thresholds())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
market:
  tickers: [AAPL]
  interval: 15m
  refresh_interval: 60s
thresholds:
  price_change: 50
  gap: 2.5
  continuous_up: 4
  streak_rsi_gate: true
alerts:
  selected_signals: ["new buy", "MACD buy crossover"]
`)
	t.Setenv("TICKERS", "tsla, nio")
	t.Setenv("REFRESH_INTERVAL", "90")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "1")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"TSLA", "NIO"}, cfg.Market.Tickers)
	assert.Equal(t, "15m", cfg.Market.Interval)
	assert.Equal(t, 90*time.Second, cfg.Market.RefreshInterval)
	assert.True(t, cfg.TelegramEnabled())
	assert.False(t, cfg.EmailEnabled())

	th := cfg.Thresholds()
	assert.Equal(t, 50.0, th.PriceSurge)
	assert.Equal(t, 80.0, th.VolumeSurge)
	assert.Equal(t, 2.5, th.Gap)
	assert.Equal(t, 4, th.ContinuousUp)
	assert.True(t, th.StreakRSIGate)

	labels, err := cfg.SelectedLabels()
	require.NoError(t, err)
	assert.Equal(t, []model.Label{model.LabelNewBuy, model.LabelMACDBuy}, labels)
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	th := cfg.Thresholds()
	assert.True(t, th.StreakRSIGate)
	assert.Equal(t, 70.0, th.StreakRSIUpper)
	assert.Equal(t, 30.0, th.StreakRSILower)
	assert.Equal(t, DefaultSelectedSignals, cfg.Alerts.SelectedSignals)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "market: [unterminated"))
	assert.Error(t, err)
}

func TestLoad_BadRefreshEnv(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown label", func(c *Config) { c.Alerts.SelectedSignals = []string{"moon landing"} }},
		{"telegram half configured", func(c *Config) { c.Telegram.BotToken = "x" }},
		{"email without password", func(c *Config) {
			c.Email.Recipient = "me@example.com"
			c.Email.Sender = "bot@example.com"
		}},
		{"bad recipient", func(c *Config) { c.Email.Recipient = "not-an-address" }},
		{"vix bounds inverted", func(c *Config) { c.Params.VIXLow = 40 }},
		{"vix spans inverted", func(c *Config) { c.Params.VIXFastSpan = 20 }},
		{"percentile not offered", func(c *Config) { c.Params.PercentileCut = 7 }},
		{"refresh too fast", func(c *Config) { c.Market.RefreshInterval = time.Second }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"empty ticker", func(c *Config) { c.Market.Tickers = []string{""} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_EmptySelectionAllowed(t *testing.T) {
	cfg, err := Load(writeConfig(t, "alerts:\n  selected_signals: []\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Alerts.SelectedSignals)
	assert.NoError(t, cfg.Validate())
}
