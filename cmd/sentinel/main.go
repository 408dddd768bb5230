package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/exporter"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/strategy"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Info("SignalSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	}
	selected, _ := cfg.SelectedLabels()
	th := cfg.Thresholds()

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy, collector.WithRateLimit(cfg.DataSource.RateLimit, 4))
	}
	log.WithField("source", fetcher.Name()).Info("data source ready")
	col := collector.NewCollector(fetcher, cfg.Market.VolatilitySymbol, cfg.Market.Period, cfg.Market.Interval)

	// Pattern memo
	memo, err := strategy.NewPatternMemo(cfg.Cache.PatternTTL, 1024)
	if err != nil {
		log.Fatalf("init pattern memo: %v", err)
	}
	defer memo.Close()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			log.Warnf("create sqlite dir: %v", err)
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics()
	sched := scheduler.NewScheduler(ctx, col, strategy.NewEngine(memo), rec, scheduler.Options{
		Tickers:    cfg.Market.Tickers,
		Thresholds: th,
		Selected:   selected,
		MaxRetries: cfg.Alerts.MaxRetries,
	})
	sched.Metrics = m
	if cfg.Export.Dir != "" {
		sched.Exporter = exporter.NewExporter(cfg.Export.Dir)
	}

	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched.Chat = tn
	} else {
		log.Warn("telegram not configured, chat alerts disabled")
	}
	if cfg.EmailEnabled() {
		sched.Mail = notifier.NewEmailNotifier(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.Sender, cfg.Email.Password, cfg.Email.Recipient)
	} else {
		log.Warn("email not configured, email alerts disabled")
	}

	if err := sched.Register(cfg.Market.RefreshInterval); err != nil {
		log.Fatalf("register poll cycle: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	var ms *metrics.Server
	if cfg.Metrics.Addr != "" {
		ms = metrics.NewServer(cfg.Metrics.Addr, m)
		ms.Start()
	}

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	// First cycle runs immediately; the ticker takes over after one interval.
	go sched.RunCycle()

	log.WithFields(log.Fields{
		"tickers":  cfg.Market.Tickers,
		"interval": cfg.Market.Interval,
		"refresh":  cfg.Market.RefreshInterval,
	}).Info("SignalSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	if ms != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := ms.Shutdown(shutdownCtx); err != nil {
			log.Warnf("metrics shutdown: %v", err)
		}
	}
	log.Info("SignalSentinel stopped")
}
