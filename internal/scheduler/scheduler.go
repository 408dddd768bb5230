package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"SignalSentinel/internal/alert"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/exporter"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
)

// ChatSender delivers a preformatted chat message.
type ChatSender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// MailSender delivers an email.
type MailSender interface {
	SendWithRetry(ctx context.Context, subject, body string, maxRetries int) error
}

// Options carries the per-cycle evaluation settings.
type Options struct {
	Tickers    []string
	Thresholds model.Thresholds
	Selected   []model.Label
	MaxRetries int
}

// Scheduler runs the poll loop: every tick it evaluates each ticker in turn
// and dispatches notifications for the latest bar.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Engine    *strategy.Engine
	Chat      ChatSender // nil disables chat alerts
	Mail      MailSender // nil disables email alerts
	Recorder  recorder.Recorder
	Exporter  *exporter.Exporter // nil disables CSV export
	Metrics   *metrics.Metrics
	Options   Options
	Ctx       context.Context

	// cycle serializes poll cycles across cron ticks, /refresh and startup.
	cycle  sync.Mutex
	mu     sync.RWMutex
	latest map[string]*strategy.Report
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, engine *strategy.Engine, rec recorder.Recorder, opts Options) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	cronLog := cron.PrintfLogger(log.StandardLogger())
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		Collector: col,
		Engine:    engine,
		Recorder:  rec,
		Options:   opts,
		Ctx:       ctx,
		latest:    make(map[string]*strategy.Report),
	}
}

// Register schedules the poll cycle at a fixed interval. A cycle still
// running when the next tick arrives causes that tick to be skipped.
func (s *Scheduler) Register(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", interval)
	}
	if _, err := s.Cron.AddFunc(fmt.Sprintf("@every %s", interval), s.RunCycle); err != nil {
		return fmt.Errorf("register poll cycle: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.cycle.Lock()
	s.cycle.Unlock()
	log.Info("scheduler stopped")
}

// RunCycle evaluates every configured ticker once, sequentially.
// A failure in one ticker never affects the others. It returns at once
// when another cycle is still running.
func (s *Scheduler) RunCycle() {
	if !s.cycle.TryLock() {
		log.Warn("poll cycle already running, skipping")
		return
	}
	defer s.cycle.Unlock()
	s.runCycle()
}

func (s *Scheduler) runCycle() {
	cycleID := uuid.NewString()
	logger := log.WithField("cycle", cycleID)
	logger.Infof("running poll cycle for %d tickers", len(s.Options.Tickers))
	s.Metrics.CycleStarted()

	for _, ticker := range s.Options.Tickers {
		if s.Ctx.Err() != nil {
			logger.Warn("cycle cancelled")
			return
		}
		s.runTicker(cycleID, ticker)
	}
	s.Metrics.CycleDone(time.Now())
}

func (s *Scheduler) runTicker(cycleID, ticker string) {
	start := time.Now()
	logger := log.WithFields(log.Fields{"cycle": cycleID, "ticker": ticker})
	run := &recorder.RunEvent{CycleID: cycleID, Ticker: ticker, Status: recorder.StatusOK}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic during evaluation: %v\n%s", r, debug.Stack())
			run.Status = recorder.StatusPanic
			run.Error = fmt.Sprint(r)
		}
		run.Duration = time.Since(start)
		s.Metrics.ObserveRun(run.Status, run.Duration)
		if err := s.Recorder.RecordRun(run); err != nil {
			logger.Errorf("record run: %v", err)
		}
	}()

	series, err := s.Collector.Collect(s.Ctx, ticker, s.Options.Thresholds)
	if err != nil {
		logger.Errorf("collect: %v", err)
		run.Status = recorder.StatusFailed
		run.Error = err.Error()
		return
	}

	rep := s.Engine.Analyze(series, s.Options.Thresholds)
	s.mu.Lock()
	s.latest[ticker] = rep
	s.mu.Unlock()

	row, _ := series.Latest()
	run.Bars = series.Len()
	run.LastBar = row.Time
	run.Signals = row.Signals
	logger.WithField("signals", len(row.Signals)).Debugf("latest bar %s %s", row.Time.Format(time.RFC3339), row.Pattern)

	s.dispatch(cycleID, series, row)

	if s.Exporter != nil {
		if path, err := s.Exporter.Export(series, start); err != nil {
			logger.Warnf("export: %v", err)
		} else {
			logger.Debugf("exported %s", path)
		}
	}
}

// dispatch sends the email alert on the broad decision and the chat alert
// when, in addition, every selected label fired.
func (s *Scheduler) dispatch(cycleID string, series *model.Series, row *model.Row) {
	d := alert.Decide(row, s.Options.Selected, s.Options.Thresholds)
	if !d.Fire {
		return
	}
	logger := log.WithFields(log.Fields{"cycle": cycleID, "ticker": series.Ticker})
	logger.Infof("alert: %d alerting signals, co-move %v, strict %v", len(d.Triggered), d.CoMove, d.StrictMatch)

	if s.Mail != nil {
		err := s.Mail.SendWithRetry(s.Ctx, notifier.FormatEmailSubject(series.Ticker),
			notifier.FormatEmailBody(series.Ticker, row), s.Options.MaxRetries)
		s.recordAlert(cycleID, "email", series.Ticker, row, err)
	}
	if d.StrictMatch && s.Chat != nil {
		err := s.Chat.SendWithRetry(s.Ctx, notifier.FormatAlert(series, row, s.Options.Selected), s.Options.MaxRetries)
		s.recordAlert(cycleID, "telegram", series.Ticker, row, err)
	}
}

func (s *Scheduler) recordAlert(cycleID, channel, ticker string, row *model.Row, sendErr error) {
	evt := &recorder.AlertEvent{
		CycleID: cycleID,
		Ticker:  ticker,
		Channel: channel,
		BarTime: row.Time,
		Labels:  row.Signals,
		Sent:    sendErr == nil,
	}
	if sendErr != nil {
		evt.Error = sendErr.Error()
		log.WithFields(log.Fields{"ticker": ticker, "channel": channel}).Errorf("send notification: %v", sendErr)
	}
	s.Metrics.ObserveAlert(channel, evt.Sent)
	if err := s.Recorder.RecordAlert(evt); err != nil {
		log.Errorf("record alert: %v", err)
	}
}

// Latest returns the most recent report for ticker.
func (s *Scheduler) Latest(ticker string) (*strategy.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rep, ok := s.latest[ticker]
	return rep, ok
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Group chats append the bot name: /report@sentinel_bot
	cmd := strings.SplitN(fields[0], "@", 2)[0]
	arg := ""
	if len(fields) > 1 {
		arg = strings.ToUpper(fields[1])
	}

	switch cmd {
	case "/tickers":
		return s.tickerList()
	case "/report", "/stats":
		if arg == "" {
			return fmt.Sprintf("usage: %s &lt;TICKER&gt;", cmd)
		}
		rep, ok := s.Latest(arg)
		if !ok {
			return fmt.Sprintf("%s: no data yet", arg)
		}
		if cmd == "/stats" {
			return notifier.FormatStats(arg, rep.Stats)
		}
		return notifier.FormatReport(rep)
	case "/refresh":
		if !s.cycle.TryLock() {
			return "poll cycle already running"
		}
		go func() {
			defer s.cycle.Unlock()
			s.runCycle()
		}()
		return "poll cycle started"
	default:
		return helpText
	}
}

const helpText = "Available commands:\n" +
	"/tickers - watched tickers and latest close\n" +
	"/report &lt;TICKER&gt; - latest bar, signals and interpretation\n" +
	"/stats &lt;TICKER&gt; - signal success rates\n" +
	"/refresh - run a poll cycle now\n" +
	"/help - this message"

func (s *Scheduler) tickerList() string {
	var b strings.Builder
	b.WriteString("Watching:\n")
	tickers := append([]string(nil), s.Options.Tickers...)
	sort.Strings(tickers)
	for _, t := range tickers {
		rep, ok := s.Latest(t)
		if !ok {
			fmt.Fprintf(&b, "%s: pending\n", t)
			continue
		}
		row, ok := rep.Series.Latest()
		if !ok {
			fmt.Fprintf(&b, "%s: no bars\n", t)
			continue
		}
		fmt.Fprintf(&b, "%s: $%.2f @ %s (%d signals)\n", t, row.Close, row.Time.Format("01-02 15:04"), len(row.Signals))
	}
	return b.String()
}
