package scheduler

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/exporter"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
)

type fakeChat struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeChat) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
	return nil
}

type fakeMail struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (f *fakeMail) SendWithRetry(_ context.Context, subject, _ string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return f.err
}

type spyRecorder struct {
	mu     sync.Mutex
	runs   []recorder.RunEvent
	alerts []recorder.AlertEvent
}

func (r *spyRecorder) RecordRun(evt *recorder.RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, *evt)
	return nil
}

func (r *spyRecorder) RecordAlert(evt *recorder.AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, *evt)
	return nil
}

func (r *spyRecorder) Close() error { return nil }

// panicky blows up for one symbol to exercise per-ticker isolation.
type panicky struct{ collector.Fetcher }

func (p panicky) FetchBars(ctx context.Context, symbol, period, interval string) ([]model.Bar, error) {
	if symbol == "BOOM" {
		panic("exploded")
	}
	return p.Fetcher.FetchBars(ctx, symbol, period, interval)
}

// slowFetcher holds each fetch open and tracks how many overlap.
type slowFetcher struct {
	collector.Fetcher
	delay time.Duration

	mu     sync.Mutex
	active int
	peak   int
}

func (f *slowFetcher) FetchBars(ctx context.Context, symbol, period, interval string) ([]model.Bar, error) {
	f.mu.Lock()
	f.active++
	if f.active > f.peak {
		f.peak = f.active
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()
	time.Sleep(f.delay)
	return f.Fetcher.FetchBars(ctx, symbol, period, interval)
}

func (f *slowFetcher) busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active > 0
}

func newTestScheduler(t *testing.T, selected []model.Label, tickers ...string) (*Scheduler, *spyRecorder) {
	t.Helper()
	fetcher := panicky{&collector.MockFetcher{
		Price:  100,
		Count:  40,
		Errors: map[string]error{"GONE": collector.ErrNoData},
	}}
	rec := &spyRecorder{}
	s := NewScheduler(context.Background(),
		collector.NewCollector(fetcher, "", "5d", "5m"),
		strategy.NewEngine(nil),
		rec,
		Options{
			Tickers:    tickers,
			Thresholds: model.DefaultThresholds(),
			Selected:   selected,
		})
	return s, rec
}

// The generated mock series rises on every bar, so trend and streak
// labels fire on the latest bar.
var risingSelection = []model.Label{model.LabelTrendBuy, model.LabelContinuousUpBuy}

func TestRunCycle_DispatchesAndIsolates(t *testing.T) {
	s, rec := newTestScheduler(t, risingSelection, "TSLA", "GONE", "BOOM", "NIO")
	chat, mail := &fakeChat{}, &fakeMail{}
	s.Chat, s.Mail = chat, mail
	s.Metrics = metrics.NewMetrics()

	s.RunCycle()

	require.Len(t, rec.runs, 4)
	statuses := map[string]string{}
	for _, r := range rec.runs {
		statuses[r.Ticker] = r.Status
	}
	assert.Equal(t, map[string]string{
		"TSLA": recorder.StatusOK,
		"GONE": recorder.StatusFailed,
		"BOOM": recorder.StatusPanic,
		"NIO":  recorder.StatusOK,
	}, statuses)
	assert.Equal(t, 40, rec.runs[0].Bars)
	assert.Contains(t, rec.runs[0].Signals, model.LabelTrendBuy)

	assert.Equal(t, []string{"Stock alert: TSLA", "Stock alert: NIO"}, mail.subjects)
	require.Len(t, chat.msgs, 2)
	assert.Contains(t, chat.msgs[0], "TSLA")
	assert.Len(t, rec.alerts, 4)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.CyclesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.Metrics.TickerRunsTotal.WithLabelValues(recorder.StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.TickerRunsTotal.WithLabelValues(recorder.StatusPanic)))

	_, ok := s.Latest("TSLA")
	assert.True(t, ok)
	_, ok = s.Latest("GONE")
	assert.False(t, ok)
}

func TestRunCycle_StrictMatchGatesChat(t *testing.T) {
	s, _ := newTestScheduler(t, []model.Label{model.LabelTrendBuy, model.LabelTrendSell}, "TSLA")
	chat, mail := &fakeChat{}, &fakeMail{}
	s.Chat, s.Mail = chat, mail

	s.RunCycle()
	assert.Len(t, mail.subjects, 1, "broad decision still emails")
	assert.Empty(t, chat.msgs)
}

func TestRunCycle_SendFailureIsRecorded(t *testing.T) {
	s, rec := newTestScheduler(t, nil, "TSLA")
	s.Mail = &fakeMail{err: errors.New("smtp down")}

	s.RunCycle()
	require.Len(t, rec.alerts, 1)
	assert.False(t, rec.alerts[0].Sent)
	assert.Equal(t, "smtp down", rec.alerts[0].Error)
	require.Len(t, rec.runs, 1)
	assert.Equal(t, recorder.StatusOK, rec.runs[0].Status)
}

func TestRunCycle_Export(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestScheduler(t, nil, "NIO")
	s.Exporter = exporter.NewExporter(dir)

	s.RunCycle()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunCycle_Cancelled(t *testing.T) {
	s, rec := newTestScheduler(t, nil, "TSLA", "NIO")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Ctx = ctx

	s.RunCycle()
	assert.Empty(t, rec.runs)
}

func TestRunCycle_NeverOverlaps(t *testing.T) {
	s, rec := newTestScheduler(t, risingSelection, "TSLA")
	slow := &slowFetcher{Fetcher: s.Collector.Fetcher, delay: 100 * time.Millisecond}
	s.Collector.Fetcher = slow
	chat := &fakeChat{}
	s.Chat = chat

	done := make(chan struct{})
	go func() {
		s.RunCycle()
		close(done)
	}()
	require.Eventually(t, slow.busy, time.Second, 5*time.Millisecond)

	assert.Equal(t, "poll cycle already running", s.HandleCommand("/refresh"))
	s.RunCycle()
	<-done

	assert.Equal(t, 1, slow.peak)
	assert.Len(t, chat.msgs, 1)
	assert.Len(t, rec.runs, 1)

	assert.Equal(t, "poll cycle started", s.HandleCommand("/refresh"))
	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.runs) == 2
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()
	assert.Equal(t, 1, slow.peak)
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t, nil, "TSLA", "NIO")
	assert.Contains(t, s.HandleCommand("/tickers"), "TSLA: pending")

	s.RunCycle()

	tests := []struct {
		command string
		want    string
	}{
		{"/tickers", "NIO: $"},
		{"/report tsla", "<b>TSLA</b>"},
		{"/report@sentinel_bot NIO", "<b>NIO</b>"},
		{"/stats TSLA", "TSLA signal success rates"},
		{"/report XYZ", "XYZ: no data yet"},
		{"/report", "usage: /report"},
		{"/help", "Available commands"},
		{"hello", "Available commands"},
		{"", "Available commands"},
	}
	for _, tt := range tests {
		assert.Contains(t, s.HandleCommand(tt.command), tt.want, tt.command)
	}
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(t, nil, "TSLA")
	assert.Error(t, s.Register(0))
	require.NoError(t, s.Register(144*time.Second))
	assert.Len(t, s.Cron.Entries(), 1)
}
