package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/strategy"
)

func newTestTelegram(srv *httptest.Server) *TelegramNotifier {
	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.BaseURL = srv.URL
	tn.Client = srv.Client()
	tn.PollTimeout = time.Second
	return tn
}

func TestTelegramSend(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	require.NoError(t, newTestTelegram(srv).Send(context.Background(), "hello"))
	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestTelegramSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	require.NoError(t, newTestTelegram(srv).SendWithRetry(context.Background(), "x", 2))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRetry_Exhausted(t *testing.T) {
	calls := 0
	err := retry(context.Background(), "test", 2, time.Millisecond, func() error {
		calls++
		return errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "down")
}

func TestRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retry(ctx, "test", 3, time.Hour, func() error { return errors.New("down") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoll_DispatchesCommands(t *testing.T) {
	var replies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getUpdates") {
			fmt.Fprint(w, `{"ok":true,"result":[
{"update_id":7,"message":{"text":" /help ","chat":{"id":42}}},
{"update_id":8,"message":{"text":"/tickers","chat":{"id":99}}},
{"update_id":9}]}`)
			return
		}
		var m map[string]string
		_ = json.NewDecoder(r.Body).Decode(&m)
		replies = append(replies, m["text"])
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	tn := newTestTelegram(srv)
	var seen []string
	next, err := tn.poll(context.Background(), srv.Client(), 0, func(cmd string) string {
		seen = append(seen, cmd)
		return "reply to " + cmd
	})
	require.NoError(t, err)
	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/help"}, seen, "commands from other chats are ignored")
	assert.Equal(t, []string{"reply to /help"}, replies)
}

func TestEmailCompose(t *testing.T) {
	e := NewEmailNotifier("smtp.example.com", 587, "bot@example.com", "pw", "me@example.com")
	msg, err := e.Compose("Stock alert: TSLA", "body line\n", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	text := string(msg)
	assert.Contains(t, text, "Subject: Stock alert: TSLA")
	assert.Contains(t, text, "bot@example.com")
	assert.Contains(t, text, "me@example.com")
	assert.Contains(t, text, "text/plain")
	assert.Contains(t, text, "body line")
}

func TestEmailSendWithRetry(t *testing.T) {
	var addr string
	var to []string
	attempts := 0
	e := NewEmailNotifier("smtp.example.com", 587, "bot@example.com", "pw", "me@example.com").
		WithSender(func(a string, _ smtp.Auth, _ string, rcpt []string, _ []byte) error {
			attempts++
			addr, to = a, rcpt
			if attempts == 1 {
				return errors.New("temporary")
			}
			return nil
		})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, e.SendWithRetry(ctx, "s", "b", 1))
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "smtp.example.com:587", addr)
	assert.Equal(t, []string{"me@example.com"}, to)
}

func sampleRow() *model.Row {
	r := &model.Row{
		Bar:        model.Bar{Time: time.Date(2024, 3, 1, 14, 35, 0, 0, time.UTC), Open: 10, High: 12, Low: 9, Close: 11.5, Volume: 5000},
		Indicators: model.UndefinedIndicators(),
		Signals:    []model.Label{model.LabelMACDBuy, model.LabelNewBuy, model.LabelCriticalPivot},
		Pattern:    model.PatternStrongBull,
		VolumeTag:  model.HighVolume,
	}
	r.PriceChangePct = 3.25
	r.VolumeChangePct = 120
	r.Interpretation = "strong buying"
	return r
}

func TestFormatEmailBody(t *testing.T) {
	body := FormatEmailBody("TSLA", sampleRow())
	assert.Contains(t, body, "Ticker: TSLA")
	assert.Contains(t, body, "Price change: 3.25%")
	assert.Contains(t, body, "Volume change: 120.00%")
	assert.Contains(t, body, "- MACD buy crossover\n- new buy\n- critical pivot (2 signals)")
}

func TestFormatAlert(t *testing.T) {
	s := &model.Series{Ticker: "NIO", Interval: "5m"}
	msg := FormatAlert(s, sampleRow(), []model.Label{model.LabelNewBuy})
	assert.Contains(t, msg, "<b>NIO</b> 5m | 2024-03-01 14:35")
	assert.Contains(t, msg, "Close: $11.50")
	assert.Contains(t, msg, "high volume")
	assert.Contains(t, msg, "strong bull (strong buying)")
	assert.True(t, strings.HasSuffix(msg, "new buy"))
}

func TestFormatReportAndStats(t *testing.T) {
	s := &model.Series{Ticker: "TSLL", Period: "5d", Interval: "5m", Rows: []model.Row{*sampleRow()}}
	rep := &strategy.Report{
		Series:  s,
		Summary: "Mixed signals",
		Percentiles: []strategy.PercentileRange{
			{Column: "volume", Count: 10, TopLow: 900, TopHigh: 1000, BottomLow: 100, BottomHigh: 200},
		},
	}
	out := FormatReport(rep)
	assert.Contains(t, out, "TSLL")
	assert.Contains(t, out, "RSI: n/a")
	assert.Contains(t, out, "Mixed signals")
	assert.Contains(t, out, "volume (n=10): top 900.00..1000.00")

	stats := FormatStats("TSLL", []model.SignalStats{
		{Label: model.LabelMACDBuy, Direction: model.Bullish, Triggers: 3, Successes: 2, SuccessRate: 66.666},
	})
	assert.Contains(t, stats, "MACD buy crossover [bullish]: 66.67% (2/3)")
	assert.Contains(t, FormatStats("X", nil), "no signals")

	empty := &strategy.Report{Series: &model.Series{Ticker: "E"}}
	assert.Equal(t, "E: no data", FormatReport(empty))
}
