package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

const chartJSON = `{"chart":{"result":[{"timestamp":[1700000600,1700000000,1700000300,1700000900],
"indicators":{"quote":[{
"open":[11,10,null,12],"high":[12,11,null,13],"low":[10,9,null,11],
"close":[11.5,10.5,null,12.5],"volume":[2000,1000,null,3000]}]}}],"error":null}}`

func TestYahooFetcher_FetchBars(t *testing.T) {
	var gotPath, gotRange, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		gotInterval = r.URL.Query().Get("interval")
		fmt.Fprint(w, chartJSON)
	}))
	defer srv.Close()

	f := NewYahooFetcher("", WithBaseURL(srv.URL), WithRateLimit(100, 10))
	bars, err := f.FetchBars(context.Background(), "VIX", "5d", "5m")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^VIX", gotPath)
	assert.Equal(t, "5d", gotRange)
	assert.Equal(t, "5m", gotInterval)

	require.Len(t, bars, 3, "null bar must be skipped")
	assert.Equal(t, 10.0, bars[0].Open, "bars sorted by time")
	assert.Equal(t, 12.5, bars[2].Close)
	assert.Equal(t, 3000.0, bars[2].Volume)
}

func TestYahooFetcher_SkipsPartialBars(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[1700000000,1700000300,1700000600,1700000900],
"indicators":{"quote":[{
"open":[10,11,null,12],"high":[11,12,12.5,13],"low":[9,10,10.5,11],
"close":[10.5,null,11.8,12.5],"volume":[1000,2000,null,null]}]}}],"error":null}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	f := NewYahooFetcher("", WithBaseURL(srv.URL), WithRateLimit(100, 10))
	bars, err := f.FetchBars(context.Background(), "TSLA", "5d", "5m")
	require.NoError(t, err)

	require.Len(t, bars, 2, "bars missing any price field are dropped")
	assert.Equal(t, 10.5, bars[0].Close)
	assert.Equal(t, 12.5, bars[1].Close)
	assert.Equal(t, 0.0, bars[1].Volume, "missing volume reads as zero")
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"empty result", 200, `{"chart":{"result":[],"error":null}}`, ErrNoData},
		{"missing timestamps", 200, `{"chart":{"result":[{"indicators":{"quote":[{}]}}],"error":null}}`, ErrMissingField},
		{"all null bars", 200, `{"chart":{"result":[{"timestamp":[1],"indicators":{"quote":[{"open":[null],"high":[null],"low":[null],"close":[null],"volume":[null]}]}}]}}`, ErrNoData},
		{"api error", 200, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, nil},
		{"bad status", 500, `oops`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			f := NewYahooFetcher("", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
			_, err := f.FetchBars(context.Background(), "TSLA", "5d", "5m")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRESTFetcher_FetchBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("symbol") == "NONE" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `[{"timestamp":1700000300,"open":2,"high":3,"low":1,"close":2.5,"volume":20},
{"timestamp":1700000000,"open":1,"high":2,"low":0.5,"close":1.5,"volume":10}]`)
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL+"/", "secret", "")
	bars, err := f.FetchBars(context.Background(), "TSLA", "5d", "5m")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, 1.5, bars[0].Close)

	_, err = f.FetchBars(context.Background(), "NONE", "5d", "5m")
	assert.ErrorIs(t, err, ErrNoData)

	unauthorized := NewRESTFetcher(srv.URL, "", "")
	_, err = unauthorized.FetchBars(context.Background(), "TSLA", "5d", "5m")
	assert.Error(t, err)
}

func bars(closes ...float64) []model.Bar {
	t0 := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	out := make([]model.Bar, len(closes))
	for i, c := range closes {
		out[i] = model.Bar{
			Time: t0.Add(time.Duration(i) * 5 * time.Minute),
			Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		}
	}
	return out
}

func TestCollector_Collect(t *testing.T) {
	m := &MockFetcher{Bars: map[string][]model.Bar{
		"TSLA": bars(10, 11, 12, 13, 14, 15, 16),
		"^VIX": bars(20, 21, 22, 23, 24, 25, 26),
	}}
	c := NewCollector(m, "^VIX", "5d", "5m")

	s, err := c.Collect(context.Background(), "TSLA", model.DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, "TSLA", s.Ticker)
	assert.Equal(t, 7, s.Len())

	last, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, 26.0, last.VIX)
	assert.True(t, model.Defined(last.PriceChangePct))
	assert.Equal(t, 1, m.Calls("^VIX"))
}

func TestCollector_VolatilityFailureIsNotFatal(t *testing.T) {
	m := &MockFetcher{
		Bars:   map[string][]model.Bar{"NIO": bars(5, 6, 7)},
		Errors: map[string]error{"^VIX": errors.New("boom")},
	}
	s, err := NewCollector(m, "^VIX", "5d", "5m").Collect(context.Background(), "NIO", model.DefaultThresholds())
	require.NoError(t, err)
	last, _ := s.Latest()
	assert.False(t, model.Defined(last.VIX))
}

func TestCollector_Errors(t *testing.T) {
	m := &MockFetcher{
		Bars:   map[string][]model.Bar{"ONE": bars(5)},
		Errors: map[string]error{"GONE": ErrNoData},
	}
	c := NewCollector(m, "", "5d", "5m")

	_, err := c.Collect(context.Background(), "ONE", model.DefaultThresholds())
	assert.ErrorIs(t, err, ErrInsufficientBars)

	_, err = c.Collect(context.Background(), "GONE", model.DefaultThresholds())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMockFetcher_Generated(t *testing.T) {
	m := &MockFetcher{Price: 50, Count: 10}
	got, err := m.FetchBars(context.Background(), "ANY", "5d", "5m")
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Less(t, got[0].Close, got[9].Close)
}
