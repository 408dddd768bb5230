package model

import (
	"math"
	"time"
)

// Bar represents a single OHLCV sample.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Body returns the absolute open/close distance.
func (b Bar) Body() float64 { return math.Abs(b.Close - b.Open) }

// Range returns high minus low.
func (b Bar) Range() float64 { return b.High - b.Low }

// UpperShadow returns the wick above the body.
func (b Bar) UpperShadow() float64 { return b.High - math.Max(b.Open, b.Close) }

// LowerShadow returns the wick below the body.
func (b Bar) LowerShadow() float64 { return math.Min(b.Open, b.Close) - b.Low }

// Midpoint returns the middle of the body.
func (b Bar) Midpoint() float64 { return (b.Open + b.Close) / 2 }

func (b Bar) Bullish() bool { return b.Close > b.Open }
func (b Bar) Bearish() bool { return b.Close < b.Open }

// Indicators holds the derived columns attached to one bar.
// A NaN value means the indicator is undefined at that position.
type Indicators struct {
	PriceChangePct     float64
	VolumeChangePct    float64
	CloseDiff          float64
	AvgPriceChange5    float64
	AvgAbsPriceChange5 float64
	AvgVolume5         float64
	PriceSurgePct      float64
	VolumeSurgePct     float64

	MACD       float64
	MACDSignal float64
	EMA5       float64
	EMA10      float64
	EMA30      float64
	EMA40      float64
	RSI        float64
	VWAP       float64
	MFI        float64
	OBV        float64
	SMA50      float64
	SMA200     float64

	VIX          float64
	VIXChangePct float64
	VIXEMAFast   float64
	VIXEMASlow   float64

	ContinuousUp   int
	ContinuousDown int

	CloseRollMax float64
	CloseRollMin float64
	MFIRollMax   float64
	MFIRollMin   float64
	OBVRollMax   float64
	OBVRollMin   float64
}

// UndefinedIndicators returns an Indicators value with every float column undefined.
func UndefinedIndicators() Indicators {
	n := math.NaN()
	return Indicators{
		PriceChangePct: n, VolumeChangePct: n, CloseDiff: n,
		AvgPriceChange5: n, AvgAbsPriceChange5: n, AvgVolume5: n,
		PriceSurgePct: n, VolumeSurgePct: n,
		MACD: n, MACDSignal: n, EMA5: n, EMA10: n, EMA30: n, EMA40: n,
		RSI: n, VWAP: n, MFI: n, OBV: n, SMA50: n, SMA200: n,
		VIX: n, VIXChangePct: n, VIXEMAFast: n, VIXEMASlow: n,
		CloseRollMax: n, CloseRollMin: n, MFIRollMax: n, MFIRollMin: n,
		OBVRollMax: n, OBVRollMin: n,
	}
}

// Defined reports whether every value is a real number.
func Defined(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Row is a bar together with everything derived for it during one evaluation pass.
type Row struct {
	Bar
	Indicators

	Signals        []Label
	Pattern        PatternCategory
	Interpretation string
	VolumeTag      VolumeTag
	// Provisional marks the final bar, where retrospective classification
	// (exhaustion gaps, next-bar outcomes) cannot be decided yet.
	Provisional bool
}

// HasSignal reports whether label fired on this row.
func (r *Row) HasSignal(label Label) bool {
	for _, l := range r.Signals {
		if l == label {
			return true
		}
	}
	return false
}

// Series is the ordered bar sequence for one ticker at one (period, interval).
type Series struct {
	Ticker    string
	Period    string
	Interval  string
	Rows      []Row
	FetchedAt time.Time
}

// NewSeries wraps bars into rows with every derived column undefined.
func NewSeries(ticker, period, interval string, bars []Bar) *Series {
	rows := make([]Row, len(bars))
	for i, b := range bars {
		rows[i] = Row{Bar: b, Indicators: UndefinedIndicators()}
	}
	return &Series{
		Ticker:    ticker,
		Period:    period,
		Interval:  interval,
		Rows:      rows,
		FetchedAt: time.Now(),
	}
}

func (s *Series) Len() int { return len(s.Rows) }

// Latest returns the most recent row.
func (s *Series) Latest() (*Row, bool) {
	if len(s.Rows) == 0 {
		return nil, false
	}
	return &s.Rows[len(s.Rows)-1], true
}

// Closes extracts the close column.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Rows))
	for i := range s.Rows {
		out[i] = s.Rows[i].Close
	}
	return out
}

// Volumes extracts the volume column.
func (s *Series) Volumes() []float64 {
	out := make([]float64, len(s.Rows))
	for i := range s.Rows {
		out[i] = s.Rows[i].Volume
	}
	return out
}

// Bars returns a copy of the raw bars.
func (s *Series) Bars() []Bar {
	out := make([]Bar, len(s.Rows))
	for i := range s.Rows {
		out[i] = s.Rows[i].Bar
	}
	return out
}
