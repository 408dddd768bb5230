package model

import (
	"math"
	"testing"
	"time"
)

func TestCatalog_UniqueLabels(t *testing.T) {
	seen := make(map[Label]bool)
	for i, e := range Catalog {
		if seen[e.Label] {
			t.Errorf("duplicate label %q", e.Label)
		}
		seen[e.Label] = true
		if e.Label.Order() != i {
			t.Errorf("%q: order = %d, want %d", e.Label, e.Label.Order(), i)
		}
		if e.Direction != Bullish && e.Direction != Bearish {
			t.Errorf("%q: direction %q", e.Label, e.Direction)
		}
	}
}

func TestLabelDirectionAndAlerting(t *testing.T) {
	tests := []struct {
		label    Label
		dir      Direction
		alerting bool
	}{
		{LabelMACDBuy, Bullish, true},
		{LabelMACDSell, Bearish, true},
		{LabelDarkCloudCover, Bearish, false},
		{LabelPiercingLine, Bullish, false},
		{LabelCriticalPivot, Bullish, false},
		{LabelGapExhaustionDown, Bearish, true},
		{LabelVIXPanicSell, Bearish, true},
		{Label("not a label"), Bullish, false},
	}
	for _, tt := range tests {
		if got := tt.label.Direction(); got != tt.dir {
			t.Errorf("%q: direction = %s, want %s", tt.label, got, tt.dir)
		}
		if got := tt.label.Alerting(); got != tt.alerting {
			t.Errorf("%q: alerting = %v, want %v", tt.label, got, tt.alerting)
		}
	}
	if Label("nope").Order() != -1 {
		t.Error("unknown label must have order -1")
	}
}

func TestParseLabel(t *testing.T) {
	l, err := ParseLabel("continuous up-buy")
	if err != nil || l != LabelContinuousUpBuy {
		t.Errorf("ParseLabel = %q, %v", l, err)
	}
	if _, err := ParseLabel("Continuous Up-Buy"); err == nil {
		t.Error("labels are case-sensitive")
	}
}

func TestBarGeometry(t *testing.T) {
	b := Bar{Open: 10, High: 15, Low: 8, Close: 12}
	if b.Body() != 2 || b.Range() != 7 || b.UpperShadow() != 3 || b.LowerShadow() != 2 || b.Midpoint() != 11 {
		t.Errorf("geometry of %+v wrong", b)
	}
	if !b.Bullish() || b.Bearish() {
		t.Error("close above open is bullish")
	}
}

func TestDefined(t *testing.T) {
	if !Defined(1, 0, -3) {
		t.Error("finite values are defined")
	}
	if Defined(1, math.NaN()) || Defined(math.Inf(1)) {
		t.Error("NaN and Inf are undefined")
	}
	if !Defined() {
		t.Error("empty set is defined")
	}
}

func TestSeries(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	s := NewSeries("TSLA", "5d", "5m", []Bar{
		{Time: t0, Close: 1, Volume: 10},
		{Time: t0.Add(5 * time.Minute), Close: 2, Volume: 20},
	})
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
	if Defined(s.Rows[0].RSI) {
		t.Error("new rows start undefined")
	}
	last, ok := s.Latest()
	if !ok || last.Close != 2 {
		t.Errorf("latest = %+v, %v", last, ok)
	}
	if c := s.Closes(); c[0] != 1 || c[1] != 2 {
		t.Errorf("closes = %v", c)
	}
	if v := s.Volumes(); v[1] != 20 {
		t.Errorf("volumes = %v", v)
	}
	last.Signals = []Label{LabelNewBuy}
	if !s.Rows[1].HasSignal(LabelNewBuy) || s.Rows[1].HasSignal(LabelNewSell) {
		t.Error("HasSignal")
	}
	if _, ok := (&Series{}).Latest(); ok {
		t.Error("empty series has no latest row")
	}
}

func TestPatternBias(t *testing.T) {
	if PatternHammer.Bias() != BiasBullish || PatternDarkCloudCover.Bias() != BiasBearish || PatternDoji.Bias() != BiasNeutral {
		t.Error("pattern bias mapping")
	}
}
