// Package exporter serializes annotated series for offline inspection.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"SignalSentinel/internal/model"
)

var header = []string{
	"datetime", "open", "high", "low", "close", "volume",
	"price_change_pct", "volume_change_pct", "close_diff",
	"avg_price_change_5", "avg_abs_price_change_5", "avg_volume_5",
	"price_surge_pct", "volume_surge_pct",
	"macd", "macd_signal", "ema5", "ema10", "ema30", "ema40", "rsi",
	"vwap", "mfi", "obv", "sma50", "sma200",
	"vix", "vix_change_pct", "vix_ema_fast", "vix_ema_slow",
	"continuous_up", "continuous_down",
	"close_roll_max", "close_roll_min", "mfi_roll_max", "mfi_roll_min",
	"obv_roll_max", "obv_roll_min",
	"signals", "pattern", "interpretation", "volume_tag", "provisional",
}

func float(v float64) string {
	if !model.Defined(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func record(r *model.Row) []string {
	labels := make([]string, len(r.Signals))
	for i, l := range r.Signals {
		labels[i] = string(l)
	}
	return []string{
		r.Time.Format(time.RFC3339),
		float(r.Open), float(r.High), float(r.Low), float(r.Close), float(r.Volume),
		float(r.PriceChangePct), float(r.VolumeChangePct), float(r.CloseDiff),
		float(r.AvgPriceChange5), float(r.AvgAbsPriceChange5), float(r.AvgVolume5),
		float(r.PriceSurgePct), float(r.VolumeSurgePct),
		float(r.MACD), float(r.MACDSignal), float(r.EMA5), float(r.EMA10), float(r.EMA30), float(r.EMA40), float(r.RSI),
		float(r.VWAP), float(r.MFI), float(r.OBV), float(r.SMA50), float(r.SMA200),
		float(r.VIX), float(r.VIXChangePct), float(r.VIXEMAFast), float(r.VIXEMASlow),
		strconv.Itoa(r.ContinuousUp), strconv.Itoa(r.ContinuousDown),
		float(r.CloseRollMax), float(r.CloseRollMin), float(r.MFIRollMax), float(r.MFIRollMin),
		float(r.OBVRollMax), float(r.OBVRollMin),
		strings.Join(labels, ", "), string(r.Pattern), r.Interpretation, string(r.VolumeTag),
		strconv.FormatBool(r.Provisional),
	}
}

// WriteCSV writes every row of s with all derived columns. Undefined
// values are written as empty cells.
func WriteCSV(w io.Writer, s *model.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range s.Rows {
		if err := cw.Write(record(&s.Rows[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Exporter writes one CSV per ticker per cycle into Dir.
type Exporter struct {
	Dir string
}

func NewExporter(dir string) *Exporter { return &Exporter{Dir: dir} }

// Export writes s to a timestamped file and returns its path.
func (e *Exporter) Export(s *model.Series, at time.Time) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.csv", fileSafe(s.Ticker), s.Interval, at.Format("20060102_150405"))
	path := filepath.Join(e.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, s); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func fileSafe(ticker string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '^', ' ':
			return '_'
		}
		return r
	}, ticker)
}
