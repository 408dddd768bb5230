package strategy

import (
	"fmt"
	"strings"

	"SignalSentinel/internal/model"
)

const summaryWindow = 5

// Summarize reads the pattern mix of the last five bars and appends VWAP,
// MFI, OBV and volatility-index context from the latest bar.
func Summarize(s *model.Series, th model.Thresholds) string {
	n := s.Len()
	if n < summaryWindow {
		return "insufficient data for a combined reading"
	}
	window := s.Rows[n-summaryWindow:]

	var bullish, bearish, neutral, highVolume int
	for i := range window {
		switch window[i].Pattern.Bias() {
		case model.BiasBullish:
			bullish++
		case model.BiasBearish:
			bearish++
		default:
			neutral++
		}
		if window[i].VolumeTag == model.HighVolume {
			highVolume++
		}
	}

	var b strings.Builder
	switch {
	case bullish >= 3 && highVolume >= 3:
		fmt.Fprintf(&b, "Strong bullish bias: %d of the last %d bars are bullish patterns, %d on high volume. Upside momentum may continue.",
			bullish, summaryWindow, highVolume)
	case bearish >= 3 && highVolume >= 3:
		fmt.Fprintf(&b, "Strong bearish bias: %d of the last %d bars are bearish patterns, %d on high volume. Further downside is possible.",
			bearish, summaryWindow, highVolume)
	case neutral >= 3:
		fmt.Fprintf(&b, "Range-bound: %d of the last %d bars show no clear direction. Wait for a breakout.",
			neutral, summaryWindow)
	case bullish >= 2 && bearish >= 2:
		b.WriteString("Mixed signals: buyers and sellers are contesting the range, volatility may rise.")
	default:
		b.WriteString("No dominant pattern in the last bars; keep watching.")
	}

	last := &window[len(window)-1]
	first := &window[0]
	if model.Defined(last.VWAP) {
		if last.Close > last.VWAP {
			b.WriteString(" Price is above VWAP, buyers hold the session.")
		} else {
			b.WriteString(" Price is at or below VWAP, sellers hold the session.")
		}
	}
	if model.Defined(last.MFI) {
		switch {
		case last.MFI < 20:
			fmt.Fprintf(&b, " MFI %.1f is oversold.", last.MFI)
		case last.MFI > 80:
			fmt.Fprintf(&b, " MFI %.1f is overbought.", last.MFI)
		default:
			fmt.Fprintf(&b, " MFI %.1f is neutral.", last.MFI)
		}
	}
	if model.Defined(last.OBV, first.OBV) {
		if last.OBV > first.OBV {
			b.WriteString(" OBV is rising, volume supports the move up.")
		} else if last.OBV < first.OBV {
			b.WriteString(" OBV is falling, volume supports the move down.")
		}
	}
	if model.Defined(last.VIX) {
		switch {
		case last.VIX > th.VIXHigh:
			fmt.Fprintf(&b, " VIX %.2f is elevated, the market is fearful.", last.VIX)
		case last.VIX < th.VIXLow:
			fmt.Fprintf(&b, " VIX %.2f is low, the market is calm.", last.VIX)
		default:
			fmt.Fprintf(&b, " VIX %.2f is moderate.", last.VIX)
		}
	}
	if model.Defined(last.VIXEMAFast, last.VIXEMASlow) {
		if last.VIXEMAFast > last.VIXEMASlow {
			b.WriteString(" VIX is trending up, stay cautious.")
		} else if last.VIXEMAFast < last.VIXEMASlow {
			b.WriteString(" VIX is trending down, risk appetite is improving.")
		}
	}
	return b.String()
}
