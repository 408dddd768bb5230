package notifier

import (
	"fmt"
	"html"
	"strings"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/strategy"
)

const timeLayout = "2006-01-02 15:04"

// displayLabels renders fired labels, annotating the critical pivot with its count.
func displayLabels(r *model.Row) []string {
	out := make([]string, 0, len(r.Signals))
	for _, l := range r.Signals {
		if l == model.LabelCriticalPivot {
			out = append(out, fmt.Sprintf("%s (%d signals)", l, len(r.Signals)-1))
			continue
		}
		out = append(out, string(l))
	}
	return out
}

func num(v float64, format string) string {
	if !model.Defined(v) {
		return "n/a"
	}
	return fmt.Sprintf(format, v)
}

// FormatEmailSubject returns the alert subject line for ticker.
func FormatEmailSubject(ticker string) string {
	return fmt.Sprintf("Stock alert: %s", ticker)
}

// FormatEmailBody renders the fixed email template for the latest row.
func FormatEmailBody(ticker string, r *model.Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ticker: %s\n", ticker)
	fmt.Fprintf(&b, "Price change: %s\n", num(r.PriceChangePct, "%.2f%%"))
	fmt.Fprintf(&b, "Volume change: %s\n", num(r.VolumeChangePct, "%.2f%%"))
	if len(r.Signals) > 0 {
		b.WriteString("\n")
	}
	for _, l := range displayLabels(r) {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	b.WriteString("\nUnusual activity detected, check the market now.\n")
	return b.String()
}

// FormatAlert renders the chat message sent when every selected label fires.
func FormatAlert(s *model.Series, r *model.Row, selected []model.Label) string {
	names := make([]string, len(selected))
	for i, l := range selected {
		names[i] = string(l)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 <b>%s</b> %s | %s\n", html.EscapeString(s.Ticker), s.Interval, r.Time.Format(timeLayout))
	fmt.Fprintf(&b, "Close: $%.2f\n", r.Close)
	fmt.Fprintf(&b, "Signals: %s\n", html.EscapeString(strings.Join(displayLabels(r), ", ")))
	fmt.Fprintf(&b, "Volume: %s\n", r.VolumeTag)
	fmt.Fprintf(&b, "Pattern: %s (%s)\n", r.Pattern, html.EscapeString(r.Interpretation))
	fmt.Fprintf(&b, "All selected signals present: %s", html.EscapeString(strings.Join(names, ", ")))
	return b.String()
}

// FormatReport renders the /report reply for one evaluated ticker.
func FormatReport(rep *strategy.Report) string {
	var b strings.Builder
	r, ok := rep.Series.Latest()
	if !ok {
		return fmt.Sprintf("%s: no data", rep.Series.Ticker)
	}
	fmt.Fprintf(&b, "📊 <b>%s</b> | %s %s | %s\n\n", html.EscapeString(rep.Series.Ticker),
		rep.Series.Period, rep.Series.Interval, r.Time.Format(timeLayout))
	fmt.Fprintf(&b, "Close: $%.2f (%s)\n", r.Close, num(r.PriceChangePct, "%+.2f%%"))
	fmt.Fprintf(&b, "Volume: %.0f (%s, %s)\n", r.Volume, num(r.VolumeChangePct, "%+.2f%%"), r.VolumeTag)
	fmt.Fprintf(&b, "RSI: %s | MACD: %s / %s\n", num(r.RSI, "%.1f"), num(r.MACD, "%.3f"), num(r.MACDSignal, "%.3f"))
	fmt.Fprintf(&b, "VWAP: %s | MFI: %s | VIX: %s\n", num(r.VWAP, "%.2f"), num(r.MFI, "%.1f"), num(r.VIX, "%.2f"))
	if len(r.Signals) > 0 {
		fmt.Fprintf(&b, "\n<b>Signals:</b> %s\n", html.EscapeString(strings.Join(displayLabels(r), ", ")))
	}
	fmt.Fprintf(&b, "<b>Pattern:</b> %s (%s)\n", r.Pattern, html.EscapeString(r.Interpretation))
	fmt.Fprintf(&b, "\n%s\n", html.EscapeString(rep.Summary))
	if len(rep.Percentiles) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatPercentiles(rep.Percentiles))
	}
	return b.String()
}

// FormatStats renders the success-rate table.
func FormatStats(ticker string, stats []model.SignalStats) string {
	if len(stats) == 0 {
		return fmt.Sprintf("%s: no signals fired in the window", ticker)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>%s signal success rates</b>\n\n", html.EscapeString(ticker))
	for _, st := range stats {
		fmt.Fprintf(&b, "%s [%s]: %.2f%% (%d/%d)\n", html.EscapeString(string(st.Label)), st.Direction,
			st.SuccessRate, st.Successes, st.Triggers)
	}
	return b.String()
}

// FormatPercentiles renders the top/bottom percentile ranges.
func FormatPercentiles(ranges []strategy.PercentileRange) string {
	var b strings.Builder
	b.WriteString("<b>Percentile ranges</b>\n")
	for _, p := range ranges {
		fmt.Fprintf(&b, "%s (n=%d): top %.2f..%.2f, bottom %.2f..%.2f\n",
			p.Column, p.Count, p.TopLow, p.TopHigh, p.BottomLow, p.BottomHigh)
	}
	return b.String()
}
