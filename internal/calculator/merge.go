package calculator

import "SignalSentinel/internal/model"

// MergeVolatility left-joins a volatility index series onto s by exact
// timestamp. Bars without a matching timestamp keep undefined volatility
// fields. It returns the number of matched bars.
func MergeVolatility(s *model.Series, vix []model.Bar) int {
	closes := make([]float64, len(vix))
	for i, b := range vix {
		closes[i] = b.Close
	}
	change := PctChange(closes)

	type point struct{ level, change float64 }
	byTime := make(map[int64]point, len(vix))
	for i, b := range vix {
		byTime[b.Time.Unix()] = point{level: b.Close, change: change[i]}
	}

	matched := 0
	for i := range s.Rows {
		row := &s.Rows[i]
		p, ok := byTime[row.Time.Unix()]
		if !ok {
			row.VIX, row.VIXChangePct = nan, nan
			continue
		}
		row.VIX, row.VIXChangePct = p.level, p.change
		matched++
	}
	return matched
}
