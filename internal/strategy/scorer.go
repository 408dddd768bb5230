package strategy

import (
	"sort"

	"SignalSentinel/internal/model"
)

// Score backtests every label that fired in s against the following bar.
// Bullish labels succeed when the next bar has a higher high and a higher
// close; bearish labels when it has a lower low and a lower close. The final
// bar has no outcome and is left out of both counts, so a label seen only on
// the final bar is reported with zero triggers.
func Score(s *model.Series) []model.SignalStats {
	byLabel := make(map[model.Label]*model.SignalStats)
	entry := func(l model.Label) *model.SignalStats {
		st, ok := byLabel[l]
		if !ok {
			st = &model.SignalStats{Label: l, Direction: l.Direction()}
			byLabel[l] = st
		}
		return st
	}

	n := s.Len()
	for i := 0; i < n-1; i++ {
		cur, next := &s.Rows[i], &s.Rows[i+1]
		for _, l := range cur.Signals {
			st := entry(l)
			st.Triggers++
			if succeeded(st.Direction, cur, next) {
				st.Successes++
			}
		}
	}
	if last, ok := s.Latest(); ok {
		for _, l := range last.Signals {
			entry(l)
		}
	}

	out := make([]model.SignalStats, 0, len(byLabel))
	for _, st := range byLabel {
		if st.Triggers > 0 {
			st.SuccessRate = float64(st.Successes) / float64(st.Triggers) * 100
		}
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label.Order() < out[j].Label.Order()
	})
	return out
}

func succeeded(dir model.Direction, cur, next *model.Row) bool {
	if dir == model.Bearish {
		return next.Low < cur.Low && next.Close < cur.Close
	}
	return next.High > cur.High && next.Close > cur.Close
}
