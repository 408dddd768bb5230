package strategy

import "SignalSentinel/internal/model"

// classifyGap assigns at most one gap label to the bar under the cursor.
// Exhaustion is judged by the following bar's close, so it is backtest-only:
// the final bar of a series can never be an exhaustion gap and falls through
// to the remaining classes.
func classifyGap(c Cursor, th model.Thresholds) (model.Label, bool) {
	prev, ok := c.Prev()
	if !ok || prev.Close == 0 {
		return "", false
	}
	cur := c.Current()
	gap := (cur.Open - prev.Close) / prev.Close * 100
	up, down := gap > th.Gap, gap < -th.Gap
	if !up && !down {
		return "", false
	}

	highVolume := aboveAvgVolume(cur)
	upTrend, downTrend := trendDirection(c)

	reversal := false
	if next, ok := c.Next(); ok {
		reversal = (up && next.Close < cur.Close) || (down && next.Close > cur.Close)
	}

	if up {
		switch {
		case reversal && highVolume:
			return model.LabelGapExhaustionUp, true
		case upTrend && highVolume:
			return model.LabelGapRunawayUp, true
		case cur.High > prev.High && highVolume:
			return model.LabelGapBreakawayUp, true
		default:
			return model.LabelGapCommonUp, true
		}
	}
	switch {
	case reversal && highVolume:
		return model.LabelGapExhaustionDown, true
	case downTrend && highVolume:
		return model.LabelGapRunawayDown, true
	case cur.Low < prev.Low && highVolume:
		return model.LabelGapBreakawayDown, true
	default:
		return model.LabelGapCommonDown, true
	}
}

// trendDirection compares the close with the 5-bar mean ending at the
// previous bar, and that mean with the one a bar earlier.
func trendDirection(c Cursor) (up, down bool) {
	trend, ok := c.MeanClose(5, 0)
	if !ok {
		return false, false
	}
	prevTrend, ok := c.MeanClose(5, 1)
	if !ok {
		return false, false
	}
	last := c.Current().Close
	return last > trend && trend > prevTrend, last < trend && trend < prevTrend
}

func gapIs(label model.Label) Predicate {
	return func(c Cursor, th model.Thresholds) bool {
		got, ok := classifyGap(c, th)
		return ok && got == label
	}
}
