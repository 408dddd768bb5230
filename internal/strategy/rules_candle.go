package strategy

import "SignalSentinel/internal/model"

// These confirmations are independent of the exclusive pattern chain and
// carry their own volume and RSI gates.

func bullishEngulfing(cur, prev *model.Row, _ model.Thresholds) bool {
	return prev.Bearish() && cur.Bullish() &&
		cur.Open < prev.Close && cur.Close > prev.Open &&
		aboveAvgVolume(cur) && rsiBelow(cur, 50)
}

func bearishEngulfing(cur, prev *model.Row, _ model.Thresholds) bool {
	return prev.Bullish() && cur.Bearish() &&
		cur.Open > prev.Close && cur.Close < prev.Open &&
		aboveAvgVolume(cur) && rsiAbove(cur, 50)
}

// hammerShape is a small body with a long lower shadow.
func hammerShape(r *model.Row, th model.Thresholds) bool {
	body, lower := r.Body(), r.LowerShadow()
	return body < th.BodyRatio*r.Range() && lower >= th.ShadowRatio*body && r.UpperShadow() < lower
}

func hammerSignal(cur, prev *model.Row, th model.Thresholds) bool {
	return cur.Close > prev.Close && hammerShape(cur, th) && aboveAvgVolume(cur) && rsiBelow(cur, 50)
}

func hangingMan(cur, prev *model.Row, th model.Thresholds) bool {
	return cur.Close < prev.Close && hammerShape(cur, th) && aboveAvgVolume(cur) && rsiAbove(cur, 50)
}

// starBars returns the first and middle bars of a three-bar star.
func starBars(c Cursor) (first, middle *model.Row, ok bool) {
	if first, ok = c.At(-2); !ok {
		return nil, nil, false
	}
	middle, ok = c.At(-1)
	return first, middle, ok
}

func morningStar(c Cursor, th model.Thresholds) bool {
	first, middle, ok := starBars(c)
	if !ok {
		return false
	}
	cur := c.Current()
	return first.Bearish() && middle.Body() < th.StarBodyRatio*first.Body() &&
		cur.Bullish() && cur.Close > first.Midpoint() &&
		aboveAvgVolume(cur) && rsiBelow(cur, 50)
}

func eveningStar(c Cursor, th model.Thresholds) bool {
	first, middle, ok := starBars(c)
	if !ok {
		return false
	}
	cur := c.Current()
	return first.Bullish() && middle.Body() < th.StarBodyRatio*first.Body() &&
		cur.Bearish() && cur.Close < first.Midpoint() &&
		aboveAvgVolume(cur) && rsiAbove(cur, 50)
}

func darkCloudCover(cur, prev *model.Row, _ model.Thresholds) bool {
	return prev.Bullish() && cur.Open > prev.Close && cur.Bearish() &&
		cur.Close < prev.Midpoint() && aboveAvgVolume(cur)
}

func piercingLine(cur, prev *model.Row, _ model.Thresholds) bool {
	return prev.Bearish() && cur.Open < prev.Close && cur.Bullish() &&
		cur.Close > prev.Midpoint() && aboveAvgVolume(cur)
}
