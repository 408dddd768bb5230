package strategy

import (
	"SignalSentinel/internal/model"
)

// candle holds the shape measurements shared by every pattern predicate.
type candle struct {
	cur, prev  *model.Row
	body, span float64
	upper      float64
	lower      float64
	uptrend    bool
	downtrend  bool
	highVolume bool
}

type patternRule struct {
	category model.PatternCategory
	match    func(k *candle, c Cursor, th model.Thresholds) bool
	meaning  string
	// volume clauses appended for high and low volume; empty means none
	onHigh, onLow string
}

// patternChain is evaluated first-match-wins; order is significant.
var patternChain = []patternRule{
	{
		category: model.PatternHammer,
		match: func(k *candle, _ Cursor, th model.Thresholds) bool {
			return k.body < th.BodyRatio*k.span && k.lower >= th.ShadowRatio*k.body &&
				k.upper < k.lower && k.downtrend
		},
		meaning: "hammer after a decline: sellers pushed price down but buyers closed it near the high, possible bottom",
		onHigh:  ", high volume strengthens the reversal",
		onLow:   ", low volume, wait for confirmation",
	},
	{
		category: model.PatternShootingStar,
		match: func(k *candle, _ Cursor, th model.Thresholds) bool {
			return k.body < th.BodyRatio*k.span && k.upper >= th.ShadowRatio*k.body &&
				k.lower < k.upper && k.uptrend
		},
		meaning: "shooting star after a rally: buyers pushed price up but sellers closed it near the low, possible top",
		onHigh:  ", high volume strengthens the reversal",
		onLow:   ", low volume, wait for confirmation",
	},
	{
		category: model.PatternDoji,
		match: func(k *candle, _ Cursor, th model.Thresholds) bool {
			return k.body < th.DojiRatio*k.span
		},
		meaning: "doji: open and close almost equal, the market is undecided",
	},
	{
		category: model.PatternStrongBull,
		match: func(k *candle, _ Cursor, th model.Thresholds) bool {
			return k.cur.Bullish() && k.body > th.StrongBodyRatio*k.span
		},
		meaning: "strong bull bar: buyers in control",
		onHigh:  ", high volume confirms buying pressure",
		onLow:   ", but volume is light and follow-through is uncertain",
	},
	{
		category: model.PatternStrongBear,
		match: func(k *candle, _ Cursor, th model.Thresholds) bool {
			return k.cur.Bearish() && k.body > th.StrongBodyRatio*k.span
		},
		meaning: "strong bear bar: sellers in control",
		onHigh:  ", high volume confirms selling pressure",
		onLow:   ", but volume is light and follow-through is uncertain",
	},
	{
		category: model.PatternBullishEngulfing,
		match: func(k *candle, _ Cursor, _ model.Thresholds) bool {
			return k.prev.Bearish() && k.cur.Bullish() &&
				k.cur.Open < k.prev.Close && k.cur.Close > k.prev.Open && k.highVolume
		},
		meaning: "bullish engulfing: buyers overwhelmed the prior selling, upside reversal likely",
	},
	{
		category: model.PatternBearishEngulfing,
		match: func(k *candle, _ Cursor, _ model.Thresholds) bool {
			return k.prev.Bullish() && k.cur.Bearish() &&
				k.cur.Open > k.prev.Close && k.cur.Close < k.prev.Open && k.highVolume
		},
		meaning: "bearish engulfing: sellers overwhelmed the prior buying, downside reversal likely",
	},
	{
		category: model.PatternDarkCloudCover,
		match: func(k *candle, _ Cursor, _ model.Thresholds) bool {
			return k.prev.Bullish() && k.cur.Open > k.prev.Close && k.cur.Bearish() &&
				k.cur.Close < k.prev.Midpoint() && k.uptrend
		},
		meaning: "dark cloud cover: the rally stalled after a gap up, watch for a pullback",
	},
	{
		category: model.PatternPiercing,
		match: func(k *candle, _ Cursor, _ model.Thresholds) bool {
			return k.prev.Bearish() && k.cur.Open < k.prev.Close && k.cur.Bullish() &&
				k.cur.Close > k.prev.Midpoint() && k.downtrend
		},
		meaning: "piercing pattern: the decline stalled after a gap down, watch for a rebound",
	},
	{
		category: model.PatternMorningStar,
		match: func(k *candle, c Cursor, th model.Thresholds) bool {
			first, middle, ok := starBars(c)
			return ok && first.Bearish() && middle.Body() < th.StarBodyRatio*first.Body() &&
				k.cur.Bullish() && k.cur.Close > first.Midpoint() && k.highVolume
		},
		meaning: "morning star: three-bar bottom reversal, upside likely",
	},
	{
		category: model.PatternEveningStar,
		match: func(k *candle, c Cursor, th model.Thresholds) bool {
			first, middle, ok := starBars(c)
			return ok && first.Bullish() && middle.Body() < th.StarBodyRatio*first.Body() &&
				k.cur.Bearish() && k.cur.Close < first.Midpoint() && k.highVolume
		},
		meaning: "evening star: three-bar top reversal, downside likely",
	},
}

const ordinaryMeaning = "ordinary bar: limited movement, no clear direction"

// PatternResult is the classification of one bar.
type PatternResult struct {
	Category       model.PatternCategory
	Interpretation string
}

// ClassifyPattern assigns exactly one pattern category to the bar under the cursor.
func ClassifyPattern(c Cursor, th model.Thresholds) PatternResult {
	prev, ok := c.Prev()
	if !ok {
		return PatternResult{model.PatternNone, ordinaryMeaning}
	}
	cur := c.Current()
	k := &candle{
		cur:        cur,
		prev:       prev,
		body:       cur.Body(),
		span:       cur.Range(),
		upper:      cur.UpperShadow(),
		lower:      cur.LowerShadow(),
		highVolume: aboveAvgVolume(cur),
	}
	if mean, ok := c.MeanClose(5, 0); ok {
		k.uptrend = mean < cur.Close
		k.downtrend = mean > cur.Close
	}

	for _, rule := range patternChain {
		if !rule.match(k, c, th) {
			continue
		}
		text := rule.meaning
		if k.highVolume && rule.onHigh != "" {
			text += rule.onHigh
		} else if !k.highVolume && rule.onLow != "" {
			text += rule.onLow
		}
		return PatternResult{rule.category, text}
	}
	return PatternResult{model.PatternNone, ordinaryMeaning}
}

// classifyAll runs the pattern chain over every bar of s.
func classifyAll(s *model.Series, th model.Thresholds) []PatternResult {
	out := make([]PatternResult, s.Len())
	for i := range s.Rows {
		out[i] = ClassifyPattern(NewCursor(s, i), th)
	}
	return out
}

func volumeTag(r *model.Row) model.VolumeTag {
	if aboveAvgVolume(r) {
		return model.HighVolume
	}
	return model.LowVolume
}
