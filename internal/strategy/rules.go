package strategy

import (
	"SignalSentinel/internal/model"
)

// Predicate is a pure function of one bar of an annotated series.
type Predicate func(c Cursor, th model.Thresholds) bool

// Rule binds a catalog label to the predicate that fires it.
type Rule struct {
	Label model.Label
	Fires Predicate
}

// Rules is the signal registry in catalog order. Rules are independent;
// any subset may fire on the same bar.
var Rules = []Rule{
	{model.LabelVolumePrice, volumePrice},
	{model.LabelRangeUp, withPrev(func(cur, prev *model.Row, _ model.Thresholds) bool {
		return cur.Low > prev.High
	})},
	{model.LabelRangeDown, withPrev(func(cur, prev *model.Row, _ model.Thresholds) bool {
		return cur.High < prev.Low
	})},

	{model.LabelMACDBuy, withPrev(macdBuy)},
	{model.LabelMACDSell, withPrev(macdSell)},
	{model.LabelEMABuy, withPrev(emaBuy)},
	{model.LabelEMASell, withPrev(emaSell)},

	{model.LabelTrendBuy, withPrev(trendBuy)},
	{model.LabelTrendSell, withPrev(trendSell)},
	{model.LabelTrendVolumeBuy, withPrev(trendVolumeBuy)},
	{model.LabelTrendVolumeSell, withPrev(trendVolumeSell)},
	{model.LabelTrendVolumePctBuy, withPrev(trendVolumePctBuy)},
	{model.LabelTrendVolumePctSell, withPrev(trendVolumePctSell)},

	{model.LabelGapCommonUp, gapIs(model.LabelGapCommonUp)},
	{model.LabelGapBreakawayUp, gapIs(model.LabelGapBreakawayUp)},
	{model.LabelGapRunawayUp, gapIs(model.LabelGapRunawayUp)},
	{model.LabelGapExhaustionUp, gapIs(model.LabelGapExhaustionUp)},
	{model.LabelGapCommonDown, gapIs(model.LabelGapCommonDown)},
	{model.LabelGapBreakawayDown, gapIs(model.LabelGapBreakawayDown)},
	{model.LabelGapRunawayDown, gapIs(model.LabelGapRunawayDown)},
	{model.LabelGapExhaustionDown, gapIs(model.LabelGapExhaustionDown)},

	{model.LabelContinuousUpBuy, continuousUp},
	{model.LabelContinuousDownSell, continuousDown},

	{model.LabelSMA50Up, current(sma50Up)},
	{model.LabelSMA50Down, current(sma50Down)},
	{model.LabelSMA50200Up, current(sma50200Up)},
	{model.LabelSMA50200Down, current(sma50200Down)},

	{model.LabelNewBuy, withPrev(newBuy)},
	{model.LabelNewSell, withPrev(newSell)},
	{model.LabelNewPivot, withPrev(newPivot)},

	{model.LabelRSIMACDOversold, withPrev(rsiMACDOversold)},
	{model.LabelEMASMAUptrendBuy, current(emaSMAUptrend)},
	{model.LabelVolumeMACDBuy, withPrev(volumeMACDBuy)},
	{model.LabelRSIMACDOverbought, withPrev(rsiMACDOverbought)},
	{model.LabelEMASMADowntrendSell, current(emaSMADowntrend)},
	{model.LabelVolumeMACDSell, withPrev(volumeMACDSell)},

	{model.LabelEMA1030Buy, withPrev(ema1030Buy)},
	{model.LabelEMA1030StrongBuy, withPrev(ema1030StrongBuy)},
	{model.LabelEMA1030Sell, withPrev(ema1030Sell)},
	{model.LabelEMA1030StrongSell, withPrev(ema1030StrongSell)},

	{model.LabelBullishEngulfing, withPrev(bullishEngulfing)},
	{model.LabelBearishEngulfing, withPrev(bearishEngulfing)},
	{model.LabelHammer, withPrev(hammerSignal)},
	{model.LabelHangingMan, withPrev(hangingMan)},
	{model.LabelMorningStar, morningStar},
	{model.LabelEveningStar, eveningStar},
	{model.LabelDarkCloudCover, withPrev(darkCloudCover)},
	{model.LabelPiercingLine, withPrev(piercingLine)},

	{model.LabelVWAPBuy, withPrev(vwapBuy)},
	{model.LabelVWAPSell, withPrev(vwapSell)},
	{model.LabelMFIBullDivergence, mfiBullDivergence},
	{model.LabelMFIBearDivergence, mfiBearDivergence},
	{model.LabelOBVBuy, withPrev(obvBuy)},
	{model.LabelOBVSell, withPrev(obvSell)},

	{model.LabelVIXPanicSell, withPrev(vixPanic)},
	{model.LabelVIXCalmBuy, withPrev(vixCalm)},
	{model.LabelVIXUptrendSell, withPrev(vixUptrend)},
	{model.LabelVIXDowntrendBuy, withPrev(vixDowntrend)},
}

// RuleFor looks up the registered rule for label.
func RuleFor(label model.Label) (Rule, bool) {
	for _, r := range Rules {
		if r.Label == label {
			return r, true
		}
	}
	return Rule{}, false
}

// withPrev adapts a two-bar comparison; it never fires on the first bar.
func withPrev(fn func(cur, prev *model.Row, th model.Thresholds) bool) Predicate {
	return func(c Cursor, th model.Thresholds) bool {
		prev, ok := c.Prev()
		if !ok {
			return false
		}
		return fn(c.Current(), prev, th)
	}
}

func current(fn func(cur *model.Row, th model.Thresholds) bool) Predicate {
	return func(c Cursor, th model.Thresholds) bool {
		return fn(c.Current(), th)
	}
}

func aboveAvgVolume(r *model.Row) bool {
	return model.Defined(r.AvgVolume5) && r.Volume > r.AvgVolume5
}

func rsiBelow(r *model.Row, level float64) bool {
	return model.Defined(r.RSI) && r.RSI < level
}

func rsiAbove(r *model.Row, level float64) bool {
	return model.Defined(r.RSI) && r.RSI > level
}
