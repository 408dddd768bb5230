package strategy

import (
	"math"

	"SignalSentinel/internal/model"
)

func volumePrice(c Cursor, th model.Thresholds) bool {
	r := c.Current()
	if !model.Defined(r.PriceSurgePct, r.VolumeSurgePct) {
		return false
	}
	return math.Abs(r.PriceSurgePct) >= th.PriceSurge && math.Abs(r.VolumeSurgePct) >= th.VolumeSurge
}

func higherBar(cur, prev *model.Row) bool {
	return cur.High > prev.High && cur.Low > prev.Low && cur.Close > prev.Close
}

func lowerBar(cur, prev *model.Row) bool {
	return cur.High < prev.High && cur.Low < prev.Low && cur.Close < prev.Close
}

func trendBuy(cur, prev *model.Row, _ model.Thresholds) bool {
	return higherBar(cur, prev) && model.Defined(cur.MACD) && cur.MACD > 0
}

func trendSell(cur, prev *model.Row, _ model.Thresholds) bool {
	return lowerBar(cur, prev) && model.Defined(cur.MACD) && cur.MACD < 0
}

func trendVolumeBuy(cur, prev *model.Row, _ model.Thresholds) bool {
	return higherBar(cur, prev) && aboveAvgVolume(cur) && rsiBelow(cur, 50)
}

func trendVolumeSell(cur, prev *model.Row, _ model.Thresholds) bool {
	return lowerBar(cur, prev) && aboveAvgVolume(cur) && rsiAbove(cur, 50)
}

func trendVolumePctBuy(cur, prev *model.Row, th model.Thresholds) bool {
	return higherBar(cur, prev) && model.Defined(cur.VolumeChangePct) &&
		cur.VolumeChangePct > th.VolumeChangeConfirm && rsiBelow(cur, 50)
}

func trendVolumePctSell(cur, prev *model.Row, th model.Thresholds) bool {
	return lowerBar(cur, prev) && model.Defined(cur.VolumeChangePct) &&
		cur.VolumeChangePct > th.VolumeChangeConfirm && rsiAbove(cur, 50)
}

func continuousUp(c Cursor, th model.Thresholds) bool {
	r := c.Current()
	if r.ContinuousUp < th.ContinuousUp {
		return false
	}
	return !th.StreakRSIGate || rsiBelow(r, th.StreakRSIUpper)
}

func continuousDown(c Cursor, th model.Thresholds) bool {
	r := c.Current()
	if r.ContinuousDown < th.ContinuousDown {
		return false
	}
	return !th.StreakRSIGate || rsiAbove(r, th.StreakRSILower)
}

func newBuy(cur, prev *model.Row, _ model.Thresholds) bool {
	return cur.Close > cur.Open && cur.Open > prev.Close && rsiBelow(cur, 70)
}

func newSell(cur, prev *model.Row, _ model.Thresholds) bool {
	return cur.Close < cur.Open && cur.Open < prev.Close && rsiAbove(cur, 30)
}

func newPivot(cur, _ *model.Row, th model.Thresholds) bool {
	if !model.Defined(cur.PriceChangePct, cur.VolumeChangePct, cur.MACD, cur.MACDSignal) {
		return false
	}
	return math.Abs(cur.PriceChangePct) > th.PivotPriceChange &&
		math.Abs(cur.VolumeChangePct) > th.PivotVolumeChange &&
		cur.MACD > cur.MACDSignal
}
