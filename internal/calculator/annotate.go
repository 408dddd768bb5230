package calculator

import (
	"math"

	"SignalSentinel/internal/model"
)

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	rsiPeriod  = 14
	mfiPeriod  = 14
	trailing   = 5
)

// Annotate computes every derived column of s from its bars and any merged
// volatility level. It overwrites previous values, so annotating twice is
// the same as annotating once.
func Annotate(s *model.Series, th model.Thresholds) {
	n := s.Len()
	if n == 0 {
		return
	}
	bars := s.Bars()
	closes := s.Closes()
	volumes := s.Volumes()

	priceChange := PctChange(closes)
	volumeChange := PctChange(volumes)
	closeDiff := Diff(closes)

	absChange := make([]float64, n)
	for i, v := range priceChange {
		absChange[i] = math.Abs(v)
	}
	avgChange := RollingMean(priceChange, trailing)
	avgAbsChange := RollingMean(absChange, trailing)
	avgVolume := SMA(volumes, trailing)

	macd, signal := MACD(closes, macdFast, macdSlow, macdSignal)
	ema5 := EMA(closes, 5)
	ema10 := EMA(closes, 10)
	ema30 := EMA(closes, 30)
	ema40 := EMA(closes, 40)
	rsi := RSI(closes, rsiPeriod)
	vwap := VWAP(bars)
	mfi := MFI(bars, mfiPeriod)
	obv := OBV(bars)
	sma50 := SMA(closes, 50)
	sma200 := SMA(closes, 200)

	vix := make([]float64, n)
	for i := range s.Rows {
		vix[i] = s.Rows[i].VIX
	}
	vixFast := EMA(vix, th.VIXFastSpan)
	vixSlow := EMA(vix, th.VIXSlowSpan)

	up, down := Streaks(closes)

	closeMax := RollingMax(closes, th.MFIDivergenceWindow)
	closeMin := RollingMin(closes, th.MFIDivergenceWindow)
	mfiMax := RollingMax(mfi, th.MFIDivergenceWindow)
	mfiMin := RollingMin(mfi, th.MFIDivergenceWindow)
	obvMax := RollingMax(obv, th.OBVWindow)
	obvMin := RollingMin(obv, th.OBVWindow)

	for i := range s.Rows {
		r := &s.Rows[i]
		r.PriceChangePct = priceChange[i]
		r.VolumeChangePct = volumeChange[i]
		r.CloseDiff = closeDiff[i]
		r.AvgPriceChange5 = avgChange[i]
		r.AvgAbsPriceChange5 = avgAbsChange[i]
		r.AvgVolume5 = avgVolume[i]
		r.PriceSurgePct = surge(absChange[i], avgAbsChange[i])
		r.VolumeSurgePct = surge(volumes[i], avgVolume[i])

		r.MACD = macd[i]
		r.MACDSignal = signal[i]
		r.EMA5, r.EMA10, r.EMA30, r.EMA40 = ema5[i], ema10[i], ema30[i], ema40[i]
		r.RSI = rsi[i]
		r.VWAP = vwap[i]
		r.MFI = mfi[i]
		r.OBV = obv[i]
		r.SMA50 = sma50[i]
		r.SMA200 = sma200[i]
		r.VIXEMAFast = vixFast[i]
		r.VIXEMASlow = vixSlow[i]

		r.ContinuousUp = up[i]
		r.ContinuousDown = down[i]

		r.CloseRollMax, r.CloseRollMin = closeMax[i], closeMin[i]
		r.MFIRollMax, r.MFIRollMin = mfiMax[i], mfiMin[i]
		r.OBVRollMax, r.OBVRollMin = obvMax[i], obvMin[i]
	}
}

// surge is the percentage by which v exceeds its trailing mean.
func surge(v, mean float64) float64 {
	if !isDefined(v) || !isDefined(mean) || mean == 0 {
		return nan
	}
	return round4((v-mean)/mean) * 100
}
