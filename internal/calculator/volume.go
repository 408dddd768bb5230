package calculator

import "SignalSentinel/internal/model"

// TypicalPrice is (high+low+close)/3 per bar.
func TypicalPrice(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = (b.High + b.Low + b.Close) / 3
	}
	return out
}

// VWAP is cumulative typical-price×volume over cumulative volume across the
// whole series. Positions before any volume trades are undefined.
func VWAP(bars []model.Bar) []float64 {
	out := undefined(len(bars))
	tp := TypicalPrice(bars)
	var pv, vol float64
	for i, b := range bars {
		pv += tp[i] * b.Volume
		vol += b.Volume
		if vol > 0 {
			out[i] = pv / vol
		}
	}
	return out
}

// MFI computes the money flow index over period bars. Money flow counts as
// positive when typical price rises from the previous bar and negative when
// it falls. A zero negative flow saturates to 100.
func MFI(bars []model.Bar, period int) []float64 {
	n := len(bars)
	out := undefined(n)
	if period <= 0 || n < period {
		return out
	}
	tp := TypicalPrice(bars)
	pos := make([]float64, n)
	neg := make([]float64, n)
	for i := 1; i < n; i++ {
		flow := tp[i] * bars[i].Volume
		switch {
		case tp[i] > tp[i-1]:
			pos[i] = flow
		case tp[i] < tp[i-1]:
			neg[i] = flow
		}
	}
	posSum := RollingSum(pos, period)
	negSum := RollingSum(neg, period)
	for i := period - 1; i < n; i++ {
		out[i] = ratioIndex(posSum[i], negSum[i])
	}
	return out
}

// OBV accumulates volume signed by the close-to-close direction, starting at zero.
func OBV(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		out[i] = out[i-1]
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] += bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] -= bars[i].Volume
		}
	}
	return out
}
