package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMA computes the simple moving average column. The first period-1
// positions are undefined.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return undefined(len(values))
	}
	if !allDefined(values) {
		return RollingMean(values, period)
	}
	return masked(talib.Sma(values, period), period)
}

// EMA computes an exponential moving average with smoothing 2/(span+1),
// seeded by the first defined value. An undefined input carries the last
// average forward, and the next defined value is blended with weights that
// decay by position, so a gap of k bars discounts the old average by
// (1-alpha)^(k+1). Positions before the first defined value stay undefined.
func EMA(values []float64, span int) []float64 {
	out := undefined(len(values))
	if span <= 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1)
	prev := math.NaN()
	oldWeight := 1.0
	for i, v := range values {
		defined := isDefined(v)
		switch {
		case math.IsNaN(prev):
			if defined {
				prev = v
			}
		default:
			oldWeight *= 1 - alpha
			if defined {
				prev = (oldWeight*prev + alpha*v) / (oldWeight + alpha)
				oldWeight = 1
			}
		}
		out[i] = prev
	}
	return out
}

// MACD returns the MACD line (fast EMA minus slow EMA) and its signal line.
func MACD(closes []float64, fast, slow, signal int) (macd, signalLine []float64) {
	f := EMA(closes, fast)
	s := EMA(closes, slow)
	macd = undefined(len(closes))
	for i := range closes {
		if isDefined(f[i]) && isDefined(s[i]) {
			macd[i] = f[i] - s[i]
		}
	}
	return macd, EMA(macd, signal)
}
