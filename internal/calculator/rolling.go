package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

var nan = math.NaN()

func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func isDefined(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func allDefined(values []float64) bool {
	for _, v := range values {
		if !isDefined(v) {
			return false
		}
	}
	return true
}

// round4 rounds to four decimals.
func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// PctChange returns the bar-over-bar change as a percentage, rounded to four
// decimals as a fraction before scaling. The first position and any change
// from zero are undefined.
func PctChange(values []float64) []float64 {
	out := undefined(len(values))
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 || !isDefined(prev) || !isDefined(values[i]) {
			continue
		}
		out[i] = round4((values[i]-prev)/prev) * 100
	}
	return out
}

// Diff returns values[i]-values[i-1]; the first position is undefined.
func Diff(values []float64) []float64 {
	out := undefined(len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

// windowed applies fn to every complete window of defined values. A window
// containing any undefined value yields undefined.
func windowed(values []float64, window int, fn func([]float64) float64) []float64 {
	out := undefined(len(values))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		w := values[i-window+1 : i+1]
		if !allDefined(w) {
			continue
		}
		out[i] = fn(w)
	}
	return out
}

// RollingMean is the trailing mean over window values. Each window is summed
// independently so an all-zero window is exactly zero.
func RollingMean(values []float64, window int) []float64 {
	return windowed(values, window, func(w []float64) float64 {
		return sum(w) / float64(len(w))
	})
}

// RollingSum is the trailing sum over window values.
func RollingSum(values []float64, window int) []float64 {
	return windowed(values, window, sum)
}

// RollingMax is the trailing maximum over window values.
func RollingMax(values []float64, window int) []float64 {
	if window > 0 && len(values) >= window && allDefined(values) {
		return masked(talib.Max(values, window), window)
	}
	return windowed(values, window, func(w []float64) float64 {
		m := math.Inf(-1)
		for _, v := range w {
			m = math.Max(m, v)
		}
		return m
	})
}

// RollingMin is the trailing minimum over window values.
func RollingMin(values []float64, window int) []float64 {
	if window > 0 && len(values) >= window && allDefined(values) {
		return masked(talib.Min(values, window), window)
	}
	return windowed(values, window, func(w []float64) float64 {
		m := math.Inf(1)
		for _, v := range w {
			m = math.Min(m, v)
		}
		return m
	})
}

// masked marks the warm-up region of a talib output as undefined.
func masked(values []float64, window int) []float64 {
	out := undefined(len(values))
	for i := window - 1; i < len(values) && i >= 0; i++ {
		out[i] = values[i]
	}
	return out
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}
