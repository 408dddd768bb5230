package calculator

// RSI computes the relative strength index using a simple rolling mean of
// gains and losses over period bars. The first bar contributes a zero
// change, so RSI is defined from position period-1. A zero average loss
// saturates to 100.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := undefined(n)
	if period <= 0 || n < period {
		return out
	}
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else if change < 0 {
			losses[i] = -change
		}
	}
	avgGain := RollingMean(gains, period)
	avgLoss := RollingMean(losses, period)
	for i := period - 1; i < n; i++ {
		out[i] = ratioIndex(avgGain[i], avgLoss[i])
	}
	return out
}

// ratioIndex maps up/down averages to 0..100.
func ratioIndex(up, down float64) float64 {
	if !isDefined(up) || !isDefined(down) {
		return nan
	}
	if down == 0 {
		return 100
	}
	rs := up / down
	return 100 - 100/(1+rs)
}
