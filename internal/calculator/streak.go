package calculator

// Streaks returns run-length counters of consecutive higher and lower
// closes. Both counters are zero on the first bar and reset on any bar that
// does not extend the run.
func Streaks(closes []float64) (up, down []int) {
	up = make([]int, len(closes))
	down = make([]int, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i] > closes[i-1] {
			up[i] = up[i-1] + 1
		}
		if closes[i] < closes[i-1] {
			down[i] = down[i-1] + 1
		}
	}
	return up, down
}
