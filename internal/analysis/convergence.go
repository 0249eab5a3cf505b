package analysis

import "math"

// ConvergenceRate estimates the contraction factor of a fixed-point
// iteration as the geometric mean of |d(k+1)/d(k)| over the last `window`
// successive differences of history. A value below one means linear
// convergence; the closer to one, the slower. ok is false when fewer than
// three iterates are available or every difference is zero.
func ConvergenceRate(history []float64, window int) (rate float64, ok bool) {
	n := len(history)
	if n < 3 {
		return 0, false
	}
	if window < 1 || window > n-2 {
		window = n - 2
	}

	sumLog := 0.0
	count := 0
	for k := n - window; k < n; k++ {
		prev := math.Abs(history[k-1] - history[k-2])
		cur := math.Abs(history[k] - history[k-1])
		if prev == 0 || cur == 0 {
			continue
		}
		sumLog += math.Log(cur / prev)
		count++
	}
	if count == 0 {
		return 0, false
	}
	return math.Exp(sumLog / float64(count)), true
}

// Aitken applies delta-squared extrapolation to the last three iterates.
// ok is false when the second difference vanishes.
func Aitken(history []float64) (float64, bool) {
	n := len(history)
	if n < 3 {
		return 0, false
	}
	x0, x1, x2 := history[n-3], history[n-2], history[n-1]
	d2 := x2 - 2*x1 + x0
	if d2 == 0 {
		return 0, false
	}
	return x2 - (x2-x1)*(x2-x1)/d2, true
}

// RemainingIterations predicts how many more iterations a linearly
// converging sequence with the given rate needs to bring its step size
// from delta down to tol. It returns -1 when rate does not contract.
func RemainingIterations(rate, delta, tol float64) int {
	if !(rate > 0 && rate < 1) || !(tol > 0) {
		return -1
	}
	if delta <= tol {
		return 0
	}
	return int(math.Ceil(math.Log(tol/delta) / math.Log(rate)))
}
