package metrics

import (
	"math"

	"github.com/san-kum/shocksim/internal/flow"
)

// Metric observes the two stations after every shock iteration.
type Metric interface {
	Name() string
	Observe(up, down *flow.State)
	Value() float64
	Reset()
}

// Default returns a fresh set of the conservation residuals and the entropy rise.
func Default() []Metric {
	return []Metric{
		NewMassResidual(),
		NewMomentumResidual(),
		NewEnergyResidual(),
		NewEntropyRise(),
	}
}

// relative returns |b-a| scaled by |a|, or the absolute difference when a is zero.
func relative(a, b float64) float64 {
	d := math.Abs(b - a)
	if a == 0 {
		return d
	}
	return d / math.Abs(a)
}
