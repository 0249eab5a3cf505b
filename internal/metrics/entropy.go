package metrics

import "github.com/san-kum/shocksim/internal/flow"

// EntropyRise is the specific entropy jump s2 - s1 in J/(kg K).
// A physical compression shock keeps it non-negative.
type EntropyRise struct {
	name    string
	last    float64
	min     float64
	samples int
}

func NewEntropyRise() *EntropyRise {
	return &EntropyRise{name: "entropy_rise"}
}

func (e *EntropyRise) Name() string { return e.name }

func (e *EntropyRise) Observe(up, down *flow.State) {
	e.last = down.Gas().Entropy() - up.Gas().Entropy()
	if e.samples == 0 || e.last < e.min {
		e.min = e.last
	}
	e.samples++
}

func (e *EntropyRise) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.last
}

// Min is the smallest jump seen since the last Reset.
func (e *EntropyRise) Min() float64 { return e.min }

func (e *EntropyRise) Reset() {
	e.last = 0
	e.min = 0
	e.samples = 0
}
