package metrics

import "github.com/san-kum/shocksim/internal/flow"

// flux tracks the latest relative mismatch of one conserved flux across the shock.
type flux struct {
	name    string
	of      func(*flow.State) float64
	last    float64
	samples int
}

func (f *flux) Name() string { return f.name }

func (f *flux) Observe(up, down *flow.State) {
	f.last = relative(f.of(up), f.of(down))
	f.samples++
}

func (f *flux) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.last
}

func (f *flux) Reset() {
	f.last = 0
	f.samples = 0
}

// NewMassResidual tracks |rho2 v2 - rho1 v1| / |rho1 v1|.
func NewMassResidual() Metric {
	return &flux{name: "mass_residual", of: (*flow.State).MassFlux}
}

// NewMomentumResidual tracks the relative mismatch of p + rho v^2.
func NewMomentumResidual() Metric {
	return &flux{name: "momentum_residual", of: (*flow.State).MomentumFlux}
}

// NewEnergyResidual tracks the relative mismatch of h + v^2/2.
func NewEnergyResidual() Metric {
	return &flux{name: "energy_residual", of: (*flow.State).TotalEnthalpy}
}

// Residuals is the conservation check of a finished solve.
type Residuals struct {
	Mass     float64 `json:"mass"`
	Momentum float64 `json:"momentum"`
	Energy   float64 `json:"energy"`
}

// Max is the largest of the three residuals.
func (r Residuals) Max() float64 {
	m := r.Mass
	if r.Momentum > m {
		m = r.Momentum
	}
	if r.Energy > m {
		m = r.Energy
	}
	return m
}

// Conservation evaluates the three relative residuals directly.
func Conservation(up, down *flow.State) Residuals {
	return Residuals{
		Mass:     relative(up.MassFlux(), down.MassFlux()),
		Momentum: relative(up.MomentumFlux(), down.MomentumFlux()),
		Energy:   relative(up.TotalEnthalpy(), down.TotalEnthalpy()),
	}
}
