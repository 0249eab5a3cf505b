package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/shocksim/internal/flow"
)

// ErrSubsonic is returned for upstream Mach numbers below one, where no
// compression shock exists.
var ErrSubsonic = errors.New("analysis: upstream flow is subsonic")

// PerfectJump holds the Rankine-Hugoniot ratios for constant gamma.
type PerfectJump struct {
	Gamma            float64 `json:"gamma"`
	Mach1            float64 `json:"mach1"`
	DensityRatio     float64 `json:"density_ratio"` // rho1/rho2
	PressureRatio    float64 `json:"pressure_ratio"`
	TemperatureRatio float64 `json:"temperature_ratio"`
	Mach2            float64 `json:"mach2"`
}

// PerfectNormalShock evaluates the closed-form relations:
//
//	rho1/rho2 = ((g-1) M^2 + 2) / ((g+1) M^2)
//	p2/p1     = 1 + 2g (M^2 - 1) / (g+1)
//	M2^2      = ((g-1) M^2 + 2) / (2g M^2 - (g-1))
func PerfectNormalShock(gamma, mach1 float64) (PerfectJump, error) {
	if !(gamma > 1) || math.IsInf(gamma, 0) {
		return PerfectJump{}, fmt.Errorf("analysis: gamma must exceed 1, got %g", gamma)
	}
	if !(mach1 >= 1) || math.IsInf(mach1, 0) {
		return PerfectJump{}, fmt.Errorf("%w: M1=%g", ErrSubsonic, mach1)
	}
	m2 := mach1 * mach1
	eps := ((gamma-1)*m2 + 2) / ((gamma + 1) * m2)
	pr := 1 + 2*gamma*(m2-1)/(gamma+1)
	return PerfectJump{
		Gamma:            gamma,
		Mach1:            mach1,
		DensityRatio:     eps,
		PressureRatio:    pr,
		TemperatureRatio: pr * eps,
		Mach2:            math.Sqrt(((gamma-1)*m2 + 2) / (2*gamma*m2 - (gamma - 1))),
	}, nil
}

// Deviation is the relative difference (computed - perfect) / perfect per ratio.
type Deviation struct {
	DensityRatio     float64 `json:"density_ratio"`
	PressureRatio    float64 `json:"pressure_ratio"`
	TemperatureRatio float64 `json:"temperature_ratio"`
	Mach2            float64 `json:"mach2"`
}

// CompareToPerfect builds the perfect-gas jump from the upstream gamma and
// Mach number and reports how far the computed downstream state departs from it.
func CompareToPerfect(up, down flow.Summary) (PerfectJump, Deviation, error) {
	ref, err := PerfectNormalShock(up.Gamma, up.Mach)
	if err != nil {
		return PerfectJump{}, Deviation{}, err
	}
	dev := Deviation{
		DensityRatio:     rel(up.Density/down.Density, ref.DensityRatio),
		PressureRatio:    rel(down.Pressure/up.Pressure, ref.PressureRatio),
		TemperatureRatio: rel(down.Temperature/up.Temperature, ref.TemperatureRatio),
		Mach2:            rel(down.Mach, ref.Mach2),
	}
	return ref, dev, nil
}

func rel(got, want float64) float64 {
	return (got - want) / want
}
