package gas

import (
	"fmt"
	"math"
)

// Perfect is a calorically perfect ideal gas: constant cp and cv, with
// enthalpy measured from 0 K. It is the reference the closed-form shock
// relations are written for.
type Perfect struct {
	gamma, molarMass float64
	t, p             float64
}

// NewPerfect returns a perfect gas at 300 K and one atmosphere.
func NewPerfect(gamma, molarMass float64) (*Perfect, error) {
	if !(gamma > 1) || !(molarMass > 0) {
		return nil, fmt.Errorf("%w: perfect gas needs gamma > 1 and positive molar mass", ErrComposition)
	}
	return &Perfect{gamma: gamma, molarMass: molarMass, t: 300, p: OneAtm}, nil
}

func (g *Perfect) r() float64 { return GasConstant / g.molarMass }

func (g *Perfect) SetTP(t, p float64) error {
	if !(p > 0) || math.IsInf(p, 0) {
		return stateErr("TP", t, p, "pressure must be positive and finite")
	}
	if !(t > 0) || math.IsInf(t, 0) {
		return stateErr("TP", t, p, "temperature must be positive and finite")
	}
	g.t, g.p = t, p
	return nil
}

func (g *Perfect) SetHP(h, p float64) error {
	if !(p > 0) || math.IsInf(p, 0) {
		return stateErr("HP", h, p, "pressure must be positive and finite")
	}
	if !(h > 0) || math.IsInf(h, 0) {
		return stateErr("HP", h, p, "enthalpy must be positive and finite")
	}
	g.t, g.p = h/g.Cp(), p
	return nil
}

func (g *Perfect) Gamma() float64       { return g.gamma }
func (g *Perfect) Temperature() float64 { return g.t }
func (g *Perfect) Pressure() float64    { return g.p }
func (g *Perfect) Density() float64     { return g.p / (g.r() * g.t) }
func (g *Perfect) Enthalpy() float64    { return g.Cp() * g.t }
func (g *Perfect) Cp() float64          { return g.gamma * g.r() / (g.gamma - 1) }
func (g *Perfect) Cv() float64          { return g.r() / (g.gamma - 1) }
func (g *Perfect) MolarMass() float64   { return g.molarMass }

// Entropy is measured from 298.15 K and one atmosphere.
func (g *Perfect) Entropy() float64 {
	return g.Cp()*math.Log(g.t/298.15) - g.r()*math.Log(g.p/OneAtm)
}

func (g *Perfect) Clone() Engine {
	c := *g
	return &c
}
