package gas

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	maxNewtonIter = 100
	newtonTol     = 1e-12
)

// Mixture is a thermally perfect ideal-gas mixture of fixed composition.
// Species properties follow NASA 7-coefficient polynomials, so cp varies
// with temperature and the gas is calorically imperfect.
type Mixture struct {
	species    []*Species
	x          []float64 // mole fractions
	molarMass  float64   // kg/kmol
	tMin, tMax float64

	t, p       float64
	h, cp, sRT float64 // cached at t; sRT holds s/R of the mixture at (t, p)

	buf []float64
}

// NewMixture builds a mixture from the database at 300 K and one atmosphere.
func (db *Database) NewMixture(c Composition) (*Mixture, error) {
	species, x, err := db.resolve(c)
	if err != nil {
		return nil, err
	}
	m := &Mixture{
		species: species,
		x:       x,
		tMin:    0,
		tMax:    math.Inf(1),
		buf:     make([]float64, len(species)),
	}
	weights := make([]float64, len(species))
	for i, sp := range species {
		weights[i] = sp.MolarMass
		m.tMin = math.Max(m.tMin, sp.Ranges[0])
		m.tMax = math.Min(m.tMax, sp.Ranges[2])
	}
	m.molarMass = floats.Dot(x, weights)
	if err := m.SetTP(300, OneAtm); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMixture builds a mixture from the built-in database.
func NewMixture(c Composition) (*Mixture, error) {
	return Default().NewMixture(c)
}

// SetTP resolves the state from temperature and pressure.
func (m *Mixture) SetTP(t, p float64) error {
	if err := m.checkPressure("TP", t, p); err != nil {
		return err
	}
	if math.IsNaN(t) || t < m.tMin || t > m.tMax {
		return stateErr("TP", t, p, "temperature outside thermo data range")
	}
	m.update(t, p)
	return nil
}

// SetHP resolves the state from specific enthalpy and pressure by inverting
// h(T) with a bracketed Newton iteration.
func (m *Mixture) SetHP(h, p float64) error {
	if err := m.checkPressure("HP", h, p); err != nil {
		return err
	}
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return stateErr("HP", h, p, "enthalpy is not finite")
	}
	lo, hi := m.tMin, m.tMax
	if h < m.enthalpyAt(lo) || h > m.enthalpyAt(hi) {
		return stateErr("HP", h, p, "enthalpy outside thermo data range")
	}

	t := m.t
	if t <= lo || t >= hi {
		t = 0.5 * (lo + hi)
	}
	for i := 0; i < maxNewtonIter; i++ {
		f := m.enthalpyAt(t) - h
		if f == 0 {
			m.update(t, p)
			return nil
		}
		if f > 0 {
			hi = t
		} else {
			lo = t
		}
		next := t - f/m.cpAt(t)
		if next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-t) <= newtonTol*t {
			m.update(next, p)
			return nil
		}
		t = next
	}
	return stateErr("HP", h, p, "temperature inversion did not converge")
}

func (m *Mixture) checkPressure(mode string, a, p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return stateErr(mode, a, p, "pressure must be positive and finite")
	}
	return nil
}

func (m *Mixture) gasConstant() float64 { return GasConstant / m.molarMass }

func (m *Mixture) enthalpyAt(t float64) float64 {
	for i, sp := range m.species {
		m.buf[i] = sp.HRT(t)
	}
	return m.gasConstant() * t * floats.Dot(m.x, m.buf)
}

func (m *Mixture) cpAt(t float64) float64 {
	for i, sp := range m.species {
		m.buf[i] = sp.CpR(t)
	}
	return m.gasConstant() * floats.Dot(m.x, m.buf)
}

func (m *Mixture) update(t, p float64) {
	m.t, m.p = t, p
	m.h = m.enthalpyAt(t)
	m.cp = m.cpAt(t)
	s := 0.0
	for i, sp := range m.species {
		s += m.x[i] * (sp.SR(t) - math.Log(m.x[i]))
	}
	m.sRT = s - math.Log(p/OneAtm)
}

func (m *Mixture) Temperature() float64 { return m.t }
func (m *Mixture) Pressure() float64    { return m.p }
func (m *Mixture) Density() float64     { return m.p / (m.gasConstant() * m.t) }
func (m *Mixture) Enthalpy() float64    { return m.h }
func (m *Mixture) Entropy() float64     { return m.gasConstant() * m.sRT }
func (m *Mixture) Cp() float64          { return m.cp }
func (m *Mixture) Cv() float64          { return m.cp - m.gasConstant() }
func (m *Mixture) MolarMass() float64   { return m.molarMass }

// TemperatureRange is the interval over which every species has data.
func (m *Mixture) TemperatureRange() (float64, float64) { return m.tMin, m.tMax }

// Composition returns the normalized mole fractions.
func (m *Mixture) Composition() Composition {
	c := make(Composition, len(m.species))
	for i, sp := range m.species {
		c[sp.Name] = m.x[i]
	}
	return c
}

// Clone returns an independent handle in the same state.
func (m *Mixture) Clone() Engine {
	c := *m
	c.x = append([]float64(nil), m.x...)
	c.species = append([]*Species(nil), m.species...)
	c.buf = make([]float64, len(m.buf))
	return &c
}
