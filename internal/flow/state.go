package flow

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/shocksim/internal/gas"
)

// ErrNoGas is returned when a station is built without an engine.
var ErrNoGas = errors.New("flow: nil gas engine")

// State is one flow station: a gas state moving at a scalar velocity.
// The speed of sound is always taken from the current gas temperature, so
// velocity and Mach number stay consistent after the gas is re-resolved.
type State struct {
	gas      gas.Engine
	velocity float64
	mach     float64
}

// New resolves g at (t, p) and sets the velocity directly.
func New(g gas.Engine, t, p, velocity float64) (*State, error) {
	s, err := newState(g, t, p)
	if err != nil {
		return nil, err
	}
	s.SetVelocity(velocity)
	return s, nil
}

// NewMach resolves g at (t, p) and sets the velocity from a Mach number.
func NewMach(g gas.Engine, t, p, mach float64) (*State, error) {
	s, err := newState(g, t, p)
	if err != nil {
		return nil, err
	}
	s.SetMach(mach)
	return s, nil
}

func newState(g gas.Engine, t, p float64) (*State, error) {
	if g == nil {
		return nil, ErrNoGas
	}
	if err := g.SetTP(t, p); err != nil {
		return nil, fmt.Errorf("flow station: %w", err)
	}
	return &State{gas: g}, nil
}

// Gas exposes the engine. Resolve it through SetHP rather than directly,
// otherwise the Mach number goes stale.
func (s *State) Gas() gas.Engine { return s.gas }

func (s *State) Velocity() float64 { return s.velocity }
func (s *State) Mach() float64     { return s.mach }

// SetVelocity sets v and recomputes the Mach number from the current speed of sound.
func (s *State) SetVelocity(v float64) {
	s.velocity = v
	s.mach = v / s.SpeedOfSound()
}

// SetMach sets the Mach number and recomputes v from the current speed of sound.
func (s *State) SetMach(m float64) {
	s.mach = m
	s.velocity = m * s.SpeedOfSound()
}

// SetHP re-resolves the gas from (h, p), keeping the velocity and
// re-deriving the Mach number at the new temperature.
func (s *State) SetHP(h, p float64) error {
	if err := s.gas.SetHP(h, p); err != nil {
		return err
	}
	s.SetVelocity(s.velocity)
	return nil
}

// SetTP re-resolves the gas from (t, p), keeping the velocity.
func (s *State) SetTP(t, p float64) error {
	if err := s.gas.SetTP(t, p); err != nil {
		return err
	}
	s.SetVelocity(s.velocity)
	return nil
}

// GasConstant is the specific gas constant cp - cv.
func (s *State) GasConstant() float64 { return s.gas.Cp() - s.gas.Cv() }

// Gamma is the ratio of specific heats cp/cv.
func (s *State) Gamma() float64 { return s.gas.Cp() / s.gas.Cv() }

func (s *State) SpeedOfSound() float64 {
	return math.Sqrt(s.Gamma() * s.GasConstant() * s.gas.Temperature())
}

func (s *State) MassFlux() float64 { return s.gas.Density() * s.velocity }

func (s *State) MomentumFlux() float64 {
	return s.gas.Pressure() + s.gas.Density()*s.velocity*s.velocity
}

func (s *State) TotalEnthalpy() float64 {
	return s.gas.Enthalpy() + 0.5*s.velocity*s.velocity
}
