package flow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/shocksim/internal/gas"
)

func air(t *testing.T) *gas.Mixture {
	t.Helper()
	m, err := gas.NewMixture(gas.Composition{"N2": 0.79, "O2": 0.21})
	require.NoError(t, err)
	return m
}

func soundSpeed(g gas.Engine) float64 {
	r := g.Cp() - g.Cv()
	return math.Sqrt(g.Cp() / g.Cv() * r * g.Temperature())
}

func TestNewMach(t *testing.T) {
	s, err := NewMach(air(t), 300, gas.OneAtm, 2)
	require.NoError(t, err)

	a := soundSpeed(s.Gas())
	assert.InDelta(t, 347, a, 2)
	assert.Equal(t, 2.0, s.Mach())
	assert.InDelta(t, 2*a, s.Velocity(), 1e-9)
	assert.InDelta(t, a, s.SpeedOfSound(), 1e-12)
	assert.InDelta(t, s.Gas().Cp()/s.Gas().Cv(), s.Gamma(), 1e-15)
	assert.InDelta(t, gas.GasConstant/s.Gas().MolarMass(), s.GasConstant(), 1e-9)
}

func TestNewVelocity(t *testing.T) {
	s, err := New(air(t), 500, 2e5, 300)
	require.NoError(t, err)
	assert.Equal(t, 300.0, s.Velocity())
	assert.InDelta(t, 300/soundSpeed(s.Gas()), s.Mach(), 1e-12)
}

func TestNewPropagatesEngineError(t *testing.T) {
	_, err := NewMach(air(t), 300, -1, 2)
	assert.ErrorIs(t, err, gas.ErrStateResolution)

	_, err = New(nil, 300, gas.OneAtm, 0)
	assert.ErrorIs(t, err, ErrNoGas)
}

func TestMachTracksCurrentTemperature(t *testing.T) {
	s, err := NewMach(air(t), 300, gas.OneAtm, 2)
	require.NoError(t, err)
	v := s.Velocity()

	// heat the gas through the station: velocity is kept, Mach follows a(T)
	require.NoError(t, s.SetHP(5e5, 4e5))
	assert.Greater(t, s.Gas().Temperature(), 700.0)
	assert.Equal(t, v, s.Velocity())
	assert.InDelta(t, v/soundSpeed(s.Gas()), s.Mach(), 1e-12)
	assert.Less(t, s.Mach(), 2.0)

	for _, m := range []float64{0.3, 1, 2.5} {
		s.SetMach(m)
		assert.InDelta(t, m, s.Velocity()/soundSpeed(s.Gas()), 1e-12)
	}
	for _, v := range []float64{0, 120, 900} {
		s.SetVelocity(v)
		assert.InDelta(t, v/soundSpeed(s.Gas()), s.Mach(), 1e-12)
	}
}

func TestSetHPFailureKeepsState(t *testing.T) {
	s, err := NewMach(air(t), 300, gas.OneAtm, 2)
	require.NoError(t, err)
	before := s.Summary()

	assert.ErrorIs(t, s.SetHP(1e5, 0), gas.ErrStateResolution)
	assert.Equal(t, before, s.Summary())
}

func TestSetTPKeepsVelocity(t *testing.T) {
	s, err := New(air(t), 300, gas.OneAtm, 400)
	require.NoError(t, err)

	require.NoError(t, s.SetTP(1200, 3e5))
	assert.Equal(t, 1200.0, s.Gas().Temperature())
	assert.Equal(t, 3e5, s.Gas().Pressure())
	assert.Equal(t, 400.0, s.Velocity())
	assert.InDelta(t, 400/soundSpeed(s.Gas()), s.Mach(), 1e-12)

	before := s.Summary()
	assert.ErrorIs(t, s.SetTP(1e6, gas.OneAtm), gas.ErrStateResolution)
	assert.Equal(t, before, s.Summary())
}

func TestFluxes(t *testing.T) {
	s, err := New(air(t), 300, gas.OneAtm, 400)
	require.NoError(t, err)
	g := s.Gas()
	rho := g.Density()

	assert.InDelta(t, rho*400, s.MassFlux(), 1e-9)
	assert.InDelta(t, gas.OneAtm+rho*400*400, s.MomentumFlux(), 1e-6)
	assert.InDelta(t, g.Enthalpy()+80000, s.TotalEnthalpy(), 1e-6)

	s.SetVelocity(0)
	assert.Equal(t, 0.0, s.MassFlux())
	assert.Equal(t, gas.OneAtm, s.MomentumFlux())
	assert.Equal(t, g.Enthalpy(), s.TotalEnthalpy())
}

func TestSummary(t *testing.T) {
	s, err := NewMach(air(t), 300, gas.OneAtm, 2)
	require.NoError(t, err)
	sum := s.Summary()
	assert.Equal(t, 300.0, sum.Temperature)
	assert.Equal(t, gas.OneAtm, sum.Pressure)
	assert.Equal(t, 2.0, sum.Mach)
	assert.Equal(t, s.Velocity(), sum.Velocity)
	assert.Equal(t, s.MassFlux(), sum.MassFlux)
	assert.Equal(t, s.SpeedOfSound(), sum.SoundSpeed)
}
