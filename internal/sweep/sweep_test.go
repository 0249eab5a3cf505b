package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/shocksim/internal/gas"
	"github.com/san-kum/shocksim/internal/shock"
)

func airCase() Case {
	return Case{
		Engine:      MixtureFactory(nil, gas.Composition{"N2": 0.79, "O2": 0.21}),
		Temperature: 300,
		Pressure:    gas.OneAtm,
		Solver:      shock.DefaultConfig(),
	}
}

func quiet() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

func TestMachGrid(t *testing.T) {
	g, err := MachGrid(1, 3, 5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.5, 2, 2.5, 3}, g, 1e-12)

	g, err = MachGrid(2, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, g)

	_, err = MachGrid(0.5, 2, 3)
	assert.Error(t, err)
	_, err = MachGrid(3, 2, 3)
	assert.Error(t, err)
	_, err = MachGrid(1, 2, 0)
	assert.Error(t, err)
}

func TestRunKeepsOrderAndMatchesSerial(t *testing.T) {
	machs, err := MachGrid(1.2, 4, 8)
	require.NoError(t, err)

	parallel, err := New(airCase(), 4, quiet()).Run(context.Background(), machs)
	require.NoError(t, err)
	serial, err := New(airCase(), 1, quiet()).Run(context.Background(), machs)
	require.NoError(t, err)

	require.Len(t, parallel, len(machs))
	for i, p := range parallel {
		require.NoError(t, p.Err)
		assert.Equal(t, machs[i], p.Mach1)
		assert.True(t, p.Result.Converged)
		assert.InDelta(t, machs[i], p.Result.Upstream.Mach, 1e-12)
		assert.Equal(t, serial[i].Result.Epsilon, p.Result.Epsilon)
		if i > 0 {
			assert.Less(t, p.Result.Epsilon, parallel[i-1].Result.Epsilon)
		}
	}
}

func TestRunRecordsPointFailures(t *testing.T) {
	c := airCase()
	c.Solver.MaxIterations = 2

	points, err := New(c, 2, quiet()).Run(context.Background(), []float64{2, 3})
	require.NoError(t, err)
	for _, p := range points {
		assert.ErrorIs(t, p.Err, shock.ErrNonConvergence)
		require.NotNil(t, p.Result)
		assert.False(t, p.Result.Converged)
	}

	boom := errors.New("no engine")
	c.Engine = func() (gas.Engine, error) { return nil, boom }
	logger, hook := test.NewNullLogger()
	points, err = New(c, 0, logger).Run(context.Background(), []float64{2})
	require.NoError(t, err)
	assert.ErrorIs(t, points[0].Err, boom)
	assert.Nil(t, points[0].Result)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 2.0, hook.LastEntry().Data["mach1"])
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	points, err := New(airCase(), 2, quiet()).Run(ctx, []float64{2, 3, 4})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, points, 3)
	for i, p := range points {
		assert.Equal(t, []float64{2, 3, 4}[i], p.Mach1)
		assert.Error(t, p.Err)
	}
}
