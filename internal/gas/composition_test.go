package gas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComposition(t *testing.T) {
	c, err := ParseComposition("N2:0.79, O2:0.21")
	require.NoError(t, err)
	assert.Equal(t, Composition{"N2": 0.79, "O2": 0.21}, c)
	assert.Equal(t, "N2:0.79,O2:0.21", c.String())

	for _, bad := range []string{"", "N2", "N2:abc", "N2:0.5,N2:0.5"} {
		_, err := ParseComposition(bad)
		assert.ErrorIs(t, err, ErrComposition, "input %q", bad)
	}
}

func TestCompositionValidation(t *testing.T) {
	tests := []struct {
		name string
		c    Composition
	}{
		{"empty", Composition{}},
		{"unknown species", Composition{"XE": 1}},
		{"negative", Composition{"N2": 1.2, "O2": -0.2}},
		{"nan", Composition{"N2": math.NaN()}},
		{"unnormalized", Composition{"N2": 79, "O2": 21}},
		{"all zero", Composition{"N2": 0}},
		{"same species twice", Composition{"N2": 0.5, "n2": 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMixture(tt.c)
			assert.ErrorIs(t, err, ErrComposition)
		})
	}
}

func TestCompositionRenormalized(t *testing.T) {
	m, err := NewMixture(Composition{"n2": 0.78084, "o2": 0.20946, "ar": 0.0093, "co2": 0.00041})
	require.NoError(t, err)
	sum := 0.0
	for _, x := range m.Composition() {
		sum += x
	}
	assert.InDelta(t, 1, sum, 1e-12)
}

func TestDatabase(t *testing.T) {
	db := Default()
	names := db.Names()
	assert.Contains(t, names, "N2")
	assert.Contains(t, names, "O2")
	assert.IsIncreasing(t, names)

	sp, ok := db.Lookup(" ar ")
	require.True(t, ok)
	assert.Equal(t, "AR", sp.Name)

	_, err := ParseDatabase([]byte("species: []"))
	assert.Error(t, err)
	_, err = ParseDatabase([]byte(`
species:
  - name: X
    molar-mass: 10
    temperature-ranges: [1000, 300, 200]
    low: [1, 0, 0, 0, 0, 0, 0]
    high: [1, 0, 0, 0, 0, 0, 0]
`))
	assert.Error(t, err)
}

func TestLoadDatabase(t *testing.T) {
	_, err := LoadDatabase("does-not-exist.yaml")
	assert.Error(t, err)
}
