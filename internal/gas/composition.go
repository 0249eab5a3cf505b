package gas

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// CompositionTolerance is how far mole fractions may sum away from one
// before a composition is rejected. Sums within it are renormalized.
const CompositionTolerance = 1e-4

// Composition maps species names to mole fractions.
type Composition map[string]float64

// ParseComposition reads the "N2:0.79, O2:0.21" form.
func ParseComposition(s string) (Composition, error) {
	c := make(Composition)
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, val, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not name:fraction", ErrComposition, field)
		}
		name = strings.TrimSpace(name)
		x, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: fraction of %s: %v", ErrComposition, name, err)
		}
		if _, dup := c[name]; dup {
			return nil, fmt.Errorf("%w: %s listed twice", ErrComposition, name)
		}
		c[name] = x
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: empty composition", ErrComposition)
	}
	return c, nil
}

// String renders the composition with species sorted by name.
func (c Composition) String() string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + ":" + strconv.FormatFloat(c[k], 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// resolve maps the composition onto database species and returns normalized
// mole fractions in the same order.
func (db *Database) resolve(c Composition) ([]*Species, []float64, error) {
	if len(c) == 0 {
		return nil, nil, fmt.Errorf("%w: empty composition", ErrComposition)
	}
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)

	species := make([]*Species, 0, len(c))
	x := make([]float64, 0, len(c))
	seen := make(map[*Species]bool, len(c))
	for _, name := range names {
		v := c[name]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, nil, fmt.Errorf("%w: fraction of %s is %g", ErrComposition, name, v)
		}
		sp, ok := db.Lookup(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown species %q", ErrComposition, name)
		}
		if seen[sp] {
			return nil, nil, fmt.Errorf("%w: %s listed twice", ErrComposition, sp.Name)
		}
		seen[sp] = true
		if v == 0 {
			continue
		}
		species = append(species, sp)
		x = append(x, v)
	}
	sum := floats.Sum(x)
	if len(x) == 0 || math.Abs(sum-1) > CompositionTolerance {
		return nil, nil, fmt.Errorf("%w: mole fractions sum to %g", ErrComposition, sum)
	}
	floats.Scale(1/sum, x)
	return species, x, nil
}
