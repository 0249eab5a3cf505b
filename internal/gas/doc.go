// Package gas provides equation-of-state engines for shock calculations.
//
// Two engines implement [Engine]:
//
//   - [Mixture]: thermally perfect ideal-gas mixture on NASA 7-coefficient
//     polynomials, built from a [Database] and a [Composition]
//   - [Perfect]: calorically perfect gas with constant specific heats
//
// A state is fixed either from (T, P) with SetTP or from (H, P) with SetHP.
// Density, temperature and enthalpy are outputs and cannot be set directly.
//
// # Example
//
//	comp, _ := gas.ParseComposition("N2:0.79,O2:0.21")
//	air, err := gas.NewMixture(comp)
//	if err != nil {
//	    return err
//	}
//	_ = air.SetHP(5e5, 4.5e5)
//
// Engines hold scratch buffers and are not safe for concurrent use.
package gas
