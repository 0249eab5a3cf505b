// Package analysis provides reference relations and convergence diagnostics
// for normal shock solutions.
//
//   - [PerfectNormalShock]: closed-form jump for a calorically perfect gas
//   - [CompareToPerfect]: deviation of a computed jump from the perfect-gas one
//   - [ConvergenceRate]: asymptotic contraction factor of the iteration
//   - [Aitken]: extrapolated fixed point from the last three iterates
//
// # Real-gas Effects
//
// At low Mach numbers the computed and closed-form jumps agree closely.
// As the post-shock temperature rises, cp grows and the real-gas density
// ratio drops below the perfect-gas value:
//
//	ref, dev, err := analysis.CompareToPerfect(res.Upstream, res.Downstream)
//	if dev.DensityRatio > 0.05 {
//	    // vibrational excitation matters at this Mach number
//	}
package analysis
