// Package shock solves the jump conditions across a stationary normal shock.
//
// The [Solver] holds an upstream [flow.State] and its own downstream station,
// and runs successive substitution on the density ratio
// epsilon = rho1/rho2:
//
//	p2 = p1 + rho1 v1^2 (1 - epsilon)
//	h2 = h1 + v1^2 (1 - epsilon^2) / 2
//	v2 = v1 epsilon
//
// After each update the downstream gas is resolved from (h2, p2) and epsilon
// is recomputed from the two densities. There is no damping or fallback:
// strong shocks with a poor initial guess may oscillate, which [Solver.Converge]
// reports as [ErrNonConvergence] once [Config.MaxIterations] is reached.
// A sonic upstream starts at the trivial solution epsilon = 1; a resting or
// subsonic one is rejected by [New] with [ErrDegenerateFlow].
//
// # Example
//
//	air, _ := gas.NewMixture(gas.Composition{"N2": 0.79, "O2": 0.21})
//	up, _ := flow.NewMach(air, 300, gas.OneAtm, 2)
//	s, err := shock.New(up)
//	if err != nil {
//	    return err
//	}
//	res, err := s.Converge(ctx, shock.DefaultConfig())
//
// # Thread Safety
//
// A Solver is NOT thread-safe. Independent solvers may run concurrently as
// long as each owns its engines; see package sweep.
package shock
