package shock

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/shocksim/internal/flow"
	"github.com/san-kum/shocksim/internal/metrics"
)

// Guess selects how the downstream state is seeded before the first iteration.
type Guess int

const (
	// KineticGuess seeds with p = rho1 v1^2 and h = v1^2/2, the strong-shock
	// limit that ignores the upstream pressure and enthalpy.
	KineticGuess Guess = iota
	// StagnationGuess adds the upstream pressure and enthalpy to the kinetic
	// seed. Use it when the mixture has a large formation enthalpy.
	StagnationGuess
)

func (g Guess) String() string {
	switch g {
	case KineticGuess:
		return "kinetic"
	case StagnationGuess:
		return "stagnation"
	}
	return fmt.Sprintf("guess(%d)", int(g))
}

// ParseGuess maps "kinetic" or "stagnation" to a Guess. Empty means kinetic.
func ParseGuess(s string) (Guess, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kinetic":
		return KineticGuess, nil
	case "stagnation":
		return StagnationGuess, nil
	}
	return 0, fmt.Errorf("%w: unknown initial guess %q", ErrConfig, s)
}

// sonicBand is how close to one the upstream Mach number must be for the
// shock to collapse to the trivial solution.
const sonicBand = 1e-9

// Config bounds Converge.
type Config struct {
	Tolerance     float64
	MaxIterations int
}

func DefaultConfig() Config {
	return Config{Tolerance: 1e-5, MaxIterations: 500}
}

func (c Config) validate() error {
	if !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 0) {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrConfig, c.Tolerance)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrConfig, c.MaxIterations)
	}
	return nil
}

// Result is the outcome of Converge. It is filled in even when Converge
// returns an error, describing the last accepted iterate.
type Result struct {
	Converged  bool
	Epsilon    float64
	Iterations int
	Delta      float64
	History    []float64
	Upstream   flow.Summary
	Downstream flow.Summary
	Residuals  metrics.Residuals
	Metrics    map[string]float64
}

type Option func(*Solver)

func WithGuess(g Guess) Option {
	return func(s *Solver) { s.guess = g }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Solver) { s.log = l }
}

// WithMetrics replaces the default metric set.
func WithMetrics(ms ...metrics.Metric) Option {
	return func(s *Solver) { s.metrics = ms }
}

// Solver iterates the normal shock jump conditions. It reads the upstream
// station and never modifies it; the downstream station is built on a
// clone of the upstream engine and belongs to the solver.
type Solver struct {
	upstream   *flow.State
	downstream *flow.State
	epsilon    float64
	delta      float64
	iterations int
	history    []float64
	guess      Guess
	metrics    []metrics.Metric
	log        logrus.FieldLogger
}

// New seeds the downstream state from the configured guess and computes the
// initial density ratio. The upstream flow must carry a positive, finite
// mass flux and be at least sonic; otherwise ErrDegenerateFlow is returned.
// A sonic upstream is seeded with the trivial solution epsilon = 1. A
// failing seed is returned as an *IterationError with Iteration 0.
func New(upstream *flow.State, opts ...Option) (*Solver, error) {
	if upstream == nil {
		return nil, fmt.Errorf("%w: nil upstream station", ErrDegenerateFlow)
	}
	if mf := upstream.MassFlux(); !(mf > 0) || math.IsInf(mf, 0) {
		return nil, fmt.Errorf("%w: upstream mass flux %g (velocity %g m/s) must be positive and finite",
			ErrDegenerateFlow, mf, upstream.Velocity())
	}
	if m := upstream.Mach(); m < 1-sonicBand {
		return nil, fmt.Errorf("%w: subsonic upstream (M1=%.6g) cannot hold a normal shock", ErrDegenerateFlow, m)
	}
	s := &Solver{
		upstream: upstream,
		metrics:  metrics.Default(),
		log:      logrus.StandardLogger(),
		delta:    math.NaN(),
	}
	for _, opt := range opts {
		opt(s)
	}

	g := upstream.Gas()
	down, err := flow.New(g.Clone(), g.Temperature(), g.Pressure(), upstream.Velocity())
	if err != nil {
		return nil, &IterationError{Iteration: 0, Epsilon: math.NaN(), Wrapped: err}
	}
	s.downstream = down

	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Solver) seed() error {
	g1 := s.upstream.Gas()
	v1 := s.upstream.Velocity()
	rho1 := g1.Density()

	var err error
	p0 := rho1 * v1 * v1
	h0 := 0.5 * v1 * v1
	switch {
	case s.sonic():
		p0 = g1.Pressure()
		err = s.downstream.SetTP(g1.Temperature(), p0)
	case s.guess == StagnationGuess:
		p0 += g1.Pressure()
		h0 += g1.Enthalpy()
		err = s.downstream.SetHP(h0, p0)
	default:
		err = s.downstream.SetHP(h0, p0)
	}
	if err != nil {
		return &IterationError{Iteration: 0, Epsilon: math.NaN(), Wrapped: err}
	}
	eps, err := s.ratio()
	if err != nil {
		return &IterationError{Iteration: 0, Epsilon: eps, Wrapped: err}
	}
	s.downstream.SetVelocity(v1 * eps)
	s.epsilon = eps
	s.history = append(s.history[:0], eps)

	s.log.WithFields(logrus.Fields{
		"guess":   s.guess.String(),
		"epsilon": eps,
		"T2":      s.downstream.Gas().Temperature(),
		"p2":      p0,
	}).Debug("shock seeded")
	return nil
}

// sonic reports an upstream Mach number of one, where the only jump is no jump.
func (s *Solver) sonic() bool {
	return math.Abs(s.upstream.Mach()-1) <= sonicBand
}

func (s *Solver) ratio() (float64, error) {
	eps := s.upstream.Gas().Density() / s.downstream.Gas().Density()
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps <= 0 {
		return eps, fmt.Errorf("%w: epsilon=%g", ErrDegenerateFlow, eps)
	}
	return eps, nil
}

// Iterate performs one substitution step and returns the new density ratio.
// On error the previous ratio is returned and the solver keeps its
// previous epsilon.
func (s *Solver) Iterate() (float64, error) {
	g1 := s.upstream.Gas()
	rho1 := g1.Density()
	v1 := s.upstream.Velocity()
	eps := s.epsilon

	p2 := g1.Pressure() + rho1*v1*v1*(1-eps)
	h2 := g1.Enthalpy() + 0.5*v1*v1*(1-eps*eps)
	v2 := v1 * eps

	n := s.iterations + 1
	if err := s.downstream.SetHP(h2, p2); err != nil {
		return eps, &IterationError{Iteration: n, Epsilon: eps, Wrapped: err}
	}
	s.downstream.SetVelocity(v2)

	next, err := s.ratio()
	if err != nil {
		return eps, &IterationError{Iteration: n, Epsilon: eps, Wrapped: err}
	}

	s.delta = math.Abs(next - eps)
	s.epsilon = next
	s.iterations = n
	s.history = append(s.history, next)

	for _, m := range s.metrics {
		m.Observe(s.upstream, s.downstream)
	}

	s.log.WithFields(logrus.Fields{
		"iter":    n,
		"epsilon": next,
		"delta":   s.delta,
		"T2":      s.downstream.Gas().Temperature(),
		"p2":      p2,
	}).Debug("shock iteration")
	return next, nil
}

// Converge iterates until |epsilon_new - epsilon_old| <= cfg.Tolerance.
// MaxIterations counts the iterations of this call. On failure the partial
// result is returned alongside the error.
func (s *Solver) Converge(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	for i := 0; i < cfg.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return s.result(false), ctx.Err()
		default:
		}

		if _, err := s.Iterate(); err != nil {
			s.log.WithError(err).Warn("shock iteration failed")
			return s.result(false), err
		}
		if s.delta <= cfg.Tolerance {
			s.log.WithFields(logrus.Fields{
				"iterations": s.iterations,
				"epsilon":    s.epsilon,
			}).Info("shock converged")
			return s.result(true), nil
		}
	}

	err := &ConvergenceError{
		Iterations: s.iterations,
		Epsilon:    s.epsilon,
		Delta:      s.delta,
		Tolerance:  cfg.Tolerance,
	}
	s.log.WithError(err).Warn("shock did not converge")
	return s.result(false), err
}

// Reset reseeds the downstream state and clears history and metrics.
func (s *Solver) Reset() error {
	s.iterations = 0
	s.delta = math.NaN()
	for _, m := range s.metrics {
		m.Reset()
	}
	return s.seed()
}

func (s *Solver) result(converged bool) *Result {
	r := &Result{
		Converged:  converged,
		Epsilon:    s.epsilon,
		Iterations: s.iterations,
		Delta:      s.delta,
		History:    s.History(),
		Upstream:   s.upstream.Summary(),
		Downstream: s.downstream.Summary(),
		Residuals:  metrics.Conservation(s.upstream, s.downstream),
		Metrics:    make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	return r
}

func (s *Solver) Epsilon() float64 { return s.epsilon }

// Delta is |epsilon_new - epsilon_old| of the last iteration, NaN before the first.
func (s *Solver) Delta() float64 { return s.delta }

func (s *Solver) Iterations() int { return s.iterations }

func (s *Solver) Guess() Guess { return s.guess }

func (s *Solver) Upstream() *flow.State { return s.upstream }

func (s *Solver) Downstream() *flow.State { return s.downstream }

// History returns a copy of epsilon per iteration, starting with the seed.
func (s *Solver) History() []float64 {
	h := make([]float64, len(s.history))
	copy(h, s.history)
	return h
}

// Metrics returns the current value of every attached metric.
func (s *Solver) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
