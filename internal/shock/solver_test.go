package shock_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/san-kum/shocksim/internal/analysis"
	"github.com/san-kum/shocksim/internal/flow"
	"github.com/san-kum/shocksim/internal/gas"
	"github.com/san-kum/shocksim/internal/shock"
)

var airComposition = gas.Composition{"N2": 0.79, "O2": 0.21}

func quiet() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

func upstream(g gas.Engine, mach float64) *flow.State {
	up, err := flow.NewMach(g, 300, gas.OneAtm, mach)
	Expect(err).NotTo(HaveOccurred())
	return up
}

func air() gas.Engine {
	m, err := gas.NewMixture(airComposition)
	Expect(err).NotTo(HaveOccurred())
	return m
}

func solve(up *flow.State, cfg shock.Config, opts ...shock.Option) (*shock.Solver, *shock.Result) {
	s, err := shock.New(up, append([]shock.Option{shock.WithLogger(quiet())}, opts...)...)
	Expect(err).NotTo(HaveOccurred())
	res, err := s.Converge(context.Background(), cfg)
	Expect(err).NotTo(HaveOccurred())
	return s, res
}

// flaky delegates to a real engine and fails every SetHP after the first n.
type flaky struct {
	gas.Engine
	n     int
	calls *int
}

var errFlaky = errors.New("engine gave up")

func (f *flaky) SetHP(h, p float64) error {
	*f.calls++
	if *f.calls > f.n {
		return errFlaky
	}
	return f.Engine.SetHP(h, p)
}

func (f *flaky) Clone() gas.Engine {
	return &flaky{Engine: f.Engine.Clone(), n: f.n, calls: f.calls}
}

var _ = Describe("Solver", func() {
	var cfg shock.Config

	BeforeEach(func() {
		cfg = shock.DefaultConfig()
	})

	Describe("air at Mach 2", func() {
		var (
			up     *flow.State
			before flow.Summary
			s      *shock.Solver
			res    *shock.Result
		)

		BeforeEach(func() {
			up = upstream(air(), 2)
			before = up.Summary()
			s, res = solve(up, cfg)
		})

		It("converges to the tabulated jump", func() {
			Expect(res.Converged).To(BeTrue())
			Expect(res.Iterations).To(BeNumerically("<", 30))
			Expect(res.Epsilon).To(BeNumerically("~", 0.3719, 1e-3))
			Expect(res.Downstream.Temperature).To(BeNumerically("~", 503.8, 1.5))
			Expect(res.Downstream.Pressure).To(BeNumerically("~", 457520, 500))
			Expect(res.Downstream.Mach).To(BeNumerically("~", 0.577, 3e-3))
		})

		It("conserves mass, momentum and energy", func() {
			Expect(res.Residuals.Mass).To(BeNumerically("<", 1e-4))
			Expect(res.Residuals.Momentum).To(BeNumerically("<", 1e-4))
			Expect(res.Residuals.Energy).To(BeNumerically("<", 1e-4))
			Expect(res.Metrics).To(HaveKeyWithValue("mass_residual", BeNumerically("<", 1e-4)))
		})

		It("raises the entropy", func() {
			Expect(res.Downstream.Entropy).To(BeNumerically(">", res.Upstream.Entropy))
			Expect(res.Metrics["entropy_rise"]).To(BeNumerically(">", 0))
		})

		It("leaves the upstream station untouched", func() {
			Expect(up.Summary()).To(Equal(before))
			Expect(res.Upstream).To(Equal(before))
			Expect(s.Downstream().Gas()).NotTo(BeIdenticalTo(up.Gas()))
		})

		It("is idempotent once converged", func() {
			eps := s.Epsilon()
			next, err := s.Iterate()
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(next - eps)).To(BeNumerically("<=", cfg.Tolerance))
		})

		It("records the history from the seed onwards", func() {
			Expect(res.History).To(HaveLen(res.Iterations + 1))
			Expect(res.History[len(res.History)-1]).To(Equal(res.Epsilon))
			Expect(res.Delta).To(BeNumerically("<=", cfg.Tolerance))

			rate, ok := analysis.ConvergenceRate(res.History, 4)
			Expect(ok).To(BeTrue())
			Expect(rate).To(BeNumerically("<", 1))
		})

		It("can be reseeded", func() {
			Expect(s.Reset()).To(Succeed())
			Expect(s.Iterations()).To(BeZero())
			Expect(s.History()).To(HaveLen(1))
			Expect(s.History()[0]).To(BeNumerically("~", res.History[0], 1e-10))
			Expect(math.IsNaN(s.Delta())).To(BeTrue())
		})
	})

	DescribeTable("collapses to no jump at sonic speed",
		func(guess shock.Guess) {
			up := upstream(air(), 1)
			s, res := solve(up, cfg, shock.WithGuess(guess))
			Expect(res.Converged).To(BeTrue())
			Expect(res.Iterations).To(Equal(1))
			Expect(res.History[0]).To(Equal(1.0))
			Expect(math.Abs(res.Epsilon - 1)).To(BeNumerically("<=", cfg.Tolerance))
			Expect(res.Downstream.Temperature).To(BeNumerically("~", res.Upstream.Temperature, cfg.Tolerance*res.Upstream.Temperature))
			Expect(res.Downstream.Pressure).To(BeNumerically("~", res.Upstream.Pressure, cfg.Tolerance*res.Upstream.Pressure))
			Expect(res.Downstream.Velocity).To(BeNumerically("~", res.Upstream.Velocity, cfg.Tolerance*res.Upstream.Velocity))
			Expect(res.Downstream.Mach).To(BeNumerically("~", 1, cfg.Tolerance))
			Expect(res.Residuals.Max()).To(BeNumerically("<=", cfg.Tolerance))

			Expect(s.Reset()).To(Succeed())
			Expect(s.Epsilon()).To(Equal(1.0))
		},
		Entry("kinetic guess", shock.KineticGuess),
		Entry("stagnation guess", shock.StagnationGuess),
	)

	It("collapses to no jump for a sonic perfect gas", func() {
		g, err := gas.NewPerfect(1.4, 28.85)
		Expect(err).NotTo(HaveOccurred())
		_, res := solve(upstream(g, 1), cfg)
		Expect(math.Abs(res.Epsilon - 1)).To(BeNumerically("<=", cfg.Tolerance))
		Expect(res.Downstream.Temperature).To(BeNumerically("~", 300, 300*cfg.Tolerance))
	})

	It("strengthens monotonically with Mach number", func() {
		var prev *shock.Result
		for _, m := range []float64{1.5, 2, 3, 4.5, 6} {
			_, res := solve(upstream(air(), m), cfg)
			Expect(res.Downstream.Mach).To(BeNumerically("<", 1))
			Expect(res.Epsilon).To(BeNumerically(">", 0))
			Expect(res.Residuals.Max()).To(BeNumerically("<", 1e-4))
			Expect(res.Downstream.Pressure).To(BeNumerically(">", res.Upstream.Pressure))
			Expect(res.Downstream.Temperature).To(BeNumerically(">", res.Upstream.Temperature))
			if prev != nil {
				Expect(res.Epsilon).To(BeNumerically("<", prev.Epsilon))
				Expect(res.Downstream.Temperature).To(BeNumerically(">", prev.Downstream.Temperature))
				Expect(res.Downstream.Pressure).To(BeNumerically(">", prev.Downstream.Pressure))
				Expect(res.Downstream.Mach).To(BeNumerically("<", prev.Downstream.Mach))
			}
			prev = res
		}
	})

	It("falls below the perfect-gas density ratio for strong shocks", func() {
		_, res := solve(upstream(air(), 5), cfg)
		ref, dev, err := analysis.CompareToPerfect(res.Upstream, res.Downstream)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Epsilon).To(BeNumerically("<", ref.DensityRatio))
		Expect(dev.TemperatureRatio).To(BeNumerically("<", 0))
	})

	DescribeTable("matches the closed form for constant gamma",
		func(engine func() gas.Engine, gamma, mach float64) {
			cfg.Tolerance = 1e-8
			_, res := solve(upstream(engine(), mach), cfg)
			ref, err := analysis.PerfectNormalShock(gamma, mach)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Epsilon).To(BeNumerically("~", ref.DensityRatio, 1e-5))
			Expect(res.Downstream.Pressure / res.Upstream.Pressure).To(BeNumerically("~", ref.PressureRatio, 1e-3))
			Expect(res.Downstream.Temperature / res.Upstream.Temperature).To(BeNumerically("~", ref.TemperatureRatio, 1e-4))
			Expect(res.Downstream.Mach).To(BeNumerically("~", ref.Mach2, 1e-4))
		},
		Entry("perfect air, Mach 2", func() gas.Engine {
			g, err := gas.NewPerfect(1.4, 28.85)
			Expect(err).NotTo(HaveOccurred())
			return g
		}, 1.4, 2.0),
		Entry("perfect air, Mach 4", func() gas.Engine {
			g, err := gas.NewPerfect(1.4, 28.85)
			Expect(err).NotTo(HaveOccurred())
			return g
		}, 1.4, 4.0),
		Entry("argon mixture, Mach 2", func() gas.Engine {
			m, err := gas.NewMixture(gas.Composition{"AR": 1})
			Expect(err).NotTo(HaveOccurred())
			return m
		}, 5.0/3, 2.0),
	)

	It("agrees between initial guesses", func() {
		_, kinetic := solve(upstream(air(), 3), cfg)
		_, stag := solve(upstream(air(), 3), cfg, shock.WithGuess(shock.StagnationGuess))
		Expect(stag.Epsilon).To(BeNumerically("~", kinetic.Epsilon, 1e-4))
	})

	Describe("failures", func() {
		DescribeTable("rejects an upstream flow that cannot hold a shock",
			func(velocity float64, guess shock.Guess, msg string) {
				up, err := flow.New(air(), 300, gas.OneAtm, velocity)
				Expect(err).NotTo(HaveOccurred())

				s, err := shock.New(up, shock.WithGuess(guess), shock.WithLogger(quiet()))
				Expect(err).To(MatchError(shock.ErrDegenerateFlow))
				Expect(err.Error()).To(ContainSubstring(msg))
				Expect(s).To(BeNil())
			},
			Entry("at rest, kinetic guess", 0.0, shock.KineticGuess, "mass flux"),
			Entry("at rest, stagnation guess", 0.0, shock.StagnationGuess, "mass flux"),
			Entry("reversed, kinetic guess", -400.0, shock.KineticGuess, "mass flux"),
			Entry("infinite, stagnation guess", math.Inf(1), shock.StagnationGuess, "mass flux"),
			Entry("subsonic, kinetic guess", 200.0, shock.KineticGuess, "subsonic"),
			Entry("subsonic, stagnation guess", 200.0, shock.StagnationGuess, "subsonic"),
		)

		It("reports a failing seed as iteration zero", func() {
			calls := 0
			g := &flaky{Engine: air(), n: 0, calls: &calls}
			_, err := shock.New(upstream(g, 2), shock.WithLogger(quiet()))
			Expect(err).To(MatchError(errFlaky))
			var iterErr *shock.IterationError
			Expect(errors.As(err, &iterErr)).To(BeTrue())
			Expect(iterErr.Iteration).To(BeZero())
		})

		It("rejects a nil upstream station", func() {
			_, err := shock.New(nil)
			Expect(err).To(MatchError(shock.ErrDegenerateFlow))
		})

		It("reports non-convergence with the partial result", func() {
			s, err := shock.New(upstream(air(), 2), shock.WithLogger(quiet()))
			Expect(err).NotTo(HaveOccurred())

			res, err := s.Converge(context.Background(), shock.Config{Tolerance: 1e-5, MaxIterations: 1})
			Expect(err).To(MatchError(shock.ErrNonConvergence))
			var convErr *shock.ConvergenceError
			Expect(errors.As(err, &convErr)).To(BeTrue())
			Expect(convErr.Iterations).To(Equal(1))
			Expect(convErr.Delta).To(BeNumerically(">", 1e-5))
			Expect(res).NotTo(BeNil())
			Expect(res.Converged).To(BeFalse())
			Expect(res.Epsilon).To(Equal(convErr.Epsilon))
		})

		DescribeTable("rejects unusable configurations",
			func(c shock.Config) {
				s, err := shock.New(upstream(air(), 2), shock.WithLogger(quiet()))
				Expect(err).NotTo(HaveOccurred())
				res, err := s.Converge(context.Background(), c)
				Expect(err).To(MatchError(shock.ErrConfig))
				Expect(res).To(BeNil())
			},
			Entry("zero tolerance", shock.Config{Tolerance: 0, MaxIterations: 10}),
			Entry("NaN tolerance", shock.Config{Tolerance: math.NaN(), MaxIterations: 10}),
			Entry("no iterations", shock.Config{Tolerance: 1e-5, MaxIterations: 0}),
		)

		It("propagates engine failures with the iteration number", func() {
			calls := 0
			g := &flaky{Engine: air(), n: 3, calls: &calls}
			s, err := shock.New(upstream(g, 2), shock.WithLogger(quiet()))
			Expect(err).NotTo(HaveOccurred())

			res, err := s.Converge(context.Background(), cfg)
			Expect(err).To(MatchError(errFlaky))
			var iterErr *shock.IterationError
			Expect(errors.As(err, &iterErr)).To(BeTrue())
			Expect(iterErr.Iteration).To(Equal(3))
			Expect(iterErr.Epsilon).To(Equal(s.Epsilon()))
			Expect(res.Iterations).To(Equal(2))
			Expect(res.History).To(HaveLen(3))
		})

		It("stops on a cancelled context", func() {
			s, err := shock.New(upstream(air(), 2), shock.WithLogger(quiet()))
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Converge(ctx, cfg)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Iterations).To(BeZero())
		})
	})

	It("logs every iteration and the outcome", func() {
		logger, hook := test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)

		_, res := solve(upstream(air(), 2), cfg, shock.WithLogger(logger))

		iterations := 0
		for _, e := range hook.AllEntries() {
			if e.Message == "shock iteration" {
				iterations++
			}
		}
		Expect(iterations).To(Equal(res.Iterations))
		Expect(hook.LastEntry().Message).To(Equal("shock converged"))
		Expect(hook.LastEntry().Level).To(Equal(logrus.InfoLevel))
	})
})

var _ = Describe("ParseGuess", func() {
	DescribeTable("accepts known names",
		func(in string, want shock.Guess) {
			g, err := shock.ParseGuess(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(g).To(Equal(want))
			Expect(g.String()).NotTo(BeEmpty())
		},
		Entry("default", "", shock.KineticGuess),
		Entry("kinetic", "kinetic", shock.KineticGuess),
		Entry("stagnation", " Stagnation ", shock.StagnationGuess),
	)

	It("rejects anything else", func() {
		_, err := shock.ParseGuess("newton")
		Expect(err).To(MatchError(shock.ErrConfig))
	})
})
