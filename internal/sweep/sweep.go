// Package sweep solves independent normal shocks over a range of upstream
// Mach numbers in parallel.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/shocksim/internal/flow"
	"github.com/san-kum/shocksim/internal/gas"
	"github.com/san-kum/shocksim/internal/shock"
)

// EngineFactory builds a fresh engine for one point. Engines are never
// shared between points.
type EngineFactory func() (gas.Engine, error)

// MixtureFactory returns a factory for db.NewMixture(c).
func MixtureFactory(db *gas.Database, c gas.Composition) EngineFactory {
	if db == nil {
		db = gas.Default()
	}
	return func() (gas.Engine, error) {
		return db.NewMixture(c)
	}
}

// Case is the upstream condition shared by every point.
type Case struct {
	Engine      EngineFactory
	Temperature float64
	Pressure    float64
	Guess       shock.Guess
	Solver      shock.Config
}

// Point is one solved (or failed) Mach number. Result is nil only when the
// point could not be seeded.
type Point struct {
	Mach1  float64
	Result *shock.Result
	Err    error
}

type Sweep struct {
	base    Case
	workers int
	log     logrus.FieldLogger
}

// New creates a sweep. workers <= 0 uses GOMAXPROCS.
func New(c Case, workers int, log logrus.FieldLogger) *Sweep {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sweep{base: c, workers: workers, log: log}
}

// MachGrid returns n evenly spaced Mach numbers from lo to hi inclusive.
func MachGrid(lo, hi float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("sweep: need at least one point, got %d", n)
	}
	if !(lo >= 1) || hi < lo {
		return nil, fmt.Errorf("sweep: invalid Mach range [%g, %g]", lo, hi)
	}
	if n == 1 || lo == hi {
		return []float64{lo}, nil
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// Run solves every Mach number and returns the points in input order.
// Per-point failures are recorded in Point.Err; the returned error is
// non-nil only when ctx ends the sweep early.
func (s *Sweep) Run(ctx context.Context, machs []float64) ([]Point, error) {
	points := make([]Point, len(machs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				points[idx] = s.solve(ctx, machs[idx])
			}
		}()
	}

feed:
	for i := range machs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range points {
			if points[i].Result == nil && points[i].Err == nil {
				points[i] = Point{Mach1: machs[i], Err: err}
			}
		}
		return points, err
	}
	return points, nil
}

func (s *Sweep) solve(ctx context.Context, mach float64) Point {
	p := Point{Mach1: mach}
	log := s.log.WithField("mach1", mach)

	g, err := s.base.Engine()
	if err != nil {
		p.Err = err
		log.WithError(err).Warn("sweep point failed")
		return p
	}
	up, err := flow.NewMach(g, s.base.Temperature, s.base.Pressure, mach)
	if err != nil {
		p.Err = err
		log.WithError(err).Warn("sweep point failed")
		return p
	}
	solver, err := shock.New(up, shock.WithGuess(s.base.Guess), shock.WithLogger(log))
	if err != nil {
		p.Err = err
		log.WithError(err).Warn("sweep point failed")
		return p
	}
	p.Result, p.Err = solver.Converge(ctx, s.base.Solver)
	if p.Err != nil {
		log.WithError(p.Err).Warn("sweep point failed")
	}
	return p
}
