package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/shocksim/internal/analysis"
	"github.com/san-kum/shocksim/internal/config"
	"github.com/san-kum/shocksim/internal/shock"
	"github.com/san-kum/shocksim/internal/sweep"
	"github.com/san-kum/shocksim/internal/viz"
)

func withTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.Solver.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Solver.Timeout)
	}
	return context.WithCancel(ctx)
}

func newSolver(cfg *config.Config) (*shock.Solver, error) {
	up, err := buildUpstream(cfg)
	if err != nil {
		return nil, err
	}
	g, err := cfg.Guess()
	if err != nil {
		return nil, err
	}
	return shock.New(up,
		shock.WithGuess(g),
		shock.WithLogger(logrus.WithField("case", caseName(cfg))),
	)
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveCase(cmd)
	if err != nil {
		return err
	}
	s, err := newSolver(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(cmd.Context(), cfg)
	defer cancel()

	start := time.Now()
	res, runErr := s.Converge(ctx, cfg.ShockConfig())
	if res == nil {
		return runErr
	}
	elapsed := time.Since(start)

	fmt.Printf("case: %s  (%s, %s guess)\n\n", caseName(cfg), cfg.GasComposition(), s.Guess())
	fmt.Println(viz.RenderResult(res))

	if chart := viz.HistoryPlot(res.History, 60, 8); chart != "" {
		fmt.Println()
		fmt.Println(chart)
	}
	if x, ok := analysis.Aitken(res.History); ok && !res.Converged {
		fmt.Printf("\nextrapolated rho1/rho2: %.8g\n", x)
	}

	if compare {
		ref, dev, err := analysis.CompareToPerfect(res.Upstream, res.Downstream)
		if err != nil {
			fmt.Printf("\nno perfect-gas reference: %v\n", err)
		} else {
			fmt.Println()
			fmt.Println(viz.RenderComparison(ref, dev))
		}
	}

	fmt.Printf("\ncompleted in %v\n", elapsed)

	if save {
		runID, err := openStore().SaveSolve(storedCase(cfg), res, runErr)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return runErr
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveCase(cmd)
	if err != nil {
		return err
	}
	s, err := newSolver(cfg)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s  M1=%.3g", caseName(cfg), s.Upstream().Mach())
	m := viz.NewLiveModel(title, s, cfg.ShockConfig(), 0)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return err
	}

	if lm, ok := final.(viz.LiveModel); ok {
		if lm.Err() != nil {
			return lm.Err()
		}
		fmt.Printf("rho1/rho2 = %.8g after %d iterations (converged: %v)\n", s.Epsilon(), s.Iterations(), lm.Converged())
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveCase(cmd)
	if err != nil {
		return err
	}

	switch profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dataDir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(dataDir), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile mode: %s (cpu, mem)", profileMode)
	}

	machs, err := sweep.MachGrid(cfg.Sweep.MachMin, cfg.Sweep.MachMax, cfg.Sweep.Points)
	if err != nil {
		return err
	}
	factory, err := engineFactory(cfg)
	if err != nil {
		return err
	}
	g, err := cfg.Guess()
	if err != nil {
		return err
	}

	sw := sweep.New(sweep.Case{
		Engine:      factory,
		Temperature: cfg.Upstream.Temperature,
		Pressure:    cfg.Upstream.Pressure,
		Guess:       g,
		Solver:      cfg.ShockConfig(),
	}, cfg.Sweep.Workers, logrus.WithField("case", caseName(cfg)))

	ctx, cancel := withTimeout(cmd.Context(), cfg)
	defer cancel()

	fmt.Printf("sweeping %s over M1 = %.3g..%.3g (%d points)\n\n", caseName(cfg), cfg.Sweep.MachMin, cfg.Sweep.MachMax, len(machs))
	start := time.Now()
	pts, runErr := sw.Run(ctx, machs)
	elapsed := time.Since(start)

	if err := viz.WriteSweepTable(cmd.OutOrStdout(), pts); err != nil {
		return err
	}
	for _, chart := range viz.SweepPlots(pts, 60, 8) {
		fmt.Println()
		fmt.Println(chart)
	}
	fmt.Printf("\ncompleted in %v\n", elapsed)

	if save {
		runID, err := openStore().SaveSweep(storedCase(cfg), pts)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return runErr
}
