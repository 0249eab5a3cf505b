package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/shocksim/internal/config"
	"github.com/san-kum/shocksim/internal/flow"
	"github.com/san-kum/shocksim/internal/gas"
	"github.com/san-kum/shocksim/internal/storage"
	"github.com/san-kum/shocksim/internal/sweep"
)

// resolveCase starts from the defaults, applies a preset or case file, then
// applies every flag the user set explicitly.
func resolveCase(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("composition") {
		c, err := gas.ParseComposition(composition)
		if err != nil {
			return nil, err
		}
		cfg.Composition = c
	}
	if flags.Changed("thermo") {
		cfg.Thermo = thermoFile
	}
	if flags.Changed("temperature") {
		cfg.Upstream.Temperature = temperature
	}
	if flags.Changed("pressure") {
		cfg.Upstream.Pressure = pressure
	}
	if flags.Changed("mach") {
		cfg.Upstream.Mach = mach
		cfg.Upstream.Velocity = 0
	}
	if flags.Changed("velocity") {
		cfg.Upstream.Velocity = velocity
		cfg.Upstream.Mach = 0
	}
	if flags.Changed("tol") {
		cfg.Solver.Tolerance = tolerance
	}
	if flags.Changed("max-iter") {
		cfg.Solver.MaxIterations = maxIter
	}
	if flags.Changed("timeout") {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("timeout: %w", err)
		}
		cfg.Solver.Timeout = d
	}
	if flags.Changed("guess") {
		cfg.Solver.Guess = guess
	}
	if flags.Lookup("mach-min") != nil {
		if flags.Changed("mach-min") {
			cfg.Sweep.MachMin = machMin
		}
		if flags.Changed("mach-max") {
			cfg.Sweep.MachMax = machMax
		}
		if flags.Changed("points") {
			cfg.Sweep.Points = points
		}
		if flags.Changed("workers") {
			cfg.Sweep.Workers = workers
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// engineFactory returns a constructor for the case's engine. With --perfect
// the mixture only supplies the molar mass.
func engineFactory(cfg *config.Config) (sweep.EngineFactory, error) {
	db, err := cfg.Database()
	if err != nil {
		return nil, err
	}
	mixtures := sweep.MixtureFactory(db, cfg.GasComposition())
	if perfect == 0 {
		return mixtures, nil
	}

	probe, err := mixtures()
	if err != nil {
		return nil, err
	}
	w := probe.MolarMass()
	if _, err := gas.NewPerfect(perfect, w); err != nil {
		return nil, err
	}
	return func() (gas.Engine, error) {
		return gas.NewPerfect(perfect, w)
	}, nil
}

func buildUpstream(cfg *config.Config) (*flow.State, error) {
	factory, err := engineFactory(cfg)
	if err != nil {
		return nil, err
	}
	g, err := factory()
	if err != nil {
		return nil, err
	}
	u := cfg.Upstream
	if u.Velocity > 0 {
		return flow.New(g, u.Temperature, u.Pressure, u.Velocity)
	}
	return flow.NewMach(g, u.Temperature, u.Pressure, u.Mach)
}

func caseName(cfg *config.Config) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return cfg.GasComposition().String()
}

func storedCase(cfg *config.Config) storage.Case {
	return storage.Case{
		Name:          caseName(cfg),
		Composition:   cfg.GasComposition().String(),
		Temperature:   cfg.Upstream.Temperature,
		Pressure:      cfg.Upstream.Pressure,
		Tolerance:     cfg.Solver.Tolerance,
		MaxIterations: cfg.Solver.MaxIterations,
		Guess:         cfg.Solver.Guess,
	}
}
