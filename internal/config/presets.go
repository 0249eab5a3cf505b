package config

import (
	"sort"
	"time"
)

var airComposition = map[string]float64{"N2": 0.79, "O2": 0.21}

var standardSolver = SolverConfig{
	Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations, Timeout: DefaultTimeout, Guess: "kinetic",
}

var standardSweep = SweepConfig{MachMin: DefaultMachMin, MachMax: DefaultMachMax, Points: DefaultPoints}

var Presets = map[string]*Config{
	"air-mach2": {
		Name: "air-mach2", Composition: airComposition,
		Upstream: UpstreamConfig{Temperature: 300, Pressure: 101325, Mach: 2},
		Solver:   standardSolver, Sweep: standardSweep,
	},
	"air-weak": {
		Name: "air-weak", Composition: airComposition,
		Upstream: UpstreamConfig{Temperature: 300, Pressure: 101325, Mach: 1.2},
		Solver:   standardSolver, Sweep: SweepConfig{MachMin: 1.0, MachMax: 1.5, Points: 11},
	},
	"air-strong": {
		Name: "air-strong", Composition: airComposition,
		Upstream: UpstreamConfig{Temperature: 300, Pressure: 101325, Mach: 6},
		Solver:   standardSolver, Sweep: SweepConfig{MachMin: 4, MachMax: 7, Points: 13},
	},
	"air-sonic": {
		Name: "air-sonic", Composition: airComposition,
		Upstream: UpstreamConfig{Temperature: 300, Pressure: 101325, Mach: 1},
		Solver: SolverConfig{
			Tolerance: DefaultTolerance, MaxIterations: 2000, Timeout: 30 * time.Second, Guess: "kinetic",
		},
		Sweep: standardSweep,
	},
	"stratosphere": {
		Name: "stratosphere", Composition: map[string]float64{"N2": 0.78084, "O2": 0.20946, "AR": 0.00934, "CO2": 0.00036},
		Upstream: UpstreamConfig{Temperature: 216.65, Pressure: 5474.9, Mach: 3},
		Solver:   standardSolver, Sweep: SweepConfig{MachMin: 1.5, MachMax: 5, Points: 15},
	},
	"argon-mach2": {
		Name: "argon-mach2", Composition: map[string]float64{"AR": 1},
		Upstream: UpstreamConfig{Temperature: 300, Pressure: 101325, Mach: 2},
		Solver:   standardSolver, Sweep: standardSweep,
	},
	"co2-mach3": {
		Name: "co2-mach3", Composition: map[string]float64{"CO2": 1},
		Upstream: UpstreamConfig{Temperature: 300, Pressure: 101325, Mach: 3},
		Solver: SolverConfig{
			Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations, Timeout: DefaultTimeout, Guess: "stagnation",
		},
		Sweep: SweepConfig{MachMin: 1.2, MachMax: 5, Points: 12},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
