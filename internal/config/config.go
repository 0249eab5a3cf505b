package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/shocksim/internal/gas"
	"github.com/san-kum/shocksim/internal/shock"
)

const (
	DefaultTemperature   = 300.0
	DefaultPressure      = gas.OneAtm
	DefaultMach          = 2.0
	DefaultTolerance     = 1e-5
	DefaultMaxIterations = 500
	DefaultTimeout       = 10 * time.Second
	DefaultMachMin       = 1.0
	DefaultMachMax       = 6.0
	DefaultPoints        = 21
)

var ErrInvalid = errors.New("config: invalid case")

// Config is one shock case: the upstream mixture and state plus solver and
// sweep settings. Velocity, when non-zero, takes precedence over Mach.
type Config struct {
	Name        string             `yaml:"name,omitempty"`
	Composition map[string]float64 `yaml:"composition"`
	Thermo      string             `yaml:"thermo,omitempty"`
	Upstream    UpstreamConfig     `yaml:"upstream"`
	Solver      SolverConfig       `yaml:"solver"`
	Sweep       SweepConfig        `yaml:"sweep"`
}

type UpstreamConfig struct {
	Temperature float64 `yaml:"temperature"`
	Pressure    float64 `yaml:"pressure"`
	Mach        float64 `yaml:"mach,omitempty"`
	Velocity    float64 `yaml:"velocity,omitempty"`
}

type SolverConfig struct {
	Tolerance     float64       `yaml:"tolerance"`
	MaxIterations int           `yaml:"max_iterations"`
	Timeout       time.Duration `yaml:"timeout"`
	Guess         string        `yaml:"guess,omitempty"`
}

type SweepConfig struct {
	MachMin float64 `yaml:"mach_min"`
	MachMax float64 `yaml:"mach_max"`
	Points  int     `yaml:"points"`
	Workers int     `yaml:"workers,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "air",
		Composition: map[string]float64{"N2": 0.79, "O2": 0.21},
		Upstream: UpstreamConfig{
			Temperature: DefaultTemperature,
			Pressure:    DefaultPressure,
			Mach:        DefaultMach,
		},
		Solver: SolverConfig{
			Tolerance:     DefaultTolerance,
			MaxIterations: DefaultMaxIterations,
			Timeout:       DefaultTimeout,
			Guess:         shock.KineticGuess.String(),
		},
		Sweep: SweepConfig{
			MachMin: DefaultMachMin,
			MachMax: DefaultMachMax,
			Points:  DefaultPoints,
		},
	}
}

// Load reads a YAML case on top of DefaultConfig. A composition in the file
// replaces the default one entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Composition = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Composition == nil {
		cfg.Composition = DefaultConfig().Composition
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Composition = make(map[string]float64, len(c.Composition))
	for k, v := range c.Composition {
		out.Composition[k] = v
	}
	return &out
}

func (c *Config) GasComposition() gas.Composition {
	return gas.Composition(c.Composition)
}

// Database returns the embedded species data, or the file named by Thermo.
func (c *Config) Database() (*gas.Database, error) {
	if c.Thermo == "" {
		return gas.Default(), nil
	}
	return gas.LoadDatabase(c.Thermo)
}

func (c *Config) ShockConfig() shock.Config {
	return shock.Config{
		Tolerance:     c.Solver.Tolerance,
		MaxIterations: c.Solver.MaxIterations,
	}
}

func (c *Config) Guess() (shock.Guess, error) {
	return shock.ParseGuess(c.Solver.Guess)
}

// Validate checks the fields that cannot be caught by the solver itself.
// Composition and thermodynamic validity are left to the gas package.
func (c *Config) Validate() error {
	if len(c.Composition) == 0 {
		return fmt.Errorf("%w: empty composition", ErrInvalid)
	}
	if c.Upstream.Temperature <= 0 || c.Upstream.Pressure <= 0 {
		return fmt.Errorf("%w: upstream temperature and pressure must be positive", ErrInvalid)
	}
	if c.Upstream.Velocity < 0 || c.Upstream.Mach < 0 {
		return fmt.Errorf("%w: upstream velocity and Mach must not be negative", ErrInvalid)
	}
	if c.Solver.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalid, c.Solver.Tolerance)
	}
	if c.Solver.MaxIterations < 1 {
		return fmt.Errorf("%w: max_iterations must be at least 1, got %d", ErrInvalid, c.Solver.MaxIterations)
	}
	if c.Solver.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalid)
	}
	if _, err := c.Guess(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Sweep.Points < 1 || c.Sweep.MachMin < 1 || c.Sweep.MachMax < c.Sweep.MachMin {
		return fmt.Errorf("%w: sweep needs points >= 1 and 1 <= mach_min <= mach_max", ErrInvalid)
	}
	return nil
}
