package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/shocksim/internal/config"
	"github.com/san-kum/shocksim/internal/storage"
)

var (
	dataDir  string
	logLevel string

	// case selection
	configFile  string
	preset      string
	thermoFile  string
	composition string
	temperature float64
	pressure    float64
	mach        float64
	velocity    float64
	perfect     float64

	// solver
	tolerance float64
	maxIter   int
	timeout   string
	guess     string

	// output
	compare  bool
	save     bool
	outFile  string
	svgFile  string
	quantity string

	// sweep
	machMin     float64
	machMax     float64
	points      int
	workers     int
	profileMode string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "shocksim",
		Short:         "real-gas normal shock solver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(lvl)
			logrus.SetOutput(os.Stderr)

			dir, err := homedir.Expand(dataDir)
			if err != nil {
				return fmt.Errorf("data directory: %w", err)
			}
			dataDir = dir
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "~/.shocksim/runs", "run directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve one normal shock",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
	addCaseFlags(solveCmd)
	solveCmd.Flags().BoolVar(&compare, "compare", false, "print the perfect-gas closed form for the upstream gamma")
	solveCmd.Flags().BoolVar(&save, "save", false, "store the run under --data")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "solve over a range of upstream Mach numbers",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addCaseFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&machMin, "mach-min", config.DefaultMachMin, "lowest upstream Mach number")
	sweepCmd.Flags().Float64Var(&machMax, "mach-max", config.DefaultMachMax, "highest upstream Mach number")
	sweepCmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of Mach numbers")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel solvers (0 = GOMAXPROCS)")
	sweepCmd.Flags().BoolVar(&save, "save", false, "store the run under --data")
	sweepCmd.Flags().StringVar(&profileMode, "profile", "", "write a cpu or mem profile to --data")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "step the iteration live in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	addCaseFlags(watchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&quantity, "quantity", "pressure", "profile quantity: pressure, density, temperature, velocity")
	showCmd.Flags().StringVar(&svgFile, "svg", "", "also write the profile as SVG")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the main series as SVG")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	speciesCmd := &cobra.Command{
		Use:   "species",
		Short: "list species in the thermo database",
		Args:  cobra.NoArgs,
		RunE:  listSpecies,
	}
	speciesCmd.Flags().StringVar(&thermoFile, "thermo", "", "NASA7 species file (yaml)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list case presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOMPOSITION\tT1\tP1\tM1\tGUESS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%.2f K\t%.0f Pa\t%.2f\t%s\n",
					name, p.GasComposition(), p.Upstream.Temperature, p.Upstream.Pressure, p.Upstream.Mach, p.Solver.Guess)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(solveCmd, sweepCmd, watchCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportCSVCmd, speciesCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addCaseFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "case file (yaml)")
	f.StringVar(&preset, "preset", "", "named case preset")
	f.StringVar(&thermoFile, "thermo", "", "NASA7 species file (yaml)")
	f.StringVar(&composition, "composition", d.GasComposition().String(), "mole fractions, e.g. N2:0.79,O2:0.21")
	f.Float64Var(&temperature, "temperature", d.Upstream.Temperature, "upstream temperature [K]")
	f.Float64Var(&pressure, "pressure", d.Upstream.Pressure, "upstream pressure [Pa]")
	f.Float64Var(&mach, "mach", d.Upstream.Mach, "upstream Mach number")
	f.Float64Var(&velocity, "velocity", 0, "upstream velocity [m/s], overrides --mach")
	f.Float64Var(&perfect, "perfect", 0, "use a calorically perfect gas with this gamma")
	f.Float64Var(&tolerance, "tol", d.Solver.Tolerance, "convergence tolerance on rho1/rho2")
	f.IntVar(&maxIter, "max-iter", d.Solver.MaxIterations, "iteration cap")
	f.StringVar(&timeout, "timeout", d.Solver.Timeout.String(), "wall-clock limit (0 disables)")
	f.StringVar(&guess, "guess", d.Solver.Guess, "initial guess: kinetic or stagnation")
	cmd.MarkFlagsMutuallyExclusive("mach", "velocity")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")
}

func openStore() *storage.Store {
	return storage.New(dataDir)
}
