package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/shocksim/internal/export"
	"github.com/san-kum/shocksim/internal/storage"
	"github.com/san-kum/shocksim/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tCASE\tTIME\tM1\tRHO1/RHO2\tITER\tSTATUS")

	for _, run := range runs {
		status := "ok"
		switch {
		case run.Kind == storage.KindSweep && run.Failed > 0:
			status = fmt.Sprintf("%d/%d failed", run.Failed, run.Points)
		case !run.Converged:
			status = "failed"
		}
		m1, eps, iter := "-", "-", "-"
		if run.Kind == storage.KindSolve {
			m1 = fmt.Sprintf("%.3g", run.Mach1)
			eps = fmt.Sprintf("%.6f", run.Epsilon)
			iter = fmt.Sprintf("%d", run.Iterations)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Kind,
			run.Case.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			m1, eps, iter,
			status,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := openStore().Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s)\n", meta.ID, meta.Kind)
	fmt.Printf("case: %s  %s\n", meta.Case.Name, meta.Case.Composition)
	fmt.Printf("upstream: %.2f K, %.0f Pa\n", meta.Case.Temperature, meta.Case.Pressure)
	fmt.Printf("solver: tol %.1e, max %d iterations, %s guess\n", meta.Case.Tolerance, meta.Case.MaxIterations, meta.Case.Guess)
	fmt.Printf("time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	if meta.Error != "" {
		fmt.Printf("error: %s\n", meta.Error)
	}

	if meta.Kind == storage.KindSweep {
		fmt.Printf("points: %d (%d failed)\n", meta.Points, meta.Failed)
		return nil
	}

	fmt.Printf("rho1/rho2: %.8g after %d iterations (converged: %v)\n\n", meta.Epsilon, meta.Iterations, meta.Converged)
	if meta.Upstream != nil && meta.Downstream != nil {
		fmt.Println(viz.RenderStation("UPSTREAM", *meta.Upstream))
		fmt.Println(viz.RenderStation("DOWNSTREAM", *meta.Downstream))

		c := viz.NewCanvas(36, 6)
		c.DrawStep(viz.Channel(*meta.Upstream, quantity), viz.Channel(*meta.Downstream, quantity))
		fmt.Printf("\n%s across the shock\n%s\n\n", quantity, c.String())
		if svgFile != "" {
			if err := os.WriteFile(svgFile, []byte(export.CanvasToSVG(c, 6)), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", svgFile)
		}
	}
	if meta.Residuals != nil {
		fmt.Printf("residuals: mass %.3e  momentum %.3e  energy %.3e\n",
			meta.Residuals.Mass, meta.Residuals.Momentum, meta.Residuals.Energy)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadTable(runID)
	if err != nil {
		return err
	}
	if len(table.Rows) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("case: %s\n", meta.Case.Name)
	fmt.Printf("samples: %d\n\n", len(table.Rows))

	if meta.Kind == storage.KindSolve {
		eps := table.Column("epsilon")
		fmt.Println(viz.HistoryPlot(eps, 80, 10))
		if chart := viz.DeltaPlot(eps, 80, 10); chart != "" {
			fmt.Println()
			fmt.Println(chart)
		}
		return writeSeriesSVG(table.Column("iteration"), eps)
	}

	for _, col := range []struct{ name, caption string }{
		{"epsilon", "rho1/rho2 vs M1"},
		{"pressure_ratio", "p2/p1 vs M1"},
		{"temperature_ratio", "T2/T1 vs M1"},
		{"mach2", "M2 vs M1"},
		{"entropy_rise", "s2-s1 vs M1"},
	} {
		if chart := viz.TablePlot(table.Column(col.name), col.caption, 80, 10); chart != "" {
			fmt.Println(chart)
			fmt.Println()
		}
	}
	return writeSeriesSVG(table.Column("mach1"), table.Column("epsilon"))
}

func writeSeriesSVG(xs, ys []float64) error {
	if svgFile == "" {
		return nil
	}
	svg := export.SeriesToSVG(xs, ys, 640, 360, "#00ccff")
	if svg == "" {
		return fmt.Errorf("not enough points for %s", svgFile)
	}
	if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgFile)
	return nil
}

// output returns stdout, or the --out file with a closer.
func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	table, err := st.LoadTable(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, meta, table); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	table, err := openStore().LoadTable(args[0])
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, table); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
