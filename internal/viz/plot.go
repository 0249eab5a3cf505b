package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/shocksim/internal/sweep"
)

// HistoryPlot charts epsilon against iteration.
func HistoryPlot(history []float64, width, height int) string {
	if len(history) < 2 {
		return ""
	}
	return asciigraph.Plot(history,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(4),
		asciigraph.Caption("rho1/rho2 vs iteration"))
}

// DeltaPlot charts log10 |epsilon_k - epsilon_(k-1)|, where linear
// convergence shows as a straight line.
func DeltaPlot(history []float64, width, height int) string {
	logs := make([]float64, 0, len(history))
	for k := 1; k < len(history); k++ {
		d := math.Abs(history[k] - history[k-1])
		if d > 0 {
			logs = append(logs, math.Log10(d))
		}
	}
	if len(logs) < 2 {
		return ""
	}
	return asciigraph.Plot(logs,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.Caption("log10 |delta| vs iteration"))
}

// SweepPlots charts the density ratio, pressure ratio and downstream Mach
// number of the converged points against the sampled Mach numbers.
func SweepPlots(points []sweep.Point, width, height int) []string {
	var eps, pr, m2 []float64
	for _, p := range points {
		if p.Err != nil || p.Result == nil {
			continue
		}
		r := p.Result
		eps = append(eps, r.Epsilon)
		pr = append(pr, r.Downstream.Pressure/r.Upstream.Pressure)
		m2 = append(m2, r.Downstream.Mach)
	}
	if len(eps) < 2 {
		return nil
	}
	plot := func(data []float64, caption string) string {
		return asciigraph.Plot(data,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(caption))
	}
	return []string{
		plot(eps, "rho1/rho2 vs M1"),
		plot(pr, "p2/p1 vs M1"),
		plot(m2, "M2 vs M1"),
	}
}

// TablePlot charts one column of a stored run.
func TablePlot(data []float64, caption string, width, height int) string {
	if len(data) < 2 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption))
}
