package viz

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/shocksim/internal/analysis"
	"github.com/san-kum/shocksim/internal/flow"
	"github.com/san-kum/shocksim/internal/shock"
	"github.com/san-kum/shocksim/internal/sweep"
)

type row struct {
	label, value string
}

func stationRows(s flow.Summary) []row {
	return []row{
		{"density", fmt.Sprintf("%.6g kg/m³", s.Density)},
		{"temperature", fmt.Sprintf("%.6g K", s.Temperature)},
		{"pressure", fmt.Sprintf("%.6g Pa", s.Pressure)},
		{"R", fmt.Sprintf("%.6g J/(kg K)", s.GasConstant)},
		{"gamma", fmt.Sprintf("%.6g", s.Gamma)},
		{"sound speed", fmt.Sprintf("%.6g m/s", s.SoundSpeed)},
		{"velocity", fmt.Sprintf("%.6g m/s", s.Velocity)},
		{"Mach", fmt.Sprintf("%.6g", s.Mach)},
		{"enthalpy", fmt.Sprintf("%.6g J/kg", s.Enthalpy)},
		{"entropy", fmt.Sprintf("%.6g J/(kg K)", s.Entropy)},
	}
}

func renderRows(rows []row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = MetricLabel.Render(r.label) + MetricValue.Render(r.value)
	}
	return strings.Join(lines, "\n")
}

// RenderStation renders one station summary as a titled panel.
func RenderStation(title string, s flow.Summary) string {
	return Panel.Render(Title.Render(title) + "\n\n" + renderRows(stationRows(s)))
}

// RenderResult renders both stations side by side followed by the jump
// ratios, iteration count and conservation residuals.
func RenderResult(res *shock.Result) string {
	stations := lipgloss.JoinHorizontal(lipgloss.Top,
		RenderStation("UPSTREAM", res.Upstream),
		RenderStation("DOWNSTREAM", res.Downstream),
	)

	status := StatusRunning.Render("converged")
	if !res.Converged {
		status = StatusFailed.Render("not converged")
	}
	up, down := res.Upstream, res.Downstream
	jump := []row{
		{"status", status},
		{"iterations", fmt.Sprintf("%d", res.Iterations)},
		{"rho1/rho2", fmt.Sprintf("%.8g", res.Epsilon)},
		{"|delta|", fmt.Sprintf("%.3g", res.Delta)},
		{"p2/p1", fmt.Sprintf("%.6g", down.Pressure/up.Pressure)},
		{"T2/T1", fmt.Sprintf("%.6g", down.Temperature/up.Temperature)},
		{"s2-s1", fmt.Sprintf("%.6g J/(kg K)", down.Entropy-up.Entropy)},
		{"mass", fmt.Sprintf("%.3e", res.Residuals.Mass)},
		{"momentum", fmt.Sprintf("%.3e", res.Residuals.Momentum)},
		{"energy", fmt.Sprintf("%.3e", res.Residuals.Energy)},
	}
	if rate, ok := analysis.ConvergenceRate(res.History, 5); ok {
		jump = append(jump, row{"contraction", fmt.Sprintf("%.4f", rate)})
	}
	return stations + "\n" + Panel.Render(Title.Render("JUMP")+"\n\n"+renderRows(jump))
}

// RenderComparison renders the perfect-gas reference next to the computed ratios.
func RenderComparison(ref analysis.PerfectJump, dev analysis.Deviation) string {
	rows := []row{
		{"gamma", fmt.Sprintf("%.6g", ref.Gamma)},
		{"rho1/rho2", fmt.Sprintf("%.6g (%+.2f%%)", ref.DensityRatio, 100*dev.DensityRatio)},
		{"p2/p1", fmt.Sprintf("%.6g (%+.2f%%)", ref.PressureRatio, 100*dev.PressureRatio)},
		{"T2/T1", fmt.Sprintf("%.6g (%+.2f%%)", ref.TemperatureRatio, 100*dev.TemperatureRatio)},
		{"M2", fmt.Sprintf("%.6g (%+.2f%%)", ref.Mach2, 100*dev.Mach2)},
	}
	return Panel.Render(Title.Render("PERFECT GAS") + "\n" +
		Subtle.Render("closed form; percentages are computed vs reference") + "\n\n" + renderRows(rows))
}

// WriteSweepTable writes one line per point with tabwriter, as plain text.
func WriteSweepTable(out io.Writer, points []sweep.Point) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "M1\tITER\tRHO1/RHO2\tP2/P1\tT2/T1\tM2\tS2-S1\tSTATUS")
	for _, p := range points {
		if p.Result == nil {
			fmt.Fprintf(w, "%.4g\t-\t-\t-\t-\t-\t-\t%v\n", p.Mach1, p.Err)
			continue
		}
		r := p.Result
		status := "ok"
		if p.Err != nil {
			status = p.Err.Error()
		}
		fmt.Fprintf(w, "%.4g\t%d\t%.6f\t%.4f\t%.4f\t%.4f\t%.2f\t%s\n",
			p.Mach1, r.Iterations, r.Epsilon,
			r.Downstream.Pressure/r.Upstream.Pressure,
			r.Downstream.Temperature/r.Upstream.Temperature,
			r.Downstream.Mach,
			r.Downstream.Entropy-r.Upstream.Entropy,
			status)
	}
	return w.Flush()
}
