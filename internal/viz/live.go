package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/shocksim/internal/analysis"
	"github.com/san-kum/shocksim/internal/shock"
)

const (
	profileWidth  = 36
	profileHeight = 8
)

type TickMsg time.Time

// LiveModel steps a shock solver one iteration per tick and shows the
// density ratio converging.
type LiveModel struct {
	title    string
	solver   *shock.Solver
	cfg      shock.Config
	interval time.Duration
	running  bool
	done     bool
	err      error
	first    float64
	canvas   *Canvas
	channel  int
	showHelp bool
}

func NewLiveModel(title string, s *shock.Solver, cfg shock.Config, interval time.Duration) LiveModel {
	if interval <= 0 {
		interval = 150 * time.Millisecond
	}
	return LiveModel{
		title:    title,
		solver:   s,
		cfg:      cfg,
		interval: interval,
		running:  true,
		first:    math.NaN(),
		canvas:   NewCanvas(profileWidth, profileHeight),
	}
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys and advances the solver on every tick while running.
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n", "right":
			m.step()
		case "r":
			m.reset()
		case "p":
			m.channel = (m.channel + 1) % len(ProfileChannels)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) step() {
	if m.done {
		return
	}
	if _, err := m.solver.Iterate(); err != nil {
		m.err = err
		m.done = true
		return
	}
	if math.IsNaN(m.first) {
		m.first = m.solver.Delta()
	}
	switch {
	case m.solver.Delta() <= m.cfg.Tolerance:
		m.done = true
	case m.solver.Iterations() >= m.cfg.MaxIterations:
		m.done = true
		m.err = &shock.ConvergenceError{
			Iterations: m.solver.Iterations(),
			Epsilon:    m.solver.Epsilon(),
			Delta:      m.solver.Delta(),
			Tolerance:  m.cfg.Tolerance,
		}
	}
}

func (m *LiveModel) reset() {
	m.err = m.solver.Reset()
	m.done = m.err != nil
	m.first = math.NaN()
}

// Converged reports whether the tolerance has been met.
func (m LiveModel) Converged() bool { return m.done && m.err == nil }

func (m LiveModel) Err() error { return m.err }

func (m LiveModel) status() string {
	switch {
	case m.err != nil:
		return StatusFailed.Render("FAILED")
	case m.done:
		return StatusRunning.Render("CONVERGED")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

func (m LiveModel) View() string {
	s := m.solver
	up, down := s.Upstream(), s.Downstream()

	var left strings.Builder
	left.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")
	left.WriteString(m.status() + "  " + ProgressBar(ConvergenceProgress(m.first, s.Delta(), m.cfg.Tolerance), 24) + "\n\n")
	if chart := HistoryPlot(s.History(), 40, 8); chart != "" {
		left.WriteString(GraphStyle.Render(chart) + "\n\n")
	}
	name := ProfileChannels[m.channel]
	m.canvas.DrawProfile(up, down, name)
	left.WriteString(Subtle.Render(name+" across the shock") + "\n")
	left.WriteString(GraphStyle.Render(m.canvas.String()) + "\n")

	res := s.Metrics()
	rows := []row{
		{"iteration", fmt.Sprintf("%d / %d", s.Iterations(), m.cfg.MaxIterations)},
		{"rho1/rho2", fmt.Sprintf("%.8f", s.Epsilon())},
		{"|delta|", fmt.Sprintf("%.3e", s.Delta())},
		{"tolerance", fmt.Sprintf("%.1e", m.cfg.Tolerance)},
		{"T2", fmt.Sprintf("%.2f K", down.Gas().Temperature())},
		{"p2", fmt.Sprintf("%.0f Pa", down.Gas().Pressure())},
		{"M2", fmt.Sprintf("%.4f", down.Mach())},
		{"M1", fmt.Sprintf("%.4f", up.Mach())},
		{"mass", fmt.Sprintf("%.2e", res["mass_residual"])},
		{"momentum", fmt.Sprintf("%.2e", res["momentum_residual"])},
		{"energy", fmt.Sprintf("%.2e", res["energy_residual"])},
	}
	if rate, ok := analysis.ConvergenceRate(s.History(), 8); ok && !m.done {
		rows = append(rows, row{"contraction", fmt.Sprintf("%.4f", rate)})
		if n := analysis.RemainingIterations(rate, s.Delta(), m.cfg.Tolerance); n >= 0 {
			rows = append(rows, row{"remaining", fmt.Sprintf("~%d", n)})
		}
	}
	right := renderRows(rows)
	right += "\n\n" + Subtle.Render("log10 |delta|") + "\n" + Sparkline(logSteps(s.History()), 32)
	if m.err != nil {
		right += "\n\n" + StatusFailed.Render(wrap(m.err.Error(), 40))
	}
	right += "\n\n" + KeyHint.Render("SP:Pause N:Step R:Reset\nP:Profile ?:Help Q:Quit")

	body := lipgloss.JoinHorizontal(lipgloss.Top, left.String(), Panel.Render(right))
	if m.showHelp {
		return Panel.Render(strings.Join([]string{
			"Space  pause / resume",
			"N, →   single iteration",
			"R      reseed from the initial guess",
			"P      cycle profile quantity",
			"?      toggle this help",
			"Q      quit",
		}, "\n")) + "\n\n" + body
	}
	return body
}

// logSteps returns log10 of successive step sizes, skipping zero steps.
func logSteps(history []float64) []float64 {
	var out []float64
	for i := 1; i < len(history); i++ {
		if d := math.Abs(history[i] - history[i-1]); d > 0 {
			out = append(out, math.Log10(d))
		}
	}
	return out
}

func wrap(s string, width int) string {
	var b strings.Builder
	line := 0
	for _, word := range strings.Fields(s) {
		if line > 0 && line+1+len(word) > width {
			b.WriteByte('\n')
			line = 0
		} else if line > 0 {
			b.WriteByte(' ')
			line++
		}
		b.WriteString(word)
		line += len(word)
	}
	return b.String()
}
