// Package viz renders shock solutions for the terminal.
//
// Static reports ([RenderResult], [RenderComparison], [WriteSweepTable]) are
// lipgloss panels and tabwriter tables; charts ([HistoryPlot], [SweepPlots])
// are drawn with asciigraph. [LiveModel] is a bubbletea program that steps a
// [shock.Solver] on a timer:
//
//	m := viz.NewLiveModel("air M=2", solver, shock.DefaultConfig(), 0)
//	if _, err := tea.NewProgram(m).Run(); err != nil {
//	    return err
//	}
package viz
