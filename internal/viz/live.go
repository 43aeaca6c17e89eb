// Package viz provides a terminal live view: one sample path of the
// benchmark SDE evolving next to its analytical solution, on the same
// Brownian realization. Because the path is a pure function of the
// seed, resetting replays the identical trajectory.
package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"

	"github.com/pkoval/sdelab/internal/brownian"
	"github.com/pkoval/sdelab/internal/problems"
	"github.com/pkoval/sdelab/internal/solvers"
)

const (
	graphWidth    = 72
	graphHeight   = 14
	stepsPerFrame = 2
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Model steps one sample path and renders it against the analytical
// solution.
type Model struct {
	sys     *problems.SineCosine
	stepper solvers.Stepper
	bm      *brownian.Interval

	y0, y, next, dw, w *mat.Dense
	t, t0, t1, dt      float64

	numeric    []float64
	analytical []float64
	running    bool
	err        error
}

// New builds a live view over the interval covered by bm, advancing
// with the given stepper and step size.
func New(sys *problems.SineCosine, stepper solvers.Stepper, bm *brownian.Interval, dt float64) Model {
	t0, t1 := bm.Span()
	return Model{
		sys:        sys,
		stepper:    stepper,
		bm:         bm,
		y0:         mat.NewDense(1, 1, []float64{1}),
		y:          mat.NewDense(1, 1, []float64{1}),
		next:       mat.NewDense(1, 1, nil),
		dw:         mat.NewDense(1, 1, nil),
		w:          mat.NewDense(1, 1, nil),
		t:          t0,
		t0:         t0,
		t1:         t1,
		dt:         dt,
		numeric:    []float64{1},
		analytical: []float64{1},
		running:    true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		}
	case tickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < stepsPerFrame && m.t < m.t1; i++ {
		tNext := m.t + m.dt
		if tNext >= m.t1 {
			tNext = m.t1
		}
		if err := m.bm.Increment(m.t, tNext, m.dw); err != nil {
			m.err = err
			return
		}
		m.stepper.Step(m.sys, m.t, tNext-m.t, m.y, m.dw, m.next)
		m.y, m.next = m.next, m.y
		m.t = tNext

		if err := m.bm.Value(m.t, m.w); err != nil {
			m.err = err
			return
		}
		m.sys.AnalyticalValue(m.y0, m.w, m.next)
		m.numeric = append(m.numeric, m.y.At(0, 0))
		m.analytical = append(m.analytical, m.next.At(0, 0))
	}
	if m.t >= m.t1 {
		m.running = false
	}
}

func (m *Model) reset() {
	m.t = m.t0
	m.y.Set(0, 0, 1)
	m.numeric = m.numeric[:1]
	m.analytical = m.analytical[:1]
	m.err = nil
	m.running = true
}

func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("sdelab live - %s vs analytical", m.stepper.Name()))
	if m.err != nil {
		return header + "\n" + statusStyle.Render("error: "+m.err.Error()) + "\n"
	}
	graph := asciigraph.PlotMany(
		[][]float64{m.numeric, m.analytical},
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
		asciigraph.SeriesLegends(m.stepper.Name(), "analytical"),
	)
	status := statusStyle.Render(fmt.Sprintf("t = %.3f / %.1f   dt = %g   p = %.4f",
		m.t, m.t1, m.dt, m.sys.GetParams()["p"]))
	if !m.running && m.t < m.t1 {
		status += statusStyle.Render("   [paused]")
	}
	help := helpStyle.Render("space pause - r replay - q quit")
	return header + "\n" + graphStyle.Render(graph) + "\n" + status + "\n" + help + "\n"
}

// Run starts the bubbletea program and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
