package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rdsim/internal/rd"
)

const (
	width           = 80
	height          = 20
	historyCapacity = 600
)

type TickMsg time.Time

// Builder creates a freshly seeded solver; reset calls it again.
type Builder func() (*rd.Solver, error)

// Stimulus excites a running solver when the user presses s.
type Stimulus func(*rd.Solver) error

type LiveConfig struct {
	StepsPerFrame int
	// TotalSteps pauses the run once reached; 0 runs until quit.
	TotalSteps int
	Field      int
	ProbeX     int
	ProbeY     int
	Threshold  float64
}

// Model steps a solver on every tick and draws the chosen field.
type Model struct {
	build    Builder
	stim     Stimulus
	cfg      LiveConfig
	solver   *rd.Solver
	canvas   *Canvas
	trace    []float64
	running  bool
	braille  bool
	showHelp bool
	err      error
}

func NewModel(build Builder, stim Stimulus, cfg LiveConfig) (Model, error) {
	s, err := build()
	if err != nil {
		return Model{}, err
	}
	if cfg.StepsPerFrame < 1 {
		cfg.StepsPerFrame = 1
	}
	if _, err := s.Value(cfg.Field, cfg.ProbeX, cfg.ProbeY); err != nil {
		return Model{}, fmt.Errorf("probe: %w", err)
	}
	return Model{
		build:   build,
		stim:    stim,
		cfg:     cfg,
		solver:  s,
		canvas:  NewCanvas(width, height),
		trace:   make([]float64, 0, historyCapacity),
		running: true,
	}, nil
}

func (m Model) Solver() *rd.Solver { return m.solver }
func (m Model) Running() bool      { return m.running }
func (m Model) Err() error         { return m.err }

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running && m.err == nil
		case "s":
			if m.stim != nil && m.err == nil {
				m.err = m.stim(m.solver)
			}
		case "r":
			m.reset()
		case "v":
			m.braille = !m.braille
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	n := m.cfg.StepsPerFrame
	if total := m.cfg.TotalSteps; total > 0 {
		if m.solver.Steps() >= total {
			m.running = false
			return
		}
		n = min(n, total-m.solver.Steps())
	}
	if err := m.solver.Advance(n); err != nil {
		m.err, m.running = err, false
		return
	}
	v, _ := m.solver.Value(m.cfg.Field, m.cfg.ProbeX, m.cfg.ProbeY)
	m.trace = append(m.trace, v)
	if len(m.trace) > historyCapacity {
		m.trace = m.trace[1:]
	}
}

func (m *Model) reset() {
	s, err := m.build()
	if err != nil {
		m.err, m.running = err, false
		return
	}
	m.solver, m.err = s, nil
	m.trace = m.trace[:0]
}

func (m Model) View() string {
	snap := m.solver.Snapshot()
	lo, hi := Range(snap, m.cfg.Field)
	if hi-lo < 1e-9 {
		hi = lo + 1
	}

	var field string
	switch {
	case m.solver.Dimension() == rd.Dim1:
		m.canvas.Trace(snap, m.cfg.Field, 0, lo, hi)
		field = m.canvas.String()
	case m.braille:
		m.canvas.Excited(snap, m.cfg.Field, m.cfg.Threshold)
		field = m.canvas.String()
	default:
		field = ColorHeatmap(snap, m.cfg.Field, lo, hi, width, height)
	}

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.solver.ModelName())) + "  " + Status(m.running) + "\n\n")
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	nx, ny := m.solver.Shape()
	row("Time", fmt.Sprintf("%.2f", m.solver.Elapsed()))
	row("Steps", fmt.Sprintf("%d", m.solver.Steps()))
	if total := m.cfg.TotalSteps; total > 0 {
		row("Progress", ProgressBar(float64(m.solver.Steps())/float64(total), 20))
	}
	row("Grid", fmt.Sprintf("%dx%d %s", nx, ny, m.solver.Boundary()))
	row("Range", fmt.Sprintf("[%.3f, %.3f]", lo, hi))
	for _, mt := range m.solver.Metrics() {
		row(mt.Name(), fmt.Sprintf("%.4g", mt.Value()))
	}
	s.WriteString("\n" + Subtle.Render(fmt.Sprintf("probe (%d,%d)", m.cfg.ProbeX, m.cfg.ProbeY)) + "\n")
	s.WriteString(SparklineChart(m.trace, 30) + "\n")
	if m.err != nil {
		s.WriteString("\n" + SparkLow.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + KeyHint.Render("SP:Pause S:Stimulate R:Reset\nV:View T:Theme ?:Help Q:Quit"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(field), Panel.Width(40).Render(s.String()))
	if m.showHelp {
		return help + "\n" + view
	}
	return view
}

const help = `  Space  pause or resume
  S      stimulate
  R      rebuild the initial state
  V      braille view of excited points (2D)
  T      cycle themes
  Q      quit`
