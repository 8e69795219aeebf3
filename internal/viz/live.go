package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/metrics"
)

const (
	width           = 72
	height          = 24
	historyCapacity = 40
	listedBodies    = 6
)

type TickMsg time.Time

type point struct{ x, y int }

type LiveOptions struct {
	Name          string
	FPS           int
	StepsPerFrame int
	Trail         int
	Theme         string
}

// LiveModel advances a simulation a few steps per frame and draws it.
// Frame pacing lives here only; the simulation itself never waits.
type LiveModel struct {
	sim           *dynamo.Simulation
	name          string
	canvas        *Canvas
	proj          Projector
	trails        [][]point
	trailLen      int
	stepsPerFrame int
	frame         time.Duration
	lightest      float64
	running       bool
	err           error
	energy        []float64
	theme         Theme
	styles        styles
}

func NewLiveModel(sim *dynamo.Simulation, opts LiveOptions) LiveModel {
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	spf := opts.StepsPerFrame
	if spf <= 0 {
		spf = 1
	}

	canvas := NewCanvas(width, height)
	lightest := math.Inf(1)
	for _, b := range sim.Report() {
		lightest = math.Min(lightest, b.Mass)
	}
	theme := GetTheme(opts.Theme)

	m := LiveModel{
		sim:           sim,
		name:          opts.Name,
		canvas:        canvas,
		proj:          NewProjector(sim.Radius(), canvas),
		trails:        make([][]point, sim.Len()),
		trailLen:      opts.Trail,
		stepsPerFrame: spf,
		frame:         time.Second / time.Duration(fps),
		lightest:      lightest,
		running:       true,
		energy:        make([]float64, 0, historyCapacity),
		theme:         theme,
		styles:        newStyles(theme),
	}
	m.sample()
	m.draw()
	return m
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.stepsPerFrame *= 2
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "t":
			m.theme = m.theme.next()
			m.styles = newStyles(m.theme)
		}
	case TickMsg:
		if m.running && m.err == nil && !m.sim.Finished() {
			m.advance()
		}
		m.draw()
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) advance() {
	for i := 0; i < m.stepsPerFrame && !m.sim.Finished(); i++ {
		if err := m.sim.StepOnce(); err != nil {
			m.err = err
			return
		}
	}
	m.sample()
}

// sample appends the current positions to the trails and energy history.
func (m *LiveModel) sample() {
	snaps := m.sim.Report()
	for i, b := range snaps {
		px, py, ok := m.proj.Project(b.X, b.Y)
		if !ok {
			continue
		}
		m.trails[i] = append(m.trails[i], point{px, py})
		if len(m.trails[i]) > m.trailLen+1 {
			m.trails[i] = m.trails[i][1:]
		}
	}

	m.energy = append(m.energy, metrics.Energy(snaps, m.sim.Params().G))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *LiveModel) draw() {
	m.canvas.Clear()
	for _, trail := range m.trails {
		for k := 1; k < len(trail); k++ {
			m.canvas.DrawLine(trail[k-1].x, trail[k-1].y, trail[k].x, trail[k].y)
		}
	}
	for _, b := range m.sim.Report() {
		if px, py, ok := m.proj.Project(b.X, b.Y); ok {
			m.canvas.DrawDisc(px, py, GlyphRadius(b.Mass, m.lightest))
		}
	}
}

func (m LiveModel) status() string {
	switch {
	case m.err != nil:
		return m.styles.alert.Render("HALTED")
	case m.sim.Finished():
		return m.styles.status.Render("FINISHED")
	case !m.running:
		return m.styles.status.Render("PAUSED")
	}
	return m.styles.status.Render("RUNNING")
}

// View renders the TUI interface.
func (m LiveModel) View() string {
	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	row := func(label, value string) {
		s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}

	total := m.sim.StepCount()
	frac := 1.0
	if total > 0 {
		frac = float64(m.sim.Steps()) / float64(total)
	}
	row("time", fmt.Sprintf("%.4e s", m.sim.Time()))
	row("step", fmt.Sprintf("%d / %d", m.sim.Steps(), total))
	row("progress", ProgressBar(frac, 24))
	row("speed", fmt.Sprintf("%d steps/frame", m.stepsPerFrame))
	row("bodies", fmt.Sprintf("%d", m.sim.Len()))
	row("energy", Sparkline(m.energy, 24))

	snaps := m.sim.Report()
	if len(snaps) > 0 {
		s.WriteString("\n")
	}
	for i, b := range snaps {
		if i == listedBodies {
			row("", fmt.Sprintf("... %d more", len(snaps)-listedBodies))
			break
		}
		row(b.Label, fmt.Sprintf("%10.3e %10.3e", b.X, b.Y))
	}

	if m.err != nil {
		s.WriteString("\n" + m.styles.alert.Render(m.err.Error()) + "\n")
	}
	s.WriteString(m.styles.help.Render("space pause · +/- speed · t theme · q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.canvas.Render(m.canvas.String()),
		m.styles.stats.Render(s.String()),
	)
}

// RunLive shows sim in the terminal until it is quit. The simulation is
// advanced in place, so its final state is available to the caller.
func RunLive(sim *dynamo.Simulation, opts LiveOptions) error {
	p := tea.NewProgram(NewLiveModel(sim, opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if lm, ok := final.(LiveModel); ok && lm.err != nil {
		return lm.err
	}
	return nil
}
