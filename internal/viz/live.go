package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/fluidlab/flip2d/internal/config"
	"github.com/fluidlab/flip2d/internal/fluid"
	"github.com/fluidlab/flip2d/internal/metrics"
	"github.com/fluidlab/flip2d/internal/sim"
)

const (
	canvasWidth  = 60
	canvasHeight = 24
	graphPoints  = 50
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives a simulation frame per tick and renders it as a braille
// canvas with a stats pane.
type Model struct {
	sim    *sim.Simulation
	cfg    *config.Config
	canvas *Canvas
	view   *WorldView

	volume *metrics.Volume
	maxVel *metrics.MaxVelocity

	running   bool
	firstStep bool
	frame     int
	simTime   float64
	err       error
}

func NewModel(s *sim.Simulation, cfg *config.Config) Model {
	c := NewCanvas(canvasWidth, canvasHeight)
	nx, ny := s.Size()
	min := s.Transform().World(0, 0)
	max := s.Transform().World(float64(nx), float64(ny))
	return Model{
		sim:       s,
		cfg:       cfg,
		canvas:    c,
		view:      NewWorldView(c, min, max),
		volume:    metrics.NewVolume(),
		maxVel:    metrics.NewMaxVelocity(),
		firstStep: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			m.stepFrame()
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.stepFrame()
		}
		return m, tick()
	}
	return m, nil
}

// stepFrame advances one display frame with CFL-bounded substeps: the
// fastest velocity may cross at most cfg.CFL cells per substep, and a
// non-positive substep ends the frame.
func (m *Model) stepFrame() {
	frameTime := 0.0
	for frameTime < m.cfg.FrameDt {
		velmag := m.sim.MaxVelMag()
		if m.firstStep {
			velmag = 1
			m.firstStep = false
		}

		var dt float64
		if velmag > 1e-10 {
			dt = m.cfg.CFL * m.cfg.Dx / velmag
			if dt > m.cfg.FrameDt-frameTime {
				dt = m.cfg.FrameDt - frameTime
			}
		} else {
			dt = m.cfg.FrameDt - frameTime
		}
		frameTime += dt
		if dt <= 0 {
			break
		}

		if m.cfg.Gravity != 0 {
			m.sim.AddConstantForce(fluid.Vec2{Y: -m.cfg.Gravity}, dt)
		}
		if err := m.sim.Step(dt, nil); err != nil {
			m.err = err
			return
		}
	}

	m.frame++
	m.simTime += m.cfg.FrameDt
	m.volume.Observe(m.sim, m.simTime)
	m.maxVel.Observe(m.sim, m.simTime)

	m.canvas.Clear()
	m.sim.DrawCollision(m.view)
	m.sim.DrawSurface(m.view)
	m.sim.DrawAir(m.view)
}

func (m Model) View() string {
	var stats strings.Builder
	stats.WriteString(headerStyle.Render("flip2d " + m.cfg.Scene))
	stats.WriteByte('\n')

	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label))
		stats.WriteString(valueStyle.Render(value))
		stats.WriteByte('\n')
	}
	row("frame", fmt.Sprintf("%d", m.frame))
	row("time", fmt.Sprintf("%.3fs", m.simTime))
	row("volume", fmt.Sprintf("%.5f", m.volume.Value()))
	row("max |v|", fmt.Sprintf("%.4f", m.maxVel.Value()))
	row("particles", fmt.Sprintf("%d", m.sim.Particles().Len()))
	if m.err != nil {
		row("error", m.err.Error())
	}

	if history := tail(m.volume.Series(), graphPoints); len(history) >= 2 {
		stats.WriteString(graphStyle.Render(
			asciigraph.Plot(history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("volume"))))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats.String()),
	)
	return body + helpStyle.Render("space pause/resume · n single frame · q quit")
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
