// Package tui is an interactive terminal view of a laid-out graph. The model
// drives its session by hand, one tick per frame message, so the session
// must not run its own loop.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TFMV/ontograph/interact"
	"github.com/TFMV/ontograph/physics"
	"github.com/TFMV/ontograph/render"
	"github.com/TFMV/ontograph/view"
	"github.com/TFMV/ontograph/viewport"
)

const (
	// panStep is how far an arrow key moves the view, in pixels
	panStep  = 40
	zoomStep = 1.25

	// mousePointer identifies the terminal mouse to the gesture router
	mousePointer = 1

	// the header line sits above the frame
	headerLines = 1
	footerLines = 2
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	frameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type frameMsg time.Time

// Model is the bubbletea model of one session
type Model struct {
	session  *view.Session
	title    string
	interval time.Duration

	grid    render.Grid
	frame   string
	stats   view.Stats
	gesture interact.Gesture
	paused  bool
	err     error

	keys keyMap
	help help.Model
}

// New creates a model over a session with a loaded graph
func New(session *view.Session, title string, interval time.Duration) Model {
	if interval <= 0 {
		interval = physics.DefaultInterval
	}
	m := Model{
		session:  session,
		title:    title,
		interval: interval,
		keys:     keys,
		help:     help.New(),
	}
	m.grid = render.NewGrid(session.RenderOptions())
	m.refresh()
	return m
}

// Init starts the frame clock
func (m Model) Init() tea.Cmd {
	return m.nextFrame()
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Update handles one message
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if !m.paused && !m.stats.Settled {
			if err := m.session.Step(); err != nil && !errors.Is(err, physics.ErrReentrantTick) {
				m.err = err
			}
		}
		m.refresh()
		return m, m.nextFrame()

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		m.refresh()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		err = m.session.PanBy(0, panStep)
	case key.Matches(msg, m.keys.Down):
		err = m.session.PanBy(0, -panStep)
	case key.Matches(msg, m.keys.Left):
		err = m.session.PanBy(panStep, 0)
	case key.Matches(msg, m.keys.Right):
		err = m.session.PanBy(-panStep, 0)
	case key.Matches(msg, m.keys.ZoomIn):
		err = m.session.ZoomAt(zoomStep, m.center())
	case key.Matches(msg, m.keys.ZoomOut):
		err = m.session.ZoomAt(1/zoomStep, m.center())
	case key.Matches(msg, m.keys.Reset):
		err = m.session.ResetView()
	case key.Matches(msg, m.keys.Reheat):
		err = m.session.Reheat()
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.err = err
	m.refresh()
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := m.grid.Point(msg.X, msg.Y-headerLines)

	var err error
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		err = m.session.Wheel(-1, p)
	case msg.Button == tea.MouseButtonWheelDown:
		err = m.session.Wheel(1, p)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.gesture, err = m.session.PointerDown(mousePointer, p)
	case msg.Action == tea.MouseActionMotion && m.gesture != interact.GestureNone:
		err = m.session.PointerMove(mousePointer, p)
	case msg.Action == tea.MouseActionRelease && m.gesture != interact.GestureNone:
		err = m.session.PointerUp(mousePointer, p)
		m.gesture = interact.GestureNone
	}
	m.err = err
}

// resize fits the frame to the terminal, leaving room for the header and
// footer
func (m *Model) resize(width, height int) {
	opts := m.session.RenderOptions()
	*opts = *render.GridOptions(opts, width, height-headerLines-footerLines)
	m.grid = render.NewGrid(opts)
}

func (m Model) center() viewport.Point {
	return viewport.Point{X: m.grid.Width / 2, Y: m.grid.Height / 2}
}

func (m *Model) refresh() {
	frame, err := m.session.Frame("ascii")
	if err != nil {
		m.err = err
		return
	}
	m.frame = strings.TrimRight(string(frame), "\n")
	if st, err := m.session.Stats(); err == nil {
		m.stats = st
	}
}

// View renders the header, the frame and the help line
func (m Model) View() string {
	var b strings.Builder

	state := okStyle.Render("settled")
	switch {
	case m.paused:
		state = subtleStyle.Render("paused")
	case !m.stats.Settled:
		state = fmt.Sprintf("alpha %.3f", m.stats.Alpha)
	}
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString(subtleStyle.Render(fmt.Sprintf("  %d nodes  %d edges  tick %d  zoom %.2f  ",
		m.stats.Nodes, m.stats.Edges, m.stats.Ticks, m.stats.Transform.K)))
	b.WriteString(state)
	b.WriteString("\n")

	b.WriteString(frameStyle.Render(m.frame))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Stats returns the session snapshot shown in the header
func (m Model) Stats() view.Stats {
	return m.stats
}

// Run shows the model full screen with mouse support until the user quits
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
