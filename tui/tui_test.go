package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/ontograph/interact"
	"github.com/TFMV/ontograph/models"
	"github.com/TFMV/ontograph/view"
)

func newModel(t *testing.T) (Model, *view.Session) {
	t.Helper()
	s := view.NewSession(view.DefaultConfig())
	t.Cleanup(s.Close)
	g := models.NewGraph(
		[]models.Node{
			{ID: "pump", Label: "Pump", Type: models.TypeAsset},
			{ID: "plant", Label: "Plant", Type: models.TypeFacility},
		},
		[]models.Edge{{Source: "pump", Target: "plant", Type: "LOCATED_IN"}},
	)
	require.NoError(t, s.Load(g))
	m := New(s, "test graph", time.Millisecond)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 33})
	return next.(Model), s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestFramesAdvanceLayout(t *testing.T) {
	m, _ := newModel(t)
	require.NotNil(t, m.Init())

	for i := 0; i < 3; i++ {
		next, cmd := m.Update(frameMsg(time.Now()))
		m = next.(Model)
		assert.NotNil(t, cmd, "the frame clock keeps running")
	}
	assert.Equal(t, 3, m.Stats().Ticks)

	out := m.View()
	assert.Contains(t, out, "test graph")
	assert.Contains(t, out, "2 nodes")
	lines := strings.Split(m.frame, "\n")
	assert.Len(t, lines, 30, "the frame fills the terminal minus header and footer")
	assert.Len(t, []rune(lines[0]), 80)
}

func TestPauseStopsTicks(t *testing.T) {
	m, _ := newModel(t)
	m = update(t, m, runes("p"))
	m = update(t, m, frameMsg(time.Now()))
	assert.Equal(t, 0, m.Stats().Ticks)
	assert.Contains(t, m.View(), "paused")

	m = update(t, m, runes("p"))
	m = update(t, m, frameMsg(time.Now()))
	assert.Equal(t, 1, m.Stats().Ticks)
}

func TestKeysMoveView(t *testing.T) {
	m, _ := newModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, float64(panStep), m.Stats().Transform.X)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, float64(panStep), m.Stats().Transform.Y)

	m = update(t, m, runes("+"))
	assert.InDelta(t, zoomStep, m.Stats().Transform.K, 1e-9)
	m = update(t, m, runes("-"))
	m = update(t, m, runes("-"))
	assert.InDelta(t, 1/zoomStep, m.Stats().Transform.K, 1e-9)

	m = update(t, m, runes("r"))
	assert.Equal(t, 1.0, m.Stats().Transform.K)
	assert.Equal(t, 0.0, m.Stats().Transform.X)
}

func TestReheatWakesSettledLayout(t *testing.T) {
	m, s := newModel(t)
	_, err := s.Settle(1000)
	require.NoError(t, err)
	m = update(t, m, frameMsg(time.Now()))
	require.True(t, m.Stats().Settled)
	ticks := m.Stats().Ticks

	m = update(t, m, frameMsg(time.Now()))
	assert.Equal(t, ticks, m.Stats().Ticks, "a settled layout is not stepped")

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.Stats().Settled)
	m = update(t, m, frameMsg(time.Now()))
	assert.Equal(t, ticks+1, m.Stats().Ticks)
}

func TestMouseDragsNode(t *testing.T) {
	m, s := newModel(t)
	_, err := s.Settle(1000)
	require.NoError(t, err)

	frame, err := s.Scene()
	require.NoError(t, err)
	var col, row int
	found := false
	for _, n := range frame.Scene.Nodes {
		if n.Center.X > 0 && n.Center.X < m.grid.Width && n.Center.Y > 0 && n.Center.Y < m.grid.Height {
			col, row = m.grid.Cell(n.Center)
			found = true
			break
		}
	}
	require.True(t, found, "a node is on screen")

	m = update(t, m, tea.MouseMsg{X: col, Y: row + headerLines, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, interact.GestureDrag, m.gesture)
	assert.Equal(t, 1, m.Stats().Dragging)
	assert.Contains(t, m.frame, "%", "pinned nodes are marked")

	m = update(t, m, tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, interact.GestureNone, m.gesture)
	assert.Equal(t, 0, m.Stats().Dragging)
}

func TestMouseWheelZooms(t *testing.T) {
	m, _ := newModel(t)
	m = update(t, m, tea.MouseMsg{X: 40, Y: 15, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.Greater(t, m.Stats().Transform.K, 1.0)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
