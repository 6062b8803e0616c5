package render

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/ontograph/models"
	"github.com/TFMV/ontograph/physics"
	"github.com/TFMV/ontograph/viewport"
)

func testGraph() (*models.Graph, []physics.Body) {
	g := models.NewGraph(
		[]models.Node{
			{ID: "pump", Label: "Pump 7", Type: models.TypeAsset},
			{ID: "plant", Label: "North Plant", Type: models.TypeFacility},
		},
		[]models.Edge{
			{Source: "pump", Target: "plant", Type: "LOCATED_IN"},
			{Source: "pump", Target: "pump", Type: "SELF"},
		},
	)
	bodies := []physics.Body{
		{ID: "pump", Type: models.TypeAsset, X: 100, Y: 100, Radius: models.RadiusFor(models.TypeAsset)},
		{ID: "plant", Type: models.TypeFacility, X: 300, Y: 100, Radius: models.RadiusFor(models.TypeFacility)},
	}
	return g, bodies
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestBuildSceneGeometry(t *testing.T) {
	g, bodies := testGraph()
	scene := BuildScene(g, bodies, viewport.Identity, NewDefaultOptions("svg"))

	require.Len(t, scene.Nodes, 2)
	require.Len(t, scene.Edges, 2)
	assert.Equal(t, g.ID, scene.GraphID)

	pump, plant := scene.Nodes[0], scene.Nodes[1]
	assert.Equal(t, "#4285F4", pump.Color)
	assert.Equal(t, 20.0, pump.Radius)
	assert.Equal(t, 26.0, plant.Radius)
	assert.Equal(t, "Pump 7", pump.Label.Text)
	assert.Greater(t, pump.Label.At.X, pump.Center.X+pump.Radius)

	e := scene.Edges[0]
	assert.InDelta(t, pump.Radius, dist(e.From, pump.Center), 1e-9)
	assert.InDelta(t, plant.Radius, dist(e.To, plant.Center), 1e-9)
	// arrow tip touches the target disc and points at it
	assert.InDelta(t, plant.Radius, dist(e.Arrow[0], plant.Center), 1e-9)
	assert.Less(t, dist(e.Arrow[0], plant.Center), dist(e.Arrow[1], plant.Center))
	assert.Equal(t, "LOCATED_IN", e.Label.Text)
	assert.InDelta(t, 200-3, e.Label.At.X, 1e-9)
	assert.Nil(t, e.Loop)

	loop := scene.Edges[1]
	require.NotNil(t, loop.Loop)
	assert.Equal(t, "SELF", loop.Label.Text)
}

func TestBuildSceneAppliesTransform(t *testing.T) {
	g, bodies := testGraph()
	tr := viewport.Transform{K: 2, X: -50, Y: 10}
	scene := BuildScene(g, bodies, tr, NewDefaultOptions("svg"))

	assert.Equal(t, Point{X: 150, Y: 210}, scene.Nodes[0].Center)
	assert.Equal(t, 40.0, scene.Nodes[0].Radius)
	assert.Equal(t, tr, scene.Transform)
}

func TestBuildScenePure(t *testing.T) {
	g, bodies := testGraph()
	opts := NewDefaultOptions("svg")
	a := BuildScene(g, bodies, viewport.Identity, opts)
	b := BuildScene(g, bodies, viewport.Identity, opts)
	assert.Equal(t, a, b)
}

func TestSceneRendererRebuildsOnChangedNodes(t *testing.T) {
	g, bodies := testGraph()
	r := NewSceneRenderer(NewDefaultOptions("svg"))
	r.Draw(g, bodies, viewport.Identity)

	// same graph, same id, one more node
	require.NoError(t, g.AddNode(models.Node{ID: "dana", Type: models.TypePersonnel}))
	bodies = append(bodies, physics.Body{ID: "dana", Type: models.TypePersonnel, X: 200, Y: 200, Radius: 16})
	f := r.Draw(g, bodies, viewport.Identity)
	assert.True(t, f.Rebuilt)
	require.Len(t, f.Scene.Nodes, 3)
	assert.Equal(t, "dana", f.Scene.Nodes[2].Label.Text)

	// a distinct graph value sharing the id
	twin := &models.Graph{ID: g.ID, Nodes: g.Nodes[:1], Edges: []models.Edge{}}
	f = r.Draw(twin, bodies[:1], viewport.Identity)
	assert.True(t, f.Rebuilt)
	assert.Len(t, f.Scene.Nodes, 1)
	assert.Empty(t, f.Scene.Edges)
}

func TestSceneRendererRebuildsOnNewGraph(t *testing.T) {
	g, bodies := testGraph()
	r := NewSceneRenderer(NewDefaultOptions("svg"))

	f := r.Draw(g, bodies, viewport.Identity)
	assert.True(t, f.Rebuilt)
	f = r.Draw(g, bodies, viewport.Identity)
	assert.False(t, f.Rebuilt)

	// same content, new identity
	g2 := models.NewGraph(g.Nodes, g.Edges)
	f = r.Draw(g2, bodies, viewport.Identity)
	assert.True(t, f.Rebuilt)
	assert.Equal(t, g2.ID, f.Scene.GraphID)

	r.Reset()
	assert.True(t, r.Draw(g2, bodies, viewport.Identity).Rebuilt)
	assert.Equal(t, 4, r.Frames())
}

func TestSceneRendererIdempotent(t *testing.T) {
	g, bodies := testGraph()
	for _, format := range Formats() {
		t.Run(format, func(t *testing.T) {
			opts := NewDefaultOptions(format)
			r := NewSceneRenderer(opts)
			first := r.Draw(g, bodies, viewport.Identity)
			second := r.Draw(g, bodies, viewport.Identity)

			a, err := Encode(&first.Scene, opts)
			require.NoError(t, err)
			b, err := Encode(&second.Scene, opts)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		})
	}
}

func TestGetRendererUnknown(t *testing.T) {
	_, err := GetRenderer("webgl")
	assert.Error(t, err)

	r, err := GetRenderer("SVG")
	require.NoError(t, err)
	assert.Equal(t, "SVG Renderer", r.Name())
	assert.NotEmpty(t, r.Description())
}

func TestSVGOutput(t *testing.T) {
	g, bodies := testGraph()
	g.Nodes[0].Label = "Pump <7>"
	opts := NewDefaultOptions("svg")
	scene := BuildScene(g, bodies, viewport.Identity, opts)

	out, err := Encode(&scene, opts)
	require.NoError(t, err)
	svg := string(out)
	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Equal(t, 1, strings.Count(svg, "<line "))
	assert.Equal(t, 1, strings.Count(svg, "<polygon "))
	assert.Equal(t, 1, strings.Count(svg, `class="loop"`))
	assert.Contains(t, svg, `id="pump"`)
	assert.Contains(t, svg, "Pump &lt;7&gt;")
	assert.Contains(t, svg, "LOCATED_IN")
	assert.Contains(t, svg, `fill="#34A853"`)

	opts.ShowLabels = false
	opts.ShowEdgeLabels = false
	out, err = Encode(&scene, opts)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<text")
}

func TestASCIIOutput(t *testing.T) {
	g, bodies := testGraph()
	opts := NewDefaultOptions("ascii")
	scene := BuildScene(g, bodies, viewport.Identity, opts)

	out, err := Encode(&scene, opts)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	grid := NewGrid(opts)
	require.Len(t, lines, grid.Rows)
	for _, l := range lines {
		assert.Equal(t, grid.Cols, len([]rune(l)))
	}

	col, row := grid.Cell(scene.Nodes[0].Center)
	assert.Equal(t, 'O', []rune(lines[row])[col])
	col, row = grid.Cell(scene.Nodes[1].Center)
	assert.Equal(t, '@', []rune(lines[row])[col])
	assert.Contains(t, string(out), "Pump 7")
	assert.Contains(t, string(out), string(edgeRune))
}

func TestGridRoundTrip(t *testing.T) {
	grid := NewGrid(GridOptions(NewDefaultOptions("svg"), 100, 30))
	assert.Equal(t, 100, grid.Cols)
	assert.Equal(t, 30, grid.Rows)

	for _, cell := range [][2]int{{1, 1}, {10, 5}, {98, 28}} {
		col, row := grid.Cell(grid.Point(cell[0], cell[1]))
		assert.Equal(t, cell[0], col)
		assert.Equal(t, cell[1], row)
	}

	col, row := grid.Cell(Point{X: -500, Y: 1e6})
	assert.Equal(t, 1, col)
	assert.Equal(t, 28, row)
}

func TestJSONOutput(t *testing.T) {
	g, bodies := testGraph()
	opts := NewDefaultOptions("json")
	scene := BuildScene(g, bodies, viewport.Identity, opts)

	out, err := Encode(&scene, opts)
	require.NoError(t, err)

	var decoded Scene
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, scene.GraphID, decoded.GraphID)
	assert.Len(t, decoded.Nodes, 2)
	assert.Equal(t, "LOCATED_IN", decoded.Edges[0].Type)
}

func TestDOTOutput(t *testing.T) {
	g, bodies := testGraph()
	opts := NewDefaultOptions("dot")
	scene := BuildScene(g, bodies, viewport.Identity, opts)

	out, err := Encode(&scene, opts)
	require.NoError(t, err)
	dot := string(out)
	assert.True(t, strings.HasPrefix(dot, "digraph G {"))
	assert.Contains(t, dot, `"pump" -> "plant" [label="LOCATED_IN"];`)
	assert.Contains(t, dot, `"plant" [label="North Plant"`)
}
