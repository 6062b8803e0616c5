package render

import (
	"math"
	"strings"

	"github.com/TFMV/ontograph/models"
)

const edgeRune = '·'

// nodeSymbols maps node types to the character drawn for them
var nodeSymbols = map[models.NodeType]rune{
	models.TypeAsset:       'O',
	models.TypeFacility:    '@',
	models.TypeDepartment:  '#',
	models.TypeWorkstation: 'X',
	models.TypePersonnel:   '*',
	models.TypeOther:       '+',
}

func symbolFor(t models.NodeType) rune {
	if r, ok := nodeSymbols[t]; ok {
		return r
	}
	return '+'
}

// Grid maps screen pixels to text cells. The outer ring of cells is the
// border, so the drawable area is one cell in from every side.
type Grid struct {
	Cols, Rows    int
	Width, Height float64
}

// NewGrid sizes a grid for the options: one column per 10 pixels and one row
// per 20, never smaller than 40x20
func NewGrid(options *OutputOptions) Grid {
	return Grid{
		Cols:   max(int(options.Width/10), 40),
		Rows:   max(int(options.Height/20), 20),
		Width:  options.Width,
		Height: options.Height,
	}
}

// GridOptions returns options whose ASCII grid is exactly cols x rows
func GridOptions(options *OutputOptions, cols, rows int) *OutputOptions {
	out := *options
	out.Format = "ascii"
	out.Width = float64(max(cols, 40) * 10)
	out.Height = float64(max(rows, 20) * 20)
	return &out
}

// Cell returns the cell holding a screen point, clamped to the drawable area
func (g Grid) Cell(p Point) (int, int) {
	col := int(math.Floor(p.X*float64(g.Cols-2)/g.Width)) + 1
	row := int(math.Floor(p.Y*float64(g.Rows-2)/g.Height)) + 1
	return clamp(col, 1, g.Cols-2), clamp(row, 1, g.Rows-2)
}

// Point returns the screen point at the center of a cell
func (g Grid) Point(col, row int) Point {
	return Point{
		X: (float64(col-1) + 0.5) * g.Width / float64(g.Cols-2),
		Y: (float64(row-1) + 0.5) * g.Height / float64(g.Rows-2),
	}
}

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders graphs as ASCII art for terminal or text-based output"
}

// Render creates an ASCII representation of the scene
func (r *ASCIIRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	g := NewGrid(options)
	width, height := g.Cols, g.Rows

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	// Draw a border around the graph
	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	for _, e := range scene.Edges {
		if e.Loop != nil {
			x, y := g.Cell(Point{X: e.Loop.Center.X, Y: e.Loop.Center.Y - e.Loop.Radius})
			grid[y][x] = edgeRune
			continue
		}
		x1, y1 := g.Cell(e.From)
		x2, y2 := g.Cell(e.To)
		drawLine(grid, x1, y1, x2, y2)
	}

	for _, n := range scene.Nodes {
		x, y := g.Cell(n.Center)
		sym := symbolFor(n.Type)
		if n.Pinned {
			sym = '%'
		}
		grid[y][x] = sym

		if options.ShowLabels && n.Label.Text != "" {
			col := x + 1
			for _, c := range n.Label.Text {
				if col >= width-1 {
					break
				}
				if grid[y][col] == ' ' || grid[y][col] == edgeRune {
					grid[y][col] = c
				}
				col++
			}
		}
	}

	if options.Title != "" && len(options.Title) < width-4 {
		for i, c := range options.Title {
			grid[0][i+2] = c
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}
	return []byte(result.String()), nil
}

// Draw a line on the ASCII grid using Bresenham's algorithm
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 0 && y1 < len(grid) && x1 >= 0 && x1 < len(grid[y1]) && grid[y1][x1] == ' ' {
			grid[y1][x1] = edgeRune
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}
