package render

import (
	"fmt"
	"strings"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format         string  // Output format (svg, ascii, json, dot)
	Width          float64 // Width of the output in screen pixels
	Height         float64 // Height of the output in screen pixels
	Background     string  // Background color
	EdgeColor      string  // Stroke color of edges and arrowheads
	EdgeWidth      float64 // Stroke width of edges
	ArrowSize      float64 // Arrowhead length at scale 1
	FontSize       float64 // Font size for labels
	LabelGap       float64 // Distance between a disc and its label
	ShowLabels     bool    // Show node labels
	ShowEdgeLabels bool    // Show edge labels
	Title          string  // Caption drawn by the text renderers
}

// Renderer encodes a scene in one output format
type Renderer interface {
	// Render encodes the scene using the provided options
	Render(scene *Scene, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:         format,
		Width:          800,
		Height:         600,
		Background:     "#f8f8f8",
		EdgeColor:      "#999999",
		EdgeWidth:      1.5,
		ArrowSize:      10,
		FontSize:       12,
		LabelGap:       4,
		ShowLabels:     true,
		ShowEdgeLabels: true,
		Title:          "ontograph",
	}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Formats lists the supported output formats
func Formats() []string {
	return []string{"svg", "ascii", "json", "dot"}
}

// Encode renders a scene in the format named by the options
func Encode(scene *Scene, options *OutputOptions) ([]byte, error) {
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	return renderer.Render(scene, options)
}

// Clamp a value between min and max
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
