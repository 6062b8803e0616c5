package render

import (
	"bytes"
	"fmt"
)

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders graph in Graphviz DOT format for compatibility with Graphviz tools"
}

// Render creates a DOT representation of the scene. Node positions are pinned
// with pos="x,y!" in points, y flipped to Graphviz's upward axis.
func (r *DOTRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%q, size=\"%.2f,%.2f\"];\n",
		options.Background, scene.Width/72.0, scene.Height/72.0)
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fontname=\"Arial\", fontsize=%.1f];\n",
		options.FontSize)
	fmt.Fprintf(&buf, "  edge [fontname=\"Arial\", fontsize=%.1f, color=%q];\n",
		options.FontSize*0.8, options.EdgeColor)

	for _, n := range scene.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, width=%.2f, pos=\"%.2f,%.2f!\"];\n",
			n.ID, n.Label.Text, n.Color, 2*n.Radius/72.0, n.Center.X, scene.Height-n.Center.Y)
	}

	for _, e := range scene.Edges {
		if e.Type != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Type)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
