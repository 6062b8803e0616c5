package render

import (
	"bytes"
	"fmt"
	"html"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders graphs as Scalable Vector Graphics (SVG) for high-quality vector output"
}

// Render creates an SVG representation of the scene
func (r *SVGRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" xmlns="http://www.w3.org/2000/svg" data-graph="%s">
<rect width="100%%" height="100%%" fill="%s"/>
`, scene.Width, scene.Height, scene.Width, scene.Height, html.EscapeString(scene.GraphID), options.Background)

	buf.WriteString(`<g class="edges">` + "\n")
	for _, e := range scene.Edges {
		if e.Loop != nil {
			fmt.Fprintf(&buf, `<circle class="loop" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>
`, e.Loop.Center.X, e.Loop.Center.Y, e.Loop.Radius, options.EdgeColor, options.EdgeWidth)
		} else {
			fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>
`, e.From.X, e.From.Y, e.To.X, e.To.Y, options.EdgeColor, options.EdgeWidth)
			fmt.Fprintf(&buf, `<polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s"/>
`, e.Arrow[0].X, e.Arrow[0].Y, e.Arrow[1].X, e.Arrow[1].Y, e.Arrow[2].X, e.Arrow[2].Y, options.EdgeColor)
		}

		if options.ShowEdgeLabels && e.Label.Text != "" {
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" fill="#666666" text-anchor="%s">%s</text>
`, e.Label.At.X, e.Label.At.Y, e.Label.Size, e.Label.Anchor, html.EscapeString(e.Label.Text))
		}
	}
	buf.WriteString("</g>\n")

	buf.WriteString(`<g class="nodes">` + "\n")
	for _, n := range scene.Nodes {
		stroke := "#ffffff"
		if n.Pinned {
			stroke = "#333333"
		}
		fmt.Fprintf(&buf, `<circle id="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="1.5"/>
`, html.EscapeString(n.ID), n.Center.X, n.Center.Y, n.Radius, n.Color, stroke)

		if options.ShowLabels && n.Label.Text != "" {
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" fill="#333333" text-anchor="%s" dominant-baseline="middle">%s</text>
`, n.Label.At.X, n.Label.At.Y, n.Label.Size, n.Label.Anchor, html.EscapeString(n.Label.Text))
		}
	}
	buf.WriteString("</g>\n")

	buf.WriteString(`</svg>`)
	return buf.Bytes(), nil
}
