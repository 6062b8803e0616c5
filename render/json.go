package render

import (
	"encoding/json"
)

// JSONRenderer outputs the scene as JSON
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the scene as JSON for client-side drawing"
}

// Render marshals the scene
func (r *JSONRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	return json.MarshalIndent(scene, "", "  ")
}
