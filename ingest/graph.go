package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/TFMV/ontograph/models"
)

// DecodeGraph parses a graph payload, either a bare {nodes, edges} object or
// one wrapped as {graph: {...}}, and validates it. The decoded graph gets a
// fresh identity.
func DecodeGraph(data []byte) (*models.Graph, error) {
	var probe struct {
		Graph json.RawMessage `json:"graph"`
		Nodes json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	payload := data
	if len(probe.Graph) > 0 && !bytes.Equal(probe.Graph, []byte("null")) && len(probe.Nodes) == 0 {
		payload = probe.Graph
	}

	var g models.Graph
	dec := json.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("error parsing graph: %w", err)
	}
	if g.Nodes == nil {
		g.Nodes = []models.Node{}
	}
	if g.Edges == nil {
		g.Edges = []models.Edge{}
	}
	g.ID = ""
	g.EnsureID()

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// DecodeOntology parses an ontology payload, bare or wrapped as {ontology: {...}}
func DecodeOntology(data []byte) (*models.Ontology, error) {
	var wrapped struct {
		Ontology *models.Ontology `json:"ontology"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	if wrapped.Ontology != nil {
		return wrapped.Ontology, nil
	}

	var o models.Ontology
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("error parsing ontology: %w", err)
	}
	return &o, nil
}
