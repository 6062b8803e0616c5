// Package models provides data structures for the ontograph application.
// It defines the knowledge-graph payload exchanged with the extraction service
// and consumed by the layout engine.
package models

import (
	"errors"

	"github.com/google/uuid"
)

// NodeType is the category tag of a node. The set is open: any string is a
// valid type, the constants below are the ones the extractor produces.
type NodeType string

const (
	TypeAsset       NodeType = "Asset"
	TypeFacility    NodeType = "Facility"
	TypeDepartment  NodeType = "Department"
	TypeWorkstation NodeType = "Workstation"
	TypePersonnel   NodeType = "Personnel"
	TypeOther       NodeType = "Other"
)

var (
	// ErrInvalidGraph is wrapped by every graph validation failure
	ErrInvalidGraph = errors.New("invalid graph")
	// ErrDuplicateNode reports two nodes sharing an id
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrDanglingEdge reports an edge endpoint that resolves to no node
	ErrDanglingEdge = errors.New("dangling edge reference")
)

// Node represents a node in the graph
type Node struct {
	ID    string   `json:"id" yaml:"id" validate:"required"`
	Label string   `json:"label" yaml:"label"`
	Type  NodeType `json:"type" yaml:"type"`
}

// Edge represents a directed edge between two nodes
type Edge struct {
	Source string `json:"source" yaml:"source" validate:"required"` // ID of the source node
	Target string `json:"target" yaml:"target" validate:"required"` // ID of the target node
	Type   string `json:"type" yaml:"type"`
}

// Graph represents a collection of nodes and edges.
// ID is the graph identity; a new ID means a new graph even when the
// contents are equal.
type Graph struct {
	ID    string `json:"-" yaml:"-"`
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" yaml:"edges" validate:"dive"`
}

// SelfLoop reports whether the edge starts and ends at the same node
func (e Edge) SelfLoop() bool {
	return e.Source == e.Target
}

// NewGraph creates a new graph with a unique identity
func NewGraph(nodes []Node, edges []Edge) *Graph {
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	return &Graph{
		ID:    uuid.New().String(),
		Nodes: nodes,
		Edges: edges,
	}
}

// EnsureID assigns an identity to a graph decoded from the wire
func (g *Graph) EnsureID() {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
}
