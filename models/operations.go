package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the graph invariants: node ids are present and unique and
// every edge endpoint resolves to a node of this graph.
func (g *Graph) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: graph is nil", ErrInvalidGraph)
	}
	if err := validate.Struct(g); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidGraph, formatValidationError(err))
	}

	seen := make(map[string]struct{}, len(g.Nodes))
	for _, node := range g.Nodes {
		if _, dup := seen[node.ID]; dup {
			return fmt.Errorf("%w: %w: %q", ErrInvalidGraph, ErrDuplicateNode, node.ID)
		}
		seen[node.ID] = struct{}{}
	}

	for i, edge := range g.Edges {
		if _, ok := seen[edge.Source]; !ok {
			return fmt.Errorf("%w: %w: edge %d source %q", ErrInvalidGraph, ErrDanglingEdge, i, edge.Source)
		}
		if _, ok := seen[edge.Target]; !ok {
			return fmt.Errorf("%w: %w: edge %d target %q", ErrInvalidGraph, ErrDanglingEdge, i, edge.Target)
		}
	}
	return nil
}

// Index maps node ids to their position in Nodes
func (g *Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, node := range g.Nodes {
		idx[node.ID] = i
	}
	return idx
}

// AddNode adds a node to the graph
func (g *Graph) AddNode(node Node) error {
	for _, n := range g.Nodes {
		if n.ID == node.ID {
			return fmt.Errorf("%w: %q", ErrDuplicateNode, node.ID)
		}
	}
	g.Nodes = append(g.Nodes, node)
	return nil
}

// AddEdge adds an edge to the graph after checking both endpoints exist
func (g *Graph) AddEdge(edge Edge) error {
	sourceExists, targetExists := false, false
	for _, node := range g.Nodes {
		if node.ID == edge.Source {
			sourceExists = true
		}
		if node.ID == edge.Target {
			targetExists = true
		}
		if sourceExists && targetExists {
			break
		}
	}

	if !sourceExists {
		return fmt.Errorf("%w: source node %q does not exist in the graph", ErrDanglingEdge, edge.Source)
	}
	if !targetExists {
		return fmt.Errorf("%w: target node %q does not exist in the graph", ErrDanglingEdge, edge.Target)
	}

	g.Edges = append(g.Edges, edge)
	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
