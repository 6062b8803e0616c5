package models

import (
	"fmt"
)

// DefaultRelationType labels relationships extracted without a type
const DefaultRelationType = "relates_to"

// Relationship is an extracted, typed link between two entity texts
type Relationship struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Type   string `json:"type" yaml:"type"`
}

// Ontology is the extraction result of an uploaded sheet. Entities are
// [text, type] pairs, which is the shape the review UI edits.
type Ontology struct {
	Entities      [][2]string    `json:"entities" yaml:"entities"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
	Attributes    []string       `json:"attributes" yaml:"attributes"`
}

// BuildGraph turns a (possibly user-edited) ontology into a validated graph.
// Each entity becomes a node "entity_<n>"; a relationship connects the first
// nodes whose labels match its source and target and is dropped when either
// side is missing.
func (o Ontology) BuildGraph() *Graph {
	g := NewGraph(nil, nil)

	for _, entity := range o.Entities {
		node := Node{
			ID:    fmt.Sprintf("entity_%d", len(g.Nodes)),
			Label: entity[0],
			Type:  NodeType(entity[1]),
		}
		g.Nodes = append(g.Nodes, node)
	}

	firstByLabel := make(map[string]string, len(g.Nodes))
	for _, node := range g.Nodes {
		if _, ok := firstByLabel[node.Label]; !ok {
			firstByLabel[node.Label] = node.ID
		}
	}

	// A directed graph keeps one edge per ordered pair; a repeated
	// relationship overwrites the earlier type.
	pairIndex := make(map[[2]string]int)
	for _, rel := range o.Relationships {
		source, ok := firstByLabel[rel.Source]
		if !ok {
			continue
		}
		target, ok := firstByLabel[rel.Target]
		if !ok {
			continue
		}
		relType := rel.Type
		if relType == "" {
			relType = DefaultRelationType
		}
		key := [2]string{source, target}
		if i, dup := pairIndex[key]; dup {
			g.Edges[i].Type = relType
			continue
		}
		pairIndex[key] = len(g.Edges)
		g.Edges = append(g.Edges, Edge{Source: source, Target: target, Type: relType})
	}

	return g
}
