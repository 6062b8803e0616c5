package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *Graph {
	return NewGraph(
		[]Node{
			{ID: "a", Label: "A", Type: TypeAsset},
			{ID: "b", Label: "B", Type: TypeFacility},
		},
		[]Edge{{Source: "a", Target: "b", Type: "located_at"}},
	)
}

func TestValidateAcceptsWellFormedGraph(t *testing.T) {
	g := sampleGraph()
	require.NoError(t, g.Validate())
	assert.NotEmpty(t, g.ID)
}

func TestValidateRejectsDanglingEdge(t *testing.T) {
	g := sampleGraph()
	g.Edges = append(g.Edges, Edge{Source: "a", Target: "ghost", Type: "x"})

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGraph)
	assert.ErrorIs(t, err, ErrDanglingEdge)
	assert.Contains(t, err.Error(), "ghost")
}

func TestValidateRejectsDuplicateNode(t *testing.T) {
	g := sampleGraph()
	g.Nodes = append(g.Nodes, Node{ID: "a", Label: "again"})

	err := g.Validate()
	assert.ErrorIs(t, err, ErrInvalidGraph)
	assert.ErrorIs(t, err, ErrDuplicateNode)
}

func TestValidateRejectsEmptyIDs(t *testing.T) {
	g := NewGraph([]Node{{ID: ""}}, nil)
	assert.ErrorIs(t, g.Validate(), ErrInvalidGraph)

	var nilGraph *Graph
	assert.ErrorIs(t, nilGraph.Validate(), ErrInvalidGraph)
}

func TestSelfLoopIsValid(t *testing.T) {
	g := NewGraph([]Node{{ID: "a"}}, []Edge{{Source: "a", Target: "a", Type: "self"}})
	require.NoError(t, g.Validate())
	assert.True(t, g.Edges[0].SelfLoop())
	assert.Equal(t, 0, g.Degree()["a"])
}

func TestNewGraphIdentityIsUnique(t *testing.T) {
	assert.NotEqual(t, NewGraph(nil, nil).ID, NewGraph(nil, nil).ID)
}

func TestAddEdgeChecksEndpoints(t *testing.T) {
	g := NewGraph(nil, nil)
	require.NoError(t, g.AddNode(Node{ID: "a"}))
	assert.ErrorIs(t, g.AddNode(Node{ID: "a"}), ErrDuplicateNode)
	assert.ErrorIs(t, g.AddEdge(Edge{Source: "a", Target: "b"}), ErrDanglingEdge)
	require.NoError(t, g.AddNode(Node{ID: "b"}))
	require.NoError(t, g.AddEdge(Edge{Source: "a", Target: "b"}))
	assert.Len(t, g.FindOutgoingEdges("a"), 1)
	assert.Len(t, g.FindIncomingEdges("b"), 1)
}

func TestPaletteIsTotal(t *testing.T) {
	for _, typ := range KnownTypes() {
		assert.NotEqual(t, "", ColorFor(typ))
		assert.Greater(t, RadiusFor(typ), 0.0)
	}
	assert.Equal(t, DefaultColor, ColorFor("Spaceship"))
	assert.Equal(t, DefaultRadius, RadiusFor(""))
	assert.Equal(t, "#4285F4", ColorFor(TypeAsset))
}

func TestOntologyBuildGraph(t *testing.T) {
	o := Ontology{
		Entities: [][2]string{
			{"Pump 1", "Asset"},
			{"Plant A", "Facility"},
			{"Maintenance", "Department"},
		},
		Relationships: []Relationship{
			{Source: "Pump 1", Target: "Plant A", Type: "LOCATED_IN"},
			{Source: "Pump 1", Target: "Maintenance"},
			{Source: "WO_17", Target: "Pump 1", Type: "MAINTAINS"},
			{Source: "Pump 1", Target: "Plant A", Type: "PART_OF"},
		},
	}

	g := o.BuildGraph()
	require.NoError(t, g.Validate())
	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "entity_0", g.Nodes[0].ID)
	assert.Equal(t, TypeFacility, g.Nodes[1].Type)

	// unresolved WO_17 dropped, repeated pair overwritten
	require.Len(t, g.Edges, 2)
	assert.Equal(t, Edge{Source: "entity_0", Target: "entity_1", Type: "PART_OF"}, g.Edges[0])
	assert.Equal(t, DefaultRelationType, g.Edges[1].Type)
}
