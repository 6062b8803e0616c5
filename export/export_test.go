package export

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/ontograph/models"
)

func sampleGraph() *models.Graph {
	return models.NewGraph(
		[]models.Node{
			{ID: "pump", Label: "Pump 7", Type: models.TypeAsset},
			{ID: "plant", Label: "North Plant", Type: models.TypeFacility},
		},
		[]models.Edge{{Source: "pump", Target: "plant", Type: "LOCATED_IN"}},
	)
}

func TestBuildBatch(t *testing.T) {
	g := sampleGraph()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	batch, err := buildBatch(g, now)
	require.NoError(t, err)

	// two deletes, two nodes, one edge
	require.Equal(t, 5, batch.Len())
	assert.Contains(t, batch.QueuedQueries[0].SQL, "DELETE FROM kg_edge")
	assert.Equal(t, []any{g.ID}, batch.QueuedQueries[1].Arguments)

	node := batch.QueuedQueries[2]
	assert.Contains(t, node.SQL, "INSERT INTO kg_node")
	assert.Equal(t, "pump", node.Arguments[1])
	assert.Equal(t, "Asset", node.Arguments[3])
	assert.JSONEq(t, `{"color":"#4285F4"}`, string(node.Arguments[4].([]byte)))

	edge := batch.QueuedQueries[4]
	assert.Contains(t, edge.SQL, "INSERT INTO kg_edge")
	assert.Equal(t, []any{g.ID, "pump", "plant", "LOCATED_IN", now}, edge.Arguments)
}

func TestDisabledExporter(t *testing.T) {
	_, err := Disabled{}.Export(context.Background(), sampleGraph())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewPostgresExporterBadURL(t *testing.T) {
	_, err := NewPostgresExporter(context.Background(), "://not-a-url")
	assert.Error(t, err)
}

// Runs against a real database when ONTOGRAPH_TEST_DATABASE_URL is set
func TestPostgresExporterIntegration(t *testing.T) {
	url := os.Getenv("ONTOGRAPH_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("ONTOGRAPH_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	e, err := NewPostgresExporter(ctx, url)
	require.NoError(t, err)
	defer e.Close()

	g := sampleGraph()
	for i := 0; i < 2; i++ {
		res, err := e.Export(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, Result{Exported: true, Nodes: 2, Edges: 1}, res)
	}

	nodes, edges, err := e.Count(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, nodes)
	assert.Equal(t, 1, edges)

	bad := models.NewGraph([]models.Node{{ID: "a"}}, []models.Edge{{Source: "a", Target: "ghost"}})
	_, err = e.Export(ctx, bad)
	assert.ErrorIs(t, err, models.ErrInvalidGraph)
}
