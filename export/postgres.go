package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TFMV/ontograph/models"
)

// PostgresExporter writes graphs to the kg_node and kg_edge tables. A graph
// is replaced as a whole: exporting the same id twice leaves one copy.
type PostgresExporter struct {
	pool *pgxpool.Pool
}

// NewPostgresExporter connects to databaseURL and creates the tables
func NewPostgresExporter(ctx context.Context, databaseURL string) (*PostgresExporter, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	e := &PostgresExporter{pool: pool}
	if err := e.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return e, nil
}

// Export writes the graph inside one transaction
func (e *PostgresExporter) Export(ctx context.Context, g *models.Graph) (Result, error) {
	if err := g.Validate(); err != nil {
		return Result{}, err
	}
	g.EnsureID()

	batch, err := buildBatch(g, time.Now().UTC())
	if err != nil {
		return Result{}, err
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to begin export: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return Result{}, fmt.Errorf("export statement %d failed: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to close export batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to commit export: %w", err)
	}
	return Result{Exported: true, Nodes: len(g.Nodes), Edges: len(g.Edges)}, nil
}

// Count returns the number of nodes and edges stored for a graph id
func (e *PostgresExporter) Count(ctx context.Context, graphID string) (int, int, error) {
	var nodes, edges int
	err := e.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM kg_node WHERE graph_id = $1),
			(SELECT count(*) FROM kg_edge WHERE graph_id = $1)
	`, graphID).Scan(&nodes, &edges)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count graph %s: %w", graphID, err)
	}
	return nodes, edges, nil
}

// Ping checks database connectivity
func (e *PostgresExporter) Ping(ctx context.Context) error {
	return e.pool.Ping(ctx)
}

// Close closes the connection pool
func (e *PostgresExporter) Close() error {
	e.pool.Close()
	return nil
}

func buildBatch(g *models.Graph, now time.Time) (*pgx.Batch, error) {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM kg_edge WHERE graph_id = $1`, g.ID)
	batch.Queue(`DELETE FROM kg_node WHERE graph_id = $1`, g.ID)

	for _, n := range g.Nodes {
		props, err := json.Marshal(map[string]any{"color": models.ColorFor(n.Type)})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal properties of %s: %w", n.ID, err)
		}
		batch.Queue(`
			INSERT INTO kg_node (graph_id, node_id, label, type, properties, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
		`, g.ID, n.ID, n.Label, string(n.Type), props, now)
	}

	for _, edge := range g.Edges {
		batch.Queue(`
			INSERT INTO kg_edge (graph_id, source_id, target_id, type, properties, created_at, updated_at)
			VALUES ($1, $2, $3, $4, '{}'::jsonb, $5, $5)
		`, g.ID, edge.Source, edge.Target, edge.Type, now)
	}
	return batch, nil
}
