package export

import "context"

// migrate creates the graph tables. Edge endpoints reference nodes of the
// same graph and go away with them.
func (e *PostgresExporter) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kg_node (
		graph_id TEXT NOT NULL,
		node_id TEXT NOT NULL,
		label VARCHAR(255) NOT NULL,
		type VARCHAR(50) NOT NULL,
		properties JSONB,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (graph_id, node_id)
	);

	CREATE TABLE IF NOT EXISTS kg_edge (
		id BIGSERIAL PRIMARY KEY,
		graph_id TEXT NOT NULL,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		type VARCHAR(50) NOT NULL,
		properties JSONB,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		FOREIGN KEY (graph_id, source_id) REFERENCES kg_node (graph_id, node_id) ON DELETE CASCADE,
		FOREIGN KEY (graph_id, target_id) REFERENCES kg_node (graph_id, node_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_kg_node_label_type ON kg_node(label, type);
	CREATE INDEX IF NOT EXISTS idx_kg_node_type ON kg_node(type);
	CREATE INDEX IF NOT EXISTS idx_kg_edge_source_target ON kg_edge(source_id, target_id);
	CREATE INDEX IF NOT EXISTS idx_kg_edge_type ON kg_edge(type);
	`

	_, err := e.pool.Exec(ctx, schema)
	return err
}
