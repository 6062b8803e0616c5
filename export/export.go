// Package export writes laid-out knowledge graphs to the external graph
// database.
package export

import (
	"context"
	"errors"

	"github.com/TFMV/ontograph/models"
)

// ErrNotConfigured is returned by exporters without a database behind them
var ErrNotConfigured = errors.New("export database not configured")

// Result is the outcome of one export
type Result struct {
	Exported bool `json:"exported"`
	Nodes    int  `json:"nodes"`
	Edges    int  `json:"edges"`
}

// Exporter writes a graph to an external store
type Exporter interface {
	Export(ctx context.Context, g *models.Graph) (Result, error)
}

// Disabled is the exporter used when no database URL is configured
type Disabled struct{}

// Export always fails with ErrNotConfigured
func (Disabled) Export(context.Context, *models.Graph) (Result, error) {
	return Result{}, ErrNotConfigured
}
