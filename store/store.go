// Package store keeps uploaded graph payloads for the server. Layout state
// is never stored; a graph read back gets laid out from scratch.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/TFMV/ontograph/models"
)

// ErrNotFound is returned for ids the store does not hold
var ErrNotFound = errors.New("graph not found")

// GraphStore holds graphs by id
type GraphStore interface {
	Put(ctx context.Context, g *models.Graph) error
	Get(ctx context.Context, id string) (*models.Graph, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// MemoryStore is a GraphStore backed by a map
type MemoryStore struct {
	mu     sync.RWMutex
	graphs map[string]*models.Graph
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{graphs: make(map[string]*models.Graph)}
}

// Put stores a copy of the graph, assigning an id when it has none
func (s *MemoryStore) Put(_ context.Context, g *models.Graph) error {
	g.EnsureID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[g.ID] = clone(g)
	return nil
}

// Get returns a copy of the stored graph
func (s *MemoryStore) Get(_ context.Context, id string) (*models.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(g), nil
}

// Delete removes a graph; unknown ids are ignored
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, id)
	return nil
}

// List returns the stored ids in sorted order
func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.graphs))
	for id := range s.graphs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(g *models.Graph) *models.Graph {
	return &models.Graph{
		ID:    g.ID,
		Nodes: append([]models.Node{}, g.Nodes...),
		Edges: append([]models.Edge{}, g.Edges...),
	}
}
