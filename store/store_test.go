package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/ontograph/models"
)

func runStoreTests(t *testing.T, s GraphStore) {
	ctx := context.Background()

	t.Run("PutGet", func(t *testing.T) {
		g := models.NewGraph(
			[]models.Node{{ID: "a", Label: "A", Type: models.TypeAsset}, {ID: "b"}},
			[]models.Edge{{Source: "a", Target: "b", Type: "LOCATED_IN"}},
		)
		require.NoError(t, s.Put(ctx, g))

		got, err := s.Get(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, g.ID, got.ID)
		assert.Equal(t, g.Nodes, got.Nodes)
		assert.Equal(t, g.Edges, got.Edges)
		require.NoError(t, got.Validate())
	})

	t.Run("AssignsID", func(t *testing.T) {
		g := &models.Graph{Nodes: []models.Node{{ID: "x"}}, Edges: []models.Edge{}}
		require.NoError(t, s.Put(ctx, g))
		assert.NotEmpty(t, g.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ListDelete", func(t *testing.T) {
		ids, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.IsIncreasing(t, ids)

		require.NoError(t, s.Delete(ctx, ids[0]))
		require.NoError(t, s.Delete(ctx, "missing"))
		_, err = s.Get(ctx, ids[0])
		assert.ErrorIs(t, err, ErrNotFound)

		left, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, ids[1:], left)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	g := models.NewGraph([]models.Node{{ID: "a"}}, nil)
	require.NoError(t, s.Put(ctx, g))

	g.Nodes[0].Label = "changed"
	got, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Nodes[0].Label)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client)
	defer s.Close()

	runStoreTests(t, s)
	assert.True(t, mr.Exists(graphSet))
}

func TestDialRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = DialRedis(context.Background(), addr)
	assert.Error(t, err)
}
