package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/TFMV/ontograph/models"
)

const graphSet = "ontograph:graphs"

// RedisStore is a GraphStore keeping each graph as a JSON value, with a set
// of ids for listing
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a connected client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// DialRedis connects to addr and checks the connection
func DialRedis(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", addr, err)
	}
	return NewRedisStore(client), nil
}

func (s *RedisStore) makeKey(id string) string {
	return fmt.Sprintf("ontograph:graph:%s", id)
}

// Put stores the graph, assigning an id when it has none
func (s *RedisStore) Put(ctx context.Context, g *models.Graph) error {
	g.EnsureID()
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.makeKey(g.ID), data, 0)
		pipe.SAdd(ctx, graphSet, g.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store graph %s: %w", g.ID, err)
	}
	return nil
}

// Get loads a graph by id
func (s *RedisStore) Get(ctx context.Context, id string) (*models.Graph, error) {
	data, err := s.client.Get(ctx, s.makeKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get graph %s: %w", id, err)
	}

	var g models.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph %s: %w", id, err)
	}
	// the id is not part of the payload
	g.ID = id
	return &g, nil
}

// Delete removes a graph; unknown ids are ignored
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.makeKey(id))
		pipe.SRem(ctx, graphSet, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete graph %s: %w", id, err)
	}
	return nil
}

// List returns the stored ids in sorted order
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, graphSet).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
