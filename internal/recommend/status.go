package recommend

import (
	"context"
	"sync"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
	"github.com/wheelhouse-quant/wheelhouse/pkg/redis"
)

// StatusStore is the injectable run-status registry. The pipeline writes
// through it after every ticker; pollers read eventually-consistent
// snapshots. Implementations must be safe for concurrent use.
type StatusStore interface {
	Put(ctx context.Context, status contracts.RunStatus) error
	Get(ctx context.Context, runID string) (*contracts.RunStatus, bool)
	Latest(ctx context.Context) (*contracts.RunStatus, bool)
}

// MemoryStatusStore keeps run status in process memory. Default for tests
// and single-node deployments.
type MemoryStatusStore struct {
	mu     sync.RWMutex
	runs   map[string]contracts.RunStatus
	latest string
}

// NewMemoryStatusStore creates an in-memory status store
func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{
		runs: make(map[string]contracts.RunStatus),
	}
}

// Put stores a run status snapshot
func (s *MemoryStatusStore) Put(ctx context.Context, status contracts.RunStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[status.RunID] = status
	s.latest = status.RunID
	return nil
}

// Get returns the status for a run ID
func (s *MemoryStatusStore) Get(ctx context.Context, runID string) (*contracts.RunStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.runs[runID]
	if !ok {
		return nil, false
	}
	return &status, true
}

// Latest returns the most recently updated run status
func (s *MemoryStatusStore) Latest(ctx context.Context) (*contracts.RunStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == "" {
		return nil, false
	}
	status, ok := s.runs[s.latest]
	if !ok {
		return nil, false
	}
	return &status, true
}

// RedisStatusStore keeps run status in redis with a TTL so status survives
// process restarts and is visible across nodes
type RedisStatusStore struct {
	cache *redis.Cache
}

// NewRedisStatusStore creates a redis-backed status store
func NewRedisStatusStore(cache *redis.Cache) *RedisStatusStore {
	return &RedisStatusStore{cache: cache}
}

const latestRunKey = "run:latest"

// Put stores a run status snapshot with TTL. The snapshot is written as
// given; timestamps come from the pipeline clock, never from here.
func (s *RedisStatusStore) Put(ctx context.Context, status contracts.RunStatus) error {
	if err := s.cache.Set(ctx, redis.RunStatusKey(status.RunID), status, redis.TTLRunState); err != nil {
		return err
	}
	return s.cache.Set(ctx, latestRunKey, status.RunID, redis.TTLRunState)
}

// Get returns the status for a run ID
func (s *RedisStatusStore) Get(ctx context.Context, runID string) (*contracts.RunStatus, bool) {
	var status contracts.RunStatus
	found, err := s.cache.Get(ctx, redis.RunStatusKey(runID), &status)
	if err != nil || !found {
		return nil, false
	}
	return &status, true
}

// Latest returns the most recently updated run status
func (s *RedisStatusStore) Latest(ctx context.Context) (*contracts.RunStatus, bool) {
	var runID string
	found, err := s.cache.Get(ctx, latestRunKey, &runID)
	if err != nil || !found {
		return nil, false
	}
	return s.Get(ctx, runID)
}
