package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/model"
	"github.com/scottkoons/the-social-studio-sub000/internal/domain/validate"
	"github.com/scottkoons/the-social-studio-sub000/pkg/metrics"
)

const defaultShardCount = 8

type shard struct {
	mu      sync.RWMutex
	records map[string]Record
}

// MemStore is a sharded in-memory Store. Sharding keeps lock contention
// low when many preview requests land concurrently.
type MemStore struct {
	shards []*shard
}

// NewMemStore creates an in-memory plan store.
func NewMemStore(_ context.Context, opts ...Option) *MemStore {
	cfg := storeConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &MemStore{shards: make([]*shard, cfg.shardCount)}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]Record)}
	}
	return s
}

func (s *MemStore) shardFor(planID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(planID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Create inserts a new record.
func (s *MemStore) Create(ctx context.Context, rec Record) error {
	sh := s.shardFor(rec.PlanID)
	sh.mu.Lock()
	if _, exists := sh.records[rec.PlanID]; exists {
		sh.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrExists, rec.PlanID)
	}
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now().UTC()
	}
	sh.records[rec.PlanID] = rec
	sh.mu.Unlock()

	metrics.UpdateStoredPlans(s.Count(ctx))
	return nil
}

// Complete transitions a record to StatusComplete.
func (s *MemStore) Complete(_ context.Context, planID string, plan model.SchedulePlan) error {
	return s.transition(planID, func(rec *Record) {
		rec.Status = StatusComplete
		rec.Plan = plan
		rec.Issues = nil
		rec.CompletedAt = time.Now().UTC()
	})
}

// Fail transitions a record to StatusFailed.
func (s *MemStore) Fail(_ context.Context, planID string, issues []validate.Issue) error {
	return s.transition(planID, func(rec *Record) {
		rec.Status = StatusFailed
		rec.Issues = issues
		rec.CompletedAt = time.Now().UTC()
	})
}

func (s *MemStore) transition(planID string, apply func(*Record)) error {
	sh := s.shardFor(planID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, exists := sh.records[planID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, planID)
	}
	apply(&rec)
	sh.records[planID] = rec
	return nil
}

// Get returns a record by id.
func (s *MemStore) Get(_ context.Context, planID string) (Record, error) {
	sh := s.shardFor(planID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	rec, exists := sh.records[planID]
	if !exists {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, planID)
	}
	return rec, nil
}

// Delete removes a record if present.
func (s *MemStore) Delete(ctx context.Context, planID string) {
	sh := s.shardFor(planID)
	sh.mu.Lock()
	delete(sh.records, planID)
	sh.mu.Unlock()
	metrics.UpdateStoredPlans(s.Count(ctx))
}

// Count returns the number of records across all shards.
func (s *MemStore) Count(_ context.Context) int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.records)
		sh.mu.RUnlock()
	}
	return n
}
