package jobs

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

// Status is the externally visible snapshot of a background job. It is kept in
// a keyed store so pollers see progress across processes and restarts.
type Status struct {
	ID        string    `json:"id"`
	State     State     `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updated_at"`
}

var ErrJobNotFound = errors.New("job not found")

type Store interface {
	Set(ctx context.Context, status Status) error
	Get(ctx context.Context, id string) (Status, error)
}

// Tracker hands out job IDs and persists status transitions.
type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

func (t *Tracker) Start(ctx context.Context) (string, error) {
	id := uuid.NewString()
	err := t.store.Set(ctx, Status{
		ID:        id,
		State:     StatePending,
		Progress:  0,
		Message:   "queued",
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (t *Tracker) Progress(ctx context.Context, id string, progress int, message string) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return t.store.Set(ctx, Status{
		ID:        id,
		State:     StateProcessing,
		Progress:  progress,
		Message:   message,
		UpdatedAt: time.Now(),
	})
}

func (t *Tracker) Complete(ctx context.Context, id string, message string) error {
	return t.store.Set(ctx, Status{
		ID:        id,
		State:     StateCompleted,
		Progress:  100,
		Message:   message,
		UpdatedAt: time.Now(),
	})
}

func (t *Tracker) Fail(ctx context.Context, id string, message string) error {
	return t.store.Set(ctx, Status{
		ID:        id,
		State:     StateError,
		Message:   message,
		UpdatedAt: time.Now(),
	})
}

func (t *Tracker) Get(ctx context.Context, id string) (Status, error) {
	return t.store.Get(ctx, id)
}

// MemoryStore is the single-process fallback when no Redis URL is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: map[string]Status{}}
}

func (s *MemoryStore) Set(_ context.Context, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[status.ID] = status
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.jobs[id]
	if !ok {
		return Status{}, ErrJobNotFound
	}
	return status, nil
}

const redisKeyPrefix = "jobs:status:"

// RedisStore keeps statuses visible across instances. Completed and failed
// jobs expire instead of being cleaned up explicitly.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Set(ctx context.Context, status Status) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+status.ID, payload, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (Status, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Status{}, ErrJobNotFound
	}
	if err != nil {
		return Status{}, err
	}
	var status Status
	if err := json.Unmarshal(payload, &status); err != nil {
		return Status{}, err
	}
	return status, nil
}
