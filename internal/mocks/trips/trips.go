package trips

// Package trips contains hand-written test doubles for the trip board ports.

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rotalabs/viagens-ui/internal/core"
	"github.com/rotalabs/viagens-ui/internal/domain/model"
	"github.com/rotalabs/viagens-ui/internal/ports"
)

// Ensure compile-time conformance.
var (
	_ ports.TripAPI        = (*MockTripAPI)(nil)
	_ core.CacheRepository = (*MemoryCacheRepository)(nil)
)

// MockTripAPI simulates the remote viagens API. Each method delegates to the
// corresponding Func when set and records how many times it was called.
type MockTripAPI struct {
	ListFunc   func(ctx context.Context, token string) ([]model.Trip, error)
	CreateFunc func(ctx context.Context, token string, req model.CreateTripRequest) (model.Trip, error)
	DeleteFunc func(ctx context.Context, token string, id model.TripID) error

	ListCalls   int
	CreateCalls int
	DeleteCalls int
}

func (m *MockTripAPI) List(ctx context.Context, token string) ([]model.Trip, error) {
	m.ListCalls++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, token)
	}
	return []model.Trip{}, nil
}

func (m *MockTripAPI) Create(ctx context.Context, token string, req model.CreateTripRequest) (model.Trip, error) {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token, req)
	}
	return model.Trip{
		ID:            "created-1",
		Origin:        req.Origin,
		Destination:   req.Destination,
		Description:   req.Description,
		TransportMode: req.TransportMode,
	}, nil
}

func (m *MockTripAPI) Delete(ctx context.Context, token string, id model.TripID) error {
	m.DeleteCalls++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token, id)
	}
	return nil
}

// MemoryCacheRepository is an in-memory core.CacheRepository for unit tests.
// TTLs are honored coarsely via absolute deadlines.
type MemoryCacheRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCacheRepository creates an empty in-memory cache.
func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{entries: make(map[string]memoryEntry)}
}

func (m *MemoryCacheRepository) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	var deadline time.Time
	if ttl > 0 {
		deadline = time.Now().Add(ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: append([]byte(nil), value...), expiresAt: deadline}
	return nil
}

func (m *MemoryCacheRepository) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, nil
	}
	return append([]byte(nil), e.value...), nil
}

func (m *MemoryCacheRepository) Delete(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("key cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}

func (m *MemoryCacheRepository) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("key cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok, nil
}

func (m *MemoryCacheRepository) Health(_ context.Context) error { return nil }
