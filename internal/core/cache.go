// Package core provides the cache-facing business logic for the viagens UI.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotalabs/viagens-ui/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
// This follows the hexagonal architecture pattern where the core defines interfaces
// and the data layer provides implementations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// BoardCacheService persists each session's trip board between requests.
// The board is display state only; losing it simply forces a fresh list
// fetch, so decode failures are treated as a cache miss rather than an error.
type BoardCacheService struct {
	cache CacheRepository
	ttl   time.Duration
}

// BoardCacheConfig holds configuration for board caching.
type BoardCacheConfig struct {
	TTL time.Duration `json:"ttl"`
}

// DefaultBoardCacheConfig returns a BoardCacheConfig with sensible defaults.
func DefaultBoardCacheConfig() BoardCacheConfig {
	return BoardCacheConfig{
		TTL: 30 * time.Minute,
	}
}

// NewBoardCacheService creates a new BoardCacheService.
func NewBoardCacheService(cache CacheRepository, cfg BoardCacheConfig) *BoardCacheService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultBoardCacheConfig().TTL
	}
	return &BoardCacheService{
		cache: cache,
		ttl:   cfg.TTL,
	}
}

// Get retrieves the cached board for a session. Returns nil when no board is
// cached or the cached bytes no longer decode.
func (s *BoardCacheService) Get(ctx context.Context, sessionID string) (*model.Board, error) {
	if sessionID == "" {
		return nil, nil
	}

	data, err := s.cache.Get(ctx, s.boardKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var board model.Board
	if err := json.Unmarshal(data, &board); err != nil {
		// Stale encoding from an older build; treat as a miss.
		return nil, nil
	}
	return &board, nil
}

// Save stores the board for a session, refreshing its TTL.
func (s *BoardCacheService) Save(ctx context.Context, sessionID string, board *model.Board) error {
	if sessionID == "" || board == nil {
		return nil
	}

	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	if err := s.cache.Set(ctx, s.boardKey(sessionID), data, s.ttl); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}

// Invalidate drops the cached board for a session. Called on logout so the
// next login starts from a fresh fetch.
func (s *BoardCacheService) Invalidate(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if _, err := s.cache.Delete(ctx, s.boardKey(sessionID)); err != nil {
		return fmt.Errorf("invalidate board: %w", err)
	}
	return nil
}

// boardKey generates the cache key for a session's board.
func (s *BoardCacheService) boardKey(sessionID string) string {
	return "board:" + sessionID
}
