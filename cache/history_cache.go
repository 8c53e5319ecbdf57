package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"DriftFM/model"

	"github.com/go-redis/redis/v8"
)

// HistoryKey is the single well-known key the play history lives under.
// The value is a raw JSON array of tracks, most recent first, with no
// schema version tag; rehydration reads it back verbatim.
const HistoryKey = "player:history"

// RedisHistoryStore persists the play history in Redis.
type RedisHistoryStore struct{}

// NewRedisHistoryStore returns a store backed by the global Redis client.
func NewRedisHistoryStore() *RedisHistoryStore {
	return &RedisHistoryStore{}
}

// Save writes the full history under HistoryKey.
func (s *RedisHistoryStore) Save(ctx context.Context, tracks []model.Track) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	payload, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := RedisClient.Set(ctx, HistoryKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// Load reads the history back; a missing key yields an empty history.
func (s *RedisHistoryStore) Load(ctx context.Context) ([]model.Track, error) {
	if RedisClient == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	payload, err := RedisClient.Get(ctx, HistoryKey).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.Track{}, nil
		}
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var tracks []model.Track
	if err := json.Unmarshal([]byte(payload), &tracks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return tracks, nil
}
