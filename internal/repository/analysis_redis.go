package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stockfish_harness/internal/domain"
)

const analysisKeyPrefix = "analysis:"

type RedisAnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAnalysisCache(client *redis.Client, ttl time.Duration) *RedisAnalysisCache {
	return &RedisAnalysisCache{
		client: client,
		ttl:    ttl,
	}
}

// GetAnalysis reports ok=false on a cache miss.
func (r *RedisAnalysisCache) GetAnalysis(ctx context.Context, key string) (domain.AnalysisRecord, bool, error) {
	data, err := r.client.Get(ctx, analysisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AnalysisRecord{}, false, nil
	}
	if err != nil {
		return domain.AnalysisRecord{}, false, fmt.Errorf("failed to read cached analysis: %w", err)
	}

	var rec domain.AnalysisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.AnalysisRecord{}, false, fmt.Errorf("failed to decode cached analysis: %w", err)
	}
	if rec.Result.Variations == nil {
		rec.Result.Variations = []domain.Variation{}
	}
	return rec, true, nil
}

func (r *RedisAnalysisCache) StoreAnalysis(ctx context.Context, key string, rec domain.AnalysisRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	if err := r.client.Set(ctx, analysisKeyPrefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache analysis: %w", err)
	}
	return nil
}
