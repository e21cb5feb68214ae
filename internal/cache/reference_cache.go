// Package cache decorates the reference-data repositories with a redis
// read-through layer. Questions, personality types and career clusters
// change rarely, so a short TTL keeps Postgres out of the hot path
// without a real invalidation story.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"typeforge/internal/domain"
	"typeforge/internal/repository"
)

const (
	keyActiveQuestions  = "ref:questions:active"
	keyPersonalityTypes = "ref:types:all"
)

// redisGetSetter is the slice of the redis client the cache needs.
type redisGetSetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedQuestionRepository reads the active question set through redis.
// GetByID is a point lookup and always goes to the source.
type CachedQuestionRepository struct {
	source repository.QuestionRepository
	client redisGetSetter
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedQuestionRepository(source repository.QuestionRepository, client redisGetSetter, ttl time.Duration, logger *zap.Logger) *CachedQuestionRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedQuestionRepository{source: source, client: client, ttl: ttl, logger: logger}
}

func (r *CachedQuestionRepository) ListActive(ctx context.Context) ([]domain.Question, error) {
	var questions []domain.Question
	if hit := readThrough(ctx, r.client, keyActiveQuestions, &questions, r.logger); hit {
		return questions, nil
	}
	questions, err := r.source.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	writeThrough(ctx, r.client, keyActiveQuestions, questions, r.ttl, r.logger)
	return questions, nil
}

func (r *CachedQuestionRepository) GetByID(ctx context.Context, id string) (domain.Question, error) {
	return r.source.GetByID(ctx, id)
}

// CachedPersonalityTypeRepository reads the 16 type descriptions
// through redis. GetByCode filters the cached list before falling back.
type CachedPersonalityTypeRepository struct {
	source repository.PersonalityTypeRepository
	client redisGetSetter
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedPersonalityTypeRepository(source repository.PersonalityTypeRepository, client redisGetSetter, ttl time.Duration, logger *zap.Logger) *CachedPersonalityTypeRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedPersonalityTypeRepository{source: source, client: client, ttl: ttl, logger: logger}
}

func (r *CachedPersonalityTypeRepository) List(ctx context.Context) ([]domain.PersonalityType, error) {
	var types []domain.PersonalityType
	if hit := readThrough(ctx, r.client, keyPersonalityTypes, &types, r.logger); hit {
		return types, nil
	}
	types, err := r.source.List(ctx)
	if err != nil {
		return nil, err
	}
	writeThrough(ctx, r.client, keyPersonalityTypes, types, r.ttl, r.logger)
	return types, nil
}

func (r *CachedPersonalityTypeRepository) GetByCode(ctx context.Context, code string) (domain.PersonalityType, error) {
	var types []domain.PersonalityType
	if hit := readThrough(ctx, r.client, keyPersonalityTypes, &types, r.logger); hit {
		for _, t := range types {
			if t.Code == code {
				return t, nil
			}
		}
	}
	return r.source.GetByCode(ctx, code)
}

// readThrough loads key into dest, reporting whether it was a usable
// hit. Redis failures count as misses so the caller falls back to the
// source repository.
func readThrough(ctx context.Context, client redisGetSetter, key string, dest any, logger *zap.Logger) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil && logger != nil {
			logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		if logger != nil {
			logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return true
}

func writeThrough(ctx context.Context, client redisGetSetter, key string, value any, ttl time.Duration, logger *zap.Logger) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil && logger != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
