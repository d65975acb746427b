package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"interview-practice-service/internal/domain"
)

// PoolLoader fetches the question bank from a backing store (e.g., Postgres).
type PoolLoader interface {
	LoadPool(ctx context.Context) (domain.QuestionPool, error)
}

// QuestionRepository caches the question pool in Redis as a JSON blob and
// falls back to the loader on cache miss.
type QuestionRepository struct {
	client *redis.Client
	loader PoolLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader PoolLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const poolKey = "interview:questionbank"

func (r *QuestionRepository) Pool(ctx context.Context) (domain.QuestionPool, error) {
	if pool, ok := r.cached(ctx); ok {
		return pool, nil
	}

	result, err, _ := r.sf.Do(poolKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := r.cached(ctx); ok {
			return pool, nil
		}

		pool, err := r.loader.LoadPool(ctx)
		if err != nil {
			return domain.QuestionPool{}, err
		}

		if data, err := json.Marshal(pool); err == nil {
			_ = r.client.Set(ctx, poolKey, data, r.ttlWithJitter()).Err()
		}
		return pool, nil
	})
	if err != nil {
		return domain.QuestionPool{}, err
	}
	return result.(domain.QuestionPool), nil
}

func (r *QuestionRepository) cached(ctx context.Context) (domain.QuestionPool, bool) {
	data, err := r.client.Get(ctx, poolKey).Bytes()
	if err != nil || len(data) == 0 {
		return domain.QuestionPool{}, false
	}
	var pool domain.QuestionPool
	if err := json.Unmarshal(data, &pool); err != nil {
		return domain.QuestionPool{}, false
	}
	return pool, true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
