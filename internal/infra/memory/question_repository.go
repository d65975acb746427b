package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"interview-practice-service/internal/domain"
)

// PoolLoader fetches the question bank from a backing store (e.g., Postgres).
type PoolLoader interface {
	LoadPool(ctx context.Context) (domain.QuestionPool, error)
}

// QuestionRepository caches the question pool with TTL to avoid repeated DB hits.
type QuestionRepository struct {
	loader PoolLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	pool      domain.QuestionPool
	expiresAt time.Time
}

func NewQuestionRepository(loader PoolLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) Pool(ctx context.Context) (domain.QuestionPool, error) {
	now := r.clock()

	r.mu.RLock()
	if r.expiresAt.After(now) {
		pool := r.pool
		r.mu.RUnlock()
		return pool, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("pool", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.expiresAt.After(now) {
			pool := r.pool
			r.mu.RUnlock()
			return pool, nil
		}
		r.mu.RUnlock()

		pool, err := r.loader.LoadPool(ctx)
		if err != nil {
			return domain.QuestionPool{}, err
		}

		r.mu.Lock()
		r.pool = pool
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return domain.QuestionPool{}, err
	}
	return result.(domain.QuestionPool), nil
}

// StaticPoolLoader is a loader backed by an in-memory pool (useful for
// tests/demos and for running without Postgres).
type StaticPoolLoader struct {
	pool domain.QuestionPool
}

func NewStaticPoolLoader(pool domain.QuestionPool) *StaticPoolLoader {
	return &StaticPoolLoader{pool: pool}
}

func (l *StaticPoolLoader) LoadPool(_ context.Context) (domain.QuestionPool, error) {
	return l.pool, nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
