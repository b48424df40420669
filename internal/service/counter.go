package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"undangan/rsvphub/internal/repository"
)

// CounterCache keeps the public headcount in the state store for a short TTL.
// A zero TTL disables caching. State store failures fall through to the database.
type CounterCache struct {
	repo   repository.AttendanceRepository
	state  repository.StateStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewCounterCache(repo repository.AttendanceRepository, state repository.StateStore, ttl time.Duration, logger *zap.Logger) *CounterCache {
	return &CounterCache{repo: repo, state: state, ttl: ttl, logger: logger}
}

func (c *CounterCache) Get(ctx context.Context) (repository.Counter, error) {
	if c.ttl > 0 {
		raw, err := c.state.Get(ctx, repository.CounterKey)
		if err != nil {
			c.logger.Warn("read cached counter", zap.Error(err))
		} else if raw != nil {
			var cached repository.Counter
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	counter, err := c.repo.Counter(ctx)
	if err != nil {
		return repository.Counter{}, err
	}

	if c.ttl > 0 {
		raw, _ := json.Marshal(counter)
		if err := c.state.Set(ctx, repository.CounterKey, raw, c.ttl); err != nil {
			c.logger.Warn("cache counter", zap.Error(err))
		}
	}
	return counter, nil
}

func (c *CounterCache) Invalidate(ctx context.Context) {
	if err := c.state.Delete(ctx, repository.CounterKey); err != nil {
		c.logger.Warn("invalidate counter", zap.Error(err))
	}
}
