package stats

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/medrec/api/internal/platform/cache"
)

const cacheKey = "medrec:stats:overview"

// Service serves overviews through a cache. Cache failures are logged and
// the overview is computed directly.
type Service struct {
	counter Counter
	cache   cache.Cache
	ttl     time.Duration
	log     zerolog.Logger
}

// NewService returns a Service. A ttl of zero disables caching.
func NewService(counter Counter, c cache.Cache, ttl time.Duration, log zerolog.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{counter: counter, cache: c, ttl: ttl, log: log}
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	if s.ttl > 0 {
		if o, ok := s.cached(ctx); ok {
			return o, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the overview and replaces any cached copy.
func (s *Service) Refresh(ctx context.Context) (*Overview, error) {
	o, err := s.counter.Count(ctx)
	if err != nil {
		return nil, err
	}

	if s.ttl > 0 {
		raw, err := json.Marshal(o)
		if err == nil {
			err = s.cache.Set(ctx, cacheKey, raw, s.ttl)
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("stats: cache write failed")
		}
	}
	return o, nil
}

func (s *Service) cached(ctx context.Context) (*Overview, bool) {
	raw, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn().Err(err).Msg("stats: cache read failed")
		}
		return nil, false
	}

	var o Overview
	if err := json.Unmarshal(raw, &o); err != nil {
		s.log.Warn().Err(err).Msg("stats: discarding unreadable cache entry")
		return nil, false
	}
	return &o, true
}
