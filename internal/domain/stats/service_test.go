package stats

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrec/api/internal/platform/apitest"
	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/cache"
)

type countingCounter struct {
	calls int
	err   error
}

func (c *countingCounter) Count(context.Context) (*Overview, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &Overview{
		Patients:             int64(c.calls),
		AppointmentsByStatus: map[string]int64{"SCHEDULED": 2},
	}, nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  time.Duration
	err  error
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (m *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (m *mapCache) Set(_ context.Context, key string, v []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = v
	m.ttl = ttl
	return nil
}

func (m *mapCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func TestService_CachesOverview(t *testing.T) {
	counter := &countingCounter{}
	c := newMapCache()
	svc := NewService(counter, c, time.Minute, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Overview(ctx)
	require.NoError(t, err)
	second, err := svc.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, counter.calls)
	assert.Equal(t, first.Patients, second.Patients)
	assert.Equal(t, int64(2), second.AppointmentsByStatus["SCHEDULED"])
	assert.Equal(t, time.Minute, c.ttl)

	refreshed, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), refreshed.Patients)

	cached, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cached.Patients, "refresh replaces the cached copy")
}

func TestService_ZeroTTLSkipsCache(t *testing.T) {
	counter := &countingCounter{}
	c := newMapCache()
	svc := NewService(counter, c, 0, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := svc.Overview(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, counter.calls)
	assert.Empty(t, c.data)
}

func TestService_CacheFailureIsNotFatal(t *testing.T) {
	var logs bytes.Buffer
	counter := &countingCounter{}
	c := newMapCache()
	c.err = errors.New("connection refused")
	svc := NewService(counter, c, time.Minute, zerolog.New(&logs))

	o, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.Patients)
	assert.Contains(t, logs.String(), "cache read failed")
	assert.Contains(t, logs.String(), "cache write failed")
}

func TestService_UnreadableEntryIsRecomputed(t *testing.T) {
	counter := &countingCounter{}
	c := newMapCache()
	c.data[cacheKey] = []byte("{not json")
	svc := NewService(counter, c, time.Minute, zerolog.Nop())

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, counter.calls)
}

func TestService_CounterError(t *testing.T) {
	svc := NewService(&countingCounter{err: errors.New("db down")}, nil, time.Minute, zerolog.Nop())
	_, err := svc.Overview(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestHandler_Overview(t *testing.T) {
	counter := &countingCounter{}
	srv := apitest.New()
	NewHandler(NewService(counter, newMapCache(), time.Minute, zerolog.Nop())).RegisterRoutes(srv.API)

	rec, _ := srv.Do(t, http.MethodGet, "/api/v1/stats", "", srv.Login(2, auth.RoleDoctor))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := srv.Login(1, auth.RoleAdmin)
	rec, env := srv.Do(t, http.MethodGet, "/api/v1/stats", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var o Overview
	env.Decode(t, &o)
	assert.Equal(t, int64(1), o.Patients)

	_, env = srv.Do(t, http.MethodGet, "/api/v1/stats?fresh=true", "", admin)
	env.Decode(t, &o)
	assert.Equal(t, int64(2), o.Patients)
	assert.Equal(t, 2, counter.calls)

	counter.err = errors.New("db down")
	rec, env = srv.Do(t, http.MethodGet, "/api/v1/stats?fresh=true", "", admin)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "could not compute statistics", env.Error)
}
