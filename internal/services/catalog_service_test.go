package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/apresmonbac/orientation/internal/catalog"
	"github.com/apresmonbac/orientation/internal/logger"
	"github.com/apresmonbac/orientation/internal/metrics"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	failGet bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("redis down")
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.sets++
	c.data[key] = b
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func newCatalogFixture(t *testing.T, c *memCache) (CatalogService, *metrics.Metrics) {
	t.Helper()
	store, err := catalog.Load("")
	require.NoError(t, err)
	m := metrics.New()
	return NewCatalogService(store, c, time.Minute, logger.Discard(), m), m
}

func TestCatalogService_FilieresCached(t *testing.T) {
	c := newMemCache()
	svc, m := newCatalogFixture(t, c)
	ctx := context.Background()

	first := svc.Filieres(ctx, catalog.FiliereFilter{Category: "Santé"})
	second := svc.Filieres(ctx, catalog.FiliereFilter{Category: "Santé"})

	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.sets)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))

	// "Toutes" and "all" share the unfiltered entry
	svc.Filieres(ctx, catalog.FiliereFilter{Category: "Toutes"})
	svc.Filieres(ctx, catalog.FiliereFilter{Category: "all"})
	assert.Equal(t, 2, c.sets)
}

func TestCatalogService_CacheFailureFallsBack(t *testing.T) {
	c := newMemCache()
	c.failGet = true
	svc, _ := newCatalogFixture(t, c)

	got := svc.Filieres(context.Background(), catalog.FiliereFilter{})
	assert.Equal(t, 5, got.Total)
}

func TestCatalogService_NilCacheIsNoop(t *testing.T) {
	store, err := catalog.Load("")
	require.NoError(t, err)
	svc := NewCatalogService(store, nil, time.Minute, logger.Discard(), metrics.New())

	assert.Equal(t, 5, svc.Filieres(context.Background(), catalog.FiliereFilter{}).Total)
}

func TestCatalogService_Lookups(t *testing.T) {
	svc, _ := newCatalogFixture(t, newMemCache())
	ctx := context.Background()

	p, err := svc.Stage(ctx, "stage-2")
	require.NoError(t, err)
	assert.Equal(t, "Cabinet Fidès Audit", p.Company)

	_, err = svc.Stage(ctx, "stage-42")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	u, err := svc.University(ctx, "uac")
	require.NoError(t, err)
	assert.Equal(t, "universite-abomey-calavi", u.Slug)

	_, err = svc.University(ctx, "nope")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	d, err := svc.Filiere(ctx, "genie-civil")
	require.NoError(t, err)
	assert.Equal(t, []string{"uac"}, d.Universities)

	_, err = svc.Filiere(ctx, "nope")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
