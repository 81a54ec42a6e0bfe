package catalogcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref/internal/db"
	"github.com/kailas-cloud/chartref/internal/domain/airac"
	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/metrics"
)

const (
	keyPrefix = "chartref:catalog:"
	// localTTL bounds how long a listing is served from the client-side cache.
	localTTL = time.Minute
)

// store is the consumer interface for the catalog cache (ISP).
type store interface {
	GetCached(ctx context.Context, key string, localTTL time.Duration) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) (int, error)
	DeleteMatching(ctx context.Context, pattern string) (int, error)
	HSetWithTTL(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
}

// upstream supplies fresh catalog listings.
type upstream interface {
	Charts(ctx context.Context, airport string, opts catalog.FetchOptions) ([]catalog.Entry, error)
	Procedures(ctx context.Context, opts catalog.FetchOptions) ([]catalog.Entry, error)
}

// Listing describes one cached listing.
type Listing struct {
	Cycle     string
	Name      string
	FetchedAt time.Time
}

// Cache is a read-through catalog cache keyed by AIRAC cycle.
type Cache struct {
	inner  upstream
	store  store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// New creates a caching decorator. ttl bounds listing age; it is further
// capped at the end of the current AIRAC cycle.
func New(inner upstream, s store, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		inner:  inner,
		store:  s,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Charts returns the chart listing of one airport.
func (c *Cache) Charts(ctx context.Context, airport string, opts catalog.FetchOptions) ([]catalog.Entry, error) {
	name := "charts:" + strings.ToUpper(strings.TrimSpace(airport))
	return c.load(ctx, name, opts, func() ([]catalog.Entry, error) {
		return c.inner.Charts(ctx, airport, opts)
	})
}

// Procedures returns the facility procedure listing.
func (c *Cache) Procedures(ctx context.Context, opts catalog.FetchOptions) ([]catalog.Entry, error) {
	return c.load(ctx, "procedures", opts, func() ([]catalog.Entry, error) {
		return c.inner.Procedures(ctx, opts)
	})
}

func (c *Cache) load(
	ctx context.Context, name string, opts catalog.FetchOptions, fetch func() ([]catalog.Entry, error),
) ([]catalog.Entry, error) {
	now := c.now()
	cycle := airac.At(now)
	key := listingKey(cycle, name)

	if opts.Bypass {
		metrics.CatalogCacheTotal.WithLabelValues("bypass").Inc()
	} else if entries, ok := c.get(ctx, key, now); ok {
		metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return entries, nil
	} else {
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
	}

	entries, err := fetch()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	c.put(ctx, cycle, name, entries, now)
	return entries, nil
}

func (c *Cache) get(ctx context.Context, key string, now time.Time) ([]catalog.Entry, bool) {
	data, err := c.store.GetCached(ctx, key, localTTL)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
			c.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var l listingDTO
	if err := json.Unmarshal(data, &l); err != nil {
		c.logger.Warn("catalog cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if c.ttl > 0 && now.Sub(time.Unix(l.FetchedAt, 0)) > c.ttl {
		return nil, false
	}
	entries, err := fromDTO(l)
	if err != nil {
		c.logger.Warn("catalog cache entry invalid", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return entries, true
}

// put stores best-effort; cache failures never fail the request.
func (c *Cache) put(ctx context.Context, cycle airac.Cycle, name string, entries []catalog.Entry, now time.Time) {
	ttl := cycle.Remaining(now)
	if c.ttl > 0 && c.ttl < ttl {
		ttl = c.ttl
	}
	if ttl < time.Second {
		return
	}

	data, err := json.Marshal(toDTO(entries, now))
	if err != nil {
		c.logger.Warn("catalog cache encode failed", zap.String("listing", name), zap.Error(err))
		return
	}
	key := listingKey(cycle, name)
	if err := c.store.SetWithTTL(ctx, key, data, ttl); err != nil {
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		c.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		return
	}

	idx := indexKey(cycle)
	fields := map[string]string{name: strconv.FormatInt(now.Unix(), 10)}
	if err := c.store.HSetWithTTL(ctx, idx, fields, cycle.Remaining(now)); err != nil {
		c.logger.Warn("catalog index write failed", zap.String("key", idx), zap.Error(err))
	}
}

// Listings returns the listings cached for the current cycle, sorted by name.
func (c *Cache) Listings(ctx context.Context) ([]Listing, error) {
	cycle := airac.At(c.now())
	fields, err := c.store.HGetAll(ctx, indexKey(cycle))
	if err != nil {
		return nil, fmt.Errorf("read catalog index: %w", err)
	}

	out := make([]Listing, 0, len(fields))
	for name, ts := range fields {
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Listing{Cycle: cycle.ID(), Name: name, FetchedAt: time.Unix(sec, 0).UTC()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Invalidate drops the cached chart listing of one airport.
func (c *Cache) Invalidate(ctx context.Context, airport string) error {
	cycle := airac.At(c.now())
	name := "charts:" + strings.ToUpper(strings.TrimSpace(airport))
	if _, err := c.store.Del(ctx, listingKey(cycle, name)); err != nil {
		return fmt.Errorf("invalidate %s: %w", name, err)
	}
	if err := c.store.HDel(ctx, indexKey(cycle), name); err != nil {
		return fmt.Errorf("invalidate %s index: %w", name, err)
	}
	return nil
}

// Purge drops every cached listing and index of every cycle. Returns the
// number of keys removed.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	n, err := c.store.DeleteMatching(ctx, keyPrefix+"*")
	if err != nil {
		return n, fmt.Errorf("purge catalog keys: %w", err)
	}
	return n, nil
}

func listingKey(cycle airac.Cycle, name string) string {
	return keyPrefix + cycle.ID() + ":" + name
}

func indexKey(cycle airac.Cycle) string {
	return keyPrefix + cycle.ID() + ":index"
}
