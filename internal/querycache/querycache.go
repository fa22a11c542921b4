package querycache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/parley-dev/parley/shared/logger"
)

// Key identifies one cached response by entity kind and the full parameter
// tuple of the request that produced it. Late responses reconcile only their
// own key, so a response for outdated parameters can never overwrite an entry
// for the current ones.
type Key struct {
	Kind   string
	Params string
}

// NewKey builds a key from a kind and every parameter the request depends on.
func NewKey(kind string, params ...any) Key {
	var b []byte
	for _, p := range params {
		b = fmt.Appendf(b, "%#v\x1f", p)
	}
	return Key{Kind: kind, Params: string(b)}
}

func (k Key) String() string { return k.Kind + "(" + k.Params + ")" }

// FetchFunc loads the authoritative value for one key from the backend.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	fetchedAt time.Time
	fetch     FetchFunc // retained for background refresh
}

// Cache is the single process-wide response cache. Reads are
// stale-while-revalidate: a fresh entry is returned as is, a stale entry is
// returned immediately while a background refresh runs, a missing entry
// blocks on a fetch. Identical fetches are deduplicated through an explicit
// in-flight map.
//
// Write discipline: only the mutation coordinator writes optimistic values
// (Write/Update/EachOfKind) and only fetch completions reconcile entries.
// View code reads.
type Cache struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	inflight   map[Key]chan struct{}
	staleAfter time.Duration
	visible    bool
	now        func() time.Time
}

func New(staleAfter time.Duration) *Cache {
	if staleAfter <= 0 {
		staleAfter = 30 * time.Second
	}
	return &Cache{
		entries:    make(map[Key]*entry),
		inflight:   make(map[Key]chan struct{}),
		staleAfter: staleAfter,
		visible:    true,
		now:        time.Now,
	}
}

// Get returns the cached value for key, fetching it when absent. Stale values
// are served immediately and refreshed in the background.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		e.fetch = fetch
		age := c.now().Sub(e.fetchedAt)
		value := e.value
		if age <= c.staleAfter {
			c.mu.Unlock()
			cacheReadsTotal.WithLabelValues(key.Kind, "hit").Inc()
			return value, nil
		}
		c.refreshLocked(key, fetch)
		c.mu.Unlock()
		cacheReadsTotal.WithLabelValues(key.Kind, "stale").Inc()
		return value, nil
	}

	cacheReadsTotal.WithLabelValues(key.Kind, "miss").Inc()

	// Join an identical fetch already in flight instead of firing another.
	if done, running := c.inflight[key]; running {
		c.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		c.mu.Lock()
		e, ok = c.entries[key]
		c.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("fetch %s failed", key)
		}
		return e.value, nil
	}

	done := make(chan struct{})
	c.inflight[key] = done
	c.mu.Unlock()

	value, err := c.runFetch(ctx, key, fetch)

	c.mu.Lock()
	delete(c.inflight, key)
	close(done)
	if err == nil {
		c.entries[key] = &entry{value: value, fetchedAt: c.now(), fetch: fetch}
	}
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *Cache) runFetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	fetchesInFlight.Inc()
	defer fetchesInFlight.Dec()

	value, err := fetch(ctx)
	if err != nil {
		fetchFailuresTotal.WithLabelValues(key.Kind).Inc()
	}
	return value, err
}

// refreshLocked starts a background refresh for key unless one is running.
func (c *Cache) refreshLocked(key Key, fetch FetchFunc) {
	if _, running := c.inflight[key]; running {
		return
	}
	done := make(chan struct{})
	c.inflight[key] = done

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		value, err := c.runFetch(ctx, key, fetch)

		c.mu.Lock()
		delete(c.inflight, key)
		close(done)
		if err == nil {
			c.entries[key] = &entry{value: value, fetchedAt: c.now(), fetch: fetch}
		}
		c.mu.Unlock()

		if err != nil {
			logger.Log.Warn("background refresh failed",
				"component", "querycache", "key", key.String(), "error", err)
		}
	}()
}

// Peek returns the cached value without fetching or refreshing.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.value, true
	}
	return nil, false
}

// Write stores a value for key. Reserved for the mutation coordinator.
func (c *Cache) Write(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.value = value
	e.fetchedAt = c.now()
}

// Update applies fn to the entry for key if present. Reserved for the
// mutation coordinator and fetch completions.
func (c *Cache) Update(key Key, fn func(value any) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.value = fn(e.value)
	}
}

// EachOfKind visits every cached entry of one kind. Reserved for the
// mutation coordinator (patching a record across page buckets).
func (c *Cache) EachOfKind(kind string, fn func(key Key, value any)) {
	c.mu.Lock()
	keys := make([]Key, 0, len(c.entries))
	for k := range c.entries {
		if k.Kind == kind || strings.HasPrefix(k.Kind, kind+"/") {
			keys = append(keys, k)
		}
	}
	c.mu.Unlock()

	for _, k := range keys {
		c.mu.Lock()
		e, ok := c.entries[k]
		c.mu.Unlock()
		if ok {
			fn(k, e.value)
		}
	}
}

// Invalidate marks every entry of the given kinds stale so the next read
// refetches; values stay available for stale serves.
func (c *Cache) Invalidate(kinds ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		for _, kind := range kinds {
			if k.Kind == kind || strings.HasPrefix(k.Kind, kind+"/") {
				e.fetchedAt = time.Time{}
			}
		}
	}
}

// Drop removes a single entry.
func (c *Cache) Drop(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// SetVisible records page visibility. Background refreshes pause while the
// page is hidden and resume on regaining visibility.
func (c *Cache) SetVisible(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = v
}

func (c *Cache) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// StartBackgroundRefresh periodically refreshes stale entries while the page
// is visible. Same lifecycle shape as the other background loops: stops when
// ctx is cancelled.
func (c *Cache) StartBackgroundRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started cache background refresh",
		"component", "querycache", "interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.refreshStale()
			case <-ctx.Done():
				logger.Log.Info("cache refresh shutting down", "component", "querycache")
				return
			}
		}
	}()
}

func (c *Cache) refreshStale() {
	c.mu.Lock()
	if !c.visible {
		c.mu.Unlock()
		return
	}
	type pending struct {
		key   Key
		fetch FetchFunc
	}
	var stale []pending
	for k, e := range c.entries {
		if e.fetch != nil && c.now().Sub(e.fetchedAt) > c.staleAfter {
			stale = append(stale, pending{k, e.fetch})
		}
	}
	for _, p := range stale {
		c.refreshLocked(p.key, p.fetch)
	}
	c.mu.Unlock()
}
