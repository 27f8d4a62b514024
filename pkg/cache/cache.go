// Package cache implements a single-process, in-memory key/value cache with
// per-entry TTL expiration.
//
// Expiration is lazy: a dead entry stays in the table until a read touches it,
// an explicit ClearExpired runs, or the background sweep gets to it. Callers
// that need deterministic teardown of the sweep goroutine must call Close.
package cache

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrMissingArgument is the base error for rejected Add calls.
	ErrMissingArgument = errors.New("cache: missing argument")

	// ErrMissingKey is returned by Add when the key is empty.
	ErrMissingKey = fmt.Errorf("%w: key", ErrMissingArgument)

	// ErrMissingValue is returned by Add when the value is nil. Typed
	// zero values (0, false, "") are not nil and are stored as given.
	ErrMissingValue = fmt.Errorf("%w: value", ErrMissingArgument)
)

// entry is a stored value with an optional absolute expiry.
// A zero expiresAt means the entry never expires.
type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a concurrency-safe map of string keys to arbitrary values with
// optional per-entry expiration. All operations are safe for concurrent use;
// the mapping is only ever touched under the mutex, from foreground calls and
// the background sweep alike.
type Cache struct {
	id   string
	opts Options
	log  zerolog.Logger

	mu    sync.RWMutex
	items map[string]entry

	sweepStop chan struct{}
	sweepDone chan struct{}
	closeOnce sync.Once
}

// New constructs a cache. Invalid options are replaced by their defaults and
// reported through the configured logger; construction itself never fails.
// Unless Options.SweepDisabled is set, the background sweep starts
// immediately and runs until Close.
func New(id string, opts Options) *Cache {
	opts, diags := sanitizeOptions(opts)

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("cache", id).Logger()
	}
	if opts.Debug {
		log = log.Level(zerolog.DebugLevel)
	}
	for _, d := range diags {
		log.Warn().Str("option", d.Option).Msg(d.Reason)
	}

	c := &Cache{
		id:    id,
		opts:  opts,
		log:   log,
		items: make(map[string]entry),
	}

	if !opts.SweepDisabled {
		c.startSweeper()
	}
	return c
}

// ID returns the identifier the cache was constructed with.
func (c *Cache) ID() string { return c.id }

// Add stores value under key with the configured default TTL, overwriting any
// existing entry.
func (c *Cache) Add(key string, value any) error {
	return c.AddWithTTL(key, value, c.opts.DefaultTTL)
}

// AddWithTTL stores value under key, overwriting any existing entry. A
// positive ttl sets an absolute expiry of now+ttl. A zero or negative ttl
// stores the entry without expiration -- note that ttl == 0 means "keep
// forever", not "expire immediately".
func (c *Cache) AddWithTTL(key string, value any, ttl time.Duration) error {
	if key == "" {
		return ErrMissingKey
	}
	if value == nil {
		return ErrMissingValue
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = entry{value: value, expiresAt: expiresAt}
	c.mu.Unlock()

	c.log.Debug().Str("key", key).Dur("ttl", ttl).Msg("add")
	return nil
}

// Get returns the value stored under key. It returns (nil, false) when the
// key is absent or its entry has expired. Reading an expired entry removes it
// from the table as a side effect.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if expired(e.expiresAt, time.Now()) {
		delete(c.items, key)
		c.log.Debug().Str("key", key).Msg("expired on read")
		return nil, false
	}
	return e.value, true
}

// Has reports whether key holds a live value. It shares Get's lazy-expiration
// side effect: probing an expired key removes it.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// GetAll returns a copy of the current contents; mutating the returned map
// does not affect the cache. When the background sweep is enabled it runs a
// synchronous ClearExpired first; when the sweep was disabled at construction
// the expired-entry scan is skipped too, so stale entries may be included.
func (c *Cache) GetAll() map[string]any {
	if !c.opts.SweepDisabled {
		c.ClearExpired()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.items))
	for k, e := range c.items {
		out[k] = e.value
	}
	return out
}

// Clear removes key unconditionally. Clearing an absent key is a no-op.
func (c *Cache) Clear(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// ClearExpired removes every entry whose expiry is strictly in the past. All
// entries are compared against a single timestamp captured at the start of
// the scan.
func (c *Cache) ClearExpired() {
	now := time.Now()

	c.mu.Lock()
	removed := 0
	for k, e := range c.items {
		if expired(e.expiresAt, now) {
			delete(c.items, k)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.log.Debug().Int("removed", removed).Msg("sweep")
	}
}

// ClearAll empties the cache, expired and live entries alike.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	c.items = make(map[string]entry)
	c.mu.Unlock()
}

// Keys returns the current keys in lexicographic order. No expiration sweep
// runs first, so keys of expired-but-unswept entries may be included.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Len returns the number of entries currently in the table, including
// expired-but-unswept ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// expired reports whether an entry with the given expiry is dead at now.
// A zero expiry never expires.
func expired(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && now.After(expiresAt)
}
