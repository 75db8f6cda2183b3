// Package cache holds the in-memory read cache of the public site and the
// fixed table that ties every content mutation to what it invalidates.
//
// Data is cached per tag and key with a TTL; rendered pages are cached per
// URL path. Mutations never touch entries directly, they go through a
// Revalidator.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Mode says how aggressively a tag is evicted.
type Mode int

const (
	// Expire drops the entries now; the next read must reload.
	Expire Mode = iota
	// Stale marks the entries for reload but keeps serving the last value
	// if the reload fails.
	Stale
)

// PathKind says whether a path invalidation targets one page or a subtree.
type PathKind int

const (
	// Page invalidates exactly one rendered path.
	Page PathKind = iota
	// Layout invalidates every rendered path under the given prefix.
	Layout
)

// Revalidator is what content mutations call after a successful write.
type Revalidator interface {
	InvalidateTag(tag string, mode Mode)
	InvalidatePath(path string, kind PathKind)
}

type entry struct {
	value   any
	fetched time.Time
	stale   bool
}

type page struct {
	contentType string
	body        []byte
	stored      time.Time
}

// Cache is the in-memory Revalidator used by the public site. It is safe
// for concurrent use.
//
// Each tag, and the page set as a whole, carries a generation bumped by every
// invalidation. A value loaded while its generation moved is returned to the
// caller but not stored, so a read racing a write cannot bring back the
// pre-write value.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	data    map[string]map[string]*entry
	gen     map[string]uint64
	pages   map[string]page
	pageGen uint64
	now     func() time.Time
}

var _ Revalidator = (*Cache)(nil)

// New creates a Cache whose entries live at most ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:   ttl,
		data:  make(map[string]map[string]*entry),
		gen:   make(map[string]uint64),
		pages: make(map[string]page),
		now:   time.Now,
	}
}

func (c *Cache) fresh(t time.Time) bool {
	return c.ttl <= 0 || c.now().Sub(t) < c.ttl
}

// Fetch returns the cached value of key under tag, calling load when the
// entry is missing, expired or marked stale. If load fails on a stale entry
// the previous value is returned along with nil error.
func Fetch[T any](c *Cache, tag, key string, load func() (T, error)) (T, error) {
	var (
		prev     T
		hasStale bool
	)
	c.mu.RLock()
	gen := c.gen[tag]
	if e := c.data[tag][key]; e != nil {
		if !e.stale && c.fresh(e.fetched) {
			v := e.value.(T)
			c.mu.RUnlock()
			return v, nil
		}
		prev, hasStale = e.value.(T), e.stale
	}
	c.mu.RUnlock()

	v, err := load()
	if err != nil {
		if hasStale {
			return prev, nil
		}
		var zero T
		return zero, err
	}

	c.mu.Lock()
	if c.gen[tag] == gen {
		if c.data[tag] == nil {
			c.data[tag] = make(map[string]*entry)
		}
		c.data[tag][key] = &entry{value: v, fetched: c.now()}
	}
	c.mu.Unlock()
	return v, nil
}

// InvalidateTag evicts (Expire) or marks for reload (Stale) every entry
// stored under tag.
func (c *Cache) InvalidateTag(tag string, mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[tag]++
	if mode == Stale {
		for _, e := range c.data[tag] {
			e.stale = true
		}
		return
	}
	delete(c.data, tag)
}

// InvalidatePath drops the rendered page at path, or every page under path
// when kind is Layout.
func (c *Cache) InvalidatePath(path string, kind PathKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageGen++
	if kind == Page {
		delete(c.pages, path)
		return
	}
	for p := range c.pages {
		if strings.HasPrefix(p, path) {
			delete(c.pages, p)
		}
	}
}

// Page returns a rendered page if one is cached and fresh.
func (c *Cache) Page(path string) (contentType string, body []byte, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pages[path]
	if !ok || !c.fresh(p.stored) {
		return "", nil, false
	}
	return p.contentType, p.body, true
}

// PageGeneration returns the current page generation. Take it before
// rendering and hand it to StorePage.
func (c *Cache) PageGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pageGen
}

// StorePage caches a rendered page unless a path was invalidated since gen
// was taken. It reports whether the page was stored.
func (c *Cache) StorePage(path, contentType string, body []byte, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pageGen != gen {
		return false
	}
	c.pages[path] = page{contentType: contentType, body: body, stored: c.now()}
	return true
}
