package graph

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BuildFunc loads data and synthesizes a graph for one cache key.
type BuildFunc func(ctx context.Context) (*Graph, error)

// Cache memoizes built graphs per project and option key. There is no TTL:
// entries live until the project is invalidated. Concurrent misses on the
// same key share one build.
type Cache struct {
	mu      sync.RWMutex
	entries map[int64]map[string]*Graph
	gens    map[int64]uint64
	epoch   uint64
	group   singleflight.Group
}

type generation struct{ epoch, project uint64 }

func (g generation) key(projectID int64) string {
	return strconv.FormatInt(projectID, 10) + "@" +
		strconv.FormatUint(g.epoch, 10) + "." + strconv.FormatUint(g.project, 10)
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[int64]map[string]*Graph),
		gens:    make(map[int64]uint64),
	}
}

func (c *Cache) Get(projectID int64, opts Options) (*Graph, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.entries[projectID][opts.Key()]
	return g, ok
}

// GetOrBuild returns the cached graph for (projectID, opts) or builds and
// stores it. refresh forces a rebuild even on a hit. The bool result
// reports whether the graph came from the cache.
func (c *Cache) GetOrBuild(ctx context.Context, projectID int64, opts Options, refresh bool, build BuildFunc) (*Graph, bool, error) {
	key := opts.Key()
	if !refresh {
		if g, ok := c.Get(projectID, opts); ok {
			return g, true, nil
		}
	}

	// Callers arriving after an invalidation must not join a build that
	// started before it, so the generation is part of the flight key.
	gen := c.currentGeneration(projectID)
	flightKey := gen.key(projectID) + "#" + key
	if refresh {
		c.group.Forget(flightKey)
	}

	v, err, _ := c.group.Do(flightKey, func() (any, error) {
		// Shared by every waiter, so the first caller's cancellation must
		// not fail the others.
		g, err := build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(projectID, key, gen, g)
		return g, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Graph), false, nil
}

// Invalidate drops every entry of the project and returns how many were
// removed. Builds that started before the call do not repopulate the cache.
func (c *Cache) Invalidate(projectID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries[projectID])
	delete(c.entries, projectID)
	c.gens[projectID]++
	return n
}

func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.entries = make(map[int64]map[string]*Graph)
}

// Len returns the number of cached graphs across all projects.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, m := range c.entries {
		n += len(m)
	}
	return n
}

func (c *Cache) currentGeneration(projectID int64) generation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return generation{epoch: c.epoch, project: c.gens[projectID]}
}

func (c *Cache) store(projectID int64, key string, gen generation, g *Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != gen.epoch || c.gens[projectID] != gen.project {
		return
	}
	m, ok := c.entries[projectID]
	if !ok {
		m = make(map[string]*Graph)
		c.entries[projectID] = m
	}
	m[key] = g
}
