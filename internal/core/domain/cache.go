package domain

import "sort"

// CoordinateCache maps reference URLs to resolved coordinates.
// It is append-only: a key, once set, is never replaced.
type CoordinateCache map[string]Coordinate

// NewCoordinateCache creates an empty cache.
func NewCoordinateCache() CoordinateCache {
	return make(CoordinateCache)
}

// Get returns the coordinate for url.
func (c CoordinateCache) Get(url string) (Coordinate, bool) {
	coord, ok := c[url]
	return coord, ok
}

// Has reports whether url is cached.
func (c CoordinateCache) Has(url string) bool {
	_, ok := c[url]
	return ok
}

// Add stores coord under url unless the key already exists.
// Returns false when the key was already present.
func (c CoordinateCache) Add(url string, coord Coordinate) bool {
	if _, ok := c[url]; ok {
		return false
	}
	c[url] = coord
	return true
}

// Keys returns the cached URLs in sorted order.
func (c CoordinateCache) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy that can be mutated independently.
func (c CoordinateCache) Clone() CoordinateCache {
	out := make(CoordinateCache, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
