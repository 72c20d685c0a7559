package dataset

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Bucket is the ordered entry list of one category path.
type Bucket struct {
	Path    CategoryPath
	Entries []*Entry
}

// Cache is the Identity Cache: an arena of entries plus two indices over
// it, by category path and by id. A per-path display name index backs the
// name uniqueness check.
//
// Cache is not safe for concurrent use.
type Cache struct {
	arena  []*Entry
	byPath map[CategoryPath][]int
	byID   map[string]int
	names  map[CategoryPath]map[string]struct{}
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		byPath: make(map[CategoryPath][]int),
		byID:   make(map[string]int),
		names:  make(map[CategoryPath]map[string]struct{}),
	}
}

// Insert appends e to the bucket of path and indexes it by id. It fails
// with a duplicate name error if the bucket already holds an entry with
// the same display name, and with a duplicate id error if any bucket
// already holds e.ID. The cache is unchanged on failure.
func (c *Cache) Insert(path CategoryPath, e *Entry) error {
	if e.ID == "" {
		return fmt.Errorf("dataset: entry %q has no id", e.DisplayName)
	}
	if c.HasName(path, e.DisplayName) {
		return newDuplicateNameError(path, e.DisplayName)
	}
	if idx, ok := c.byID[e.ID]; ok {
		return newDuplicateIDError(path, e, c.arena[idx])
	}

	idx := len(c.arena)
	c.arena = append(c.arena, e)
	c.byPath[path] = append(c.byPath[path], idx)
	c.byID[e.ID] = idx

	names := c.names[path]
	if names == nil {
		names = make(map[string]struct{})
		c.names[path] = names
	}
	names[e.DisplayName] = struct{}{}
	return nil
}

// HasName reports whether the bucket of path holds an entry named name.
// The comparison is exact and case-sensitive.
func (c *Cache) HasName(path CategoryPath, name string) bool {
	_, ok := c.names[path][name]
	return ok
}

// Reset empties the bucket of path, dropping its entries from the id index.
// The bucket itself stays, so the path is still selected by SelectByTree.
func (c *Cache) Reset(path CategoryPath) {
	for _, idx := range c.byPath[path] {
		delete(c.byID, c.arena[idx].ID)
		c.arena[idx] = nil
	}
	c.byPath[path] = []int{}
	delete(c.names, path)
}

// Get returns the entry with the given id.
func (c *Cache) Get(id string) (*Entry, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return c.arena[idx], true
}

// Entries returns the entries of path in insertion order.
func (c *Cache) Entries(path CategoryPath) []*Entry {
	indices := c.byPath[path]
	out := make([]*Entry, len(indices))
	for i, idx := range indices {
		out[i] = c.arena[idx]
	}
	return out
}

// Paths returns every category path in the cache, sorted.
func (c *Cache) Paths() []CategoryPath {
	paths := slices.Collect(maps.Keys(c.byPath))
	slices.SortFunc(paths, func(a, b CategoryPath) int {
		return strings.Compare(a.String(), b.String())
	})
	return paths
}

// SelectByTree returns the bucket of every path whose tree is tree,
// ordered by path. Entries keep their insertion order.
func (c *Cache) SelectByTree(tree string) []Bucket {
	var buckets []Bucket
	for _, path := range c.Paths() {
		if path.Tree != tree {
			continue
		}
		buckets = append(buckets, Bucket{Path: path, Entries: c.Entries(path)})
	}
	return buckets
}

// Len returns the number of entries in the cache.
func (c *Cache) Len() int {
	return len(c.byID)
}

// Clone copies the indices of c. Entries are shared, not copied.
func (c *Cache) Clone() *Cache {
	clone := &Cache{
		arena:  slices.Clone(c.arena),
		byPath: make(map[CategoryPath][]int, len(c.byPath)),
		byID:   maps.Clone(c.byID),
		names:  make(map[CategoryPath]map[string]struct{}, len(c.names)),
	}
	for path, indices := range c.byPath {
		clone.byPath[path] = slices.Clone(indices)
	}
	for path, names := range c.names {
		clone.names[path] = maps.Clone(names)
	}
	return clone
}
