package texture

// Entry is one uploaded texture known to a Cache.
type Entry struct {
	Source string
	Handle uint32
	Kind   Kind // kind of the first reference that uploaded it
}

// Cache maps source identifiers to uploaded handles for one model.
//
// Entries are only appended; lookups compare identifiers exactly, without
// any path normalization. The cache owns the handles it holds.
type Cache struct {
	entries []Entry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Lookup returns the entry for source, if one was added.
func (c *Cache) Lookup(source string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Source == source {
			return e, true
		}
	}
	return Entry{}, false
}

// Add records an uploaded texture.
func (c *Cache) Add(e Entry) {
	c.entries = append(c.entries, e)
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Entries returns the cached textures in upload order.
func (c *Cache) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Release passes every handle to release exactly once and empties the cache.
func (c *Cache) Release(release func(handle uint32)) {
	for _, e := range c.entries {
		release(e.Handle)
	}
	c.entries = nil
}
