package bibtex

// Collection is an ordered, keyed set of entries merged from one or more sources.
//
// Iteration follows the order in which each key was first added. Adding an
// entry whose key is already present replaces the stored entry in full but
// keeps its position.
type Collection struct {
	keys    []string
	entries map[string]Entry
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{entries: make(map[string]Entry)}
}

// Add inserts or replaces an entry by key.
func (c *Collection) Add(e Entry) {
	if _, exists := c.entries[e.Key]; !exists {
		c.keys = append(c.keys, e.Key)
	}
	c.entries[e.Key] = e
}

// Merge adds entries in order; the last one with a given key wins.
func (c *Collection) Merge(entries []Entry) {
	for _, e := range entries {
		c.Add(e)
	}
}

// Get returns the entry for key.
func (c *Collection) Get(key string) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Len returns the number of distinct keys.
func (c *Collection) Len() int {
	return len(c.keys)
}

// Entries returns all entries in collection order.
func (c *Collection) Entries() []Entry {
	out := make([]Entry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.entries[k])
	}
	return out
}
