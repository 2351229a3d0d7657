package catalog

import "sort"

// Catalog is an ordered, id-indexed snapshot of entries. It is never
// mutated after New returns, so it can be shared freely between the engine
// and whoever loaded it.
type Catalog struct {
	entries []Entry
	byID    map[string]int
	dropped int
}

// New builds a catalog preserving the order of entries. Entries with an
// empty id are dropped, and for duplicate ids the first occurrence wins.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			c.dropped++
			continue
		}
		if _, exists := c.byID[e.ID]; exists {
			c.dropped++
			continue
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// Get returns the entry for id, or nil when the catalog does not carry it.
func (c *Catalog) Get(id string) *Entry {
	if c == nil {
		return nil
	}
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	e := c.entries[i]
	return &e
}

// Has reports whether id is present.
func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.byID[id]
	return ok
}

// Index returns the catalog position of id, or -1.
func (c *Catalog) Index(id string) int {
	if c == nil {
		return -1
	}
	i, ok := c.byID[id]
	if !ok {
		return -1
	}
	return i
}

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// IDs returns all ids in catalog order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.ID
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Dropped returns how many input entries New discarded.
func (c *Catalog) Dropped() int {
	if c == nil {
		return 0
	}
	return c.dropped
}

// Providers returns the sorted set of providers present in the catalog.
func (c *Catalog) Providers() []string {
	if c == nil {
		return nil
	}
	set := make(map[string]struct{})
	for _, e := range c.entries {
		set[e.Provider] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
