package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultSort is the sort key used when none is given.
const DefaultSort = "price-asc"

// Sort fields and directions understood by View.
const (
	SortFieldPrice   = "price"
	SortFieldName    = "name"
	SortFieldContext = "context"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Filter carries the presentation layer's search, filter and sort inputs.
// The zero value matches everything and keeps catalog order.
type Filter struct {
	Search   string `json:"search,omitempty" yaml:"search,omitempty"`
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Tier     Tier   `json:"tier,omitempty" yaml:"tier,omitempty"`
	FreeOnly bool   `json:"freeOnly,omitempty" yaml:"free-only,omitempty"`
	SortBy   string `json:"sortBy,omitempty" yaml:"sort,omitempty"`
}

// ParseSort splits a "<field>-<dir>" key. An unknown field yields an empty
// field (catalog order); a missing or unknown direction yields asc.
func ParseSort(key string) (field, dir string) {
	key = strings.ToLower(strings.TrimSpace(key))
	field, dir, _ = strings.Cut(key, "-")
	switch field {
	case SortFieldPrice, SortFieldName, SortFieldContext:
	default:
		field = ""
	}
	if dir != SortDesc {
		dir = SortAsc
	}
	return field, dir
}

// Matches reports whether e passes every active predicate of f. Search is
// a case-insensitive substring test against name, id and provider, any of
// which suffices.
func (f Filter) Matches(e Entry) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Name), q) &&
			!strings.Contains(strings.ToLower(e.ID), q) &&
			!strings.Contains(strings.ToLower(e.Provider), q) {
			return false
		}
	}
	if f.Provider != "" && e.Provider != f.Provider {
		return false
	}
	if f.Tier != "" && e.Tier != f.Tier {
		return false
	}
	if f.FreeOnly && !e.IsFree {
		return false
	}
	return true
}

// View returns the entries passing f, ordered by f.SortBy. Ties keep
// catalog order in both directions.
func (c *Catalog) View(f Filter) []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}

	field, dir := ParseSort(f.SortBy)
	if field == "" {
		return out
	}
	compare := comparator(field)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == SortDesc {
			return compare(out[j], out[i]) < 0
		}
		return compare(out[i], out[j]) < 0
	})
	return out
}

// ViewIDs is View projected to ids.
func (c *Catalog) ViewIDs(f Filter) []string {
	view := c.View(f)
	ids := make([]string, len(view))
	for i, e := range view {
		ids[i] = e.ID
	}
	return ids
}

func comparator(field string) func(a, b Entry) int {
	switch field {
	case SortFieldPrice:
		return func(a, b Entry) int { return compareFloat(a.OutputPriceRaw, b.OutputPriceRaw) }
	case SortFieldContext:
		return func(a, b Entry) int { return compareInt(a.ContextLength, b.ContextLength) }
	case SortFieldName:
		col := collate.New(language.Und)
		return func(a, b Entry) int { return col.CompareString(a.Name, b.Name) }
	default:
		return func(Entry, Entry) int { return 0 }
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
