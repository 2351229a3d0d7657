package preset

import (
	"strings"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
)

// Match is the concrete selection a built-in preset resolves to.
type Match struct {
	Selected []string
	Chairman string
}

// Apply resolves b against cat. It always starts from an empty selection,
// so the result depends only on the preset, the catalog and maxModels.
// The boolean is false when nothing in the catalog matched.
//
// Tier presets take the first entries of the tier in catalog order and
// make the first one chairman without checking eligibility. Pattern
// presets take, per pattern, the first not-yet-selected entry whose id
// contains the pattern; when several entries match, catalog order decides.
func Apply(b BuiltIn, cat *catalog.Catalog, maxModels int) (Match, bool) {
	if cat == nil || maxModels <= 0 {
		return Match{}, false
	}

	var m Match
	switch {
	case b.TierFilter != "":
		limit := b.MaxModels
		if limit <= 0 {
			limit = DefaultTierPresetSize
		}
		limit = min(limit, maxModels)
		for _, e := range cat.Entries() {
			if len(m.Selected) >= limit {
				break
			}
			if e.Tier == b.TierFilter {
				m.Selected = append(m.Selected, e.ID)
			}
		}
		if len(m.Selected) > 0 {
			m.Chairman = m.Selected[0]
		}

	case len(b.ModelPatterns) > 0:
		entries := cat.Entries()
		taken := make(map[string]bool)
		for _, pattern := range b.ModelPatterns {
			if len(m.Selected) >= maxModels {
				break
			}
			for _, e := range entries {
				if !taken[e.ID] && MatchID(e.ID, pattern) {
					taken[e.ID] = true
					m.Selected = append(m.Selected, e.ID)
					break
				}
			}
		}
		if b.ChairmanPattern != "" {
			for _, e := range entries {
				if MatchID(e.ID, b.ChairmanPattern) {
					m.Chairman = e.ID
					if !taken[e.ID] && len(m.Selected) < maxModels {
						m.Selected = append(m.Selected, e.ID)
					}
					break
				}
			}
		}
		if m.Chairman == "" && len(m.Selected) > 0 {
			m.Chairman = m.Selected[0]
		}
	}

	if len(m.Selected) == 0 {
		return Match{}, false
	}
	return m, true
}

// MatchID reports whether a catalog id matches a preset pattern, ignoring
// case. A plain pattern matches as a substring. A pattern containing '*'
// or '?' is a glob over the whole id, where '*' also spans '/'.
func MatchID(id, pattern string) bool {
	if pattern == "" {
		return false
	}
	id = strings.ToLower(id)
	pattern = strings.ToLower(pattern)
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(id, pattern)
	}
	return matchGlob(id, pattern)
}

// matchGlob matches s against a pattern of literal characters, '*' (any
// run, possibly empty) and '?' (exactly one byte).
func matchGlob(s, pattern string) bool {
	si, pi := 0, 0

	for si < len(s) && pi < len(pattern) {
		switch pattern[pi] {
		case '*':
			pi++
			if pi == len(pattern) {
				return true
			}
			for start := si; start <= len(s); start++ {
				if matchGlob(s[start:], pattern[pi:]) {
					return true
				}
			}
			return false
		case '?':
			si++
			pi++
		default:
			if s[si] != pattern[pi] {
				return false
			}
			si++
			pi++
		}
	}

	for pi < len(pattern) {
		if pattern[pi] != '*' {
			return false
		}
		pi++
	}

	return si == len(s)
}
