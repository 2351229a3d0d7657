// Package council assembles a bounded council of catalog entries and
// designates the chairman that writes the final synthesis.
//
// The Engine owns one selection per session. Every public operation is a
// synchronous function from (state, catalog, filter, arguments) to a new
// state, and every one of them leaves the selection satisfying:
//
//   - no duplicate members
//   - at most MaxModels members
//   - a non-empty chairman is a member
//   - a non-empty chairman is eligible, unless no entry in the whole
//     catalog is eligible (see Engine.Degraded)
//   - the target size lies in [MinModels, MaxModels]
//
// The engine is not safe for concurrent use.
package council

import "github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"

const (
	// MinModels is the smallest council that can be confirmed.
	MinModels = 2
	// DefaultMaxModels is used when no limit is configured.
	DefaultMaxModels = 5
	// MinChairmanContext is the context length, in tokens, a chairman needs.
	MinChairmanContext = 25000
)

// Execution modes carried alongside a selection.
const (
	ModeChatOnly    = "chat_only"
	ModeChatRanking = "chat_ranking"
	ModeFull        = "full"

	DefaultExecutionMode = ModeFull
	DefaultRouterSource  = "openrouter"
)

// ValidExecutionMode reports whether mode is one of the known modes.
func ValidExecutionMode(mode string) bool {
	switch mode {
	case ModeChatOnly, ModeChatRanking, ModeFull:
		return true
	}
	return false
}

// CanBeChairman reports whether e may chair a council.
func CanBeChairman(e *catalog.Entry) bool {
	return e != nil && e.ContextLength >= MinChairmanContext
}

// CanBeChairmanID is CanBeChairman for the catalog entry with id.
func CanBeChairmanID(cat *catalog.Catalog, id string) bool {
	return CanBeChairman(cat.Get(id))
}

// ClampSize clamps n into [MinModels, maxModels].
func ClampSize(n, maxModels int) int {
	return max(MinModels, min(n, maxModels))
}

// bestEligible returns the eligible id in ids with the largest context
// length. Ties go to the entry that comes first in the catalog.
func bestEligible(cat *catalog.Catalog, ids []string) string {
	var (
		best    string
		bestCtx int
		bestIdx int
	)
	for _, id := range ids {
		e := cat.Get(id)
		if !CanBeChairman(e) {
			continue
		}
		idx := cat.Index(id)
		if best == "" || e.ContextLength > bestCtx || (e.ContextLength == bestCtx && idx < bestIdx) {
			best, bestCtx, bestIdx = id, e.ContextLength, idx
		}
	}
	return best
}

// pickChairman prefers the best eligible member and falls back to the
// first member the catalog still knows.
func pickChairman(cat *catalog.Catalog, ids []string) string {
	if best := bestEligible(cat, ids); best != "" {
		return best
	}
	for _, id := range ids {
		if cat.Has(id) {
			return id
		}
	}
	return ""
}

// anyEligible reports whether some catalog entry can chair.
func anyEligible(cat *catalog.Catalog) bool {
	for _, e := range cat.Entries() {
		if CanBeChairman(&e) {
			return true
		}
	}
	return false
}

// ensureMember puts id into list: appended while the list is shorter than
// size, otherwise written over the last slot.
func ensureMember(list []string, id string, size int) []string {
	if id == "" || contains(list, id) {
		return list
	}
	switch {
	case len(list) < size:
		return append(list, id)
	case len(list) > 0:
		list[len(list)-1] = id
		return list
	default:
		return []string{id}
	}
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
