package council

import "slices"

// AdjustToSize reconciles the council to target members, clamped into
// [MinModels, MaxModels].
//
// Members missing from the catalog are dropped. The chairman survives when
// the catalog still carries it; otherwise the best eligible member takes
// over. Shrinking keeps the chairman and the earliest other members.
// Growing appends entries from the filtered view in view order. If the
// view runs out the council is left short and the result carries
// ErrInsufficientCandidates.
//
// When the chairman ends up ineligible the best eligible member replaces
// it. Failing that, the best eligible entry of the whole catalog is put in
// the last slot. Only a catalog without eligible entries leaves an
// ineligible chairman (see Degraded).
//
// Calling AdjustToSize twice with the same target and an unchanged catalog
// and filter gives the same state.
func (e *Engine) AdjustToSize(target int) Result {
	before := e.state.Clone()
	size := ClampSize(target, e.maxModels)

	var current []string
	for _, id := range e.state.Selected {
		if e.cat.Has(id) {
			current = append(current, id)
		}
	}
	next := slices.Clone(current)

	chairman := e.state.Chairman
	if !e.cat.Has(chairman) {
		chairman = pickChairman(e.cat, next)
	}

	if len(next) > size {
		if chairman != "" && contains(next, chairman) {
			rest := without(next, chairman)
			next = append([]string{chairman}, rest[:size-1]...)
		} else {
			next = next[:size]
		}
	}

	if len(next) < size {
		for _, id := range e.cat.ViewIDs(e.filter) {
			if len(next) >= size {
				break
			}
			if !contains(next, id) {
				next = append(next, id)
			}
		}
	}

	if chairman == "" {
		chairman = pickChairman(e.cat, next)
	}
	next = ensureMember(next, chairman, size)

	if chairman != "" && !CanBeChairmanID(e.cat, chairman) {
		if best := bestEligible(e.cat, next); best != "" {
			chairman = best
		} else if best := bestEligible(e.cat, e.cat.IDs()); best != "" {
			next = ensureMember(next, best, size)
			chairman = best
		}
	}

	if len(next) > size {
		next = next[:size]
	}
	e.state = State{Selected: next, Chairman: chairman, TargetSize: size}

	var reason error
	if len(next) < size {
		reason = ErrInsufficientCandidates
	}
	return e.commit("adjust-to-size", before, reason)
}
