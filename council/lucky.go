package council

import "slices"

// LuckyPick draws a random council of size members, or of the target size
// when size is not positive. The draw comes from the filtered view when it
// is large enough and from the whole catalog otherwise. When even the
// catalog is too small nothing changes and ErrInsufficientCandidates is
// reported.
//
// The chairman is the best eligible member of the draw. If the draw has
// none, the best eligible entry of the catalog replaces the last member.
func (e *Engine) LuckyPick(size int) Result {
	before := e.state.Clone()
	if size <= 0 {
		size = e.state.TargetSize
	}
	size = ClampSize(size, e.maxModels)

	pool := e.cat.ViewIDs(e.filter)
	if len(pool) < size {
		pool = e.cat.IDs()
	}
	if len(pool) < size {
		e.log.WithField("size", size).WithField("pool", len(pool)).Debug("lucky pick skipped")
		return Result{Reason: ErrInsufficientCandidates}
	}

	pool = slices.Clone(pool)
	for i := len(pool) - 1; i > 0; i-- {
		j := e.rng.IntN(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	next := pool[:size]

	chairman := bestEligible(e.cat, next)
	if chairman == "" {
		if best := bestEligible(e.cat, e.cat.IDs()); best != "" {
			next[len(next)-1] = best
			chairman = best
		} else {
			chairman = next[0]
		}
	}

	e.state = State{Selected: next, Chairman: chairman, TargetSize: size}
	return e.commit("lucky-pick", before, nil)
}
