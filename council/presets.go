package council

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/preset"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/store"
)

// Registry returns the built-in presets known to the engine.
func (e *Engine) Registry() *preset.Registry { return e.registry }

// ApplyBuiltIn replaces the council with the built-in preset key. Presets
// that match nothing in the catalog leave the state unchanged.
//
// A matched chairman that cannot chair gives way to the best eligible
// member, or else to the best eligible catalog entry, which takes the last
// slot. It stays only when nothing in the catalog is eligible.
func (e *Engine) ApplyBuiltIn(key string) Result {
	b, ok := e.registry.Get(key)
	if !ok {
		return Result{Reason: fmt.Errorf("%w %q", ErrUnknownPreset, key)}
	}
	m, ok := preset.Apply(b, e.cat, e.maxModels)
	if !ok {
		e.log.WithField("preset", key).Debug("preset matched no catalog entries")
		return Result{Reason: ErrNoPresetOverlap}
	}
	selected := ensureMember(m.Selected, m.Chairman, e.maxModels)
	chairman := m.Chairman
	if !CanBeChairmanID(e.cat, chairman) && anyEligible(e.cat) {
		if best := bestEligible(e.cat, selected); best != "" {
			chairman = best
		} else {
			chairman = bestEligible(e.cat, e.cat.IDs())
			if len(selected) < MinModels {
				selected = append(selected, chairman)
			} else {
				selected[len(selected)-1] = chairman
			}
		}
	}

	before := e.state.Clone()
	e.state.Selected = selected
	e.state.Chairman = chairman
	e.state.ActivePreset = key
	return e.commit("apply-preset", before, nil)
}

// restoreMembers keeps the ids the catalog still carries, in order and
// without duplicates.
func (e *Engine) restoreMembers(ids []string) []string {
	var out []string
	for _, id := range ids {
		if e.cat.Has(id) && !contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// install sets a restored council: members beyond the size limit are cut
// and the chairman is put back if the cut removed it. A chairman that can
// no longer chair is replaced by the best eligible member. When no member
// is eligible but some catalog entry is, nothing is installed and false is
// returned.
func (e *Engine) install(members []string, chairman, tag string) bool {
	if !CanBeChairmanID(e.cat, chairman) && anyEligible(e.cat) {
		best := bestEligible(e.cat, members)
		if best == "" {
			return false
		}
		chairman = best
	}
	if len(members) > e.maxModels {
		members = members[:e.maxModels]
	}
	e.state.Selected = ensureMember(slices.Clone(members), chairman, e.maxModels)
	e.state.Chairman = chairman
	e.state.ActivePreset = tag
	return true
}

func (e *Engine) restoreSession(mode, router string) {
	if ValidExecutionMode(mode) {
		e.session.ExecutionMode = mode
	}
	if router != "" {
		e.session.RouterSource = router
	}
}

// RestoreLastUsed reinstates the last confirmed council. Members the
// catalog no longer carries are dropped; when fewer than MinModels remain,
// the chairman is gone or no member can chair any more, the free preset is
// applied instead and the result reports ErrLastUsedUnavailable.
func (e *Engine) RestoreLastUsed() Result {
	if last, ok := e.store.LoadLastUsed(); ok {
		members := e.restoreMembers(last.Models)
		if len(members) >= MinModels && e.cat.Has(last.Chairman) {
			before := e.state.Clone()
			if e.install(members, last.Chairman, TagLastUsed) {
				e.restoreSession(last.ExecutionMode, last.RouterSource)
				return e.commit("restore-last-used", before, nil)
			}
		}
		e.log.WithField("members", len(members)).Debug("last used selection no longer fits the catalog")
	}
	res := e.ApplyBuiltIn(preset.KeyFree)
	res.Reason = errors.Join(ErrLastUsedUnavailable, res.Reason)
	return res
}

// SavedPresets returns the user's presets, newest first.
func (e *Engine) SavedPresets() []preset.Preset {
	return e.store.LoadSavedPresets()
}

// SavePreset stores the current council under name and tags the selection
// with it.
func (e *Engine) SavePreset(name string) (preset.Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return preset.Preset{}, ErrPresetNameRequired
	}
	if len(e.state.Selected) < MinModels || e.state.Chairman == "" {
		return preset.Preset{}, ErrSelectionIncomplete
	}
	now := e.now()
	p := preset.Preset{
		ID:            preset.NewID(now),
		Name:          name,
		RouterSource:  e.session.RouterSource,
		ExecutionMode: e.session.ExecutionMode,
		CouncilSize:   e.state.TargetSize,
		Models:        slices.Clone(e.state.Selected),
		Chairman:      e.state.Chairman,
		CreatedAt:     now.UnixMilli(),
	}
	e.store.SaveSavedPresets(preset.Prepend(e.store.LoadSavedPresets(), p))

	before := e.state.Clone()
	e.state.ActivePreset = p.Tag()
	e.commit("save-preset", before, nil)
	return p, nil
}

// LoadPreset replaces the council with the saved preset id.
func (e *Engine) LoadPreset(id string) Result {
	p, ok := preset.Find(e.store.LoadSavedPresets(), id)
	if !ok {
		return Result{Reason: ErrPresetNotFound}
	}
	members := e.restoreMembers(p.Models)
	if len(members) < MinModels || !e.cat.Has(p.Chairman) {
		return Result{Reason: ErrPresetUnavailable}
	}
	before := e.state.Clone()
	if !e.install(members, p.Chairman, p.Tag()) {
		return Result{Reason: ErrPresetUnavailable}
	}
	if p.CouncilSize > 0 {
		e.state.TargetSize = ClampSize(p.CouncilSize, e.maxModels)
	}
	e.restoreSession(p.ExecutionMode, p.RouterSource)
	return e.commit("load-preset", before, nil)
}

// DeletePreset removes the saved preset id.
func (e *Engine) DeletePreset(id string) error {
	list, ok := preset.Without(e.store.LoadSavedPresets(), id)
	if !ok {
		return ErrPresetNotFound
	}
	e.store.SaveSavedPresets(list)
	if e.state.ActivePreset == preset.TagFor(id) {
		before := e.state.Clone()
		e.state.ActivePreset = ""
		e.commit("delete-preset", before, nil)
	}
	return nil
}

// Confirm validates the council and saves it as the last used selection.
// An ineligible chairman is accepted only when no catalog entry could
// chair and allowDegraded is set.
func (e *Engine) Confirm(allowDegraded bool) (store.LastUsed, error) {
	if len(e.state.Selected) < MinModels || e.state.Chairman == "" {
		return store.LastUsed{}, ErrSelectionIncomplete
	}
	if !CanBeChairmanID(e.cat, e.state.Chairman) {
		if !e.Degraded() {
			return store.LastUsed{}, ErrChairmanIneligible
		}
		if !allowDegraded {
			return store.LastUsed{}, ErrNoEligibleChairman
		}
		e.log.WithField("chairman", e.state.Chairman).Warn("confirming council with an ineligible chairman")
	}
	last := store.LastUsed{
		Models:        slices.Clone(e.state.Selected),
		Chairman:      e.state.Chairman,
		ExecutionMode: e.session.ExecutionMode,
		RouterSource:  e.session.RouterSource,
		Timestamp:     e.now().UnixMilli(),
	}
	e.store.SaveLastUsed(last)
	return last, nil
}

// ResetForSource switches to another router source: the council, the
// preset tag and the provider, tier and free-only filters are cleared.
// The caller is expected to load the new source's catalog next.
func (e *Engine) ResetForSource(router string) Result {
	before := e.state.Clone()
	if router == "" {
		router = DefaultRouterSource
	}
	e.session.RouterSource = router
	e.state.Selected = nil
	e.state.Chairman = ""
	e.state.ActivePreset = ""
	e.filter.Provider = ""
	e.filter.Tier = ""
	e.filter.FreeOnly = false
	return e.commit("reset-source", before, nil)
}
