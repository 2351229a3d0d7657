package council

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/logging"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/preset"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/store"
	"github.com/sirupsen/logrus"
)

// Result reports the outcome of an operation. Reason is set when the
// operation was refused or only partly applied; it never means the engine
// is unusable.
type Result struct {
	Changed bool
	Reason  error
}

// Change is delivered to the WithOnChange callback after an operation
// modified the selection.
type Change struct {
	Op    string
	State State
}

// Session carries the descriptive settings saved with a selection.
type Session struct {
	ExecutionMode string `json:"executionMode"`
	RouterSource  string `json:"routerType"`
}

// Engine reconciles a council selection against a catalog snapshot.
type Engine struct {
	cat       *catalog.Catalog
	filter    catalog.Filter
	maxModels int
	state     State
	session   Session

	store    store.Store
	registry *preset.Registry
	rng      *rand.Rand
	log      logrus.FieldLogger
	onChange func(Change)
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxModels sets the council size limit. Values below MinModels are
// raised to MinModels.
func WithMaxModels(n int) Option {
	return func(e *Engine) { e.maxModels = max(n, MinModels) }
}

// WithStore sets the persistence backend. The default is an in-memory store.
func WithStore(s store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithRand sets the random source used by LuckyPick.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRegistry sets the built-in presets. The default holds the embedded ones.
func WithRegistry(r *preset.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithOnChange registers fn to be called after every operation that
// changed the selection.
func WithOnChange(fn func(Change)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// WithClock overrides the time source used for timestamps and preset ids.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an engine with an empty selection and no catalog.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxModels: DefaultMaxModels,
		filter:    catalog.Filter{SortBy: catalog.DefaultSort},
		session:   Session{ExecutionMode: DefaultExecutionMode, RouterSource: DefaultRouterSource},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = &store.Memory{}
	}
	if e.registry == nil {
		e.registry = preset.NewRegistry()
	}
	if e.rng == nil {
		seed := uint64(e.now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	if e.log == nil {
		e.log = logging.For("council")
	}
	e.state.TargetSize = e.maxModels
	return e
}

// SetCatalog replaces the catalog snapshot. The selection is left alone;
// callers reconcile stale members with AdjustToSize.
func (e *Engine) SetCatalog(cat *catalog.Catalog) {
	e.cat = cat
}

func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// SetFilter replaces the view filter used to grow a council and to draw
// lucky picks.
func (e *Engine) SetFilter(f catalog.Filter) {
	e.filter = f
}

func (e *Engine) Filter() catalog.Filter { return e.filter }

// View returns the current filtered and sorted catalog view.
func (e *Engine) View() []catalog.Entry {
	return e.cat.View(e.filter)
}

func (e *Engine) MaxModels() int { return e.maxModels }

// SetMaxModels changes the size limit. The target size is clamped into the
// new range, and a council larger than n is cut down keeping the chairman.
func (e *Engine) SetMaxModels(n int) Result {
	before := e.state.Clone()
	e.maxModels = max(n, MinModels)
	e.state.TargetSize = ClampSize(e.state.TargetSize, e.maxModels)
	if len(e.state.Selected) > e.maxModels {
		e.state.Selected = truncateKeeping(e.state.Selected, e.state.Chairman, e.maxModels)
	}
	return e.commit("set-max-models", before, nil)
}

// truncateKeeping cuts list to size preserving order; keep survives even
// when it sits past the cut.
func truncateKeeping(list []string, keep string, size int) []string {
	if !contains(list, keep) {
		return slices.Clone(list[:size])
	}
	out := make([]string, 0, size)
	room := size - 1
	for _, id := range list {
		switch {
		case id == keep:
			out = append(out, id)
		case room > 0:
			out = append(out, id)
			room--
		}
	}
	return out
}

// State returns a copy of the current selection.
func (e *Engine) State() State {
	return e.state.Clone()
}

// SetState replaces the selection, typically with one resumed from disk.
// Duplicates and empty ids are dropped, the council is cut to the size
// limit, a chairman that is not a member is cleared and the target size is
// clamped. Eligibility is not enforced; see Degraded and Confirm.
func (e *Engine) SetState(s State) {
	var list []string
	for _, id := range s.Selected {
		if id != "" && !contains(list, id) {
			list = append(list, id)
		}
	}
	if len(list) > e.maxModels {
		list = truncateKeeping(list, s.Chairman, e.maxModels)
	}
	if !contains(list, s.Chairman) {
		s.Chairman = ""
	}
	e.state = State{
		Selected:     list,
		Chairman:     s.Chairman,
		TargetSize:   ClampSize(s.TargetSize, e.maxModels),
		ActivePreset: s.ActivePreset,
	}
}

// Session returns the execution mode and router source of the selection.
func (e *Engine) Session() Session { return e.session }

// SetSession restores settings saved alongside a selection. An invalid
// mode or an empty router source keeps the current value.
func (e *Engine) SetSession(s Session) {
	e.restoreSession(s.ExecutionMode, s.RouterSource)
}

// SetExecutionMode sets the execution mode saved with the selection.
func (e *Engine) SetExecutionMode(mode string) error {
	if !ValidExecutionMode(mode) {
		return ErrInvalidExecutionMode
	}
	e.session.ExecutionMode = mode
	return nil
}

// Degraded reports whether the chairman is ineligible because no entry in
// the catalog is eligible at all.
func (e *Engine) Degraded() bool {
	return e.state.Chairman != "" &&
		!CanBeChairmanID(e.cat, e.state.Chairman) &&
		!anyEligible(e.cat)
}

// Toggle removes id when it is a member and appends it otherwise. A full
// council or an id the catalog does not know is left unchanged.
func (e *Engine) Toggle(id string) Result {
	before := e.state.Clone()
	if e.state.Has(id) {
		e.drop(id)
		return e.commit("toggle", before, nil)
	}
	if !e.cat.Has(id) {
		return Result{Reason: ErrUnknownEntry}
	}
	if len(e.state.Selected) >= e.maxModels {
		return Result{Reason: ErrCouncilFull}
	}
	e.state.Selected = append(e.state.Selected, id)
	e.state.ActivePreset = ""
	return e.commit("toggle", before, nil)
}

// Remove drops id from the council.
func (e *Engine) Remove(id string) Result {
	before := e.state.Clone()
	if e.state.Has(id) {
		e.drop(id)
	}
	return e.commit("remove", before, nil)
}

func (e *Engine) drop(id string) {
	e.state.Selected = without(e.state.Selected, id)
	if e.state.Chairman == id {
		e.state.Chairman = ""
	}
	e.state.ActivePreset = ""
}

// SetChairman makes id the chairman, adding it to the council when there
// is room. Ineligible entries are refused, as is a non-member when the
// council is already full.
func (e *Engine) SetChairman(id string) Result {
	before := e.state.Clone()
	entry := e.cat.Get(id)
	if entry == nil {
		return Result{Reason: ErrUnknownEntry}
	}
	if !CanBeChairman(entry) {
		return Result{Reason: ErrChairmanIneligible}
	}
	if !e.state.Has(id) {
		if len(e.state.Selected) >= e.maxModels {
			return Result{Reason: ErrCouncilFull}
		}
		e.state.Selected = append(e.state.Selected, id)
	}
	e.state.Chairman = id
	e.state.ActivePreset = ""
	return e.commit("set-chairman", before, nil)
}

// commit finishes an operation: it reports whether the state moved away
// from before and notifies the change listener.
func (e *Engine) commit(op string, before State, reason error) Result {
	changed := !before.Equal(e.state)
	log := e.log.WithFields(logrus.Fields{
		"op":       op,
		"members":  len(e.state.Selected),
		"chairman": e.state.Chairman,
		"changed":  changed,
	})
	if reason != nil {
		log = log.WithError(reason)
	}
	log.Debug("selection updated")
	if changed && e.onChange != nil {
		e.onChange(Change{Op: op, State: e.state.Clone()})
	}
	return Result{Changed: changed, Reason: reason}
}
