// Package preset resolves named council presets against a catalog.
//
// Two kinds exist. Built-in presets are process-wide rules (a tier filter,
// or an ordered list of id patterns plus an optional chairman pattern)
// that are matched against whatever catalog is current. Saved presets are
// user-created snapshots of an explicit selection, persisted by the store
// package and never edited in place.
package preset

import (
	"fmt"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
)

// DefaultTierPresetSize caps a tier preset that does not set MaxModels.
const DefaultTierPresetSize = 7

// Keys of the embedded built-in presets.
const (
	KeyUltra  = "ultra"
	KeyBudget = "budget"
	KeyFree   = "free"
)

// BuiltIn is a read-only selection rule. Exactly one of TierFilter or
// ModelPatterns is expected to be set; TierFilter wins when both are.
type BuiltIn struct {
	Key         string
	Name        string
	Description string

	TierFilter catalog.Tier
	// MaxModels caps tier presets; zero means DefaultTierPresetSize.
	MaxModels int

	ModelPatterns   []string
	ChairmanPattern string
}

// Validate checks the preset is usable.
func (b BuiltIn) Validate() error {
	if b.Key == "" {
		return fmt.Errorf("preset key is required")
	}
	if b.TierFilter == "" && len(b.ModelPatterns) == 0 {
		return fmt.Errorf("preset %q needs a tier or at least one model pattern", b.Key)
	}
	if b.MaxModels < 0 {
		return fmt.Errorf("preset %q has negative max models", b.Key)
	}
	return nil
}

var embedded = []BuiltIn{
	{
		Key:             KeyUltra,
		Name:            "Ultra",
		Description:     "Flagship models, quality first",
		ModelPatterns:   []string{"claude-opus", "gpt-5.1", "gemini-3-pro", "gpt-4o"},
		ChairmanPattern: "gemini-3-pro",
	},
	{
		Key:             KeyBudget,
		Name:            "Budget",
		Description:     "Better price/performance",
		ModelPatterns:   []string{"grok-4", "gpt-5-mini", "gemini-2.5-flash", "deepseek"},
		ChairmanPattern: "gemini-2.5-flash",
	},
	{
		Key:         KeyFree,
		Name:        "Free",
		Description: "Zero cost: free models only",
		TierFilter:  catalog.TierFree,
		MaxModels:   DefaultTierPresetSize,
	},
}

// Registry is an ordered set of built-in presets keyed by BuiltIn.Key.
type Registry struct {
	order []string
	byKey map[string]BuiltIn
}

// NewRegistry returns a registry holding the embedded built-ins.
func NewRegistry() *Registry {
	r := &Registry{byKey: make(map[string]BuiltIn)}
	for _, b := range embedded {
		r.put(b)
	}
	return r
}

// Merge adds extra presets, replacing any existing preset with the same
// key in place. Invalid presets are skipped and reported.
func (r *Registry) Merge(extra []BuiltIn) []error {
	var errs []error
	for _, b := range extra {
		if err := b.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		r.put(b)
	}
	return errs
}

func (r *Registry) put(b BuiltIn) {
	if _, exists := r.byKey[b.Key]; !exists {
		r.order = append(r.order, b.Key)
	}
	r.byKey[b.Key] = b
}

// Get returns the preset for key.
func (r *Registry) Get(key string) (BuiltIn, bool) {
	b, ok := r.byKey[key]
	return b, ok
}

// Keys returns the preset keys, embedded ones first.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// All returns the presets in Keys order.
func (r *Registry) All() []BuiltIn {
	out := make([]BuiltIn, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[k])
	}
	return out
}
