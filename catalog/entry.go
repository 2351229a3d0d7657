// Package catalog holds the model catalog snapshot the council is selected
// from, and the filtered, sorted view the selection engine grows from.
package catalog

// Tier is the coarse cost/quality bucket of a catalog entry.
//
// NOTE: keep the string literals all-lowercase, they are written verbatim
// by the council backend and into catalog files.
//
// Unknown values are preserved as-is: a catalog may carry a tier this
// package does not know about, and it simply never matches a tier filter
// other than itself.
type Tier string

const (
	TierPremium  Tier = "premium"
	TierStandard Tier = "standard"
	TierBudget   Tier = "budget"
	TierFree     Tier = "free"
)

func (t Tier) String() string { return string(t) }

// IsValid reports whether t is one of the known tiers.
func (t Tier) IsValid() bool {
	switch t {
	case TierPremium, TierStandard, TierBudget, TierFree:
		return true
	default:
		return false
	}
}

// AllTiers returns the known tiers from most to least expensive.
func AllTiers() []Tier {
	return []Tier{TierPremium, TierStandard, TierBudget, TierFree}
}

// Entry is an immutable snapshot of one selectable model.
//
// Field names on the wire follow the council backend's camelCase payload so
// that a catalog dumped from GET /api/models can be loaded back unchanged.
type Entry struct {
	ID             string  `json:"id" yaml:"id" toml:"id"`
	Name           string  `json:"name" yaml:"name" toml:"name"`
	Provider       string  `json:"provider" yaml:"provider" toml:"provider"`
	Tier           Tier    `json:"tier" yaml:"tier" toml:"tier"`
	ContextLength  int     `json:"contextLength" yaml:"contextLength" toml:"contextLength"`
	OutputPriceRaw float64 `json:"outputPriceRaw" yaml:"outputPriceRaw" toml:"outputPriceRaw"`
	IsFree         bool    `json:"isFree" yaml:"isFree" toml:"isFree"`

	// Display-only attributes.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	InputPrice  string `json:"inputPrice,omitempty" yaml:"inputPrice,omitempty" toml:"inputPrice,omitempty"`
	OutputPrice string `json:"outputPrice,omitempty" yaml:"outputPrice,omitempty" toml:"outputPrice,omitempty"`
}
