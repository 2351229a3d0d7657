package council

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
)

// Preset tag for a restored last-used selection. Built-in presets are
// tagged with their key and saved presets with preset.TagFor.
const TagLastUsed = "last"

// State is the selection owned by an Engine.
type State struct {
	Selected     []string `json:"selected"`
	Chairman     string   `json:"chairman,omitempty"`
	TargetSize   int      `json:"targetSize"`
	ActivePreset string   `json:"activePreset,omitempty"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Selected = slices.Clone(s.Selected)
	return s
}

// Has reports whether id is a member.
func (s State) Has(id string) bool {
	return contains(s.Selected, id)
}

// Equal reports whether s and o describe the same selection. A nil and an
// empty member list are equal.
func (s State) Equal(o State) bool {
	return slices.Equal(s.Selected, o.Selected) &&
		s.Chairman == o.Chairman &&
		s.TargetSize == o.TargetSize &&
		s.ActivePreset == o.ActivePreset
}

// InvariantError describes one broken selection invariant.
type InvariantError struct {
	Rule   string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Detail)
}

// CheckInvariants validates s against cat and maxModels and returns every
// violation joined into one error, or nil.
func CheckInvariants(s State, cat *catalog.Catalog, maxModels int) error {
	var errs []error
	fail := func(rule, format string, args ...any) {
		errs = append(errs, &InvariantError{Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]bool, len(s.Selected))
	for _, id := range s.Selected {
		if seen[id] {
			fail("unique-members", "%q selected more than once", id)
		}
		seen[id] = true
	}
	if len(s.Selected) > maxModels {
		fail("max-models", "%d members exceed the limit of %d", len(s.Selected), maxModels)
	}
	if s.Chairman != "" {
		if !seen[s.Chairman] {
			fail("chairman-member", "chairman %q is not a member", s.Chairman)
		}
		if !CanBeChairmanID(cat, s.Chairman) && anyEligible(cat) {
			fail("chairman-eligible", "chairman %q is missing or has less than %d context tokens", s.Chairman, MinChairmanContext)
		}
	}
	if s.TargetSize < MinModels || s.TargetSize > maxModels {
		fail("target-size", "target size %d outside [%d, %d]", s.TargetSize, MinModels, maxModels)
	}
	return errors.Join(errs...)
}
