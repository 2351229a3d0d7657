package preset

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxSaved is how many saved presets are retained; the oldest fall off.
const MaxSaved = 50

// Preset is a user-saved council configuration.
type Preset struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	RouterSource  string   `json:"routerType,omitempty"`
	ExecutionMode string   `json:"executionMode,omitempty"`
	CouncilSize   int      `json:"councilSize,omitempty"`
	Models        []string `json:"models"`
	Chairman      string   `json:"chairman"`
	// CreatedAt is in unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

// Tag returns the active-preset label used for a loaded saved preset.
func (p Preset) Tag() string {
	return TagFor(p.ID)
}

// TagFor returns "saved:<id>".
func TagFor(id string) string {
	return "saved:" + id
}

// NewID returns a fresh preset id of the form "<unix-ms>-<hex>".
func NewID(now time.Time) string {
	r := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%d-%s", now.UnixMilli(), r[:12])
}

// Prepend returns a new list with p first, truncated to MaxSaved.
func Prepend(list []Preset, p Preset) []Preset {
	out := make([]Preset, 0, min(len(list)+1, MaxSaved))
	out = append(out, p)
	for _, existing := range list {
		if len(out) >= MaxSaved {
			break
		}
		out = append(out, existing)
	}
	return out
}

// Find returns the preset with id.
func Find(list []Preset, id string) (Preset, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// Without returns a new list lacking id, and whether anything was removed.
func Without(list []Preset, id string) ([]Preset, bool) {
	out := make([]Preset, 0, len(list))
	removed := false
	for _, p := range list {
		if p.ID == id {
			removed = true
			continue
		}
		out = append(out, p)
	}
	return out, removed
}
