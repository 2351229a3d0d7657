// Package store persists the "last used" council and the user's saved
// presets.
//
// Loads never fail from the caller's point of view: missing or malformed
// data comes back as absent (or an empty list) and the problem is logged.
// Saves are fire-and-forget for the same reason; a backend that cannot
// write logs a warning and the session carries on with its in-memory state.
package store

import (
	"github.com/Atanycosts/LLM-Council-Plus-new-api/preset"
)

// LastUsed is the snapshot written when a council is confirmed.
type LastUsed struct {
	Models        []string `json:"models"`
	Chairman      string   `json:"chairman"`
	ExecutionMode string   `json:"executionMode,omitempty"`
	RouterSource  string   `json:"routerType,omitempty"`
	// Timestamp is in unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Store is the persistence contract consumed by the council engine.
type Store interface {
	LoadLastUsed() (*LastUsed, bool)
	SaveLastUsed(LastUsed)
	LoadSavedPresets() []preset.Preset
	SaveSavedPresets([]preset.Preset)
}

// Storage keys shared by the backends.
const (
	KeyLastUsed     = "last-selection"
	KeySavedPresets = "saved-presets"
)

// Memory is an in-process Store. The zero value is ready to use.
type Memory struct {
	last    *LastUsed
	presets []preset.Preset
}

var _ Store = (*Memory)(nil)

func (m *Memory) LoadLastUsed() (*LastUsed, bool) {
	if m.last == nil {
		return nil, false
	}
	cp := *m.last
	cp.Models = append([]string(nil), m.last.Models...)
	return &cp, true
}

func (m *Memory) SaveLastUsed(l LastUsed) {
	l.Models = append([]string(nil), l.Models...)
	m.last = &l
}

func (m *Memory) LoadSavedPresets() []preset.Preset {
	return append([]preset.Preset(nil), m.presets...)
}

func (m *Memory) SaveSavedPresets(list []preset.Preset) {
	m.presets = append([]preset.Preset(nil), list...)
}
