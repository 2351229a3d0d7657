package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Supported catalog file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Snapshot is what an external source hands over after a fetch: the
// entries plus the optional router source and max-models hints the council
// backend attaches to its /api/models response.
type Snapshot struct {
	Entries      []Entry
	RouterSource string
	MaxModels    int
}

// Catalog builds the indexed catalog for the snapshot's entries.
func (s Snapshot) Catalog() *Catalog {
	return New(s.Entries)
}

// envelope mirrors the backend response. TOML files can only carry the
// envelope form since TOML documents are always tables.
type envelope struct {
	Models     []Entry `json:"models" yaml:"models" toml:"models"`
	RouterType string  `json:"router_type" yaml:"router_type" toml:"router_type"`
	MaxModels  int     `json:"max_models" yaml:"max_models" toml:"max_models"`
}

// FormatFromPath derives the decoding format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported catalog file extension %q", filepath.Ext(path))
	}
}

// LoadFile reads and decodes a catalog file.
func LoadFile(path string) (Snapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Snapshot{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	snap, err := Decode(data, format)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}
	return snap, nil
}

// Decode parses data in the given format. JSON and YAML accept either a
// bare list of entries or the backend envelope.
func Decode(data []byte, format string) (Snapshot, error) {
	var env envelope
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &env.Models); err != nil {
				return Snapshot{}, err
			}
			break
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Snapshot{}, err
		}
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return Snapshot{}, err
		}
		if len(node.Content) == 0 {
			break
		}
		root := node.Content[0]
		if root.Kind == yaml.SequenceNode {
			if err := root.Decode(&env.Models); err != nil {
				return Snapshot{}, err
			}
			break
		}
		if err := root.Decode(&env); err != nil {
			return Snapshot{}, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &env); err != nil {
			return Snapshot{}, err
		}
	default:
		return Snapshot{}, fmt.Errorf("unsupported catalog format %q", format)
	}
	return Snapshot{Entries: env.Models, RouterSource: env.RouterType, MaxModels: env.MaxModels}, nil
}
