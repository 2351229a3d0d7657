package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/council"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/preset"
	"gopkg.in/yaml.v3"
)

// Dir is the per-project directory holding configuration and state.
const Dir = ".council"

// RelPath is the configuration file location relative to the project root.
const RelPath = Dir + "/config.yaml"

// Config captures project settings stored in .council/config.yaml.
//
// Example YAML:
//
//	max-models: 5
//	router-source: openrouter
//	source:
//	  kind: file
//	  path: catalog.json
//	store:
//	  backend: sqlite
//
// Zero-value Config is invalid; use Default() when no config file is
// found. Values that are missing or out of range are replaced with the
// defaults by Normalize.
type Config struct {
	MaxModels     int      `yaml:"max-models"`
	RouterSource  string   `yaml:"router-source"`
	ExecutionMode string   `yaml:"execution-mode"`
	Source        Source   `yaml:"source"`
	Store         Store    `yaml:"store"`
	Filters       Filters  `yaml:"filters"`
	Presets       []Preset `yaml:"presets,omitempty"`
	Logging       Logging  `yaml:"logging"`
}

// Source selects where the catalog comes from.
type Source struct {
	// Kind is "file" or "http".
	Kind string `yaml:"kind"`
	// Path is the catalog file for the file source, relative to the
	// project root unless absolute.
	Path    string        `yaml:"path,omitempty"`
	BaseURL string        `yaml:"base-url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// APIKeyEnv names an environment variable holding a bearer token for
	// the http source.
	APIKeyEnv string `yaml:"api-key-env,omitempty"`
}

// Store selects the persistence backend.
type Store struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// Filters holds the initial catalog view settings.
type Filters struct {
	Sort string `yaml:"sort"`
}

// Preset declares an extra built-in preset. A preset with the key of an
// embedded one replaces it.
type Preset struct {
	Key             string   `yaml:"key"`
	Name            string   `yaml:"name,omitempty"`
	Description     string   `yaml:"description,omitempty"`
	Tier            string   `yaml:"tier,omitempty"`
	MaxModels       int      `yaml:"max-models,omitempty"`
	Patterns        []string `yaml:"patterns,omitempty"`
	ChairmanPattern string   `yaml:"chairman-pattern,omitempty"`
}

// Logging captures logging-specific settings.
type Logging struct {
	Level string `yaml:"level"`
}

const (
	SourceFile = "file"
	SourceHTTP = "http"

	defaultCatalogPath = "catalog.json"
	defaultTimeout     = 30 * time.Second
	defaultStorePath   = Dir + "/state"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with hard-coded defaults. It should
// be used whenever .council/config.yaml is missing.
func Default() *Config {
	return &Config{
		MaxModels:     council.DefaultMaxModels,
		RouterSource:  council.DefaultRouterSource,
		ExecutionMode: council.DefaultExecutionMode,
		Source: Source{
			Kind:    SourceFile,
			Path:    defaultCatalogPath,
			Timeout: defaultTimeout,
		},
		Store: Store{
			Backend: "file",
			Path:    defaultStorePath,
		},
		Filters: Filters{Sort: catalog.DefaultSort},
		Logging: Logging{Level: defaultLogLevel},
	}
}

// Normalize replaces missing or invalid values with their defaults.
func (c *Config) Normalize() {
	def := Default()
	if c.MaxModels < council.MinModels {
		c.MaxModels = def.MaxModels
	}
	if c.RouterSource == "" {
		c.RouterSource = def.RouterSource
	}
	if !council.ValidExecutionMode(c.ExecutionMode) {
		c.ExecutionMode = def.ExecutionMode
	}

	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	if c.Source.Kind == "" {
		c.Source.Kind = def.Source.Kind
	}
	if c.Source.Kind == SourceFile && c.Source.Path == "" {
		c.Source.Path = def.Source.Path
	}
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = def.Source.Timeout
	}

	switch strings.ToLower(c.Store.Backend) {
	case "file", "sqlite":
		c.Store.Backend = strings.ToLower(c.Store.Backend)
	default:
		c.Store.Backend = def.Store.Backend
	}
	if c.Store.Path == "" {
		c.Store.Path = def.Store.Path
	}

	if c.Filters.Sort == "" {
		c.Filters.Sort = def.Filters.Sort
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

// BuiltIns converts the configured presets for preset.Registry.Merge.
func (c *Config) BuiltIns() []preset.BuiltIn {
	out := make([]preset.BuiltIn, 0, len(c.Presets))
	for _, p := range c.Presets {
		out = append(out, preset.BuiltIn{
			Key:             p.Key,
			Name:            p.Name,
			Description:     p.Description,
			TierFilter:      catalog.Tier(p.Tier),
			MaxModels:       p.MaxModels,
			ModelPatterns:   p.Patterns,
			ChairmanPattern: p.ChairmanPattern,
		})
	}
	return out
}

// Resolve returns path anchored at projectRoot unless it is absolute.
func Resolve(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}

// Load reads .council/config.yaml located under projectRoot. When the file
// does not exist the function returns Default() with a nil error so the
// caller can proceed transparently. Any other I/O or unmarshalling error
// is propagated.
func Load(projectRoot string) (*Config, error) {
	if projectRoot == "" {
		return nil, fmt.Errorf("projectRoot must not be empty")
	}
	return LoadFS(os.DirFS(projectRoot))
}

// LoadFS performs the same operation as Load but works directly on an
// fs.FS. This facilitates unit-testing with fstest.MapFS.
func LoadFS(fsys fs.FS) (*Config, error) {
	data, err := fs.ReadFile(fsys, RelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", RelPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", RelPath, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to .council/config.yaml under projectRoot.
func Save(projectRoot string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(projectRoot, RelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", RelPath, err)
	}
	return nil
}
