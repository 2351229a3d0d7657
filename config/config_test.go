package config

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/preset"
	"github.com/google/go-cmp/cmp"
)

func TestLoadFS_Default(t *testing.T) {
	fsys := fstest.MapFS{}

	cfg, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("default config mismatch (-want, +got):\n%s", diff)
	}
}

func TestLoadFS_FromFile(t *testing.T) {
	yml := `
max-models: 7
router-source: direct
execution-mode: chat_ranking
source:
  kind: HTTP
  base-url: http://localhost:8001
  timeout: 5s
store:
  backend: sqlite
filters:
  sort: context-desc
presets:
  - key: fast
    patterns: ["*-flash*", "mini"]
    chairman-pattern: flash
logging:
  level: debug
`
	fsys := fstest.MapFS{
		RelPath: &fstest.MapFile{Data: []byte(yml)},
	}

	cfg, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Config{
		MaxModels:     7,
		RouterSource:  "direct",
		ExecutionMode: "chat_ranking",
		Source:        Source{Kind: SourceHTTP, BaseURL: "http://localhost:8001", Timeout: 5 * time.Second},
		Store:         Store{Backend: "sqlite", Path: ".council/state"},
		Filters:       Filters{Sort: "context-desc"},
		Presets:       []Preset{{Key: "fast", Patterns: []string{"*-flash*", "mini"}, ChairmanPattern: "flash"}},
		Logging:       Logging{Level: "debug"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want, +got):\n%s", diff)
	}
}

func TestLoadFS_Normalizes(t *testing.T) {
	fsys := fstest.MapFS{
		RelPath: &fstest.MapFile{Data: []byte("max-models: 1\nexecution-mode: turbo\nstore:\n  backend: redis\n")},
	}

	cfg, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("expected defaults for invalid values (-want, +got):\n%s", diff)
	}
}

func TestLoadFS_Invalid(t *testing.T) {
	fsys := fstest.MapFS{
		RelPath: &fstest.MapFile{Data: []byte("max-models: [oops")},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Fatalf("expected an error for malformed yaml")
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.MaxModels = 4
	cfg.Source.Timeout = 90 * time.Second

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("round trip mismatch (-want, +got):\n%s", diff)
	}
}

func TestBuiltIns(t *testing.T) {
	cfg := Default()
	cfg.Presets = []Preset{
		{Key: "cheap", Tier: "budget", MaxModels: 3},
		{Key: "duo", Patterns: []string{"a", "b"}, ChairmanPattern: "b"},
	}
	want := []preset.BuiltIn{
		{Key: "cheap", TierFilter: catalog.TierBudget, MaxModels: 3},
		{Key: "duo", ModelPatterns: []string{"a", "b"}, ChairmanPattern: "b"},
	}
	if diff := cmp.Diff(want, cfg.BuiltIns()); diff != "" {
		t.Fatalf("built-ins mismatch (-want, +got):\n%s", diff)
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve("/proj", "catalog.json"); got != "/proj/catalog.json" {
		t.Errorf("Resolve relative = %q", got)
	}
	if got := Resolve("/proj", "/abs/c.json"); got != "/abs/c.json" {
		t.Errorf("Resolve absolute = %q", got)
	}
}
