// Package report renders a plain-text summary of a council selection.
package report

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/config"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/council"
	"github.com/cbroglie/mustache"
)

//go:embed embedded/*
var embedded embed.FS

const templateName = "summary.txt.mustache"

// Member is one row of the summary.
type Member struct {
	Index         int
	ID            string
	Name          string
	Provider      string
	ContextLength int
	Chairman      bool
	Eligible      bool
	Missing       bool
}

// Summary is the data handed to the template.
type Summary struct {
	Members       []Member
	Count         int
	TargetSize    int
	MaxModels     int
	ActivePreset  string
	ExecutionMode string
	RouterSource  string
	Degraded      bool
	Warnings      []string
}

// Build assembles the summary for the engine's current selection.
func Build(e *council.Engine) Summary {
	st := e.State()
	cat := e.Catalog()
	sess := e.Session()

	s := Summary{
		Count:         len(st.Selected),
		TargetSize:    st.TargetSize,
		MaxModels:     e.MaxModels(),
		ActivePreset:  st.ActivePreset,
		ExecutionMode: sess.ExecutionMode,
		RouterSource:  sess.RouterSource,
		Degraded:      e.Degraded(),
	}
	for i, id := range st.Selected {
		m := Member{Index: i + 1, ID: id, Chairman: id == st.Chairman}
		if entry := cat.Get(id); entry != nil {
			m.Name = entry.Name
			m.Provider = entry.Provider
			m.ContextLength = entry.ContextLength
			m.Eligible = council.CanBeChairman(entry)
		} else {
			m.Missing = true
		}
		s.Members = append(s.Members, m)
	}
	s.Warnings = warnings(st, cat, s)
	return s
}

func warnings(st council.State, cat *catalog.Catalog, s Summary) []string {
	var out []string
	if len(st.Selected) < council.MinModels {
		out = append(out, fmt.Sprintf("select at least %d models", council.MinModels))
	}
	switch {
	case st.Chairman == "":
		out = append(out, "no chairman selected")
	case s.Degraded:
		out = append(out, "no model in the catalog can chair the council; the chairman is a best-effort pick")
	case !council.CanBeChairmanID(cat, st.Chairman):
		out = append(out, fmt.Sprintf("chairman %s needs at least %d context tokens", st.Chairman, council.MinChairmanContext))
	}
	for _, m := range s.Members {
		if m.Missing {
			out = append(out, fmt.Sprintf("%s is no longer in the catalog", m.ID))
		}
	}
	return out
}

// loadTemplate returns the project override in .council/templates when
// present, and the embedded template otherwise.
func loadTemplate(projectRoot string) (string, error) {
	if projectRoot != "" {
		data, err := os.ReadFile(filepath.Join(projectRoot, config.Dir, "templates", templateName))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	data, err := embedded.ReadFile("embedded/" + templateName)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Render renders s with the template for projectRoot. An empty
// projectRoot always uses the embedded template.
func Render(s Summary, projectRoot string) (string, error) {
	text, err := loadTemplate(projectRoot)
	if err != nil {
		return "", err
	}
	tmpl, err := mustache.ParseString(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse summary template: %w", err)
	}
	return tmpl.Render(s)
}
