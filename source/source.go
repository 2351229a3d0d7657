// Package source fetches catalog snapshots from the backend selected in
// the project configuration.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/config"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/logging"
)

// Source produces catalog snapshots.
type Source interface {
	Fetch(ctx context.Context) (catalog.Snapshot, error)
	// Describe names the source for messages.
	Describe() string
}

type fileSource struct {
	path string
}

type httpSource struct {
	endpoint   string
	routerType string
	apiKey     string
	client     *http.Client
}

type unknownSource struct {
	kind string
}

// Resolve maps cfg.Source to one of the known sources. Relative file paths
// are anchored at projectRoot. An unknown kind yields a stub whose Fetch
// always fails.
func Resolve(cfg *config.Config, projectRoot string) Source {
	switch strings.ToLower(cfg.Source.Kind) {
	case config.SourceFile:
		return &fileSource{path: config.Resolve(projectRoot, cfg.Source.Path)}
	case config.SourceHTTP:
		s := &httpSource{
			endpoint:   strings.TrimRight(cfg.Source.BaseURL, "/") + "/api/models",
			routerType: cfg.RouterSource,
			client:     &http.Client{Timeout: cfg.Source.Timeout},
		}
		if cfg.Source.APIKeyEnv != "" {
			s.apiKey = os.Getenv(cfg.Source.APIKeyEnv)
		}
		return s
	default:
		return &unknownSource{kind: cfg.Source.Kind}
	}
}

// -----------------------------------------------------------------------------
//  File source
// -----------------------------------------------------------------------------

func (s *fileSource) Fetch(ctx context.Context) (catalog.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Snapshot{}, err
	}
	return catalog.LoadFile(s.path)
}

func (s *fileSource) Describe() string { return "file " + s.path }

// Path is the catalog file watched by the watch command.
func (s *fileSource) Path() string { return s.path }

// FilePath returns the catalog path when src reads from a file.
func FilePath(src Source) (string, bool) {
	fs, ok := src.(*fileSource)
	if !ok {
		return "", false
	}
	return fs.Path(), true
}

// -----------------------------------------------------------------------------
//  HTTP source
// -----------------------------------------------------------------------------

type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

func (s *httpSource) Describe() string { return "http " + s.endpoint }

func (s *httpSource) Fetch(ctx context.Context) (catalog.Snapshot, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("invalid base url: %w", err)
	}
	if s.routerType != "" {
		q := u.Query()
		q.Set("router_type", s.routerType)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	log := logging.For("source").WithField("url", u.String())
	started := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to fetch models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to read models response: %w", err)
	}
	log.WithField("status", resp.StatusCode).WithField("elapsed", time.Since(started)).Debug("fetched models")

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if json.Unmarshal(body, &er) == nil && (er.Detail != "" || er.Error != "") {
			return catalog.Snapshot{}, fmt.Errorf("models endpoint returned %d: %s", resp.StatusCode, er.Detail+er.Error)
		}
		return catalog.Snapshot{}, fmt.Errorf("models endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	snap, err := catalog.Decode(body, catalog.FormatJSON)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to decode models response: %w", err)
	}
	if snap.RouterSource == "" {
		snap.RouterSource = s.routerType
	}
	return snap, nil
}

// -----------------------------------------------------------------------------
//	Unknown source is a failing stub
// -----------------------------------------------------------------------------

func (s *unknownSource) Fetch(context.Context) (catalog.Snapshot, error) {
	return catalog.Snapshot{}, fmt.Errorf("unknown catalog source %q", s.kind)
}

func (s *unknownSource) Describe() string { return "unknown " + s.kind }
