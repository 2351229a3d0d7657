package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/config"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/council"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/logging"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/source"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/store"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/workspace"
	"github.com/sirupsen/logrus"
)

// app is the engine of one CLI invocation together with everything it
// was built from.
type app struct {
	root    string
	cfg     *config.Config
	engine  *council.Engine
	backend store.Backend
	src     source.Source
	log     *logrus.Entry

	// dirty is set whenever the selection, filter or settings changed and
	// the session file needs rewriting.
	dirty bool
}

// openApp locates the project, fetches the catalog and resumes the
// session saved by the previous invocation. Without a session the last
// confirmed council is restored.
func openApp(ctx context.Context) (*app, error) {
	root, err := workspace.FindRoot(".")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if catalogPath != "" {
		cfg.Source.Kind = config.SourceFile
		cfg.Source.Path = catalogPath
	}
	if maxModels > 0 {
		cfg.MaxModels = maxModels
	}

	a := &app{root: root, cfg: cfg, log: logging.For("cli")}
	backend, err := store.Open(cfg.Store.Backend, config.Resolve(root, cfg.Store.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	a.backend = backend

	a.engine = council.New(
		council.WithMaxModels(cfg.MaxModels),
		council.WithStore(backend),
		council.WithOnChange(func(c council.Change) {
			a.dirty = true
		}),
	)
	for _, err := range a.engine.Registry().Merge(cfg.BuiltIns()) {
		a.log.WithError(err).Warn("ignoring configured preset")
	}

	a.src = source.Resolve(cfg, root)
	snap, err := a.src.Fetch(ctx)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to load catalog from %s: %w", a.src.Describe(), err)
	}

	sess, ok, err := workspace.LoadSession(root)
	if err != nil {
		a.log.WithError(err).Warn("discarding unreadable session")
		ok = false
	}
	if ok {
		a.engine.SetState(sess.State)
		a.engine.SetFilter(sess.Filter)
		a.engine.SetSession(sess.Settings)
	} else {
		a.engine.SetFilter(catalog.Filter{SortBy: cfg.Filters.Sort})
		a.engine.SetSession(council.Session{ExecutionMode: cfg.ExecutionMode, RouterSource: cfg.RouterSource})
	}

	if reset := a.useSnapshot(snap, false); !ok {
		if !reset {
			a.note(a.engine.RestoreLastUsed())
		}
		a.dirty = true
	}
	return a, nil
}

// useSnapshot makes snap the engine's catalog. A changed router source
// starts over from the last confirmed council and reports true. Otherwise
// the council is reconciled at its target size when always is set, when
// the catalog dropped members, or when it breaks a selection rule against
// the new catalog.
func (a *app) useSnapshot(snap catalog.Snapshot, always bool) bool {
	if maxModels == 0 && snap.MaxModels > 0 {
		a.engine.SetMaxModels(snap.MaxModels)
	}
	cat := snap.Catalog()
	if n := cat.Dropped(); n > 0 {
		a.log.WithField("dropped", n).Warn("catalog entries without an id or with a duplicate id were skipped")
	}
	a.engine.SetCatalog(cat)

	if snap.RouterSource != "" && snap.RouterSource != a.engine.Session().RouterSource {
		a.log.WithField("router", snap.RouterSource).Info("router source changed, starting a new council")
		a.engine.ResetForSource(snap.RouterSource)
		a.note(a.engine.RestoreLastUsed())
		return true
	}

	st := a.engine.State()
	stale := slices.ContainsFunc(st.Selected, func(id string) bool { return !cat.Has(id) })
	if always || stale || council.CheckInvariants(st, cat, a.engine.MaxModels()) != nil {
		a.note(a.engine.AdjustToSize(st.TargetSize))
	}
	return false
}

// save writes the session when it changed since the last save.
func (a *app) save() error {
	if !a.dirty {
		return nil
	}
	err := workspace.SaveSession(a.root, workspace.Session{
		State:    a.engine.State(),
		Filter:   a.engine.Filter(),
		Settings: a.engine.Session(),
	})
	if err == nil {
		a.dirty = false
	}
	return err
}

// close saves the session and releases the store.
func (a *app) close() error {
	defer a.backend.Close()
	return a.save()
}

// note prints why an operation was refused or only partly applied.
func (a *app) note(res council.Result) {
	if res.Reason != nil {
		fmt.Printf("Note: %v\n", res.Reason)
	}
}

// withApp runs fn against a freshly opened app and persists the session
// afterwards. Errors end the process.
func withApp(fn func(a *app) error) {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	runErr := fn(a)
	if err := a.close(); err != nil {
		fmt.Printf("Error saving session: %v\n", err)
		os.Exit(1)
	}
	if runErr != nil {
		fmt.Printf("Error: %v\n", runErr)
		os.Exit(1)
	}
}
