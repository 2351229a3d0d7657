package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/catalog"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/source"
	"github.com/spf13/cobra"
)

var catalogFilter catalog.Filter

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Prints the catalog view. Given filters are kept for later commands.",
	Run: func(cmd *cobra.Command, _ []string) {
		withApp(func(a *app) error {
			f := a.engine.Filter()
			flags := cmd.Flags()
			if flags.Changed("search") {
				f.Search = catalogFilter.Search
			}
			if flags.Changed("provider") {
				f.Provider = catalogFilter.Provider
			}
			if flags.Changed("tier") {
				f.Tier = catalogFilter.Tier
			}
			if flags.Changed("free") {
				f.FreeOnly = catalogFilter.FreeOnly
			}
			if flags.Changed("sort") {
				f.SortBy = catalogFilter.SortBy
			}
			if f != a.engine.Filter() {
				a.engine.SetFilter(f)
				a.dirty = true
			}
			return printView(a)
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reloads the catalog file whenever it changes and reconciles the council with it.",
	Run: func(_ *cobra.Command, _ []string) {
		withApp(watch)
	},
}

func init() {
	flags := catalogCmd.Flags()
	flags.StringVar(&catalogFilter.Search, "search", "", "case-insensitive match on name, id or provider")
	flags.StringVar(&catalogFilter.Provider, "provider", "", "only show this provider")
	flags.StringVar((*string)(&catalogFilter.Tier), "tier", "", "only show this tier (premium, standard, budget, free)")
	flags.BoolVar(&catalogFilter.FreeOnly, "free", false, "only show free models")
	flags.StringVar(&catalogFilter.SortBy, "sort", "", "sort key: price-asc, price-desc, name-asc, name-desc, context-asc, context-desc")
}

func printView(a *app) error {
	st := a.engine.State()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tPROVIDER\tTIER\tCONTEXT\tOUTPUT PRICE")
	for _, e := range a.engine.View() {
		mark := ""
		switch {
		case e.ID == st.Chairman:
			mark = "C"
		case st.Has(e.ID):
			mark = "*"
		}
		price := e.OutputPrice
		if e.IsFree {
			price = "free"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n", mark, e.ID, e.Name, e.Provider, e.Tier, e.ContextLength, price)
	}
	return w.Flush()
}

// watch hands each reloaded snapshot to the engine from this goroutine;
// the watcher itself only forwards them.
func watch(a *app) error {
	path, ok := source.FilePath(a.src)
	if !ok {
		return fmt.Errorf("watch needs a file catalog source, not %s", a.src.Describe())
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	snapshots := make(chan catalog.Snapshot)
	done := make(chan error, 1)
	go func() {
		done <- catalog.Watch(ctx, path, func(s catalog.Snapshot) {
			select {
			case snapshots <- s:
			case <-ctx.Done():
			}
		}, catalog.WithErrorHandler(func(err error) {
			a.log.WithError(err).Warn("catalog reload failed")
		}))
	}()

	fmt.Printf("Watching %s, press Ctrl+C to stop.\n", path)
	for {
		select {
		case s := <-snapshots:
			a.useSnapshot(s, true)
			if err := printSummary(a); err != nil {
				return err
			}
			if err := a.save(); err != nil {
				a.log.WithError(err).Warn("failed to save session")
			}
		case err := <-done:
			return err
		}
	}
}
