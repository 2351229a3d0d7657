package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/tokens"
	"github.com/spf13/cobra"
)

var responseReserve int

var fitCmd = &cobra.Command{
	Use:   "fit <prompt-file>",
	Short: "Checks that a prompt fits the context window of every council member and the chairman.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		prompt, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading prompt: %v\n", err)
			os.Exit(1)
		}
		withApp(func(a *app) error {
			rep, err := tokens.Check(string(prompt), a.engine.State(), a.engine.Catalog(), responseReserve)
			if err != nil {
				return fmt.Errorf("failed to count tokens: %w", err)
			}
			fmt.Printf("Prompt: %d tokens\n", rep.PromptTokens)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tROLE\tNEEDED\tCONTEXT\tFITS")
			for _, f := range rep.Members {
				role := "member"
				if f.Chairman {
					role = "chairman"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\n", f.ID, role, f.Needed, f.Context, f.Fits)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if !rep.Fits() {
				return fmt.Errorf("prompt does not fit every model")
			}
			return nil
		})
	},
}

func init() {
	fitCmd.Flags().IntVar(&responseReserve, "reserve", tokens.DefaultResponseReserve, "tokens budgeted for each member's answer in the chairman's input")
}
