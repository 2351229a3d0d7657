package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/council"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/report"
	"github.com/spf13/cobra"
)

var allowDegraded bool

var toggleCmd = &cobra.Command{
	Use:   "toggle <model-id>",
	Short: "Adds the model to the council, or removes it when it is already a member.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		mutate(func(e *council.Engine) council.Result { return e.Toggle(args[0]) })
	},
}

var removeMemberCmd = &cobra.Command{
	Use:   "remove-member <model-id>",
	Short: "Removes the model from the council.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		mutate(func(e *council.Engine) council.Result { return e.Remove(args[0]) })
	},
}

var chairmanCmd = &cobra.Command{
	Use:   "chairman <model-id>",
	Short: "Designates the chairman, adding it to the council if needed.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		mutate(func(e *council.Engine) council.Result { return e.SetChairman(args[0]) })
	},
}

var sizeCmd = &cobra.Command{
	Use:   "size <n>",
	Short: "Grows or shrinks the council to n members.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("Error: invalid size %q\n", args[0])
			os.Exit(1)
		}
		mutate(func(e *council.Engine) council.Result { return e.AdjustToSize(n) })
	},
}

var luckyCmd = &cobra.Command{
	Use:   "lucky [n]",
	Short: "Draws a random council of n members, or of the current target size.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		n := 0
		if len(args) == 1 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil {
				fmt.Printf("Error: invalid size %q\n", args[0])
				os.Exit(1)
			}
		}
		mutate(func(e *council.Engine) council.Result { return e.LuckyPick(n) })
	},
}

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Restores the last confirmed council.",
	Run: func(_ *cobra.Command, _ []string) {
		mutate(func(e *council.Engine) council.Result { return e.RestoreLastUsed() })
	},
}

var modeCmd = &cobra.Command{
	Use:   "mode <chat_only|chat_ranking|full>",
	Short: "Sets the execution mode saved with the council.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withApp(func(a *app) error {
			if err := a.engine.SetExecutionMode(args[0]); err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}
			a.dirty = true
			fmt.Printf("Execution mode set to %s.\n", args[0])
			return nil
		})
	},
}

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Validates the council, saves it as the last used one and prints it as JSON.",
	Run: func(_ *cobra.Command, _ []string) {
		withApp(func(a *app) error {
			last, err := a.engine.Confirm(allowDegraded)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(last, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints a summary of the current council.",
	Run: func(_ *cobra.Command, _ []string) {
		withApp(printSummary)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Checks the saved council against the current catalog.",
	Run: func(_ *cobra.Command, _ []string) {
		withApp(func(a *app) error {
			if err := council.CheckInvariants(a.engine.State(), a.engine.Catalog(), a.engine.MaxModels()); err != nil {
				return err
			}
			if a.engine.Degraded() {
				fmt.Println("Council is consistent, but no catalog entry can chair it.")
				return nil
			}
			fmt.Println("Council is consistent.")
			return nil
		})
	},
}

func init() {
	confirmCmd.Flags().BoolVar(&allowDegraded, "allow-degraded", false, "accept an ineligible chairman when no catalog entry is eligible")
}

// mutate applies op to the session's engine and prints the resulting
// council.
func mutate(op func(e *council.Engine) council.Result) {
	withApp(func(a *app) error {
		res := op(a.engine)
		a.note(res)
		if !res.Changed {
			fmt.Println("Council unchanged.")
		}
		return printSummary(a)
	})
}

func printSummary(a *app) error {
	out, err := report.Render(report.Build(a.engine), a.root)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
