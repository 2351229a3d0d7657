package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/council"
	"github.com/spf13/cobra"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manages built-in and saved council presets.",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists built-in presets and saved presets, newest first.",
	Run: func(_ *cobra.Command, _ []string) {
		withApp(func(a *app) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BUILT-IN\tNAME\tDESCRIPTION")
			for _, b := range a.engine.Registry().All() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", b.Key, b.Name, b.Description)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "SAVED\tNAME\tMODELS\tCHAIRMAN\tCREATED")
			for _, p := range a.engine.SavedPresets() {
				created := time.UnixMilli(p.CreatedAt).Format(time.DateTime)
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", p.ID, p.Name, len(p.Models), p.Chairman, created)
			}
			return w.Flush()
		})
	},
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply <key>",
	Short: "Replaces the council with the members a built-in preset matches in the catalog.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		mutate(func(e *council.Engine) council.Result { return e.ApplyBuiltIn(args[0]) })
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Saves the current council as a preset. Prompts for a name when none is given.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		name := strings.Join(args, " ")
		if strings.TrimSpace(name) == "" {
			if err := survey.AskOne(&survey.Input{Message: "Preset name:"}, &name, survey.WithValidator(survey.Required)); err != nil {
				fmt.Printf("Error reading preset name: %v\n", err)
				os.Exit(1)
			}
		}
		withApp(func(a *app) error {
			p, err := a.engine.SavePreset(name)
			if err != nil {
				return err
			}
			fmt.Printf("Saved preset %q as %s.\n", p.Name, p.ID)
			return nil
		})
	},
}

var presetLoadCmd = &cobra.Command{
	Use:   "load <id>",
	Short: "Replaces the council with a saved preset.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		mutate(func(e *council.Engine) council.Result { return e.LoadPreset(args[0]) })
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Deletes a saved preset.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withApp(func(a *app) error {
			if err := a.engine.DeletePreset(args[0]); err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			fmt.Printf("Deleted preset %s.\n", args[0])
			return nil
		})
	},
}

func init() {
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetApplyCmd)
	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetLoadCmd)
	presetCmd.AddCommand(presetDeleteCmd)
}
