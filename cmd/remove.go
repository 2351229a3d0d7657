package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/workspace"
	"github.com/spf13/cobra"
)

var (
	forceRoot bool
	assumeYes bool
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Removes all council metadata from the given project. Must be executed at the project root directory, or include the --force-root flag.",
	Run:   Remove,
}

func init() {
	removeCmd.Flags().BoolVar(&forceRoot, "force-root", false, "remove .council folders even when the current directory is not the project root")
	removeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}

func Remove(_ *cobra.Command, _ []string) {
	if !assumeYes {
		ok := false
		prompt := &survey.Confirm{Message: "Remove the council configuration, session and saved presets?"}
		if err := survey.AskOne(prompt, &ok); err != nil {
			fmt.Printf("Error reading confirmation: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			fmt.Println("Nothing removed.")
			return
		}
	}
	err := workspace.Remove(".", !forceRoot)
	if err != nil {
		fmt.Printf("Error removing project configuration: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Project configuration removed successfully.")
}
