package cmd

import (
	"fmt"
	"os"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/workspace"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initializes a council project. Must be executed from the project's root directory.",
	Run:   Init,
}

func Init(_ *cobra.Command, _ []string) {
	err := workspace.Create(".")
	if err != nil {
		fmt.Printf("Error creating metadata: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Project metadata created successfully.")
}
