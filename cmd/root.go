package cmd

import (
	"fmt"
	"os"

	"github.com/Atanycosts/LLM-Council-Plus-new-api/config"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/logging"
	"github.com/Atanycosts/LLM-Council-Plus-new-api/workspace"
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	catalogPath string
	maxModels   int
)

var rootCmd = &cobra.Command{
	Use:   "council",
	Short: "council assembles and checks the group of models that answers, ranks and synthesizes a prompt",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Default()
		if root, err := workspace.FindRoot("."); err == nil {
			cfg, err = config.Load(root)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}

		if logLevel == "" {
			logLevel = cfg.Logging.Level
		}

		if logLevel == "" {
			logLevel = "info"
		}

		if err := logging.Init(logLevel); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print usage.
		fmt.Println(cmd.UsageString())
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (e.g. debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file to use instead of the configured source")
	rootCmd.PersistentFlags().IntVar(&maxModels, "max-models", 0, "council size limit, overriding configuration")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(removeMemberCmd)
	rootCmd.AddCommand(chairmanCmd)
	rootCmd.AddCommand(sizeCmd)
	rootCmd.AddCommand(luckyCmd)
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(presetCmd)
	rootCmd.AddCommand(lastCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(doctorCmd)
}
