// Package cli implements the datasetutil command-line interface.
// Arguments are flat --flag value pairs matched case-insensitively, so
// cobra's own flag parsing is disabled and the tokens go to ParseArgs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/datasetutil/datasetutil/internal/config"
	"github.com/datasetutil/datasetutil/internal/provider"
	"github.com/datasetutil/datasetutil/internal/provider/local"
)

// newProviders builds the collaborators for a run.
var newProviders = func() provider.Set {
	return local.New()
}

// rootCmd is the base command for datasetutil.
var rootCmd = &cobra.Command{
	Use:   "datasetutil [--flag value]...",
	Short: "Upload datasets to Analytics Cloud",
	Long: `datasetutil loads CSV and binary files into Analytics Cloud datasets.

It provides:
  • Dataset load with overwrite, upsert, append and delete operations
  • XMD json download and upload
  • File encoding detection
  • Upload error report download

Run without --action to choose an action from a menu.
Run with --help for the full list of flags.`,
	Version:            Version,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		app := NewApp(cfg, newProviders())
		if code := app.Run(cmd.Context(), args); code != ExitOK {
			return &ExitError{Code: code}
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
