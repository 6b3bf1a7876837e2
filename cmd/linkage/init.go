package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scholref/linkage/internal/config"
)

// InitResponse is the JSON response of workspace initialization.
type InitResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a linkage workspace in the current directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			exitWithError(ExitError, "getting current directory: %v", err)
		}
		if config.IsWorkspace(cwd) {
			exitWithError(ExitConfigError, "already a linkage workspace: %s", cwd)
		}

		cfg := &config.Config{}
		if err := cfg.Save(cwd); err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			outputHuman("Initialized linkage workspace in %s\n", cwd)
			return
		}
		outputJSON(InitResponse{Status: "initialized", Path: cwd})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
