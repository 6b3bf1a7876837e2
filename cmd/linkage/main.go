// Package main provides the linkage CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scholref/linkage/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug-level logging
var verbose bool

var log = logrus.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linkage",
	Short: "Reconcile publication records against a roster of known people",
	Long: `linkage merges bibliographic records from curated files and bulk
snapshots into one canonical record per publication, and resolves each
raw author name against a fixed roster of known people using exact
identifier matching, a curated alias table, and fuzzy name heuristics.

Source files are the durable truth; an ephemeral SQLite cache holds
the resolved lookup for fast queries. All commands output JSON by
default for easy scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	// A .env next to the invocation can set LINKAGE_ROOT; absence is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// workspaceRoot locates the workspace: LINKAGE_ROOT wins, otherwise
// the nearest ancestor directory holding a linkage.yml.
func workspaceRoot() (string, error) {
	if root := os.Getenv("LINKAGE_ROOT"); root != "" {
		return root, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return config.FindWorkspace(cwd)
}
