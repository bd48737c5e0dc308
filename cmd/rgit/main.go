package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/rgit/cmd/ui"
	"github.com/utkarsh5026/rgit/pkg/common/logger"
)

var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	CommitSHA = "unknown"
)

var (
	logLevel  string
	logFormat string
	verbose   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, ui.Red("error:"), userMessage(err))
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rgit",
		Short: "rgit - a content-addressed snapshot engine",
		Long: `rgit records snapshots of a directory tree in a local object store.

  Get started with: rgit init
  Stage files with: rgit add <path>...
  Snapshot them:    rgit commit -m "message"`,
		Version:       fmt.Sprintf("%s (built: %s, commit: %s)", Version, BuildTime, CommitSHA),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (sets log level to debug)")

	rootCmd.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newResetCmd(),
		newCommitCmd(),
		newStatusCmd(),
		newLogCmd(),
		newCatFileCmd(),
		newLsTreeCmd(),
		newHashObjectCmd(),
		newCountObjectsCmd(),
		newConfigCmd(),
		newBranchCmd(),
		newSwitchCmd(),
	)

	return rootCmd
}

func setupLogging() error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return invalidFlag(err)
	}
	if verbose {
		level = logger.LevelDebug
	}

	format, err := logger.ParseFormat(logFormat)
	if err != nil {
		return invalidFlag(err)
	}

	logger.Default = logger.New(logger.Config{
		Level:  level,
		Format: format,
		Output: os.Stderr,
	})
	return nil
}
