package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "odsdump",
	Short:         "Inspect and round-trip OpenDocument spreadsheets",
	Version:       Version,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug records to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger returns a development logger when debug output was requested
// and a no-op logger otherwise.
func newLogger(debug bool) (*zap.Logger, error) {
	if !debug && !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
