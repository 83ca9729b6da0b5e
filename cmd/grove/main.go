package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "grove",
		Short:         "A Groovy front end: parse, check and serve Groovy sources",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	settings := addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newParseCmd(settings))
	rootCmd.AddCommand(newCheckCmd(settings))
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newCSTCmd(settings))
	rootCmd.AddCommand(newWatchCmd(settings))
	rootCmd.AddCommand(newLSPCmd(settings))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
