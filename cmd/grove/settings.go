package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/grove/groovy"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// settings is the configuration shared by every subcommand: the
// environment first, then the global flags on top.
type settings struct {
	config groovy.Config

	verbose  int
	quiet    bool
	noColor  bool
	workers  int
	strategy string
	logFile  string
}

func addGlobalFlags(root *cobra.Command) *settings {
	s := &settings{}

	flags := root.PersistentFlags()
	flags.CountVarP(&s.verbose, "verbose", "v", "log more (repeat for debug output)")
	flags.BoolVarP(&s.quiet, "quiet", "q", false, "log nothing")
	flags.BoolVar(&s.noColor, "no-color", false, "disable colored diagnostics")
	flags.IntVarP(&s.workers, "workers", "j", 0, "units parsed in parallel (default GROVE_WORKERS or one per CPU)")
	flags.StringVar(&s.strategy, "strategy", "", "parser strategy: optimistic or exhaustive (default GROVE_STRATEGY)")
	flags.StringVar(&s.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return s.load(cmd)
	}
	return s
}

func (s *settings) load(cmd *cobra.Command) error {
	conf, err := groovy.LoadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		conf.Workers = s.workers
	}
	if flags.Changed("strategy") {
		if _, err := groovy.ParseStrategy(s.strategy); err != nil {
			return err
		}
		conf.Strategy = s.strategy
	}
	s.config = conf
	s.config.ApplyDeadlockTimeout()

	verbosity, err := groovy.Verbosity(conf.LogLevel)
	if err != nil {
		return err
	}
	if flags.Changed("verbose") {
		verbosity = s.verbose
	}
	if s.quiet {
		verbosity = -5
	}
	var path *string
	if s.logFile != "" {
		path = &s.logFile
	}
	commonlog.Configure(verbosity, path)
	return nil
}

func (s *settings) options() ([]groovy.Option, error) {
	opts, err := s.config.Options()
	if err != nil {
		return nil, fmt.Errorf("configure parser: %w", err)
	}
	return opts, nil
}

// colored reports whether diagnostics written to w get ANSI colors.
func (s *settings) colored(w io.Writer) bool {
	if s.noColor || color.NoColor {
		return false
	}
	return w == os.Stdout || w == os.Stderr
}
