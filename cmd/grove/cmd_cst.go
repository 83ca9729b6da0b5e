package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/grove/format"
	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/diag"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/spf13/cobra"
)

func newCSTCmd(s *settings) *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "cst <file>",
		Short: "Print the concrete syntax tree of a .groovy file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			src, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read groovy file: %w", err)
			}
			strategy, err := groovy.ParseStrategy(s.config.Strategy)
			if err != nil {
				return err
			}

			d := parser.NewDriver(nil)
			d.Strategy = strategy
			out, err := d.Build(cmd.Context(), src, diag.NewSink(filename))
			if err != nil {
				return reportFailure(s, cmd.ErrOrStderr(), src, err)
			}

			w := cmd.OutOrStdout()
			switch outputFormat {
			case "tree":
				err = format.CST(w, out.Root, includePositions)
			case "json":
				err = format.CSTJSON(w, out.Root)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			if err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")
	cmd.Flags().BoolVar(&includePositions, "positions", true, "include node ranges in tree output")

	return cmd
}
