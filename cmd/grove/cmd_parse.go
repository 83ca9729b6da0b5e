package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhamidi/grove/format"
	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/diag"
	"github.com/spf13/cobra"
)

func newParseCmd(s *settings) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .groovy file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			src, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read groovy file: %w", err)
			}
			opts, err := s.options()
			if err != nil {
				return err
			}

			res, err := groovy.Parse(cmd.Context(), filename, src, opts...)
			if err != nil {
				return reportFailure(s, cmd.ErrOrStderr(), src, err)
			}

			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := enc.Encode(res.Module); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format ("+strings.Join(format.Formats, ", ")+")")

	return cmd
}

// reportFailure prints the diagnostics of a failed unit and returns the
// error that makes the command exit non-zero.
func reportFailure(s *settings, w io.Writer, src []byte, err error) error {
	var failed *diag.CompilationFailed
	if !printFailure(s, w, src, err) || !errors.As(err, &failed) {
		return err
	}
	return fmt.Errorf("%s: compilation failed", failed.Unit)
}

// printFailure writes the diagnostics carried by err. It reports false when
// there are none, leaving err for the caller to print.
func printFailure(s *settings, w io.Writer, src []byte, err error) bool {
	var failed *diag.CompilationFailed
	if !errors.As(err, &failed) || len(failed.Diagnostics) == 0 {
		return false
	}
	return format.Diagnostics(w, src, failed.Diagnostics, s.colored(w)) == nil
}
