package main

import (
	"fmt"

	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newCheckCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file or directory>...",
		Short: "Parse Groovy sources and report their diagnostics",
		Long: `Parse every given .groovy file, and every .groovy file below the given
directories, in parallel. Diagnostics are printed with an excerpt of the
offending source. The command fails if any unit fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := s.options()
			if err != nil {
				return err
			}
			fs := afero.NewOsFs()
			paths, err := expandSources(fs, args)
			if err != nil {
				return err
			}

			outcomes := groovy.ParseAll(cmd.Context(), fs, paths, opts...)
			failed := 0
			stderr := cmd.ErrOrStderr()
			for _, out := range outcomes {
				if out.Err == nil {
					continue
				}
				failed++
				src, _ := afero.ReadFile(fs, out.Path)
				if !printFailure(s, stderr, src, out.Err) {
					fmt.Fprintln(stderr, out.Err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d units failed", failed, len(outcomes))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d units ok\n", len(outcomes))
			return nil
		},
	}

	return cmd
}

func expandSources(fs afero.Fs, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := fs.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := workspace.New(fs, arg).Sources()
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", arg, err)
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .groovy files in %v", args)
	}
	return paths, nil
}

