package main

import (
	"github.com/dhamidi/grove/groovy/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newLSPCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := s.options()
			if err != nil {
				return err
			}
			server := workspace.NewServer(afero.NewOsFs(), version, opts...)
			return server.RunStdio()
		},
	}
}
