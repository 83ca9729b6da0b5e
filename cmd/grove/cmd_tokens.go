package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/grove/format"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var includeComments bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a .groovy file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read groovy file: %w", err)
			}
			tokens, comments := parser.Tokenize(src)
			if includeComments {
				tokens = mergeTokens(tokens, comments)
			}
			if err := format.Tokens(cmd.OutOrStdout(), tokens); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeComments, "comments", false, "include comment tokens")

	return cmd
}

// mergeTokens interleaves two offset-ordered token lists.
func mergeTokens(a, b []parser.Token) []parser.Token {
	merged := make([]parser.Token, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].Span.Start.Offset < a[i].Span.Start.Offset {
			merged = append(merged, b[j])
			j++
		} else {
			merged = append(merged, a[i])
			i++
		}
	}
	merged = append(merged, a[i:]...)
	return append(merged, b[j:]...)
}
