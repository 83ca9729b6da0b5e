package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dhamidi/grove/groovy/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newWatchCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Check a directory of Groovy sources and recheck files as they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			opts, err := s.options()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			ws := workspace.New(afero.NewOsFs(), dir, opts...)
			if err := ws.ScanAll(ctx); err != nil {
				return fmt.Errorf("scan %s: %w", dir, err)
			}
			w := cmd.OutOrStdout()
			for _, u := range ws.Units() {
				printUnit(s, w, u)
			}

			watcher, err := workspace.NewWatcher(ws)
			if err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			watcher.Start(ctx)
			defer watcher.Stop()

			fmt.Fprintf(w, "watching %s (%d units)\n", dir, len(ws.Units()))
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-watcher.Events():
					if !ok {
						return nil
					}
					if ev.Removed() {
						fmt.Fprintf(w, "%s: removed\n", ev.Path)
						continue
					}
					printUnit(s, w, ev.Unit)
				case err := <-watcher.Errors():
					return fmt.Errorf("watch %s: %w", dir, err)
				}
			}
		},
	}

	return cmd
}

func printUnit(s *settings, w io.Writer, u *workspace.Unit) {
	if u.Err == nil {
		fmt.Fprintf(w, "%s: ok\n", u.Path)
		return
	}
	if !printFailure(s, w, u.Content, u.Err) {
		fmt.Fprintln(w, u.Err)
	}
}
