package groovy

import (
	"context"
	"fmt"

	"github.com/dhamidi/grove/groovy/diag"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one unit of a ParseAll call. Exactly one of
// Result and Err is set.
type Outcome struct {
	Path   string
	Result *Result
	Err    error
}

// ParseAll parses every path read from fs. Outcomes are returned in the
// order of paths. A unit that fails does not stop the others; cancelling
// ctx fails the units that have not finished.
func ParseAll(ctx context.Context, fs afero.Fs, paths []string, opts ...Option) []Outcome {
	o := newOptions(opts)
	outcomes := make([]Outcome, len(paths))

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, path := range paths {
		g.Go(func() error {
			outcomes[i] = parseFile(ctx, o, fs, path)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
		}
	}
	logger().Infof("parsed %d units, %d failed", len(paths), failed)
	return outcomes
}

func parseFile(ctx context.Context, o *options, fs afero.Fs, path string) Outcome {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		sink := diag.NewSink(path)
		sink.Add(diag.Diagnostic{Kind: diag.KindDefect, Message: err.Error()})
		return Outcome{Path: path, Err: sink.Failure(fmt.Errorf("read %s: %w", path, err))}
	}
	res, err := parse(ctx, o, path, src)
	return Outcome{Path: path, Result: res, Err: err}
}

// Failures collects the errors of outcomes into one error, or nil if every
// unit was built.
func Failures(outcomes []Outcome) error {
	var merr *multierror.Error
	for _, out := range outcomes {
		if out.Err != nil {
			merr = multierror.Append(merr, out.Err)
		}
	}
	return merr.ErrorOrNil()
}
