package observe

import "context"

// Run identifies the batch an event belongs to.
type Run struct {
	ID       string
	Campaign string
}

type runKey struct{}

// WithRun returns a context carrying run.
func WithRun(ctx context.Context, run Run) context.Context {
	return context.WithValue(ctx, runKey{}, run)
}

// RunFrom returns the run stored in ctx, or the zero Run.
func RunFrom(ctx context.Context) Run {
	run, _ := ctx.Value(runKey{}).(Run)
	return run
}

// Stamp fills e's run fields from ctx when they are empty.
func Stamp(ctx context.Context, e Event) Event {
	run := RunFrom(ctx)

	if e.RunID == "" {
		e.RunID = run.ID
	}
	if e.Campaign == "" {
		e.Campaign = run.Campaign
	}

	return e
}
