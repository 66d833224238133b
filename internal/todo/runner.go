package todo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgLog "markdown-todo-sync/pkg/log"
)

// DefaultRunTimeout bounds a background run started by Runner.Trigger.
const DefaultRunTimeout = 5 * time.Minute

// Runner serializes sync runs for long-lived processes. At most one run is in
// flight; a trigger arriving meanwhile gets ErrRunInProgress.
type Runner struct {
	uc      UseCase
	root    string
	timeout time.Duration
	l       pkgLog.Logger

	mu sync.Mutex
	wg sync.WaitGroup
}

// NewRunner creates a Runner scanning root. A zero timeout uses DefaultRunTimeout.
func NewRunner(uc UseCase, root string, timeout time.Duration, l pkgLog.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	return &Runner{uc: uc, root: root, timeout: timeout, l: l}
}

// Trigger starts a sync in the background and returns its run id.
func (r *Runner) Trigger(revision string) (string, error) {
	if !r.mu.TryLock() {
		return "", ErrRunInProgress
	}

	runID := uuid.NewString()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.WithValue(context.Background(), pkgLog.RunIDKey, runID), r.timeout)
		defer cancel()
		r.run(ctx, revision)
	}()
	return runID, nil
}

// Run performs a sync synchronously, failing fast when another run is in flight.
func (r *Runner) Run(ctx context.Context, revision string) (SyncOutput, error) {
	if !r.mu.TryLock() {
		return SyncOutput{}, ErrRunInProgress
	}
	defer r.mu.Unlock()

	if _, ok := ctx.Value(pkgLog.RunIDKey).(string); !ok {
		ctx = context.WithValue(ctx, pkgLog.RunIDKey, uuid.NewString())
	}
	return r.run(ctx, revision)
}

// Wait blocks until background runs have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, revision string) (SyncOutput, error) {
	started := time.Now()
	r.l.Infof(ctx, "Runner: sync started revision=%q", revision)

	out, err := r.uc.Sync(ctx, SyncInput{Root: r.root, Revision: revision})
	if err != nil {
		r.l.Errorf(ctx, "Runner: sync failed after %s: %v", time.Since(started).Round(time.Millisecond), err)
		return out, err
	}

	r.l.Infof(ctx, "Runner: sync finished in %s created=%d updated=%d closed=%d failed=%d",
		time.Since(started).Round(time.Millisecond), out.Created, out.Updated, out.Closed, out.Failed)
	return out, nil
}
