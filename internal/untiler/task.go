package untiler

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/grabsdl/grabs/internal/model"
)

// ErrTaskCancelled is the terminal error of a task cancelled before
// completion.
var ErrTaskCancelled = errors.New("task cancelled")

// Status is the lifecycle state of an asynchronous content request.
type Status string

const (
	// StatusPending means the task is created but its worker has not
	// started yet.
	StatusPending Status = "Pending"

	// StatusRunning means the pipeline is executing.
	StatusRunning Status = "Running"

	// StatusDone means the rendition is available via Result.
	StatusDone Status = "Done"

	// StatusFailed means the pipeline failed; Result returns the error.
	StatusFailed Status = "Failed"

	// StatusCancelled means the task was cancelled before completion.
	StatusCancelled Status = "Cancelled"
)

// IsFinished reports whether the status is terminal.
func (s Status) IsFinished() bool {
	return s == StatusDone || s == StatusFailed || s == StatusCancelled
}

// Callback is invoked exactly once when a task reaches a terminal state,
// on the goroutine that completed it, with the concrete zoom level and the
// task itself as the result handle.
type Callback func(zoomLevel int, task *Task)

// Task is the handle of one in-flight or completed asynchronous content
// request.
//
// A task transitions to a terminal state exactly once. Result blocks until
// then; on an already-terminal task it returns immediately. A supplied
// Callback fires exactly once, never before the terminal transition.
type Task struct {
	// ID uniquely identifies the task.
	ID string

	mu       sync.Mutex
	status   Status
	result   *Result
	err      error
	level    int
	callback Callback
	done     chan struct{}
	cancel   context.CancelFunc
}

// ContentAsync runs Content on a separate worker and returns its Task
// immediately. level and bestEffort behave as in Content; callback may be
// nil.
//
// The worker inherits cancellation from ctx; Task.Cancel additionally
// cancels this task alone.
func (u *Untiler) ContentAsync(ctx context.Context, im *model.Image, level int, bestEffort bool, callback Callback) *Task {
	ctx, cancel := context.WithCancel(ctx)

	task := &Task{
		ID:       uuid.NewString(),
		status:   StatusPending,
		level:    level,
		callback: callback,
		done:     make(chan struct{}),
		cancel:   cancel,
	}

	go func() {
		defer cancel()
		task.setRunning()
		result, err := u.Content(ctx, im, level, bestEffort)
		switch {
		case result != nil:
			task.complete(StatusDone, result, nil)
		case errors.Is(err, context.Canceled):
			task.complete(StatusCancelled, nil, ErrTaskCancelled)
		default:
			task.complete(StatusFailed, nil, err)
		}
	}()

	return task
}

// Status returns the current lifecycle state of the task.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Result blocks until the task is terminal, then returns the rendition or
// re-returns the failure. Calling Result on a terminal task returns
// immediately.
func (t *Task) Result() (*Result, error) {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}

// Wait is Result bounded by the caller's context: it returns ctx.Err()
// if ctx ends before the task does.
func (t *Task) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel marks the task cancelled if it has not reached a terminal state
// and stops its pipeline from issuing further tile fetches. Already-issued
// fetches drain. Cancelling a terminal task is a no-op.
func (t *Task) Cancel() {
	t.cancel()
	t.complete(StatusCancelled, nil, ErrTaskCancelled)
}

func (t *Task) setRunning() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusPending {
		t.status = StatusRunning
	}
}

// complete performs the terminal transition. Only the first caller wins;
// the callback fires at most once, after the transition, outside the lock.
func (t *Task) complete(status Status, result *Result, err error) {
	t.mu.Lock()
	if t.status.IsFinished() {
		t.mu.Unlock()
		return
	}
	t.status = status
	t.result = result
	t.err = err
	level := t.level
	if result != nil {
		level = result.ZoomLevel
	}
	callback := t.callback
	t.callback = nil
	close(t.done)
	t.mu.Unlock()

	if callback != nil {
		callback(level, t)
	}
}
