package generator

import (
	"context"
	"errors"
	"fmt"
)

// Stages of a generation request.
const (
	StageRequest  = "request"
	StageParse    = "parse"
	StageValidate = "validate"
)

// GenerationError is a failed generation. The project is left untouched
// when one is returned.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Outcome is the terminal state of a Task: exactly one of Result, Err or
// Canceled is meaningful.
type Outcome struct {
	Result   *Generated
	Err      error
	Canceled bool
}

// Task is an in-flight generation.
type Task struct {
	cancel  context.CancelFunc
	done    chan struct{}
	outcome Outcome
}

// Start runs client.Generate in the background.
func Start(ctx context.Context, client Client, req Request) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer cancel()
		t.outcome = run(ctx, client, req)
	}()
	return t
}

func run(ctx context.Context, client Client, req Request) Outcome {
	if err := req.Validate(); err != nil {
		return Outcome{Err: &GenerationError{Stage: StageRequest, Err: err}}
	}
	res, err := client.Generate(ctx, req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return Outcome{Canceled: true}
		}
		var gerr *GenerationError
		if !errors.As(err, &gerr) {
			err = &GenerationError{Stage: StageRequest, Err: err}
		}
		return Outcome{Err: err}
	}
	if res == nil || len(res.Entries) == 0 {
		return Outcome{Err: &GenerationError{Stage: StageValidate, Err: errors.New("recipe has no keyframes")}}
	}
	return Outcome{Result: res}
}

// Cancel abandons the request. Wait then reports Canceled unless the
// result already arrived.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed once the outcome is available.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes.
func (t *Task) Wait() Outcome {
	<-t.done
	return t.outcome
}
