package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/poltergeist/reflector/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// ErrJobPanicked marks errors produced from a recovered panic
var ErrJobPanicked = errors.New("job panicked")

// SafeGroup wraps errgroup.Group with panic recovery so one panicking
// goroutine cannot take the process down
type SafeGroup struct {
	group  *errgroup.Group
	logger logger.Logger
}

// NewSafeGroup creates a new SafeGroup with panic recovery
func NewSafeGroup(ctx context.Context, log logger.Logger) (*SafeGroup, context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	return &SafeGroup{
		group:  g,
		logger: log,
	}, ctx
}

// Go runs fn in a new goroutine. A panic is logged with its stack trace
// and returned as an error wrapping ErrJobPanicked.
func (sg *SafeGroup) Go(fn func() error) {
	sg.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(sg.logger, r)
			}
		}()

		return fn()
	})
}

// SetLimit sets the maximum number of concurrent goroutines
func (sg *SafeGroup) SetLimit(n int) {
	sg.group.SetLimit(n)
}

// Wait blocks until all goroutines have completed and returns the first
// error encountered
func (sg *SafeGroup) Wait() error {
	return sg.group.Wait()
}

func recovered(log logger.Logger, r interface{}) error {
	log.Error("Goroutine panic recovered",
		logger.WithField("panic", r),
		logger.WithField("stack_trace", string(debug.Stack())))
	return fmt.Errorf("%w: %v", ErrJobPanicked, r)
}
