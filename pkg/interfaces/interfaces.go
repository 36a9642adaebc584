// Package interfaces provides abstractions for dependency injection and testability
package interfaces

import (
	"time"

	"github.com/poltergeist/reflector/pkg/state"
)

//go:generate mockgen -destination=../mocks/mock_interfaces.go -package=mocks github.com/poltergeist/reflector/pkg/interfaces StateStore,Notifier

// StateStore records run state for inputs
type StateStore interface {
	Begin(input, puzzle, runID string) (*state.RunState, error)
	Finish(st *state.RunState) error
}

// Notifier reports solve outcomes to the user
type Notifier interface {
	NotifySolved(input string, answers map[string]string, duration time.Duration)
	NotifyFailed(input string, err error)
	NotifyBatch(succeeded, failed int, duration time.Duration)
}

var _ StateStore = (*state.StateManager)(nil)

// SolverDependencies holds the optional collaborators of a solve batch.
// Nil members are skipped.
type SolverDependencies struct {
	StateStore StateStore
	Notifier   Notifier
}
