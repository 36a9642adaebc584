package tilt

import (
	"errors"
	"fmt"

	"github.com/poltergeist/reflector/pkg/types"
)

// Sentinel errors for platform construction. Callers match them with errors.Is.
var (
	// ErrEmptyGrid indicates the input contained no rows
	ErrEmptyGrid = errors.New("grid is empty")

	// ErrRaggedRow indicates a row whose length differs from the first row
	ErrRaggedRow = errors.New("grid rows differ in length")

	// ErrUnknownCell indicates a character that is not a marker, obstacle or empty cell
	ErrUnknownCell = errors.New("unknown cell character")

	// ErrGridTooLarge indicates a dimension that does not fit a coordinate
	ErrGridTooLarge = errors.New("grid dimension out of range")

	// ErrOutOfBounds indicates a coordinate outside the grid
	ErrOutOfBounds = errors.New("coordinate outside grid")
)

// InvariantError describes a broken internal invariant of the tilt engine.
// It is raised with panic, never returned: a well formed grid and a correctly
// built partition cannot produce one.
type InvariantError struct {
	Direction types.Direction
	Position  types.Position
	Reason    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("tilt invariant violated (%s, marker %s): %s", e.Direction, e.Position, e.Reason)
}

func violate(d types.Direction, p types.Position, format string, args ...interface{}) {
	panic(&InvariantError{Direction: d, Position: p, Reason: fmt.Sprintf(format, args...)})
}
