// Package puzzle defines the runner contract puzzles implement and a
// registry that maps puzzle names to runner factories.
package puzzle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/poltergeist/reflector/pkg/tilt"
	"github.com/poltergeist/reflector/pkg/types"
)

var (
	// ErrUnknownPuzzle indicates a lookup for a name nobody registered
	ErrUnknownPuzzle = errors.New("unknown puzzle")

	// ErrDuplicatePuzzle indicates a second registration under the same name
	ErrDuplicatePuzzle = errors.New("puzzle already registered")

	// ErrNotInitialized indicates Solve was called before a successful Init
	ErrNotInitialized = errors.New("runner not initialized")

	// ErrUnknownPart indicates a part number the runner does not implement
	ErrUnknownPart = errors.New("unknown part")
)

// Part selects which variant of a puzzle to solve
type Part int

const (
	// PartSingleTilt tilts once to the north and scores the result
	PartSingleTilt Part = 1
	// PartRepeated runs the configured number of spin cycles
	PartRepeated Part = 2
)

// Parts lists every part in solving order
var Parts = []Part{PartSingleTilt, PartRepeated}

func (p Part) String() string {
	return fmt.Sprintf("part %d", int(p))
}

// Runner is implemented by every puzzle. Init is called once with the
// puzzle input; Solve may then be called for each part. A Solve that
// returns ok == false has no textual answer for that part.
type Runner interface {
	Name() string
	Init(ctx context.Context, input io.Reader) error
	Solve(ctx context.Context, part Part) (answer string, ok bool, err error)
}

// StatsReporter is implemented by runners that can report statistics of
// their most recent simulation run
type StatsReporter interface {
	RunStats() (tilt.RunStats, bool)
}

// Options carries the configuration a factory may use
type Options struct {
	Cycles       uint64
	DetectCycles bool
	Scoring      types.Direction

	// Progress is forwarded to long running parts
	Progress      func(done, total uint64)
	ProgressEvery uint64
}

// Factory creates a fresh runner
type Factory func(opts Options) Runner

// Registry maps puzzle names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding every built-in puzzle
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(DishName, NewDishRunner)
	return r
}

// Register adds a factory under name
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%s: %w", name, ErrDuplicatePuzzle)
	}
	r.factories[name] = factory
	return nil
}

// New creates a runner for the named puzzle
func (r *Registry) New(name string, opts Options) (Runner, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownPuzzle)
	}
	return factory(opts), nil
}

// Names returns the registered puzzle names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
