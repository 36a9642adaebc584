package engine

import (
	"github.com/poltergeist/reflector/pkg/interfaces"
	"github.com/poltergeist/reflector/pkg/logger"
	"github.com/poltergeist/reflector/pkg/notifier"
	"github.com/poltergeist/reflector/pkg/puzzle"
	"github.com/poltergeist/reflector/pkg/state"
	"github.com/poltergeist/reflector/pkg/types"
)

// DependencyFactory creates the default collaborators of a Solver from
// configuration
type DependencyFactory struct {
	logger logger.Logger
	config *types.ReflectorConfig
}

// NewDependencyFactory creates a new dependency factory
func NewDependencyFactory(log logger.Logger, config *types.ReflectorConfig) *DependencyFactory {
	return &DependencyFactory{
		logger: log,
		config: config,
	}
}

// CreateDefaults creates state persistence when a state directory is
// configured and desktop notifications when they are enabled
func (f *DependencyFactory) CreateDefaults() interfaces.SolverDependencies {
	var deps interfaces.SolverDependencies

	if f.config.StateDir != "" {
		deps.StateStore = f.createStateStore()
	}
	if f.config.Notifications.IsEnabled() {
		deps.Notifier = f.createNotifier()
	}

	return deps
}

// CreateWithOverrides creates the defaults and replaces every non-nil
// override
func (f *DependencyFactory) CreateWithOverrides(overrides interfaces.SolverDependencies) interfaces.SolverDependencies {
	deps := f.CreateDefaults()

	if overrides.StateStore != nil {
		deps.StateStore = overrides.StateStore
	}
	if overrides.Notifier != nil {
		deps.Notifier = overrides.Notifier
	}

	return deps
}

// NewSolver builds a solver over the built-in puzzles with default
// dependencies
func (f *DependencyFactory) NewSolver() *Solver {
	return NewSolver(f.config, puzzle.DefaultRegistry(), f.logger, f.CreateDefaults())
}

// StateManager returns the state manager for the configured directory
func (f *DependencyFactory) StateManager() *state.StateManager {
	return state.NewStateManager(f.config.StateDir, f.logger)
}

func (f *DependencyFactory) createStateStore() interfaces.StateStore {
	return f.StateManager()
}

func (f *DependencyFactory) createNotifier() interfaces.Notifier {
	return notifier.New(notifier.Config{Enabled: true, BeepOnError: true}, f.logger)
}
