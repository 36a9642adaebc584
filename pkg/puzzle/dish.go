package puzzle

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/poltergeist/reflector/pkg/tilt"
	"github.com/poltergeist/reflector/pkg/types"
)

// DishName is the registry name of the reflector dish puzzle
const DishName = "dish"

// DefaultCycles is the spin cycle count of the repeated part
const DefaultCycles uint64 = 1_000_000_000

// DishRunner solves the reflector dish platform: part one tilts north once,
// part two runs the spin cycle. Both score the load on the scoring side.
type DishRunner struct {
	opts    Options
	grid    *tilt.Grid
	markers []types.Position
	sim     *tilt.Simulator

	// LastStats holds the statistics of the most recent repeated run
	LastStats tilt.RunStats
}

var _ StatsReporter = (*DishRunner)(nil)

// NewDishRunner creates an uninitialized dish runner
func NewDishRunner(opts Options) Runner {
	if opts.Cycles == 0 {
		opts.Cycles = DefaultCycles
	}
	return &DishRunner{opts: opts}
}

// Name implements Runner
func (r *DishRunner) Name() string {
	return DishName
}

// Init parses the platform and partitions it for all four directions
func (r *DishRunner) Init(ctx context.Context, input io.Reader) error {
	grid, markers, err := tilt.Parse(input)
	if err != nil {
		return fmt.Errorf("failed to parse platform: %w", err)
	}
	r.grid = grid
	r.markers = markers
	r.sim = tilt.NewSimulator(grid, markers)
	return nil
}

// Grid returns the parsed platform, or nil before Init
func (r *DishRunner) Grid() *tilt.Grid {
	return r.grid
}

// Simulator returns the simulator built by Init, or nil before Init
func (r *DishRunner) Simulator() *tilt.Simulator {
	return r.sim
}

// Solve implements Runner. Each call starts from the initial markers and
// reuses the slot tables built by Init.
func (r *DishRunner) Solve(ctx context.Context, part Part) (string, bool, error) {
	if r.sim == nil {
		return "", false, ErrNotInitialized
	}

	sim := r.sim
	sim.Reset(r.markers)

	switch part {
	case PartSingleTilt:
		sim.Tilt(types.North)
	case PartRepeated:
		stats, err := sim.Run(ctx, r.opts.Cycles, tilt.RunOptions{
			DetectCycles:  r.opts.DetectCycles,
			Progress:      r.opts.Progress,
			ProgressEvery: r.opts.ProgressEvery,
		})
		r.LastStats = stats
		if err != nil {
			return "", false, err
		}
	default:
		return "", false, fmt.Errorf("%s: %w", part, ErrUnknownPart)
	}

	return strconv.FormatUint(sim.Load(r.opts.Scoring), 10), true, nil
}

// RunStats implements StatsReporter
func (r *DishRunner) RunStats() (tilt.RunStats, bool) {
	return r.LastStats, r.LastStats.Requested > 0
}
