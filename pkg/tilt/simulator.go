package tilt

import (
	"context"
	"slices"

	"github.com/poltergeist/reflector/pkg/types"
)

// ctxCheckInterval is how many cycles run between cancellation checks.
const ctxCheckInterval = 1 << 10

// RunOptions tunes Simulator.Run. The zero value runs every cycle.
type RunOptions struct {
	// DetectCycles enables the repetition shortcut: once a marker set shows
	// up a second time, whole periods are skipped.
	DetectCycles bool

	// Progress, if set, is called whenever another ProgressEvery cycles
	// have been completed or skipped.
	Progress      func(done, total uint64)
	ProgressEvery uint64
}

// RunStats reports what a Run did.
type RunStats struct {
	Requested uint64 `json:"requested"`
	Simulated uint64 `json:"simulated"`
	Skipped   uint64 `json:"skipped"`

	// PeriodStart is the cycle count at which the repeating marker set was
	// first seen and Period the length of the repetition. Both are zero
	// when no repetition was detected.
	PeriodStart uint64 `json:"periodStart,omitempty"`
	Period      uint64 `json:"period,omitempty"`
}

// Simulator drives tilts over one platform. It owns the four slot tables
// and the current marker set and is not safe for concurrent use.
type Simulator struct {
	grid    *Grid
	tables  [4]*SlotTable
	markers []types.Position
	spare   []types.Position
}

// NewSimulator builds the slot tables of all four directions and takes a
// copy of the initial markers.
func NewSimulator(g *Grid, markers []types.Position) *Simulator {
	s := &Simulator{
		grid:    g,
		markers: slices.Clone(markers),
		spare:   make([]types.Position, 0, len(markers)),
	}
	for _, d := range types.Directions {
		s.tables[d] = Partition(g, d)
	}
	return s
}

// Reset replaces the current markers with a copy of markers. The slot
// tables are kept, so a simulator built once can replay many runs.
func (s *Simulator) Reset(markers []types.Position) {
	for _, t := range s.tables {
		t.discard()
	}
	s.markers = append(s.markers[:0], markers...)
	s.spare = s.spare[:0]
}

// Grid returns the platform the simulator runs on.
func (s *Simulator) Grid() *Grid {
	return s.grid
}

// Table returns the slot table of direction d.
func (s *Simulator) Table(d types.Direction) *SlotTable {
	return s.tables[d]
}

// Markers returns a copy of the current marker positions.
func (s *Simulator) Markers() []types.Position {
	return slices.Clone(s.markers)
}

// Load scores the current markers against the scoring side.
func (s *Simulator) Load(scoring types.Direction) uint64 {
	return Load(s.grid, s.markers, scoring)
}

// Tilt rolls every marker in direction d.
func (s *Simulator) Tilt(d types.Direction) {
	s.tables[d].Place(s.markers)
	s.swap(d)
}

// Cycle performs one spin cycle: north, west, south, then east.
func (s *Simulator) Cycle() {
	for _, d := range types.CycleOrder {
		s.Tilt(d)
	}
}

func (s *Simulator) swap(d types.Direction) {
	s.spare = s.tables[d].Reconstruct(s.spare[:0])
	s.markers, s.spare = s.spare, s.markers
}

// Run performs the requested number of spin cycles. It only stops early
// when ctx is cancelled, in which case the markers reflect the last
// completed cycle and ctx.Err() is returned.
func (s *Simulator) Run(ctx context.Context, cycles uint64, opts RunOptions) (RunStats, error) {
	stats := RunStats{Requested: cycles}

	var seen map[string]uint64
	var key []byte
	if opts.DetectCycles {
		seen = make(map[string]uint64)
	}

	nextReport := opts.ProgressEvery
	east := s.tables[types.East]

	for done := uint64(0); done < cycles; {
		if stats.Simulated%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}

		s.Tilt(types.North)
		s.Tilt(types.West)
		s.Tilt(types.South)

		// The east occupancy vector determines the marker set at the end of
		// the cycle, so it doubles as the repetition key.
		east.Place(s.markers)
		if seen != nil {
			key = east.appendFingerprint(key[:0])
		}
		s.swap(types.East)

		done++
		stats.Simulated++

		if seen != nil {
			if first, ok := seen[string(key)]; ok {
				period := done - first
				skip := (cycles - done) / period * period
				done += skip
				stats.Skipped = skip
				stats.PeriodStart = first
				stats.Period = period
				seen = nil
			} else {
				seen[string(key)] = done
			}
		}

		if opts.Progress != nil && opts.ProgressEvery > 0 && done >= nextReport {
			opts.Progress(done, cycles)
			nextReport = (done/opts.ProgressEvery + 1) * opts.ProgressEvery
		}
	}

	return stats, nil
}
