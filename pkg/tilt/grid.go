// Package tilt implements the platform tilting engine: a fixed set of
// obstacles on a bounded grid and a population of rolling markers that are
// compacted against them one direction at a time.
//
// The grid is never stored as a dense array of cells. Each direction gets a
// slot table, built once, describing the free runs between obstacles in every
// lane; a tilt only counts how many markers fall into each run and then
// writes them back packed against the near edge of their run.
package tilt

import (
	"fmt"

	"github.com/poltergeist/reflector/pkg/types"
)

// Grid is the immutable part of a platform: its bounds and fixed obstacles.
type Grid struct {
	width     uint32
	height    uint32
	obstacles []types.Position
}

// NewGrid creates a grid of the given size holding the given obstacles.
// Every obstacle must lie inside the bounds.
func NewGrid(width, height uint32, obstacles []types.Position) (*Grid, error) {
	for _, p := range obstacles {
		if p.X >= width || p.Y >= height {
			return nil, fmt.Errorf("obstacle %s outside %dx%d grid: %w", p, width, height, ErrOutOfBounds)
		}
	}

	owned := make([]types.Position, len(obstacles))
	copy(owned, obstacles)

	return &Grid{
		width:     width,
		height:    height,
		obstacles: owned,
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() uint32 { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() uint32 { return g.height }

// Obstacles returns a copy of the obstacle coordinates.
func (g *Grid) Obstacles() []types.Position {
	out := make([]types.Position, len(g.obstacles))
	copy(out, g.obstacles)
	return out
}

// Contains reports whether p lies inside the grid bounds.
func (g *Grid) Contains(p types.Position) bool {
	return p.X < g.width && p.Y < g.height
}

// Distance returns how many cells separate p from the edge d moves toward.
func (g *Grid) Distance(p types.Position, d types.Direction) uint32 {
	return g.frame(d).distance(p)
}

func (g *Grid) frame(d types.Direction) frame {
	if d.Vertical() {
		return frame{dir: d, lanes: g.width, length: g.height}
	}
	return frame{dir: d, lanes: g.height, length: g.width}
}

// frame maps grid coordinates to (lane, distance) pairs for one direction
// and back. North and south walk columns, west and east walk rows; the
// mirrored directions measure distance from the bottom or right edge.
type frame struct {
	dir    types.Direction
	lanes  uint32
	length uint32
}

func (f frame) lane(p types.Position) uint32 {
	if f.dir.Vertical() {
		return p.X
	}
	return p.Y
}

func (f frame) distance(p types.Position) uint32 {
	along := p.X
	if f.dir.Vertical() {
		along = p.Y
	}
	if f.dir.Mirrored() {
		return f.length - 1 - along
	}
	return along
}

func (f frame) position(lane, distance uint32) types.Position {
	along := distance
	if f.dir.Mirrored() {
		along = f.length - 1 - distance
	}
	if f.dir.Vertical() {
		return types.Position{X: lane, Y: along}
	}
	return types.Position{X: along, Y: lane}
}
