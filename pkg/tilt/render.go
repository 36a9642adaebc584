package tilt

import (
	"bufio"
	"io"
	"slices"

	"github.com/poltergeist/reflector/pkg/types"
)

// Render writes the grid and markers in the text form accepted by Parse.
func Render(w io.Writer, g *Grid, markers []types.Position) error {
	cells := make([]cell, 0, len(g.obstacles)+len(markers))
	for _, p := range g.obstacles {
		cells = append(cells, cell{pos: p, ch: types.CellCube})
	}
	for _, p := range markers {
		cells = append(cells, cell{pos: p, ch: types.CellRound})
	}
	slices.SortFunc(cells, func(a, b cell) int {
		if a.pos.Y != b.pos.Y {
			return int(int64(a.pos.Y) - int64(b.pos.Y))
		}
		return int(int64(a.pos.X) - int64(b.pos.X))
	})

	bw := bufio.NewWriter(w)
	row := make([]byte, g.width+1)
	row[g.width] = '\n'
	next := 0
	for y := uint32(0); y < g.height; y++ {
		for x := range row[:g.width] {
			row[x] = types.CellEmpty
		}
		for next < len(cells) && cells[next].pos.Y == y {
			if c := cells[next]; c.pos.X < g.width {
				row[c.pos.X] = c.ch
			}
			next++
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

type cell struct {
	pos types.Position
	ch  byte
}
