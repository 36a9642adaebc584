package tilt

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/poltergeist/reflector/pkg/types"
)

// Parse reads a platform in its text form: one row per line, 'O' for a
// rolling marker, '#' for an obstacle and '.' for an empty cell. Blank
// lines before and after the grid are ignored.
func Parse(r io.Reader) (*Grid, []types.Position, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		obstacles []types.Position
		markers   []types.Position
		width     int
		rows      int
		blank     int
	)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			if rows > 0 {
				blank++
			}
			continue
		}
		if blank > 0 {
			return nil, nil, fmt.Errorf("row %d: blank line inside grid: %w", rows+1, ErrRaggedRow)
		}

		if rows == 0 {
			width = len(line)
		} else if len(line) != width {
			return nil, nil, fmt.Errorf("row %d has %d cells, expected %d: %w", rows+1, len(line), width, ErrRaggedRow)
		}
		if uint64(width) > math.MaxUint32 || uint64(rows) >= math.MaxUint32 {
			return nil, nil, ErrGridTooLarge
		}

		y := uint32(rows)
		for x := 0; x < len(line); x++ {
			p := types.Position{X: uint32(x), Y: y}
			switch line[x] {
			case types.CellRound:
				markers = append(markers, p)
			case types.CellCube:
				obstacles = append(obstacles, p)
			case types.CellEmpty:
			default:
				return nil, nil, fmt.Errorf("row %d column %d: %q: %w", rows+1, x+1, line[x], ErrUnknownCell)
			}
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read grid: %w", err)
	}
	if rows == 0 || width == 0 {
		return nil, nil, ErrEmptyGrid
	}

	g, err := NewGrid(uint32(width), uint32(rows), obstacles)
	if err != nil {
		return nil, nil, err
	}
	return g, markers, nil
}

// ParseString is Parse over an in-memory grid.
func ParseString(s string) (*Grid, []types.Position, error) {
	return Parse(strings.NewReader(s))
}
