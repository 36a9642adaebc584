package puzzle_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/poltergeist/reflector/pkg/puzzle"
	"github.com/poltergeist/reflector/pkg/tilt"
	"github.com/poltergeist/reflector/pkg/types"
)

const example = `O....#....
O.OO#....#
.....##...
OO.#O....O
.O.....O#.
O.#..O.#.#
..O..#O..O
.......O..
#....###..
#OO..#....
`

func TestDishRunner_Parts(t *testing.T) {
	tests := []struct {
		name string
		part puzzle.Part
		want string
	}{
		{"single tilt", puzzle.PartSingleTilt, "136"},
		{"billion cycles", puzzle.PartRepeated, "64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := puzzle.NewDishRunner(puzzle.Options{DetectCycles: true, Scoring: types.North})
			if err := runner.Init(context.Background(), strings.NewReader(example)); err != nil {
				t.Fatalf("init failed: %v", err)
			}

			answer, ok, err := runner.Solve(context.Background(), tt.part)
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			if !ok {
				t.Fatal("expected an answer")
			}
			if answer != tt.want {
				t.Errorf("expected %s, got %s", tt.want, answer)
			}
		})
	}
}

func TestDishRunner_PartsAreIndependent(t *testing.T) {
	runner := puzzle.NewDishRunner(puzzle.Options{DetectCycles: true})
	if err := runner.Init(context.Background(), strings.NewReader(example)); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		answer, _, err := runner.Solve(context.Background(), puzzle.PartSingleTilt)
		if err != nil {
			t.Fatalf("solve failed: %v", err)
		}
		if answer != "136" {
			t.Errorf("run %d: expected 136, got %s", i, answer)
		}
	}
}

func TestDishRunner_SolveReusesPartitions(t *testing.T) {
	runner := puzzle.NewDishRunner(puzzle.Options{DetectCycles: true}).(*puzzle.DishRunner)
	if runner.Simulator() != nil {
		t.Fatal("expected no simulator before init")
	}
	if err := runner.Init(context.Background(), strings.NewReader(example)); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	sim := runner.Simulator()
	if sim == nil {
		t.Fatal("expected init to build the simulator")
	}
	var tables [4]*tilt.SlotTable
	for _, d := range types.Directions {
		tables[d] = sim.Table(d)
	}

	for _, part := range []puzzle.Part{puzzle.PartSingleTilt, puzzle.PartRepeated, puzzle.PartSingleTilt} {
		if _, _, err := runner.Solve(context.Background(), part); err != nil {
			t.Fatalf("%s failed: %v", part, err)
		}
		if runner.Simulator() != sim {
			t.Fatalf("%s replaced the simulator", part)
		}
		for _, d := range types.Directions {
			if sim.Table(d) != tables[d] {
				t.Errorf("%s rebuilt the %s table", part, d)
			}
		}
	}
}

func TestDishRunner_CustomCycles(t *testing.T) {
	// One cycle of the example leaves a north load of 87.
	runner := puzzle.NewDishRunner(puzzle.Options{Cycles: 1})
	if err := runner.Init(context.Background(), strings.NewReader(example)); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	answer, _, err := runner.Solve(context.Background(), puzzle.PartRepeated)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if answer != "87" {
		t.Errorf("expected 87, got %s", answer)
	}

	dish := runner.(*puzzle.DishRunner)
	if dish.LastStats.Simulated != 1 {
		t.Errorf("expected one simulated cycle, got %d", dish.LastStats.Simulated)
	}
}

func TestDishRunner_Errors(t *testing.T) {
	runner := puzzle.NewDishRunner(puzzle.Options{})

	if _, _, err := runner.Solve(context.Background(), puzzle.PartSingleTilt); !errors.Is(err, puzzle.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}

	if err := runner.Init(context.Background(), strings.NewReader("O.x\n")); err == nil {
		t.Error("expected init to reject unknown cells")
	}

	if err := runner.Init(context.Background(), strings.NewReader(example)); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, _, err := runner.Solve(context.Background(), puzzle.Part(3)); !errors.Is(err, puzzle.ErrUnknownPart) {
		t.Errorf("expected ErrUnknownPart, got %v", err)
	}
}

func TestDishRunner_Cancelled(t *testing.T) {
	runner := puzzle.NewDishRunner(puzzle.Options{})
	if err := runner.Init(context.Background(), strings.NewReader(example)); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := runner.Solve(ctx, puzzle.PartRepeated); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type silentRunner struct{}

func (silentRunner) Name() string                               { return "silent" }
func (silentRunner) Init(context.Context, io.Reader) error      { return nil }
func (silentRunner) Solve(context.Context, puzzle.Part) (string, bool, error) {
	return "", false, nil
}

func TestRegistry(t *testing.T) {
	reg := puzzle.DefaultRegistry()

	if names := reg.Names(); len(names) != 1 || names[0] != puzzle.DishName {
		t.Errorf("expected only the dish puzzle, got %v", names)
	}

	if err := reg.Register(puzzle.DishName, puzzle.NewDishRunner); !errors.Is(err, puzzle.ErrDuplicatePuzzle) {
		t.Errorf("expected ErrDuplicatePuzzle, got %v", err)
	}

	if _, err := reg.New("missing", puzzle.Options{}); !errors.Is(err, puzzle.ErrUnknownPuzzle) {
		t.Errorf("expected ErrUnknownPuzzle, got %v", err)
	}

	if err := reg.Register("silent", func(puzzle.Options) puzzle.Runner { return silentRunner{} }); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	runner, err := reg.New("silent", puzzle.Options{})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if _, ok, _ := runner.Solve(context.Background(), puzzle.PartSingleTilt); ok {
		t.Error("silent runner should have no answer")
	}
}
