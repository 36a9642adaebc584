package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/poltergeist/reflector/internal/engine"
	"github.com/poltergeist/reflector/pkg/inputs"
	"github.com/poltergeist/reflector/pkg/puzzle"
	"github.com/spf13/cobra"
)

// defaultInput is solved when no input is named
const defaultInput = "input.txt"

func (c *CLI) newSolveCmd() *cobra.Command {
	var part string
	var showTime bool

	cmd := &cobra.Command{
		Use:   "solve [input...]",
		Short: "Solve one or more platform inputs",
		Long: `Solve the north tilt (part 1) and the spin cycle (part 2) for each input.
Inputs may be glob patterns such as 'days/**/input.txt', expanded under the\nproject root. Without arguments input.txt in the project root is solved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, err := parseParts(part)
			if err != nil {
				return err
			}

			jobs, err := c.jobs(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return c.runSolve(ctx, jobs, parts, showTime)
		},
	}

	cmd.Flags().StringVarP(&part, "part", "p", "all", "part to solve (1, 2 or all)")
	cmd.Flags().BoolVar(&showTime, "time", false, "print phase durations")

	return cmd
}

func parseParts(s string) ([]puzzle.Part, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return puzzle.Parts, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid part %q: expected 1, 2 or all", s)
	}
	for _, p := range puzzle.Parts {
		if int(p) == n {
			return []puzzle.Part{p}, nil
		}
	}
	return nil, fmt.Errorf("part %d: %w", n, puzzle.ErrUnknownPart)
}

// jobs maps input arguments onto solver jobs. Glob patterns are expanded
// under the project root. Relative paths are resolved against the project
// root but keep their short form as the job name.
func (c *CLI) jobs(args []string) ([]engine.Job, error) {
	if len(args) == 0 {
		args = []string{defaultInput}
	}

	names, err := inputs.Expand(c.config.ProjectRoot, args)
	if err != nil {
		return nil, err
	}

	jobs := make([]engine.Job, 0, len(names))
	for _, name := range names {
		jobs = append(jobs, engine.Job{Name: name, Path: c.resolvePath(name)})
	}
	return jobs, nil
}

func (c *CLI) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.config.ProjectRoot, path)
}

func (c *CLI) newSolver() *engine.Solver {
	return engine.NewDependencyFactory(c.logger, c.settings).NewSolver()
}

func (c *CLI) runSolve(ctx context.Context, jobs []engine.Job, parts []puzzle.Part, showTime bool) error {
	start := time.Now()

	results, err := c.newSolver().Solve(ctx, jobs, parts)
	c.printResults(results, showTime)

	if showTime {
		fmt.Fprintf(c.output, "total: %s\n", time.Since(start).Round(time.Microsecond))
	}

	if err != nil {
		return err
	}
	if _, failed := engine.Summarize(results); failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

func (c *CLI) printResults(results []engine.Result, showTime bool) {
	multi := len(results) > 1

	for _, res := range results {
		indent := ""
		if multi {
			fmt.Fprintln(c.output, color.CyanString(res.Job.Name))
			indent = "  "
		}

		if showTime && res.InitDuration > 0 {
			fmt.Fprintf(c.output, "%sparse: %s\n", indent, res.InitDuration.Round(time.Microsecond))
		}

		for _, p := range res.Parts {
			answer := p.Answer
			if !p.OK {
				answer = "-"
			}
			line := fmt.Sprintf("%s%s: %s", indent, p.Part, color.GreenString(answer))
			if showTime {
				line += fmt.Sprintf(" (%s)", p.Duration.Round(time.Microsecond))
			}
			fmt.Fprintln(c.output, line)
		}

		if showTime && res.Stats != nil {
			st := res.Stats
			line := fmt.Sprintf("%scycles: %s requested, %s simulated", indent,
				humanize.Comma(int64(st.Requested)), humanize.Comma(int64(st.Simulated)))
			if st.Period > 0 {
				line += fmt.Sprintf(", period %d from cycle %d", st.Period, st.PeriodStart)
			}
			fmt.Fprintln(c.output, line)
		}

		if res.Err != nil {
			fmt.Fprintf(c.output, "%s%s %v\n", indent, color.RedString("error:"), res.Err)
		}
	}
}
