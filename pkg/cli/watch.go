package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/poltergeist/reflector/internal/engine"
	"github.com/poltergeist/reflector/pkg/logger"
	"github.com/poltergeist/reflector/pkg/puzzle"
	"github.com/poltergeist/reflector/pkg/watch"
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	var part string

	cmd := &cobra.Command{
		Use:   "watch [input...]",
		Short: "Solve inputs again whenever they change",
		Long: `Solve every input once, then watch them and solve an input again each
time it is saved. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, err := parseParts(part)
			if err != nil {
				return err
			}

			jobs, err := c.jobs(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
			defer stop()

			return c.runWatch(ctx, jobs, parts)
		},
	}

	cmd.Flags().StringVarP(&part, "part", "p", "all", "part to solve (1, 2 or all)")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, jobs []engine.Job, parts []puzzle.Part) error {
	solver := c.newSolver()

	byPath := make(map[string]engine.Job, len(jobs))
	paths := make([]string, 0, len(jobs))
	for _, job := range jobs {
		abs, err := filepath.Abs(job.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", job.Path, err)
		}
		byPath[abs] = job
		paths = append(paths, abs)
	}

	results, err := solver.Solve(ctx, jobs, parts)
	c.printResults(results, false)
	if err != nil {
		return nil
	}

	w, err := watch.New(paths, c.settings.Watch.DebounceDuration(), c.logger, func(ctx context.Context, ev watch.Event) {
		job, ok := byPath[ev.Path]
		if !ok {
			return
		}
		if ev.Type == watch.EventRemoved {
			c.printWarning(fmt.Sprintf("%s was removed", job.Name))
			return
		}

		c.logger.WithTarget(job.Name).Info("Input changed, solving again")
		results, _ := solver.Solve(ctx, []engine.Job{job}, parts)
		c.printResults(results, false)
	})
	if err != nil {
		return err
	}

	if err := w.Run(ctx); err != nil {
		return err
	}

	c.logger.Debug("Watcher stopped", logger.WithField("reason", context.Cause(ctx)))
	c.printSuccess("Stopped watching")
	return nil
}
