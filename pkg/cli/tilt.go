package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/poltergeist/reflector/pkg/logger"
	"github.com/poltergeist/reflector/pkg/tilt"
	"github.com/poltergeist/reflector/pkg/types"
	"github.com/spf13/cobra"
)

func (c *CLI) newTiltCmd() *cobra.Command {
	var tilts int
	var direction string

	cmd := &cobra.Command{
		Use:   "tilt <input>",
		Short: "Tilt a platform and print the result",
		Long: `Apply --tilts tilts towards --direction, or --cycles full spin cycles
when that flag is given, then render the platform and its load.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := types.ParseDirection(direction)
			if err != nil {
				return err
			}
			if tilts < 0 {
				return fmt.Errorf("tilts must not be negative")
			}

			var cycles uint64
			if cmd.Flags().Changed("cycles") {
				cycles = c.settings.Cycles
			}
			return c.runTilt(cmd, c.resolvePath(args[0]), dir, tilts, cycles)
		},
	}

	cmd.Flags().IntVarP(&tilts, "tilts", "n", 1, "number of tilts")
	cmd.Flags().StringVarP(&direction, "direction", "d", "north", "tilt direction")

	return cmd
}

func (c *CLI) runTilt(cmd *cobra.Command, path string, dir types.Direction, tilts int, cycles uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	grid, markers, err := tilt.Parse(f)
	if err != nil {
		return err
	}
	sim := tilt.NewSimulator(grid, markers)

	start := time.Now()
	if cycles > 0 {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stats, err := sim.Run(ctx, cycles, tilt.RunOptions{DetectCycles: c.settings.CycleDetection()})
		if err != nil {
			return err
		}
		c.logger.Debug("Spin cycles done",
			logger.WithField("requested", humanize.Comma(int64(stats.Requested))),
			logger.WithField("simulated", humanize.Comma(int64(stats.Simulated))),
			logger.WithField("duration", time.Since(start).String()))
	} else {
		for i := 0; i < tilts; i++ {
			sim.Tilt(dir)
		}
	}

	if err := tilt.Render(c.output, grid, sim.Markers()); err != nil {
		return err
	}
	fmt.Fprintf(c.output, "\nload (%s): %d\n", c.settings.Scoring, sim.Load(c.settings.Scoring))
	return nil
}
