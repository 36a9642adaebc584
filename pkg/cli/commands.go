package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/poltergeist/reflector/pkg/puzzle"
	"github.com/poltergeist/reflector/pkg/state"
	"github.com/poltergeist/reflector/pkg/tilt"
	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the outcome of recorded runs",
		Long:  `Display the latest recorded run of every input, including answers and run counts.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStatus()
		},
	}
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove recorded run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runClean()
		},
	}
}

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input...]",
		Short: "Validate the configuration and inputs",
		Long:  `Check that the configuration is valid and that every input parses as a platform.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args)
		},
	}
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the version number of Reflector",
		Args:              cobra.NoArgs,
		PersistentPreRunE: c.initializeLogger,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.output, "Reflector v%s\n", c.config.Version)
		},
	}
}

// Implementation functions

func (c *CLI) stateManager() *state.StateManager {
	return state.NewStateManager(c.settings.StateDir, c.logger)
}

func (c *CLI) runStatus() error {
	if c.settings.StateDir == "" {
		return fmt.Errorf("run state is disabled: no state directory configured")
	}

	states, err := c.stateManager().Discover()
	if err != nil {
		return fmt.Errorf("failed to discover states: %w", err)
	}
	if len(states) == 0 {
		c.printInfo("No recorded runs")
		return nil
	}

	w := tabwriter.NewWriter(c.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INPUT\tSTATUS\tPART 1\tPART 2\tCYCLES\tDURATION\tFINISHED\tRUNS\tFAILURES")
	fmt.Fprintln(w, "-----\t------\t------\t------\t------\t--------\t--------\t----\t--------")

	for _, st := range states {
		finished := "-"
		if !st.Finished.IsZero() {
			finished = humanize.Time(st.Finished)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			st.Input,
			c.colorStatus(st.Status),
			answerOrDash(st.Answers, "1"),
			answerOrDash(st.Answers, "2"),
			humanize.Comma(int64(st.Cycles)),
			st.Duration.Round(time.Millisecond),
			finished,
			st.SuccessCount+st.FailureCount,
			st.FailureCount,
		)

		if st.LastError != "" {
			fmt.Fprintf(w, "\t%s\t\t\t\t\t\t\t\n", color.RedString(st.LastError))
		}
	}

	return w.Flush()
}

func answerOrDash(answers map[string]string, part string) string {
	if a, ok := answers[part]; ok {
		return a
	}
	return "-"
}

func (c *CLI) runClean() error {
	if c.settings.StateDir == "" {
		return nil
	}

	removed, err := c.stateManager().Clean()
	if err != nil {
		return err
	}
	c.printSuccess(fmt.Sprintf("Removed %d state file(s)", removed))
	return nil
}

func (c *CLI) runValidate(args []string) error {
	// Settings were loaded and validated before this runs.
	if _, err := puzzle.DefaultRegistry().New(c.settings.Puzzle, puzzle.Options{}); err != nil {
		return err
	}
	c.printSuccess("Configuration is valid")

	if len(args) == 0 {
		return nil
	}

	jobs, err := c.jobs(args)
	if err != nil {
		return err
	}

	var invalid int
	for _, job := range jobs {
		if err := validateInput(job.Path); err != nil {
			invalid++
			fmt.Fprintf(c.output, "%s %s: %v\n", color.RedString("✗"), job.Name, err)
			continue
		}
		fmt.Fprintf(c.output, "%s %s\n", color.GreenString("✓"), job.Name)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d inputs are invalid", invalid, len(jobs))
	}
	return nil
}

func validateInput(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no such file")
		}
		return err
	}
	defer f.Close()

	_, _, err = tilt.Parse(f)
	return err
}
