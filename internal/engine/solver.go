package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	rcontext "github.com/poltergeist/reflector/pkg/context"
	"github.com/poltergeist/reflector/pkg/interfaces"
	"github.com/poltergeist/reflector/pkg/logger"
	"github.com/poltergeist/reflector/pkg/puzzle"
	"github.com/poltergeist/reflector/pkg/state"
	"github.com/poltergeist/reflector/pkg/tilt"
	"github.com/poltergeist/reflector/pkg/types"
)

// progressEvery is the cycle interval of debug progress lines
const progressEvery = 10_000_000

// Job is one input to solve
type Job struct {
	Name string
	Path string
}

// PartResult is the outcome of one part
type PartResult struct {
	Part     puzzle.Part
	Answer   string
	OK       bool
	Duration time.Duration
}

// Result is the outcome of one job. Err is set when the job failed; parts
// solved before the failure are kept.
type Result struct {
	Job          Job
	RunID        string
	Parts        []PartResult
	Stats        *tilt.RunStats
	InitDuration time.Duration
	Duration     time.Duration
	Err          error
}

// Answers maps part numbers to answers for the parts that produced one
func (r Result) Answers() map[string]string {
	answers := make(map[string]string, len(r.Parts))
	for _, p := range r.Parts {
		if p.OK {
			answers[strconv.Itoa(int(p.Part))] = p.Answer
		}
	}
	return answers
}

// Status classifies the result
func (r Result) Status() types.RunStatus {
	switch {
	case r.Err == nil:
		return types.RunStatusSucceeded
	case errors.Is(r.Err, context.Canceled), errors.Is(r.Err, context.DeadlineExceeded):
		return types.RunStatusCancelled
	default:
		return types.RunStatusFailed
	}
}

// Summarize counts succeeded and failed results. Cancelled jobs count as
// neither.
func Summarize(results []Result) (succeeded, failed int) {
	for _, r := range results {
		switch r.Status() {
		case types.RunStatusSucceeded:
			succeeded++
		case types.RunStatusFailed:
			failed++
		}
	}
	return succeeded, failed
}

// Solver runs batches of jobs against one puzzle
type Solver struct {
	config   *types.ReflectorConfig
	registry *puzzle.Registry
	logger   logger.Logger
	store    interfaces.StateStore
	notifier interfaces.Notifier
}

// NewSolver creates a solver. A nil registry selects the built-in puzzles.
func NewSolver(
	config *types.ReflectorConfig,
	registry *puzzle.Registry,
	log logger.Logger,
	deps interfaces.SolverDependencies,
) *Solver {
	if registry == nil {
		registry = puzzle.DefaultRegistry()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Solver{
		config:   config,
		registry: registry,
		logger:   log,
		store:    deps.StateStore,
		notifier: deps.Notifier,
	}
}

// Solve runs parts for every job, at most config.Parallelism at a time.
// Results are returned in job order. The error is non-nil only when ctx
// ended the batch.
func (s *Solver) Solve(ctx context.Context, jobs []Job, parts []puzzle.Part) ([]Result, error) {
	if len(parts) == 0 {
		parts = puzzle.Parts
	}

	start := time.Now()
	results := make([]Result, len(jobs))

	sg, gctx := NewSafeGroup(ctx, s.logger)
	limit := s.config.Parallelism
	if limit < 1 {
		limit = 1
	}
	sg.SetLimit(limit)

	for i, job := range jobs {
		sg.Go(func() error {
			results[i] = s.runJob(gctx, job, parts)
			return nil
		})
	}

	// Jobs recover their own panics, so the group never reports an error.
	_ = sg.Wait()

	succeeded, failed := Summarize(results)
	s.logger.Info("Batch finished",
		logger.WithField("succeeded", succeeded),
		logger.WithField("failed", failed),
		logger.WithField("duration", time.Since(start).Round(time.Millisecond).String()))

	if s.notifier != nil {
		s.notifier.NotifyBatch(succeeded, failed, time.Since(start))
	}

	return results, ctx.Err()
}

func (s *Solver) runJob(ctx context.Context, job Job, parts []puzzle.Part) (res Result) {
	ctx = rcontext.NewRunContext(ctx, "solve")
	ctx = rcontext.WithInput(ctx, job.Path)

	res.Job = job
	res.RunID = rcontext.GetRunID(ctx)
	log := logger.WithContext(ctx, s.logger).WithTarget(job.Name)

	var st *state.RunState
	if s.store != nil {
		var err error
		st, err = s.store.Begin(job.Name, s.config.Puzzle, res.RunID)
		if err != nil {
			log.Warn("Failed to record run state", logger.WithField("error", err))
		}
	}

	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		s.finish(log, st, res)
	}()
	defer func() {
		if r := recover(); r != nil {
			res.Err = recovered(log, r)
		}
	}()

	res.Err = s.solveJob(ctx, log, job, parts, &res)
	return res
}

func (s *Solver) solveJob(ctx context.Context, log logger.Logger, job Job, parts []puzzle.Part, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(job.Path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	runner, err := s.registry.New(s.config.Puzzle, puzzle.Options{
		Cycles:        s.config.Cycles,
		DetectCycles:  s.config.CycleDetection(),
		Scoring:       s.config.Scoring,
		ProgressEvery: progressEvery,
		Progress: func(done, total uint64) {
			log.Debug("Spin cycle progress",
				logger.WithField("done", humanize.Comma(int64(done))),
				logger.WithField("total", humanize.Comma(int64(total))))
		},
	})
	if err != nil {
		return err
	}

	initStart := time.Now()
	if err := runner.Init(ctx, f); err != nil {
		return err
	}
	res.InitDuration = time.Since(initStart)
	log.Debug("Input parsed", logger.WithField("duration", res.InitDuration.String()))

	for _, part := range parts {
		partStart := time.Now()
		answer, ok, err := runner.Solve(ctx, part)
		if err != nil {
			return fmt.Errorf("%s: %w", part, err)
		}

		pr := PartResult{Part: part, Answer: answer, OK: ok, Duration: time.Since(partStart)}
		res.Parts = append(res.Parts, pr)

		if ok {
			log.Info(fmt.Sprintf("%s: %s", part, answer),
				logger.WithField("duration", pr.Duration.String()))
		}
	}

	if reporter, ok := runner.(puzzle.StatsReporter); ok {
		if stats, ok := reporter.RunStats(); ok {
			res.Stats = &stats
			log.Debug("Spin cycles",
				logger.WithField("requested", humanize.Comma(int64(stats.Requested))),
				logger.WithField("simulated", humanize.Comma(int64(stats.Simulated))),
				logger.WithField("period", stats.Period))
		}
	}

	return nil
}

func (s *Solver) finish(log logger.Logger, st *state.RunState, res Result) {
	status := res.Status()

	switch status {
	case types.RunStatusSucceeded:
		log.Success("Solved", logger.WithField("duration", res.Duration.Round(time.Millisecond).String()))
	case types.RunStatusCancelled:
		log.Warn("Solve cancelled")
	default:
		log.Error("Solve failed", logger.WithField("error", res.Err))
	}

	if st != nil {
		st.Status = status
		st.Answers = res.Answers()
		st.Cycles = s.config.Cycles
		st.Stats = res.Stats
		st.Duration = res.Duration
		if res.Err != nil {
			st.LastError = res.Err.Error()
		}
		if err := s.store.Finish(st); err != nil {
			log.Warn("Failed to save run state", logger.WithField("error", err))
		}
	}

	if s.notifier == nil {
		return
	}
	switch status {
	case types.RunStatusSucceeded:
		s.notifier.NotifySolved(res.Job.Name, res.Answers(), res.Duration)
	case types.RunStatusFailed:
		s.notifier.NotifyFailed(res.Job.Name, res.Err)
	}
}
