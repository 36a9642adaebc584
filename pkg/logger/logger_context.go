package logger

import (
	"context"
	"time"

	rcontext "github.com/poltergeist/reflector/pkg/context"
)

// WithContext returns a logger that adds the run id, operation and elapsed
// time carried by ctx to every entry
func WithContext(ctx context.Context, log Logger) Logger {
	if ctx == nil {
		return log
	}
	return &runLogger{ctx: ctx, next: log}
}

// ContextFields returns the run tracing fields stored in ctx
func ContextFields(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}

	var fields []Field
	if runID := rcontext.GetRunID(ctx); runID != "" {
		fields = append(fields, WithField("run_id", runID))
	}
	if operation := rcontext.GetOperation(ctx); operation != "" {
		fields = append(fields, WithField("operation", operation))
	}
	if elapsed := rcontext.GetDuration(ctx); elapsed > 0 {
		fields = append(fields, WithField("elapsed", elapsed.Round(time.Millisecond).String()))
	}
	return fields
}

type runLogger struct {
	ctx  context.Context
	next Logger
}

// with prepends the context fields, read afresh for every entry
func (r *runLogger) with(fields []Field) []Field {
	return append(ContextFields(r.ctx), fields...)
}

func (r *runLogger) Info(message string, fields ...Field) { r.next.Info(message, r.with(fields)...) }
func (r *runLogger) Error(message string, fields ...Field) { r.next.Error(message, r.with(fields)...) }
func (r *runLogger) Warn(message string, fields ...Field) { r.next.Warn(message, r.with(fields)...) }
func (r *runLogger) Debug(message string, fields ...Field) { r.next.Debug(message, r.with(fields)...) }
func (r *runLogger) Success(message string, fields ...Field) { r.next.Success(message, r.with(fields)...) }

func (r *runLogger) WithTarget(target string) Logger {
	return &runLogger{ctx: r.ctx, next: r.next.WithTarget(target)}
}
