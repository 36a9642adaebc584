package context_test

import (
	"context"
	"strings"
	"testing"
	"time"

	rcontext "github.com/poltergeist/reflector/pkg/context"
)

func TestRunID(t *testing.T) {
	ctx := rcontext.WithRunID(context.Background(), "")
	id := rcontext.GetRunID(ctx)
	if !strings.HasPrefix(id, "run_") {
		t.Errorf("expected generated run id, got %q", id)
	}

	ctx = rcontext.WithRunID(context.Background(), "fixed")
	if got := rcontext.GetRunID(ctx); got != "fixed" {
		t.Errorf("expected fixed, got %q", got)
	}

	if got := rcontext.GetRunID(context.Background()); got != "" {
		t.Errorf("expected empty run id, got %q", got)
	}
}

func TestGenerateRunID_Unique(t *testing.T) {
	if rcontext.GenerateRunID() == rcontext.GenerateRunID() {
		t.Error("expected distinct run ids")
	}
}

func TestNewRunContext(t *testing.T) {
	ctx := rcontext.NewRunContext(context.Background(), "solve")
	ctx = rcontext.WithInput(ctx, "input.txt")

	if rcontext.GetOperation(ctx) != "solve" {
		t.Errorf("expected operation solve, got %q", rcontext.GetOperation(ctx))
	}
	if rcontext.GetInput(ctx) != "input.txt" {
		t.Errorf("expected input input.txt, got %q", rcontext.GetInput(ctx))
	}
	if _, ok := rcontext.GetStartTime(ctx); !ok {
		t.Error("expected start time")
	}

	time.Sleep(2 * time.Millisecond)
	if rcontext.GetDuration(ctx) <= 0 {
		t.Error("expected positive duration")
	}
	if rcontext.GetDuration(context.Background()) != 0 {
		t.Error("expected zero duration without start time")
	}
}
