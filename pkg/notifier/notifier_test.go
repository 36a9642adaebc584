package notifier

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poltergeist/reflector/pkg/logger"
)

type sent struct {
	title   string
	message string
}

type recorder struct {
	mu    sync.Mutex
	sent  []sent
	beeps int
	err   error
}

func (r *recorder) notify(title, message, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{title, message})
	return r.err
}

func (r *recorder) beep(float64, int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beeps++
	return nil
}

func newRecorded(config Config, log logger.Logger) (*SolveNotifier, *recorder) {
	rec := &recorder{}
	n := New(config, log)
	n.notify = rec.notify
	n.beep = rec.beep
	return n, rec
}

func TestNotifier_Solved(t *testing.T) {
	n, rec := newRecorded(Config{Enabled: true}, nil)

	n.NotifySolved("input.txt", map[string]string{"2": "64", "1": "136"}, 1500*time.Millisecond)

	if len(rec.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(rec.sent))
	}
	msg := rec.sent[0].message
	for _, want := range []string{"input.txt solved in 1.5s", "part 1: 136, part 2: 64"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestNotifier_Failed(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		err       error
		wantMsg   string
		wantBeeps int
	}{
		{"with error", Config{Enabled: true}, errors.New("ragged row"), "input.txt: ragged row", 0},
		{"nil error", Config{Enabled: true}, nil, "input.txt", 0},
		{"beep", Config{Enabled: true, BeepOnError: true}, errors.New("boom"), "input.txt: boom", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, rec := newRecorded(tt.config, nil)
			n.NotifyFailed("input.txt", tt.err)

			if len(rec.sent) != 1 || rec.sent[0].message != tt.wantMsg {
				t.Errorf("expected message %q, got %+v", tt.wantMsg, rec.sent)
			}
			if rec.beeps != tt.wantBeeps {
				t.Errorf("expected %d beeps, got %d", tt.wantBeeps, rec.beeps)
			}
		})
	}
}

func TestNotifier_Batch(t *testing.T) {
	n, rec := newRecorded(Config{Enabled: true}, nil)

	n.NotifyBatch(1, 0, time.Second)
	if len(rec.sent) != 0 {
		t.Errorf("single-input batch should not notify, got %+v", rec.sent)
	}

	n.NotifyBatch(2, 1, 3*time.Minute)
	if len(rec.sent) != 1 {
		t.Fatalf("expected batch notification, got %d", len(rec.sent))
	}
	if want := "2 solved, 1 failed in 3 minutes"; rec.sent[0].message != want {
		t.Errorf("expected %q, got %q", want, rec.sent[0].message)
	}
}

func TestNotifier_Disabled(t *testing.T) {
	n, rec := newRecorded(Config{Enabled: false, BeepOnError: true}, nil)

	n.NotifySolved("x", nil, time.Second)
	n.NotifyFailed("x", errors.New("e"))
	n.NotifyBatch(3, 3, time.Second)

	if len(rec.sent) != 0 || rec.beeps != 0 {
		t.Errorf("disabled notifier sent %d notifications, %d beeps", len(rec.sent), rec.beeps)
	}
}

func TestNotifier_FallsBackToLog(t *testing.T) {
	var buf bytes.Buffer
	n, rec := newRecorded(Config{Enabled: true}, logger.CreateLoggerWithOutput("", "info", &buf))
	rec.err = errors.New("no notification daemon")

	n.NotifyFailed("input.txt", errors.New("boom"))

	if !strings.Contains(buf.String(), "Reflector: failed: input.txt: boom") {
		t.Errorf("expected fallback log line, got %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{2500 * time.Millisecond, "2.5s"},
		{90 * time.Second, "1 minute"},
		{10 * time.Minute, "10 minutes"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func BenchmarkNotifier_Disabled(b *testing.B) {
	n := New(Config{Enabled: false}, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n.NotifySolved("Benchmark", nil, time.Second)
	}
}
