// Package notifier provides desktop notifications for finished solves
package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gen2brain/beeep"
	"github.com/poltergeist/reflector/pkg/interfaces"
	"github.com/poltergeist/reflector/pkg/logger"
)

// SolveNotifier handles solve notifications
type SolveNotifier struct {
	enabled     bool
	beepOnError bool
	logger      logger.Logger
	notify      func(title, message, appIcon string) error
	beep        func(freq float64, duration int) error
}

var _ interfaces.Notifier = (*SolveNotifier)(nil)

// Config represents notification configuration
type Config struct {
	Enabled     bool
	BeepOnError bool
}

// New creates a new solve notifier
func New(config Config, log logger.Logger) *SolveNotifier {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &SolveNotifier{
		enabled:     config.Enabled,
		beepOnError: config.BeepOnError,
		logger:      log,
		notify:      beeep.Notify,
		beep:        beeep.Beep,
	}
}

// NotifySolved notifies that every requested part of input was answered
func (n *SolveNotifier) NotifySolved(input string, answers map[string]string, duration time.Duration) {
	if !n.enabled {
		return
	}

	message := fmt.Sprintf("%s solved in %s", input, formatDuration(duration))
	if len(answers) > 0 {
		message += "\n" + formatAnswers(answers)
	}
	n.send("Reflector: solved", message)
}

// NotifyFailed notifies that solving input failed
func (n *SolveNotifier) NotifyFailed(input string, err error) {
	if !n.enabled {
		return
	}

	message := input
	if err != nil {
		message = fmt.Sprintf("%s: %v", input, err)
	}
	n.send("Reflector: failed", message)

	if n.beepOnError {
		if err := n.beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			n.logger.Debug("Failed to play sound", logger.WithField("error", err))
		}
	}
}

// NotifyBatch summarizes a batch of solves. Single-input batches are already
// covered by the per-input notification.
func (n *SolveNotifier) NotifyBatch(succeeded, failed int, duration time.Duration) {
	if !n.enabled || succeeded+failed < 2 {
		return
	}

	message := fmt.Sprintf("%d solved, %d failed in %s", succeeded, failed, formatDuration(duration))
	n.send("Reflector: batch finished", message)
}

// Private methods

func (n *SolveNotifier) send(title, message string) {
	if err := n.notify(title, message, ""); err != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
		// Fall back to the log so the outcome is not lost
		n.logger.Info(fmt.Sprintf("%s: %s", title, message))
	}
}

func formatAnswers(answers map[string]string) string {
	parts := make([]string, 0, len(answers))
	for part := range answers {
		parts = append(parts, part)
	}
	sort.Strings(parts)

	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		lines = append(lines, fmt.Sprintf("part %s: %s", part, answers[part]))
	}
	return strings.Join(lines, ", ")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return strings.TrimSpace(humanize.RelTime(time.Time{}, time.Time{}.Add(d), "", ""))
}
