// Package types provides core types and configurations for Reflector
package types

import (
	"fmt"
	"strings"
	"time"
)

// Direction represents one of the four cardinal tilt directions
type Direction uint8

const (
	North Direction = iota
	South
	West
	East
)

// CycleOrder is the sequence of tilts that makes up one spin cycle
var CycleOrder = [4]Direction{North, West, South, East}

// Directions lists every direction in index order
var Directions = [4]Direction{North, South, West, East}

// Opposite returns the direction pointing the other way
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case West:
		return East
	default:
		return West
	}
}

// Vertical reports whether tilting in d moves markers along columns.
func (d Direction) Vertical() bool {
	return d == North || d == South
}

// Mirrored reports whether distances in d are measured from the far
// (bottom or right) edge of the grid.
func (d Direction) Mirrored() bool {
	return d == South || d == East
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case West:
		return "west"
	case East:
		return "east"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection parses a direction name or its single letter abbreviation
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n":
		return North, nil
	case "south", "s":
		return South, nil
	case "west", "w":
		return West, nil
	case "east", "e":
		return East, nil
	}
	return 0, fmt.Errorf("unknown direction: %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	if d > East {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Position is a zero-based cell coordinate measured from the top-left corner
type Position struct {
	X uint32 `json:"x" yaml:"x"`
	Y uint32 `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}

// Cell characters of the platform text format
const (
	CellRound = 'O'
	CellCube  = '#'
	CellEmpty = '.'
)

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// RunStatus represents the outcome of a solve run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// ReflectorConfig represents the complete configuration
type ReflectorConfig struct {
	Version       string              `json:"version" yaml:"version"`
	Puzzle        string              `json:"puzzle" yaml:"puzzle"`
	Cycles        uint64              `json:"cycles" yaml:"cycles"`
	DetectCycles  *bool               `json:"detectCycles,omitempty" yaml:"detectCycles,omitempty"`
	Scoring       Direction           `json:"scoring" yaml:"scoring"`
	Parallelism   int                 `json:"parallelism" yaml:"parallelism"`
	StateDir      string              `json:"stateDir,omitempty" yaml:"stateDir,omitempty"`
	LogLevel      LogLevel            `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFile       string              `json:"logFile,omitempty" yaml:"logFile,omitempty"`
	Notifications *NotificationConfig `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Watch         *WatchConfig        `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// CycleDetection reports whether period detection is enabled, defaulting to true
func (c *ReflectorConfig) CycleDetection() bool {
	if c.DetectCycles == nil {
		return true
	}
	return *c.DetectCycles
}

// NotificationConfig represents notification settings
type NotificationConfig struct {
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// IsEnabled reports whether notifications are on. The zero value is off.
func (n *NotificationConfig) IsEnabled() bool {
	return n != nil && n.Enabled != nil && *n.Enabled
}

// WatchConfig represents input watching settings
type WatchConfig struct {
	// Debounce is the settling delay in milliseconds
	Debounce int `json:"debounce" yaml:"debounce"`
}

// DebounceDuration returns the settling delay, defaulting to 200ms
func (w *WatchConfig) DebounceDuration() time.Duration {
	if w == nil || w.Debounce <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(w.Debounce) * time.Millisecond
}
