// Package state persists the outcome of solve runs between invocations
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/poltergeist/reflector/pkg/logger"
	"github.com/poltergeist/reflector/pkg/tilt"
	"github.com/poltergeist/reflector/pkg/types"
)

// ErrNoState is returned when no state has been recorded for an input
var ErrNoState = errors.New("no recorded state")

// RunState is the persisted record of the latest run over one input
type RunState struct {
	Input        string            `json:"input"`
	Puzzle       string            `json:"puzzle"`
	Status       types.RunStatus   `json:"status"`
	Answers      map[string]string `json:"answers,omitempty"`
	Cycles       uint64            `json:"cycles"`
	Stats        *tilt.RunStats    `json:"stats,omitempty"`
	Duration     time.Duration     `json:"duration"`
	RunID        string            `json:"runId"`
	ProcessID    int               `json:"processId"`
	Started      time.Time         `json:"started"`
	Finished     time.Time         `json:"finished"`
	LastError    string            `json:"lastError,omitempty"`
	SuccessCount int               `json:"successCount"`
	FailureCount int               `json:"failureCount"`
}

// StateManager handles persistent state files
type StateManager struct {
	stateDir string
	logger   logger.Logger
	mu       sync.Mutex
}

// NewStateManager creates a state manager rooted at stateDir
func NewStateManager(stateDir string, log logger.Logger) *StateManager {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &StateManager{
		stateDir: stateDir,
		logger:   log,
	}
}

// StateDir returns the directory holding state files
func (sm *StateManager) StateDir() string {
	return sm.stateDir
}

// Begin records a running state for input, carrying over the counters of any
// earlier run
func (sm *StateManager) Begin(input, puzzle, runID string) (*RunState, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	st := &RunState{
		Input:     input,
		Puzzle:    puzzle,
		Status:    types.RunStatusRunning,
		RunID:     runID,
		ProcessID: os.Getpid(),
		Started:   time.Now(),
	}

	if existing, err := sm.loadStateFile(input); err == nil {
		st.SuccessCount = existing.SuccessCount
		st.FailureCount = existing.FailureCount
	}

	if err := sm.saveStateFile(st); err != nil {
		return nil, fmt.Errorf("failed to save initial state: %w", err)
	}
	return st, nil
}

// Finish stamps st with its completion time, bumps the counter matching its
// status and saves it
func (sm *StateManager) Finish(st *RunState) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	st.Finished = time.Now()
	switch st.Status {
	case types.RunStatusSucceeded:
		st.SuccessCount++
	case types.RunStatusFailed:
		st.FailureCount++
	}
	return sm.saveStateFile(st)
}

// Save writes st as is
func (sm *StateManager) Save(st *RunState) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.saveStateFile(st)
}

// Load reads the state recorded for input
func (sm *StateManager) Load(input string) (*RunState, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	st, err := sm.loadStateFile(input)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w for %s", ErrNoState, input)
	}
	return st, err
}

// Remove deletes the state recorded for input
func (sm *StateManager) Remove(input string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if err := os.Remove(sm.getStateFilePath(input)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

// Discover returns every readable state, ordered by input
func (sm *StateManager) Discover() ([]*RunState, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	files, err := os.ReadDir(sm.stateDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}

	var states []*RunState
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		st, err := sm.readFile(filepath.Join(sm.stateDir, file.Name()))
		if err != nil {
			sm.logger.Warn("Failed to load state file",
				logger.WithField("file", file.Name()),
				logger.WithField("error", err))
			continue
		}
		states = append(states, st)
	}

	sort.Slice(states, func(i, j int) bool { return states[i].Input < states[j].Input })
	return states, nil
}

// Clean removes all state files and reports how many were removed
func (sm *StateManager) Clean() (int, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	files, err := os.ReadDir(sm.stateDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read state directory: %w", err)
	}

	removed := 0
	for _, file := range files {
		ext := filepath.Ext(file.Name())
		if file.IsDir() || (ext != ".json" && ext != ".tmp") {
			continue
		}
		if err := os.Remove(filepath.Join(sm.stateDir, file.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", file.Name(), err)
		}
		if ext == ".json" {
			removed++
		}
	}
	return removed, nil
}

// FileName maps an input path onto the name of its state file
func FileName(input string) string {
	cleaned := filepath.ToSlash(filepath.Clean(input))

	var b strings.Builder
	for _, r := range cleaned {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := strings.TrimLeft(b.String(), "._")
	if name == "" {
		name = "input"
	}
	return name + ".json"
}

// Private methods

func (sm *StateManager) getStateFilePath(input string) string {
	return filepath.Join(sm.stateDir, FileName(input))
}

func (sm *StateManager) loadStateFile(input string) (*RunState, error) {
	return sm.readFile(sm.getStateFilePath(input))
}

func (sm *StateManager) readFile(path string) (*RunState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var st RunState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	return &st, nil
}

func (sm *StateManager) saveStateFile(st *RunState) error {
	if err := os.MkdirAll(sm.stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	stateFile := sm.getStateFilePath(st.Input)

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write atomically
	tempFile := stateFile + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tempFile, stateFile); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}
