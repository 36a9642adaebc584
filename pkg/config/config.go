// Package config handles configuration loading and management
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/poltergeist/reflector/pkg/types"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only configuration version understood
const CurrentVersion = "1.0"

// DefaultFileName is the configuration file looked up in the project root
const DefaultFileName = "reflector.config.yaml"

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadConfig loads configuration from a JSON or YAML file. Fields the file
// leaves out keep their default values.
func (m *Manager) LoadConfig(path string) (*types.ReflectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := m.GetDefaultConfig()

	// Try JSON first
	if err := json.Unmarshal(data, cfg); err == nil {
		return m.validateConfig(cfg)
	}

	// YAML goes through JSON so both formats share the json tags and the
	// text unmarshalers of the config types
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err == nil {
		jsonData, err := json.Marshal(yamlData)
		if err == nil {
			cfg = m.GetDefaultConfig()
			if err := json.Unmarshal(jsonData, cfg); err == nil {
				return m.validateConfig(cfg)
			}
		}
	}

	return nil, fmt.Errorf("failed to parse config as JSON or YAML")
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(config *types.ReflectorConfig) error {
	if config.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported config version: %s", ErrInvalidConfig, config.Version)
	}

	if config.Puzzle == "" {
		return fmt.Errorf("%w: no puzzle selected", ErrInvalidConfig)
	}

	if config.Cycles == 0 {
		return fmt.Errorf("%w: cycles must be at least 1", ErrInvalidConfig)
	}

	if config.Scoring > types.East {
		return fmt.Errorf("%w: invalid scoring direction %d", ErrInvalidConfig, config.Scoring)
	}

	if config.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1, got %d", ErrInvalidConfig, config.Parallelism)
	}

	switch config.LogLevel {
	case "", types.LogLevelDebug, types.LogLevelInfo, types.LogLevelWarn, types.LogLevelError:
	default:
		return fmt.Errorf("%w: invalid log level: %s", ErrInvalidConfig, config.LogLevel)
	}

	if config.Watch != nil && config.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch debounce must not be negative", ErrInvalidConfig)
	}

	return nil
}

// GetDefaultConfig returns the default configuration
func (m *Manager) GetDefaultConfig() *types.ReflectorConfig {
	detect := true
	notify := false

	return &types.ReflectorConfig{
		Version:      CurrentVersion,
		Puzzle:       "dish",
		Cycles:       1_000_000_000,
		DetectCycles: &detect,
		Scoring:      types.North,
		Parallelism:  runtime.NumCPU(),
		StateDir:     filepath.Join(".reflector", "state"),
		LogLevel:     types.LogLevelInfo,
		Notifications: &types.NotificationConfig{
			Enabled: &notify,
		},
		Watch: &types.WatchConfig{
			Debounce: 200,
		},
	}
}

// WriteConfig writes cfg to path, as YAML for .yaml/.yml files and as
// indented JSON otherwise
func (m *Manager) WriteConfig(path string, cfg *types.ReflectorConfig) error {
	if err := m.ValidateConfig(cfg); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Private methods

func (m *Manager) validateConfig(cfg *types.ReflectorConfig) (*types.ReflectorConfig, error) {
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
