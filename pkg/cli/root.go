// Package cli provides the command-line interface for Reflector
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/poltergeist/reflector/pkg/config"
	"github.com/poltergeist/reflector/pkg/logger"
	"github.com/poltergeist/reflector/pkg/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLI encapsulates the command-line interface without global state
type CLI struct {
	config   *Config
	rootCmd  *cobra.Command
	viper    *viper.Viper
	logger   logger.Logger
	output   io.Writer
	errorOut io.Writer

	// settings is the resolved configuration of the running command
	settings *types.ReflectorConfig
}

// NewCLI creates a new CLI instance with the given configuration
func NewCLI(cfg *Config) *CLI {
	if cfg == nil {
		cfg = NewConfig()
	}

	c := &CLI{
		config:   cfg,
		viper:    viper.New(),
		output:   os.Stdout,
		errorOut: os.Stderr,
	}

	c.setupCommands()
	return c
}

// NewCLIWithOutput creates a CLI with custom output writers (for testing)
func NewCLIWithOutput(cfg *Config, output, errorOut io.Writer) *CLI {
	c := NewCLI(cfg)
	c.output = output
	c.errorOut = errorOut
	c.rootCmd.SetOut(output)
	c.rootCmd.SetErr(errorOut)
	return c
}

// Execute runs the CLI with the given arguments
func (c *CLI) Execute(args []string) error {
	return c.ExecuteContext(context.Background(), args)
}

// ExecuteContext runs the CLI with context support
func (c *CLI) ExecuteContext(ctx context.Context, args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:   "reflector",
		Short: "Spin cycle simulator for tilting reflector dishes",
		Long: `Reflector tilts a platform of round rocks and cube obstacles and scores
the load on its support beams.

It solves the single north tilt as well as a billion spin cycles, and can
watch inputs to solve them again whenever they change.`,

		SilenceUsage:      true,
		PersistentPreRunE: c.initializeConfig,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	c.setupFlags()

	c.rootCmd.Version = c.config.Version
	c.rootCmd.SetVersionTemplate("Reflector v{{.Version}}\n")

	c.rootCmd.AddCommand(c.newSolveCmd())
	c.rootCmd.AddCommand(c.newTiltCmd())
	c.rootCmd.AddCommand(c.newWatchCmd())
	c.rootCmd.AddCommand(c.newStatusCmd())
	c.rootCmd.AddCommand(c.newCleanCmd())
	c.rootCmd.AddCommand(c.newValidateCmd())
	c.rootCmd.AddCommand(c.newInitCmd())
	c.rootCmd.AddCommand(c.newVersionCmd())
}

func (c *CLI) setupFlags() {
	flags := c.rootCmd.PersistentFlags()

	flags.StringVar(&c.config.ConfigFile, "config", "", "config file (default: reflector.config.yaml)")
	flags.StringVar(&c.config.ProjectRoot, "root", ".", "project root directory")
	flags.StringVarP(&c.config.Verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&c.config.LogFile, "log-file", "", "also write logs to this file")

	// Settings that override the config file. Environment variables use the
	// REFLECTOR_ prefix, e.g. REFLECTOR_DETECT_CYCLES=false.
	flags.Uint64("cycles", 0, "number of spin cycles for part 2")
	flags.Bool("detect-cycles", true, "skip repeated spin cycle periods; answers are identical to running every cycle")
	flags.String("scoring", "", "side whose beams are scored (north, south, west, east)")
	flags.Int("parallelism", 0, "maximum number of inputs solved at once")
	flags.String("state-dir", "", "directory for run state files")
	flags.String("puzzle", "", "puzzle to solve")
	flags.Bool("notify", false, "send desktop notifications")

	for _, name := range []string{
		"verbosity", "cycles", "detect-cycles", "scoring", "parallelism", "state-dir", "puzzle", "notify",
	} {
		_ = c.viper.BindPFlag(name, flags.Lookup(name))
	}
}

func (c *CLI) initializeConfig(cmd *cobra.Command, args []string) error {
	v := c.viper
	v.SetEnvPrefix("REFLECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	settings, err := c.loadSettings()
	if err != nil {
		return err
	}
	c.settings = settings

	level := string(settings.LogLevel)
	if v.IsSet("verbosity") {
		level = v.GetString("verbosity")
	}
	logFile := settings.LogFile
	if c.config.LogFile != "" {
		logFile = c.config.LogFile
	}
	c.logger = c.createLogger(logFile, level)

	if used := v.ConfigFileUsed(); used != "" {
		c.logger.Debug("Using config file", logger.WithField("file", used))
	}
	return nil
}

// initializeLogger is the pre-run of commands that must work without a
// valid config file
func (c *CLI) initializeLogger(cmd *cobra.Command, args []string) error {
	c.logger = c.createLogger(c.config.LogFile, c.config.Verbosity)
	return nil
}

func (c *CLI) createLogger(logFile, level string) logger.Logger {
	if c.errorOut == os.Stderr {
		return logger.CreateLogger(logFile, level)
	}
	return logger.CreateLoggerWithOutput(logFile, level, c.errorOut)
}

// loadSettings layers defaults, the config file, environment and flags
func (c *CLI) loadSettings() (*types.ReflectorConfig, error) {
	manager := config.NewManager()
	v := c.viper

	if c.config.ConfigFile != "" {
		v.SetConfigFile(c.config.ConfigFile)
	} else {
		v.AddConfigPath(c.config.ProjectRoot)
		v.SetConfigName(strings.TrimSuffix(config.DefaultFileName, filepath.Ext(config.DefaultFileName)))
	}

	settings := manager.GetDefaultConfig()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.config.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		loaded, err := manager.LoadConfig(v.ConfigFileUsed())
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		settings = loaded
	}

	if v.IsSet("cycles") {
		settings.Cycles = v.GetUint64("cycles")
	}
	if v.IsSet("detect-cycles") {
		detect := v.GetBool("detect-cycles")
		settings.DetectCycles = &detect
	}
	if v.IsSet("scoring") {
		dir, err := types.ParseDirection(v.GetString("scoring"))
		if err != nil {
			return nil, err
		}
		settings.Scoring = dir
	}
	if v.IsSet("parallelism") {
		settings.Parallelism = v.GetInt("parallelism")
	}
	if v.IsSet("state-dir") {
		settings.StateDir = v.GetString("state-dir")
	}
	if v.IsSet("puzzle") {
		settings.Puzzle = v.GetString("puzzle")
	}
	if v.IsSet("notify") {
		notify := v.GetBool("notify")
		settings.Notifications = &types.NotificationConfig{Enabled: &notify}
	}

	if settings.StateDir != "" && !filepath.IsAbs(settings.StateDir) {
		settings.StateDir = filepath.Join(c.config.ProjectRoot, settings.StateDir)
	}

	if err := manager.ValidateConfig(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Helper methods for structured output

func (c *CLI) printSuccess(message string) {
	c.logger.Success(message)
}

func (c *CLI) printInfo(message string) {
	c.logger.Info(message)
}

func (c *CLI) printWarning(message string) {
	c.logger.Warn(message)
}

func (c *CLI) getConfigPath() string {
	if c.config.ConfigFile != "" {
		return c.config.ConfigFile
	}
	return filepath.Join(c.config.ProjectRoot, config.DefaultFileName)
}

func (c *CLI) colorStatus(status types.RunStatus) string {
	switch status {
	case types.RunStatusSucceeded:
		return color.GreenString(string(status))
	case types.RunStatusFailed:
		return color.RedString(string(status))
	case types.RunStatusRunning:
		return color.YellowString(string(status))
	default:
		return color.WhiteString(string(status))
	}
}

// ExecuteWithVersion runs the CLI over os.Args
func ExecuteWithVersion(version string) error {
	cfg := NewConfig()
	cfg.Version = version
	return NewCLI(cfg).Execute(os.Args[1:])
}
