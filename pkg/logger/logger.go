// Package logger provides structured logging with per-input targets
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Logger interface for abstracted logging
type Logger interface {
	Info(message string, fields ...Field)
	Error(message string, fields ...Field)
	Warn(message string, fields ...Field)
	Debug(message string, fields ...Field)
	Success(message string, fields ...Field)
	WithTarget(target string) Logger
}

// Field represents a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

// WithField creates a new field
func WithField(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// TargetLogger implements Logger with target awareness. The target is the
// input a message is about.
type TargetLogger struct {
	logger     *logrus.Logger
	targetName string
}

// CustomFormatter formats log lines with colored levels
type CustomFormatter struct {
	TimestampFormat string
	DisableColors   bool
}

// Format implements logrus.Formatter
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)

	var levelColor *color.Color
	var levelText string

	switch entry.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		levelColor = color.New(color.FgRed, color.Bold)
		levelText = "ERROR"
	case logrus.WarnLevel:
		levelColor = color.New(color.FgYellow, color.Bold)
		levelText = "WARN"
	case logrus.InfoLevel:
		levelColor = color.New(color.FgCyan)
		levelText = "INFO"
	case logrus.DebugLevel, logrus.TraceLevel:
		levelColor = color.New(color.FgWhite, color.Faint)
		levelText = "DEBUG"
	}

	data := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		data[k] = v
	}

	if _, ok := data[successKey]; ok {
		levelColor = color.New(color.FgGreen)
		levelText = "OK"
		delete(data, successKey)
	}

	targetPrefix := ""
	if target, ok := data["target"]; ok {
		if f.DisableColors {
			targetPrefix = fmt.Sprintf("[%s] ", target)
		} else {
			targetPrefix = fmt.Sprintf("[%s] ", color.New(color.FgBlue).Sprint(target))
		}
		delete(data, "target")
	}

	var sb strings.Builder
	if f.DisableColors {
		fmt.Fprintf(&sb, "[%s] %s: %s%s", timestamp, levelText, targetPrefix, entry.Message)
	} else {
		fmt.Fprintf(&sb, "[%s] %s: %s%s", timestamp, levelColor.Sprint(levelText), targetPrefix, entry.Message)
	}

	// Fields are sorted so output is stable.
	if len(data) > 0 {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, data[k])
		}
		fields := " {" + strings.Join(parts, ", ") + "}"
		if f.DisableColors {
			sb.WriteString(fields)
		} else {
			sb.WriteString(color.New(color.FgWhite, color.Faint).Sprint(fields))
		}
	}

	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

// successKey marks entries logged through Success
const successKey = "_success"

// CreateLogger creates a new logger writing to stderr and, if logFile is
// set, appending to that file as well
func CreateLogger(logFile string, logLevel string) Logger {
	log := newLogrus(logLevel, false)
	log.SetOutput(withLogFile(os.Stderr, logFile))

	return &TargetLogger{
		logger: log,
	}
}

// CreateLoggerWithOutput creates an uncolored logger with custom output
func CreateLoggerWithOutput(logFile string, logLevel string, output io.Writer) Logger {
	log := newLogrus(logLevel, true)
	log.SetOutput(withLogFile(output, logFile))

	return &TargetLogger{
		logger: log,
	}
}

// withLogFile tees output into logFile. A file that cannot be opened is
// ignored.
func withLogFile(output io.Writer, logFile string) io.Writer {
	if logFile == "" {
		return output
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return output
	}
	return io.MultiWriter(output, file)
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() Logger {
	return CreateLoggerWithOutput("", "error", io.Discard)
}

func newLogrus(logLevel string, disableColors bool) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.SetFormatter(&CustomFormatter{
		TimestampFormat: "15:04:05",
		DisableColors:   disableColors,
	})
	return log
}

// WithTarget creates a new logger with target context
func (l *TargetLogger) WithTarget(target string) Logger {
	return &TargetLogger{
		logger:     l.logger,
		targetName: target,
	}
}

// convertFields converts Field slice to logrus.Fields
func (l *TargetLogger) convertFields(fields []Field) logrus.Fields {
	result := make(logrus.Fields, len(fields)+1)
	if l.targetName != "" {
		result["target"] = l.targetName
	}
	for _, f := range fields {
		result[f.Key] = f.Value
	}
	return result
}

func (l *TargetLogger) log(level logrus.Level, message string, fields []Field) {
	l.logger.WithFields(l.convertFields(fields)).Log(level, message)
}

// Info logs an info message
func (l *TargetLogger) Info(message string, fields ...Field) { l.log(logrus.InfoLevel, message, fields) }

// Error logs an error message
func (l *TargetLogger) Error(message string, fields ...Field) { l.log(logrus.ErrorLevel, message, fields) }

// Warn logs a warning message
func (l *TargetLogger) Warn(message string, fields ...Field) { l.log(logrus.WarnLevel, message, fields) }

// Debug logs a debug message
func (l *TargetLogger) Debug(message string, fields ...Field) { l.log(logrus.DebugLevel, message, fields) }

// Success logs at info level with the success marker the formatter renders
// as a check mark
func (l *TargetLogger) Success(message string, fields ...Field) {
	marked := append(fields[:len(fields):len(fields)], WithField(successKey, true))
	l.log(logrus.InfoLevel, message, marked)
}
