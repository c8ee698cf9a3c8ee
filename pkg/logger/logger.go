// Package logger holds the process-wide logger. The level normally comes
// from the loaded configuration; SPAWNC_LOG_LEVEL applies before the
// configuration file is read, so config discovery itself can be traced.
package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger wraps charmbracelet/log with the level handling shared by every
// command.
type Logger struct {
	*log.Logger
}

var (
	instance *Logger
	once     sync.Once
)

// GetLogger returns the shared logger instance.
func GetLogger() *Logger {
	once.Do(func() {
		instance = &Logger{
			Logger: log.NewWithOptions(os.Stderr, log.Options{
				Level:           log.InfoLevel,
				ReportTimestamp: true,
				TimeFormat:      "15:04:05",
			}),
		}
	})
	return instance
}

// SetLogLevel applies a level by name. An unknown name keeps the current
// level and warns, rather than silently resetting to info.
func (l *Logger) SetLogLevel(level string) {
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		l.Warn("Unknown log level, keeping current", "level", level)
		return
	}
	l.SetLevel(parsed)
	log.SetLevel(parsed) // Set the global logger level too
}

// ConfigureFromEnv applies SPAWNC_LOG_LEVEL when set. The configuration
// file's logging.level is applied later and wins for the rest of the run.
func (l *Logger) ConfigureFromEnv() {
	if level := os.Getenv("SPAWNC_LOG_LEVEL"); level != "" {
		l.SetLogLevel(level)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	GetLogger().Debug(msg, keyvals...)
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	GetLogger().Info(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	GetLogger().Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	GetLogger().Error(msg, keyvals...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, keyvals ...interface{}) {
	GetLogger().Fatal(msg, keyvals...)
}
