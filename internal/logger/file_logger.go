package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ducminhle1904/arlet-state/internal/config"
)

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelDebug   LogLevel = "DEBUG"
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
)

// severity orders levels for filtering; entries below the configured
// severity are dropped.
var severity = map[LogLevel]int{
	LogLevelDebug:   0,
	LogLevelInfo:    1,
	LogLevelWarning: 2,
	LogLevelError:   3,
}

// Logger writes leveled, timestamped entries to the configured log file.
// It is safe for concurrent use.
type Logger struct {
	minSeverity int
	logFile     *os.File
	logger      *log.Logger
	mu          sync.Mutex
}

// New creates a logger from the logging settings group. The log file is
// created (with its directory) if it does not exist and appended to
// otherwise.
func New(cfg config.LoggingConfig) (*Logger, error) {
	if dir := filepath.Dir(cfg.FilePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		minSeverity: parseLevel(cfg.Level),
		logFile:     file,
		logger:      log.New(file, "", 0),
	}, nil
}

// NewWithWriter creates a logger over an arbitrary writer. Used by the CLI
// tools to mirror output to stdout and by tests.
func NewWithWriter(w io.Writer, level string) *Logger {
	return &Logger{
		minSeverity: parseLevel(level),
		logger:      log.New(w, "", 0),
	}
}

func parseLevel(level string) int {
	switch LogLevel(level) {
	case LogLevelDebug:
		return severity[LogLevelDebug]
	case LogLevelWarning, "WARNING":
		return severity[LogLevelWarning]
	case LogLevelError:
		return severity[LogLevelError]
	default:
		return severity[LogLevelInfo]
	}
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	if severity[level] < l.minSeverity {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] [%s] %s", timestamp, level, message)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.Log(LogLevelDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogError logs an error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// Close closes the underlying log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}
