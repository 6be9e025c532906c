package util

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel represents logging severity levels.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// Logger provides leveled logging to stderr and/or a file.
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	logger *log.Logger
	file   *os.File
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the default logger instance.
func GetLogger() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger(LevelInfo, "", true)
	})
	return defaultLogger
}

// NewLogger creates a logger with the given level. When filePath is set
// the log is appended there; console controls whether stderr is also
// written (the TUI owns the terminal, so the watch command disables it).
func NewLogger(level LogLevel, filePath string, console bool) *Logger {
	l := &Logger{level: level}

	var writers []io.Writer
	if console {
		writers = append(writers, os.Stderr)
	}

	if filePath != "" {
		if err := EnsureDir(filepath.Dir(filePath)); err == nil {
			file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				l.file = file
				writers = append(writers, file)
			}
		}
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	l.logger = log.New(io.MultiWriter(writers...), "", 0)
	return l
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// ParseLevel parses a string log level.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Close closes the log file if open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)

	l.logger.Printf("[%s] %s: %s", timestamp, levelNames[level], msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Debug logs a debug message using the default logger.
func Debug(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

// Info logs an info message using the default logger.
func Info(format string, args ...interface{}) {
	GetLogger().Info(format, args...)
}

// Warn logs a warning message using the default logger.
func Warn(format string, args ...interface{}) {
	GetLogger().Warn(format, args...)
}

// Error logs an error message using the default logger.
func Error(format string, args ...interface{}) {
	GetLogger().Error(format, args...)
}

// InitLogger initializes the default logger with config.
func InitLogger(level string, filePath string, console bool) {
	once.Do(func() {
		defaultLogger = NewLogger(ParseLevel(level), filePath, console)
	})
}
