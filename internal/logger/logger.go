package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/apex/log/handlers/logfmt"
	"github.com/apex/log/handlers/multi"
	"github.com/apex/log/handlers/text"

	"trashify/internal/config"
)

// Levels maps the log levels exposed over HTTP to their files.
var Levels = map[string]string{
	"info":    "info.log",
	"warning": "warning.log",
	"error":   "error.log",
}

// Logger provides leveled logging (info/warning/error) to files and stdout/stderr.
type Logger struct {
	log    *log.Logger
	logDir string
	files  []*os.File
	mu     sync.Mutex
}

// levelRouter sends each entry to the handler of its level.
type levelRouter struct {
	info    log.Handler
	warning log.Handler
	error   log.Handler
}

func (r *levelRouter) HandleLog(e *log.Entry) error {
	switch {
	case e.Level >= log.ErrorLevel:
		return r.error.HandleLog(e)
	case e.Level == log.WarnLevel:
		return r.warning.HandleLog(e)
	default:
		return r.info.HandleLog(e)
	}
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(config *config.Config) (*Logger, error) {
	if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	l := &Logger{logDir: config.LogDirectory}

	handlers := make(map[string]log.Handler, len(Levels))
	for level, name := range Levels {
		file, err := os.OpenFile(filepath.Join(l.logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("failed to open log file %s: %w", name, err)
		}
		l.files = append(l.files, file)

		var console io.Writer = os.Stdout
		if level == "error" {
			console = os.Stderr
		}
		handlers[level] = multi.New(text.New(console), logfmt.New(file))
	}

	l.log = &log.Logger{
		Handler: &levelRouter{
			info:    handlers["info"],
			warning: handlers["warning"],
			error:   handlers["error"],
		},
		Level: log.InfoLevel,
	}
	return l, nil
}

// NewNop returns a Logger that drops everything.
func NewNop() *Logger {
	return &Logger{
		log: &log.Logger{Handler: discard.New(), Level: log.InfoLevel},
	}
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.log.Warnf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.log.Errorf(format, v...)
}

// WithFields returns an entry carrying structured fields, for call sites that
// log the same context repeatedly.
func (l *Logger) WithFields(fields log.Fields) *log.Entry {
	return l.log.WithFields(fields)
}

// Path returns the file backing level, or false for an unknown level.
func (l *Logger) Path(level string) (string, bool) {
	name, ok := Levels[level]
	if !ok || l.logDir == "" {
		return "", false
	}
	return filepath.Join(l.logDir, name), true
}

// CleanLogs truncates the log file of the given level.
func (l *Logger) CleanLogs(level string) error {
	path, ok := l.Path(level)
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.Truncate(path, 0); err != nil {
		l.Error("Error truncating %s: %v", path, err)
		return err
	}

	l.Info("File content has been cleared: %s", filepath.Base(path))
	return nil
}

// Close closes the log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	return firstErr
}
