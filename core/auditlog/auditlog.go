// Package auditlog writes the sync run's error and success audit trails as
// plain append-only text files, one "[timestamp] message" line per event.
// Both files are truncated when the logger is opened.
package auditlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

type Logger struct {
	mu      sync.Mutex
	errFile *os.File
	okFile  *os.File
	now     func() time.Time
}

// New opens (and truncates) the two audit files.
func New(errorPath, successPath string) (*Logger, error) {
	ef, err := os.OpenFile(errorPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open error log: %w", err)
	}
	sf, err := os.OpenFile(successPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		ef.Close()
		return nil, fmt.Errorf("open success log: %w", err)
	}
	return &Logger{errFile: ef, okFile: sf, now: time.Now}, nil
}

// Error appends a line to the error stream.
func (l *Logger) Error(format string, args ...any) {
	l.write(l.errFile, format, args...)
}

// Success appends a line to the success stream.
func (l *Logger) Success(format string, args ...any) {
	l.write(l.okFile, format, args...)
}

func (l *Logger) write(f *os.File, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := l.now().UTC().Format(timeLayout)
	fmt.Fprintf(f, "[%s] %s\n", ts, fmt.Sprintf(format, args...))
}

func (l *Logger) Close() error {
	errErr := l.errFile.Close()
	okErr := l.okFile.Close()
	if errErr != nil {
		return errErr
	}
	return okErr
}
