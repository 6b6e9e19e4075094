package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStreamsAreSeparate(t *testing.T) {
	dir := t.TempDir()
	errPath := filepath.Join(dir, "error-log.txt")
	okPath := filepath.Join(dir, "success-log.txt")

	l, err := New(errPath, okPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.now = func() time.Time { return time.Date(2025, 6, 15, 6, 30, 0, 123e6, time.UTC) }

	l.Error("Insert failed for ART=%s", "A1")
	l.Success("Inserted: ART=%s", "A1")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	errLine := readAll(t, errPath)
	okLine := readAll(t, okPath)
	if errLine != "[2025-06-15T06:30:00.123Z] Insert failed for ART=A1\n" {
		t.Errorf("error line = %q", errLine)
	}
	if okLine != "[2025-06-15T06:30:00.123Z] Inserted: ART=A1\n" {
		t.Errorf("success line = %q", okLine)
	}
	if strings.Contains(errLine, "Inserted:") || strings.Contains(okLine, "failed") {
		t.Error("streams leaked into each other")
	}
}

func TestNewTruncatesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	errPath := filepath.Join(dir, "error-log.txt")
	okPath := filepath.Join(dir, "success-log.txt")
	for _, p := range []string{errPath, okPath} {
		if err := os.WriteFile(p, []byte("stale line from a previous run\n"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", p, err)
		}
	}

	l, err := New(errPath, okPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	if got := readAll(t, errPath); got != "" {
		t.Errorf("error log not truncated: %q", got)
	}
	if got := readAll(t, okPath); got != "" {
		t.Errorf("success log not truncated: %q", got)
	}
}

func readAll(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(raw)
}
