package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatEntry(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 6, 0, time.Local)
	got := FormatEntry(at, filepath.Join("in", "sample.mkv"), filepath.Join("out", "sample.mp4"), "mp4")
	want := "2024-03-09 14:05:06: Converted 'sample.mkv' to 'sample.mp4' (format: mp4)"
	if got != want {
		t.Fatalf("FormatEntry = %q, want %q", got, want)
	}
}

func TestRecordAppendsOneLinePerCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	log := New(path, t.TempDir(), nil)
	log.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) }

	log.Record("/videos/sample.mkv", "/videos/sample.mp4", "mp4")
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	log.Record("/videos/sample.mkv", "/videos/sample.mp4", "mp4")
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	if !strings.HasPrefix(string(second), string(first)) {
		t.Fatal("log was rewritten instead of appended")
	}
	lines := strings.Split(strings.TrimSuffix(string(second), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), second)
	}
	if lines[0] != lines[1] {
		t.Fatalf("identical calls produced different lines: %q vs %q", lines[0], lines[1])
	}
	if !strings.Contains(lines[0], "'sample.mkv'") || !strings.Contains(lines[0], "'sample.mp4'") || !strings.Contains(lines[0], "(format: mp4)") {
		t.Fatalf("unexpected line %q", lines[0])
	}
}

func TestRecordSwallowsErrors(t *testing.T) {
	dir := t.TempDir()
	// a directory cannot be opened for appending
	log := New(dir, t.TempDir(), nil)
	log.Record("a.mkv", "a.mp4", "mp4")

	missingParent := New(filepath.Join(dir, "no", "such", "dir", "log.txt"), t.TempDir(), nil)
	missingParent.Record("a.mkv", "a.mp4", "mp4")

	if err := missingParent.append("line"); err == nil {
		t.Fatal("expected append into a missing directory to fail")
	}
}

func TestNewDefaultsPath(t *testing.T) {
	if got := New("", "", nil).Path(); got != DefaultFileName {
		t.Fatalf("Path = %q, want %q", got, DefaultFileName)
	}
}

func TestRecordKeepsLockOutOfLogDir(t *testing.T) {
	logDir := t.TempDir()
	lockDir := filepath.Join(t.TempDir(), "locks")
	log := New(filepath.Join(logDir, DefaultFileName), lockDir, nil)
	log.Record("a.mkv", "a.mp4", "mp4")

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != DefaultFileName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("log dir should only hold the log, got %v", names)
	}

	locks, err := filepath.Glob(filepath.Join(lockDir, "activity-*.lock"))
	if err != nil || len(locks) != 1 {
		t.Fatalf("expected one activity lock in %s, got %v (%v)", lockDir, locks, err)
	}
}
