package activity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/Mk7214/vidconv/internal/logging"
)

// DefaultFileName is used when no activity log path is configured.
const DefaultFileName = "conversion_log.txt"

const (
	timestampLayout = "2006-01-02 15:04:05"
	lockWait        = 2 * time.Second
	lockRetry       = 25 * time.Millisecond
)

// Log appends one human-readable line per finished conversion. Writes are
// best-effort: Record never fails.
type Log struct {
	path    string
	lockDir string
	now     func() time.Time
	logger  *slog.Logger
}

// New returns a Log writing to path (DefaultFileName when empty). The
// append lock lives in lockDir, or the system temp dir when empty.
func New(path, lockDir string, logger *slog.Logger) *Log {
	if path == "" {
		path = DefaultFileName
	}
	if lockDir == "" {
		lockDir = os.TempDir()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Log{
		path:    path,
		lockDir: lockDir,
		now:     time.Now,
		logger:  logger.With(slog.String(logging.FieldComponent, "activity")),
	}
}

// Path returns the file the log appends to.
func (l *Log) Path() string { return l.path }

// Record appends an entry for a conversion of inputPath to outputPath.
func (l *Log) Record(inputPath, outputPath, format string) {
	if err := l.append(FormatEntry(l.now(), inputPath, outputPath, format)); err != nil {
		l.logger.Debug("activity log append failed", slog.String("path", l.path), slog.Any(logging.FieldError, err))
	}
}

// FormatEntry renders a single log line without the trailing newline.
func FormatEntry(at time.Time, inputPath, outputPath, format string) string {
	return fmt.Sprintf("%s: Converted '%s' to '%s' (format: %s)",
		at.Format(timestampLayout), filepath.Base(inputPath), filepath.Base(outputPath), format)
}

func (l *Log) append(line string) error {
	if err := os.MkdirAll(l.lockDir, 0o755); err != nil {
		l.logger.Debug("activity lock dir unavailable", slog.String("lock_dir", l.lockDir), slog.Any(logging.FieldError, err))
	}
	lock := flock.New(l.lockPath())
	ctx, cancel := context.WithTimeout(context.Background(), lockWait)
	defer cancel()
	if ok, err := lock.TryLockContext(ctx, lockRetry); err == nil && ok {
		defer lock.Unlock() //nolint:errcheck
	} else {
		l.logger.Debug("activity log lock unavailable; appending unlocked", slog.Any(logging.FieldError, err))
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	if _, err := file.WriteString(line + "\n"); err != nil {
		_ = file.Close()
		return fmt.Errorf("write activity log: %w", err)
	}
	return file.Close()
}

func (l *Log) lockPath() string {
	key := l.path
	if abs, err := filepath.Abs(l.path); err == nil {
		key = abs
	}
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(l.lockDir, "activity-"+hex.EncodeToString(sum[:12])+".lock")
}
