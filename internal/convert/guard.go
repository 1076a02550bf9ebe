package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// outputGuard keeps two conversions, in this process or another, from
// writing the same output file at once. A nil guard or empty dir disables it.
type outputGuard struct {
	dir    string
	logger *slog.Logger
}

func (g *outputGuard) acquire(outputPath string) (release func(), err error) {
	noop := func() {}
	if g == nil || g.dir == "" {
		return noop, nil
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		g.logger.Warn("output guard unavailable; continuing without it", slog.String("lock_dir", g.dir), slog.Any("error", err))
		return noop, nil
	}

	lockPath := g.lockPath(outputPath)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		g.logger.Warn("output guard lock failed; continuing without it", slog.String("lock", lockPath), slog.Any("error", err))
		return noop, nil
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", outputPath, ErrOutputBusy)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			g.logger.Debug("release output guard", slog.String("lock", lockPath), slog.Any("error", err))
		}
	}, nil
}

func (g *outputGuard) lockPath(outputPath string) string {
	key := outputPath
	if abs, err := filepath.Abs(outputPath); err == nil {
		key = abs
	}
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(g.dir, hex.EncodeToString(sum[:12])+".lock")
}
