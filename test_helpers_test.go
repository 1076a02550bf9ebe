package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/Mk7214/vidconv/internal/config"
	"github.com/Mk7214/vidconv/internal/logging"
)

type cliTestEnv struct {
	dir         string
	input       string
	activityLog string
	cfg         *config.Config
}

func setupCLITestEnv(t *testing.T, inputName, encoderBody string) *cliTestEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub encoders are shell scripts")
	}
	t.Setenv("VIDCONV_FFMPEG", "")

	dir := t.TempDir()
	input := filepath.Join(dir, inputName)
	if err := os.WriteFile(input, []byte("video"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	encoder := filepath.Join(dir, "ffmpeg-stub")
	if err := os.WriteFile(encoder, []byte("#!/bin/sh\n"+encoderBody+"\n"), 0o755); err != nil {
		t.Fatalf("write encoder stub: %v", err)
	}

	cfg := config.Default()
	cfg.Encoder.Binary = encoder
	cfg.Paths.ActivityLog = filepath.Join(dir, "conversion_log.txt")
	cfg.Paths.StartDir = dir
	cfg.Paths.LockDir = filepath.Join(dir, "locks")

	return &cliTestEnv{dir: dir, input: input, activityLog: cfg.Paths.ActivityLog, cfg: &cfg}
}

func (e *cliTestEnv) session() *session {
	return newSession(e.cfg, logging.NewNop())
}

func (e *cliTestEnv) writeConfig(t *testing.T) string {
	t.Helper()
	data, err := e.cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(e.dir, "vidconv.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func (e *cliTestEnv) activityLines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.activityLog)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read activity log: %v", err)
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
