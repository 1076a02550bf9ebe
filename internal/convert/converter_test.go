package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func writeStubEncoder(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub encoders are shell scripts")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func testRequest(t *testing.T) Request {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mov")
	if err := os.WriteFile(input, []byte("input"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return NewRequest(input, "mp4", "", "")
}

func convertWithDeadline(t *testing.T, c *Converter, ctx context.Context, req Request) Outcome {
	t.Helper()
	done := make(chan Outcome, 1)
	go func() { done <- c.Convert(ctx, req) }()
	select {
	case out := <-done:
		return out
	case <-time.After(60 * time.Second):
		t.Fatal("Convert did not return; encoder pipe likely deadlocked")
		return Outcome{}
	}
}

func TestBuildArgs(t *testing.T) {
	got := BuildArgs(Request{InputPath: "in file.mkv", Format: "mp4", OutputPath: "out file.mp4"})
	want := []string{"-y", "-i", "in file.mkv", "out file.mp4"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("BuildArgs = %q, want %q", got, want)
	}
}

func TestConvertSuccessReturnsRequestOutputAndNotifies(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	t.Setenv("STUB_ARGS_FILE", argsFile)
	bin := writeStubEncoder(t, `printf '%s\n' "$@" > "$STUB_ARGS_FILE"
echo "ffmpeg version stub" >&2
exit 0`)

	c := NewConverter(Options{Binary: bin})
	var calls atomic.Int32
	var notified atomic.Value
	c.Notifier().Subscribe(func(outputPath string) {
		calls.Add(1)
		notified.Store(outputPath)
	})

	req := testRequest(t)
	out := convertWithDeadline(t, c, context.Background(), req)
	if !out.Succeeded() {
		t.Fatalf("expected success, got %v", out.Err)
	}
	if out.OutputPath != req.OutputPath {
		t.Fatalf("OutputPath = %q, want %q", out.OutputPath, req.OutputPath)
	}
	if out.Diagnostic != "ffmpeg version stub\n" {
		t.Fatalf("unexpected diagnostic %q", out.Diagnostic)
	}
	if calls.Load() != 1 {
		t.Fatalf("notifier fired %d times, want 1", calls.Load())
	}
	if got := notified.Load(); got != req.OutputPath {
		t.Fatalf("notified with %v, want %q", got, req.OutputPath)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	wantArgs := strings.Join(BuildArgs(req), "\n") + "\n"
	if string(args) != wantArgs {
		t.Fatalf("encoder args = %q, want %q", args, wantArgs)
	}
}

func TestConvertNonZeroExitCarriesDiagnosticVerbatim(t *testing.T) {
	diagnostic := "Input #0, mov\n[mp4 @ 0x1] Could not find tag for codec: \"weird\"\nConversion failed!\n"
	bin := writeStubEncoder(t, `printf 'Input #0, mov\n[mp4 @ 0x1] Could not find tag for codec: "weird"\nConversion failed!\n' >&2
exit 1`)

	c := NewConverter(Options{Binary: bin})
	var calls atomic.Int32
	c.Notifier().Subscribe(func(string) { calls.Add(1) })

	out := convertWithDeadline(t, c, context.Background(), testRequest(t))
	if out.Succeeded() {
		t.Fatal("expected failure")
	}
	var invErr *InvocationError
	if !errors.As(out.Err, &invErr) {
		t.Fatalf("expected InvocationError, got %T: %v", out.Err, out.Err)
	}
	if invErr.ExitCode != 1 {
		t.Fatalf("exit code = %d, want 1", invErr.ExitCode)
	}
	if invErr.Diagnostic != diagnostic || out.Diagnostic != diagnostic {
		t.Fatalf("diagnostic = %q, want %q", invErr.Diagnostic, diagnostic)
	}
	if !strings.Contains(invErr.Error(), diagnostic) {
		t.Fatalf("error message %q does not contain diagnostic", invErr.Error())
	}
	if out.OutputPath != "" {
		t.Fatalf("failure should not report an output path, got %q", out.OutputPath)
	}
	if calls.Load() != 0 {
		t.Fatal("notifier must not fire on failure")
	}
}

func TestConvertDrainsLargeDiagnosticStream(t *testing.T) {
	const size = 2 << 20
	for _, code := range []string{"0", "3"} {
		bin := writeStubEncoder(t, `head -c 2097152 /dev/zero | tr '\0' 'x' >&2
exit `+code)
		c := NewConverter(Options{Binary: bin})
		out := convertWithDeadline(t, c, context.Background(), testRequest(t))
		if len(out.Diagnostic) != size {
			t.Fatalf("exit %s: diagnostic length = %d, want %d", code, len(out.Diagnostic), size)
		}
		if (code == "0") != out.Succeeded() {
			t.Fatalf("exit %s: unexpected outcome %v", code, out.Err)
		}
	}
}

func TestConvertLaunchErrors(t *testing.T) {
	dir := t.TempDir()
	notExecutable := filepath.Join(dir, "ffmpeg-noexec")
	if err := os.WriteFile(notExecutable, []byte("#!/bin/sh\nexit 0\n"), 0o644); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	for _, bin := range []string{filepath.Join(dir, "missing-ffmpeg"), "clearly-not-present-encoder", notExecutable} {
		c := NewConverter(Options{Binary: bin})
		out := c.Convert(context.Background(), testRequest(t))
		if !IsLaunch(out.Err) {
			t.Fatalf("%s: expected LaunchError, got %T: %v", bin, out.Err, out.Err)
		}
		if IsInvocation(out.Err) {
			t.Fatalf("%s: launch failure must not be an InvocationError", bin)
		}
		var launchErr *LaunchError
		errors.As(out.Err, &launchErr)
		if out.Diagnostic != launchErr.Err.Error() {
			t.Fatalf("%s: diagnostic %q should be the launch error text %q", bin, out.Diagnostic, launchErr.Err.Error())
		}
	}
}

func TestConvertCanceled(t *testing.T) {
	bin := writeStubEncoder(t, "exec sleep 30")
	c := NewConverter(Options{Binary: bin})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	out := convertWithDeadline(t, c, ctx, testRequest(t))
	if out.Succeeded() {
		t.Fatal("expected canceled conversion to fail")
	}
	if !errors.Is(out.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", out.Err)
	}
	if !IsInvocation(out.Err) {
		t.Fatalf("expected InvocationError, got %T", out.Err)
	}
}

func TestConvertCancelKillsEncoderHelpers(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "still-running")
	t.Setenv("STUB_MARKER", marker)
	// sleep runs as a child of the shell and inherits its stderr
	bin := writeStubEncoder(t, `sleep 120
echo done > "$STUB_MARKER"`)
	c := NewConverter(Options{Binary: bin})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	started := time.Now()
	out := convertWithDeadline(t, c, ctx, testRequest(t))
	if !errors.Is(out.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", out.Err)
	}
	if elapsed := time.Since(started); elapsed > 30*time.Second {
		t.Fatalf("cancel took %s; encoder helpers outlived the encoder", elapsed)
	}
	time.Sleep(200 * time.Millisecond)
	if _, err := os.Stat(marker); err == nil {
		t.Fatal("encoder kept running after cancel")
	}
}

func TestConvertRejectsBusyOutput(t *testing.T) {
	bin := writeStubEncoder(t, "exit 0")
	lockDir := t.TempDir()
	c := NewConverter(Options{Binary: bin, LockDir: lockDir})
	req := testRequest(t)

	held := flock.New(c.guard.lockPath(req.OutputPath))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-lock failed: ok=%v err=%v", ok, err)
	}

	out := c.Convert(context.Background(), req)
	if !errors.Is(out.Err, ErrOutputBusy) {
		t.Fatalf("expected ErrOutputBusy, got %v", out.Err)
	}

	if err := held.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	out = c.Convert(context.Background(), req)
	if !out.Succeeded() {
		t.Fatalf("expected success once the lock is released, got %v", out.Err)
	}
}
