package convert

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mk7214/vidconv/internal/logging"
)

// DefaultBinary is the encoder looked up on PATH when none is configured.
const DefaultBinary = "ffmpeg"

// Outcome is the result of one Convert call.
type Outcome struct {
	// OutputPath is the request's output path on success, empty otherwise.
	OutputPath string
	// Diagnostic is the encoder's stderr, or the launch error text when the
	// encoder never started.
	Diagnostic string
	Err        error
}

// Succeeded reports whether the conversion finished with exit status 0.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// Options configures a Converter.
type Options struct {
	// Binary is the encoder executable, DefaultBinary when empty.
	Binary string
	// LockDir holds the per-output lock files. Empty disables the guard.
	LockDir string
	Logger  *slog.Logger
}

// Converter runs the external encoder. It is safe for concurrent use.
type Converter struct {
	binary   string
	logger   *slog.Logger
	guard    *outputGuard
	notifier *Notifier
}

// NewConverter builds a Converter from opts.
func NewConverter(opts Options) *Converter {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = DefaultBinary
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(slog.String(logging.FieldComponent, "convert"))

	c := &Converter{
		binary:   binary,
		logger:   logger,
		notifier: &Notifier{},
	}
	if dir := strings.TrimSpace(opts.LockDir); dir != "" {
		c.guard = &outputGuard{dir: dir, logger: logger}
	}
	return c
}

// Binary returns the encoder executable this Converter launches.
func (c *Converter) Binary() string { return c.binary }

// Notifier returns the listeners called after every successful conversion.
func (c *Converter) Notifier() *Notifier { return c.notifier }

// BuildArgs returns the encoder arguments for req. -y lets the encoder
// overwrite an existing output without prompting.
func BuildArgs(req Request) []string {
	return []string{"-y", "-i", req.InputPath, req.OutputPath}
}

// Convert runs the encoder for req and waits for it to exit, however long
// that takes. ctx only serves explicit cancellation by the caller.
// Partial output is left in place on failure.
func (c *Converter) Convert(ctx context.Context, req Request) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.logger.With(
		slog.String(logging.FieldConversionID, uuid.NewString()),
		slog.String(logging.FieldInput, req.InputPath),
		slog.String(logging.FieldOutput, req.OutputPath),
		slog.String(logging.FieldFormat, req.Format),
	)

	release, err := c.guard.acquire(req.OutputPath)
	if err != nil {
		logger.Warn("conversion rejected", slog.Any(logging.FieldError, err))
		return Outcome{Diagnostic: err.Error(), Err: err}
	}
	defer release()

	cmd := exec.CommandContext(ctx, c.binary, BuildArgs(req)...)
	cmd.Stdout = io.Discard
	configureProcess(cmd)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return c.launchFailure(logger, err)
	}

	started := time.Now()
	logger.Info("encoder starting", slog.String("binary", c.binary))
	if err := cmd.Start(); err != nil {
		return c.launchFailure(logger, err)
	}

	// stderr must be drained while the encoder runs; a full pipe would
	// block it forever and Wait would never return.
	diag, readErr := io.ReadAll(stderr)
	waitErr := cmd.Wait()
	diagnostic := string(diag)
	if readErr != nil {
		logger.Debug("stderr read incomplete", slog.Any(logging.FieldError, readErr))
	}

	if waitErr == nil {
		logger.Info("conversion finished", slog.Duration("elapsed", time.Since(started)))
		c.notifier.notify(req.OutputPath)
		return Outcome{OutputPath: req.OutputPath, Diagnostic: diagnostic}
	}

	invErr := &InvocationError{
		Binary:     c.binary,
		ExitCode:   -1,
		Diagnostic: diagnostic,
		Err:        waitErr,
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		invErr.ExitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		invErr.Err = ctxErr
	}
	logger.Error("conversion failed",
		slog.Int(logging.FieldExitCode, invErr.ExitCode),
		slog.Any(logging.FieldError, invErr.Err),
		slog.Duration("elapsed", time.Since(started)),
	)
	return Outcome{Diagnostic: diagnostic, Err: invErr}
}

func (c *Converter) launchFailure(logger *slog.Logger, err error) Outcome {
	launchErr := &LaunchError{Binary: c.binary, Err: err}
	logger.Error("encoder launch failed", slog.Any(logging.FieldError, err))
	return Outcome{Diagnostic: err.Error(), Err: launchErr}
}
