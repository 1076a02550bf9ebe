package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/mattn/go-isatty"

	"github.com/Mk7214/vidconv/internal/convert"
)

// run converts req and, when it succeeds, appends the activity log line.
// The request must already have passed convert.Validate.
func (s *session) run(ctx context.Context, req convert.Request) convert.Outcome {
	outcome := s.converter.Convert(ctx, req)
	if outcome.Succeeded() {
		s.activity.Record(req.InputPath, outcome.OutputPath, req.Format)
	}
	return outcome
}

func preflightEncoder(binary string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("%s not found in PATH, install it and try again", binary)
	}
	return nil
}

func isInteractiveTerminal() bool {
	return isTTY(os.Stdin) && isTTY(os.Stdout)
}

func isTTY(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func successMessage(outputPath string) string {
	return fmt.Sprintf("Conversion complete! Output file: %s", outputPath)
}

func failureMessage(err error) string {
	return fmt.Sprintf("Error during conversion: %v", err)
}
