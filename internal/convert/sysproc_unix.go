//go:build unix

package convert

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureProcess detaches the encoder from the controlling terminal's
// process group so keys and signals meant for the TUI never reach it.
// Cancelling the context kills the whole group, helpers included.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil && err != unix.ESRCH {
			return cmd.Process.Kill()
		}
		return nil
	}
}
