//go:build !unix && !windows

package convert

import "os/exec"

func configureProcess(*exec.Cmd) {}
