//go:build unix

package logview

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup puts the shell in its own process group so a
// timeout kills the pipeline it spawned, not just the shell.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
