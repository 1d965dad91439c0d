//go:build unix

package typeset

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the compiler in its own process group so a timeout kills its children too
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
