//go:build unix

package git

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts git in its own process group and kills the whole
// group on cancellation, so helpers such as git-remote-https die with it.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
