//go:build !unix

package git

import "os/exec"

// killProcessGroup keeps the default cancellation; WaitDelay still bounds Run.
func killProcessGroup(_ *exec.Cmd) {}
