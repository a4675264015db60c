//go:build unix

package utils

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// PrepareCommand starts cmd in its own process group and makes context
// cancellation kill the whole group, so helpers the tool spawns die with it.
// waitDelay bounds how long Wait blocks on output pipes after the kill.
func PrepareCommand(cmd *exec.Cmd, waitDelay time.Duration) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
	cmd.WaitDelay = waitDelay
}
