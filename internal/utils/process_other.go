//go:build !unix

package utils

import (
	"os/exec"
	"time"
)

// PrepareCommand only bounds the wait on platforms without process groups;
// cancellation falls back to killing the direct child.
func PrepareCommand(cmd *exec.Cmd, waitDelay time.Duration) {
	cmd.WaitDelay = waitDelay
}
