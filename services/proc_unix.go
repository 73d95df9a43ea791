//go:build !windows

package services

import (
	"os/exec"
	"syscall"
)

// setProcessGroup detaches the child into its own process group so one
// signal reaches spotdl and anything it spawns (ffmpeg converters).
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate signals the whole process group, then the pid directly as a
// fallback for children that moved themselves out of the group.
func terminate(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGTERM)
	_ = syscall.Kill(pid, syscall.SIGTERM)
}
