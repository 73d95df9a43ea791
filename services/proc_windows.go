//go:build windows

package services

import (
	"os"
	"os/exec"
	"strconv"
	"syscall"
)

// setProcessGroup gives the child its own process group.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// terminate takes the whole process tree down with taskkill, then kills
// the pid directly as a fallback.
func terminate(pid int) {
	_ = exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(pid)).Run()
	if p, err := os.FindProcess(pid); err == nil {
		_ = p.Kill()
	}
}
