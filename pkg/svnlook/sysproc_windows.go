//go:build windows

package svnlook

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// configureWindow keeps svnlook from flashing a console window when the
// caller runs as a service or without a terminal.
func configureWindow(cmd *exec.Cmd, show bool) {
	if show {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
