//go:build !windows

package svnlook

import "os/exec"

func configureWindow(*exec.Cmd, bool) {}
