//go:build windows

package git

import (
	"os/exec"
	"syscall"
)

const lineTerminator = "\r\n"

// hideWindow keeps console tools from flashing a window during builds.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
