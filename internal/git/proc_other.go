//go:build !windows

package git

import "os/exec"

const lineTerminator = "\n"

func hideWindow(*exec.Cmd) {}
