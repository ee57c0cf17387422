//go:build !windows

package engines

import "os/exec"

func hideWindow(*exec.Cmd) {}
