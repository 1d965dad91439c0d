//go:build !unix

package typeset

import "os/exec"

func configureProcessGroup(cmd *exec.Cmd) {}
