//go:build windows

package sync

import "os/exec"

// linkDir creates a directory junction, which works without symlink
// privileges. Junctions are same-machine only, which is all grove needs.
func linkDir(src, dst string) error {
	return exec.Command("cmd", "/c", "mklink", "/J", dst, src).Run()
}
