//go:build !windows

package sync

import "os"

func linkDir(src, dst string) error {
	return os.Symlink(src, dst)
}
