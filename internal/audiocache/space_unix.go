//go:build unix

package audiocache

import (
	"syscall"
)

// availableBytes asks the filesystem holding dir how much space is left.
func availableBytes(dir string) (int64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return 0, err
	}
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}
