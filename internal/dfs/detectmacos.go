//go:build darwin || freebsd

package dfs

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func detectFilesystem(path string) (string, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return "", fmt.Errorf("statfs %s: %w", path, err)
	}

	return unix.ByteSliceToString(stat.Fstypename[:]), nil
}
