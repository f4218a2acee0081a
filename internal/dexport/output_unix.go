//go:build unix

package dexport

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// openFileSecure opens fileName relative to an open handle on dirPath and
// refuses to follow a symlink in the final component.
func openFileSecure(absPath, dirPath, fileName string) (*os.File, error) {
	cleaned := filepath.Clean(fileName)
	if cleaned == "" || cleaned == "." || cleaned == ".." || cleaned != fileName {
		return nil, fmt.Errorf("invalid output filename %q", fileName)
	}

	// #nosec G304 -- dirPath is the cleaned parent of a user supplied path
	dirHandle, err := os.Open(dirPath)
	if err != nil {
		return nil, fmt.Errorf("open directory %s: %w", dirPath, err)
	}
	defer dirHandle.Close()

	flags := unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC | unix.O_CLOEXEC | unix.O_NOFOLLOW
	fd, err := unix.Openat(int(dirHandle.Fd()), cleaned, flags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", absPath, err)
	}

	return os.NewFile(uintptr(fd), absPath), nil
}
