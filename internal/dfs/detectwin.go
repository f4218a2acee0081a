//go:build windows

package dfs

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/windows"
)

func detectFilesystem(path string) (string, error) {
	full, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	// GetVolumeInformation wants the volume root, e.g. `C:\`.
	root := filepath.VolumeName(full) + `\`
	p, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return "", err
	}

	fsName := make([]uint16, windows.MAX_PATH+1)
	var serial, maxCompLen, flags uint32

	err = windows.GetVolumeInformation(p, nil, 0, &serial, &maxCompLen, &flags,
		&fsName[0], uint32(len(fsName)))
	if err != nil {
		return "", fmt.Errorf("volume information for %s: %w", root, err)
	}

	return windows.UTF16ToString(fsName), nil
}
