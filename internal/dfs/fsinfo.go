// Utility functions for querying information about the filesystems
// we search for duplicates.
package dfs

import (
	"fmt"
	"io"

	sigar "github.com/cloudfoundry/gosigar"
)

const OutputFormat = "%-20s %8s %8s %8s %5s %-10s %s\n"

// ListFileSystems writes a df style table of mounted filesystems to w.
func ListFileSystems(w io.Writer) error {
	fsList := sigar.FileSystemList{}
	if err := fsList.Get(); err != nil {
		return fmt.Errorf("listing filesystems: %w", err)
	}

	fmt.Fprintf(w, OutputFormat,
		"Filesystem", "Size", "Used", "Avail", "Use%", "Type", "Mounted On")

	for _, fs := range fsList.List {
		usage := sigar.FileSystemUsage{}
		if err := usage.Get(fs.DirName); err != nil {
			// Unreadable mounts (autofs, revoked fuse mounts) are listed without usage.
			fmt.Fprintf(w, OutputFormat, fs.DevName, "-", "-", "-", "-", fs.SysTypeName, fs.DirName)
			continue
		}

		fmt.Fprintf(w, OutputFormat,
			fs.DevName,
			formatSize(usage.Total),
			formatSize(usage.Used),
			formatSize(usage.Avail),
			sigar.FormatPercent(usage.UsePercent()),
			fs.SysTypeName,
			fs.DirName)
	}

	return nil
}

// formatSize will make our sizes more human friendly. sigar reports KiB.
func formatSize(size uint64) string {
	return sigar.FormatSize(size * 1024)
}

// FilesystemType returns a short name for the filesystem holding path, such
// as "ext2/ext3/ext4" or "apfs".
func FilesystemType(path string) (string, error) {
	return detectFilesystem(path)
}
