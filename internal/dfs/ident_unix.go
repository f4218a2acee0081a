//go:build unix

package dfs

import (
	"io/fs"
	"syscall"
)

// IdentityOf extracts the device/inode identity and hard link count from
// info. The final return value is false if info does not carry a Stat_t.
func IdentityOf(info fs.FileInfo) (FileID, uint64, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || stat == nil {
		return FileID{}, 0, false
	}
	return FileID{
		Device: uint64(stat.Dev), // #nosec G115 -- platform-defined but safely representable in uint64
		Inode:  uint64(stat.Ino), // #nosec G115 -- platform-defined but safely representable in uint64
	}, uint64(stat.Nlink), true // #nosec G115
}
