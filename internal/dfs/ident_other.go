//go:build !unix

package dfs

import "io/fs"

// IdentityOf always reports false on non-Unix platforms where we don't
// currently read device and inode numbers.
func IdentityOf(info fs.FileInfo) (FileID, uint64, bool) {
	return FileID{}, 0, false
}
