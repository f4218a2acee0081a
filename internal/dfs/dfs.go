// Package dfs describes the files we inventory and the low level operations we
// perform on them: identity extraction, content comparison and filesystem info.
package dfs

import (
	"fmt"
	"path/filepath"
)

// FileID uniquely identifies a physical file by device and inode. Two paths
// with equal FileIDs are hard links to the same data.
type FileID struct {
	Device uint64
	Inode  uint64
}

// String returns a string representation of the FileID.
func (f FileID) String() string {
	return fmt.Sprintf("%d:%d", f.Device, f.Inode)
}

// Dfile describes one physical file. It starts life with a single path and
// gains more as hard links to the same FileID are discovered.
type Dfile struct {
	paths []string
	size  uint64
	id    FileID
	nlink uint64
}

// NewDfile creates a Dfile for a single path.
func NewDfile(path string, size uint64, id FileID, nlink uint64) *Dfile {
	return &Dfile{
		paths: []string{path},
		size:  size,
		id:    id,
		nlink: nlink,
	}
}

// FileName returns the first path recorded for the file.
func (d *Dfile) FileName() string { return d.paths[0] }

// BaseName returns the base filename only instead of the full pathname.
func (d *Dfile) BaseName() string { return filepath.Base(d.paths[0]) }

// Paths returns every path known to refer to this file, in discovery order.
// The returned slice must not be modified.
func (d *Dfile) Paths() []string { return d.paths }

// FileSize returns the size in bytes observed at stat time.
func (d *Dfile) FileSize() uint64 { return d.size }

// ID returns the device and inode pair of the file.
func (d *Dfile) ID() FileID { return d.id }

// Nlink returns the hard link count observed at stat time.
func (d *Dfile) Nlink() uint64 { return d.nlink }

// Merge folds other, another observation of the same physical file, into d.
// Paths are appended; size and link count take other's (newer) values.
func (d *Dfile) Merge(other *Dfile) error {
	if other.id != d.id {
		return fmt.Errorf("cannot merge %s (%s) into %s (%s)", other.FileName(), other.id, d.FileName(), d.id)
	}
	d.paths = append(d.paths, other.paths...)
	d.size = other.size
	d.nlink = other.nlink
	return nil
}

func (d *Dfile) String() string {
	return fmt.Sprintf("%s [%s, %d bytes]", d.FileName(), d.id, d.size)
}
