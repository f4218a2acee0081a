// Implement our primary data structure Dmap.
//
// The InodeMap collapses walker output by physical file:
//
// { (device, inode) --> Dfile{paths: [link1, link2, ...]} }
//
// Hard links therefore reach later stages as a single record and are never
// compared against themselves.
package dmap

import (
	"github.com/jdefrancesco/finddupes/internal/dfs"
	"github.com/jdefrancesco/finddupes/internal/dsklog"
)

// FileSource produces files one at a time until it returns false.
type FileSource interface {
	Next() (*dfs.Dfile, bool)
}

// InodeMap holds one Dfile per distinct FileID.
type InodeMap struct {
	files map[dfs.FileID]*dfs.Dfile
	// order remembers first discovery so Records is deterministic.
	order     []dfs.FileID
	pathCount uint
}

// NewInodeMap returns an empty InodeMap.
func NewInodeMap() *InodeMap {
	return &InodeMap{
		files: make(map[dfs.FileID]*dfs.Dfile),
	}
}

// Consolidate drains src completely and returns the consolidated map.
func Consolidate(src FileSource) *InodeMap {
	m := NewInodeMap()
	for f, ok := src.Next(); ok; f, ok = src.Next() {
		m.Add(f)
	}
	dsklog.Dlogger.Infof("Consolidated %d paths into %d files", m.PathCount(), m.Len())
	return m
}

// Add records f. If its FileID is already known, f's paths are appended to the
// existing record and its size and link count replace the older values.
func (m *InodeMap) Add(f *dfs.Dfile) {
	m.pathCount += uint(len(f.Paths()))

	existing, ok := m.files[f.ID()]
	if !ok {
		m.files[f.ID()] = f
		m.order = append(m.order, f.ID())
		return
	}

	// IDs match, so Merge cannot fail.
	_ = existing.Merge(f)
	dsklog.Dlogger.Debugf("Hard link %s joins %s", f.FileName(), existing.FileName())
}

// Get returns the record for id, if any.
func (m *InodeMap) Get(id dfs.FileID) (*dfs.Dfile, bool) {
	f, ok := m.files[id]
	return f, ok
}

// Len returns the number of distinct physical files.
func (m *InodeMap) Len() int {
	return len(m.files)
}

// PathCount returns the number of paths added, counting every hard link.
func (m *InodeMap) PathCount() uint {
	return m.pathCount
}

// Records returns every record in order of first discovery.
func (m *InodeMap) Records() []*dfs.Dfile {
	records := make([]*dfs.Dfile, 0, len(m.order))
	for _, id := range m.order {
		records = append(records, m.files[id])
	}
	return records
}
