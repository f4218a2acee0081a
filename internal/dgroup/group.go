// Package dgroup splits same-size candidate files into groups of byte-identical
// files by comparing them directly, one size bucket at a time.
package dgroup

import (
	"github.com/jdefrancesco/finddupes/internal/dfs"

	"github.com/samber/lo"
)

// Group is a set of two or more physical files with identical content.
type Group []*dfs.Dfile

// Size returns the size shared by every member.
func (g Group) Size() uint64 {
	if len(g) == 0 {
		return 0
	}
	return g[0].FileSize()
}

// Paths returns the paths of each member; every inner slice lists the hard
// links of one physical file.
func (g Group) Paths() [][]string {
	return lo.Map(g, func(f *dfs.Dfile, _ int) []string {
		return f.Paths()
	})
}

// PathCount returns the number of paths across all members.
func (g Group) PathCount() int {
	return lo.Reduce(g, func(n int, f *dfs.Dfile, _ int) int {
		return n + len(f.Paths())
	}, 0)
}

// TotalSize returns the bytes occupied by all members together.
func (g Group) TotalSize() uint64 {
	return g.Size() * uint64(len(g))
}

// Reclaimable returns the bytes freed by keeping only one member.
func (g Group) Reclaimable() uint64 {
	if len(g) < 2 {
		return 0
	}
	return g.Size() * uint64(len(g)-1)
}
