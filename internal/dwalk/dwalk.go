// dwalk is a lazy, breadth-first directory walker written for the needs of finddupes.
package dwalk

import (
	"io/fs"
	"iter"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jdefrancesco/finddupes/internal/dfs"
	"github.com/jdefrancesco/finddupes/internal/dsklog"
)

// Options controls which entries the walker reports.
type Options struct {
	// MinFileSize is the smallest file size reported, in bytes.
	MinFileSize uint64
	// MaxFileSize is the largest file size reported. Zero means no limit.
	MaxFileSize uint64
	// SkipHidden skips dotfiles and dot directories below the roots.
	SkipHidden bool
	// OnDirectory, if set, is called with each directory as it is expanded.
	OnDirectory func(path string)
}

// Stats counts what the walker has done so far.
type Stats struct {
	DirsExpanded   int
	DirsRevisited  int
	DirsUnreadable int
	FilesEmitted   int
	EntriesSkipped int
}

type pendingDir struct {
	path string
	// info is nil for roots, which are stat'ed (following symlinks) on expansion.
	info fs.FileInfo
}

// DWalk produces regular files reachable from a set of roots, one per call to
// Next. It never reads more than one directory ahead of its consumer.
type DWalk struct {
	opts Options

	dirQueue  []pendingDir
	fileQueue []*dfs.Dfile

	// seenDirs holds the identity of every directory already expanded.
	seenDirs map[dfs.FileID]struct{}

	nextSynthetic uint64
	stats         Stats
}

// NewDWalker returns a walker over rootDirs. Roots are made absolute and have
// symlinks resolved where possible.
func NewDWalker(rootDirs []string, opts Options) *DWalk {
	walker := &DWalk{
		opts:     opts,
		seenDirs: make(map[dfs.FileID]struct{}),
	}

	for _, root := range rootDirs {
		walker.dirQueue = append(walker.dirQueue, pendingDir{path: canonicalRoot(root)})
	}

	return walker
}

func canonicalRoot(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return root
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}

// Next returns the next file, or false once every reachable directory has
// been expanded and every file returned.
func (d *DWalk) Next() (*dfs.Dfile, bool) {
	for len(d.fileQueue) > 0 || len(d.dirQueue) > 0 {
		if len(d.fileQueue) > 0 {
			f := d.fileQueue[0]
			d.fileQueue[0] = nil
			d.fileQueue = d.fileQueue[1:]
			d.stats.FilesEmitted++
			return f, true
		}

		dir := d.dirQueue[0]
		d.dirQueue = d.dirQueue[1:]
		d.expand(dir)
	}

	return nil, false
}

// Files adapts Next to a range-over-func iterator.
func (d *DWalk) Files() iter.Seq[*dfs.Dfile] {
	return func(yield func(*dfs.Dfile) bool) {
		for f, ok := d.Next(); ok; f, ok = d.Next() {
			if !yield(f) {
				return
			}
		}
	}
}

// Stats returns the walker's counters.
func (d *DWalk) Stats() Stats { return d.stats }

// expand lists one directory and queues its wanted children.
func (d *DWalk) expand(dir pendingDir) {
	info := dir.info
	if info == nil {
		var err error
		if info, err = os.Stat(dir.path); err != nil {
			dsklog.Dlogger.Debugf("Cannot stat root %s: %v", dir.path, err)
			d.stats.DirsUnreadable++
			return
		}
		if !info.IsDir() {
			dsklog.Dlogger.Debugf("Root %s is not a directory. Skipping", dir.path)
			d.stats.DirsUnreadable++
			return
		}
	}

	if !d.markExpanded(info) {
		dsklog.Dlogger.Debugf("Directory %s already expanded. Skipping", dir.path)
		d.stats.DirsRevisited++
		return
	}

	entries, err := os.ReadDir(dir.path)
	if err != nil {
		dsklog.Dlogger.Debugf("Directory read error: %v", err)
		d.stats.DirsUnreadable++
		return
	}

	d.stats.DirsExpanded++
	if d.opts.OnDirectory != nil {
		d.opts.OnDirectory(dir.path)
	}

	for _, entry := range entries {
		d.pushChild(dir.path, entry)
	}
}

// pushChild classifies one directory entry without following symlinks.
func (d *DWalk) pushChild(dir string, entry fs.DirEntry) {
	name := entry.Name()
	path := filepath.Join(dir, name)

	if d.opts.SkipHidden && strings.HasPrefix(name, ".") {
		dsklog.Dlogger.Debugf("Skipping hidden entry: %s", path)
		d.stats.EntriesSkipped++
		return
	}

	info, err := entry.Info()
	if err != nil {
		dsklog.Dlogger.Debugf("Error getting file info for %s: %v", path, err)
		d.stats.EntriesSkipped++
		return
	}

	switch {
	case info.IsDir():
		if d.alreadyExpanded(info) {
			d.stats.DirsRevisited++
			return
		}
		d.dirQueue = append(d.dirQueue, pendingDir{path: path, info: info})

	case info.Mode().IsRegular():
		if !d.wantFile(path, info) {
			d.stats.EntriesSkipped++
			return
		}
		id, nlink, ok := dfs.IdentityOf(info)
		if !ok {
			id, nlink = d.syntheticID(), 1
		}
		d.fileQueue = append(d.fileQueue, dfs.NewDfile(path, uint64(info.Size()), id, nlink)) // #nosec G115

	default:
		// Symlinks, sockets, pipes and device files.
		dsklog.Dlogger.Debugf("Skipping non-regular file: %s (mode: %s)", path, info.Mode())
		d.stats.EntriesSkipped++
	}
}

func (d *DWalk) wantFile(path string, info fs.FileInfo) bool {
	size := uint64(max(info.Size(), 0)) // #nosec G115
	if size < d.opts.MinFileSize {
		dsklog.Dlogger.Debugf("File %s smaller than minimum. Skipping", path)
		return false
	}
	if d.opts.MaxFileSize > 0 && size > d.opts.MaxFileSize {
		dsklog.Dlogger.Debugf("File %s larger than maximum. Skipping", path)
		return false
	}
	return true
}

func (d *DWalk) alreadyExpanded(info fs.FileInfo) bool {
	id, _, ok := dfs.IdentityOf(info)
	if !ok {
		return false
	}
	_, seen := d.seenDirs[id]
	return seen
}

// markExpanded records info's directory as expanded. It returns false if it
// had been expanded before.
func (d *DWalk) markExpanded(info fs.FileInfo) bool {
	id, _, ok := dfs.IdentityOf(info)
	if !ok {
		return true
	}
	if _, seen := d.seenDirs[id]; seen {
		return false
	}
	d.seenDirs[id] = struct{}{}
	return true
}

// syntheticID hands out identities that never collide with each other, for
// platforms where we cannot read device and inode numbers.
func (d *DWalk) syntheticID() dfs.FileID {
	d.nextSynthetic++
	return dfs.FileID{Device: math.MaxUint64, Inode: d.nextSynthetic}
}
