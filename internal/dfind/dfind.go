// Package dfind strings the pipeline stages together: walk the roots,
// consolidate hard links, bucket by size, then cluster by content.
package dfind

import (
	"errors"
	"fmt"

	"github.com/jdefrancesco/finddupes/internal/config"
	"github.com/jdefrancesco/finddupes/internal/dgroup"
	"github.com/jdefrancesco/finddupes/internal/dmap"
	"github.com/jdefrancesco/finddupes/internal/dsklog"
	"github.com/jdefrancesco/finddupes/internal/dwalk"

	"github.com/dustin/go-humanize"
)

// ErrAlreadyRun is returned by Run when called a second time.
var ErrAlreadyRun = errors.New("finder already run")

// Option configures a Finder.
type Option func(*Finder)

// WithProgress calls fn with each directory as the walker expands it.
func WithProgress(fn func(dir string)) Option {
	return func(f *Finder) { f.onDirectory = fn }
}

// WithClusterOptions passes extra options through to the Clusterer.
func WithClusterOptions(opts ...dgroup.Option) Option {
	return func(f *Finder) { f.clusterOpts = append(f.clusterOpts, opts...) }
}

// Finder runs one duplicate search over a fixed set of roots.
type Finder struct {
	roots       []string
	cfg         *config.Config
	onDirectory func(string)
	clusterOpts []dgroup.Option

	walker    *dwalk.DWalk
	inodes    *dmap.InodeMap
	buckets   *dmap.SizeBuckets
	clusterer *dgroup.Clusterer

	groups      int
	reclaimable uint64
}

// New returns a Finder over roots. A nil cfg means the defaults.
func New(roots []string, cfg *config.Config, opts ...Option) *Finder {
	if cfg == nil {
		cfg = &config.Config{}
		// The zero Config always resolves.
		_ = cfg.Resolve()
	}

	f := &Finder{roots: roots, cfg: cfg}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run walks every root, consolidates and buckets what it found, and returns
// the Clusterer that will compare the buckets as it is advanced. Nothing is
// compared before the first call to the Clusterer's Next.
func (f *Finder) Run() (*dgroup.Clusterer, error) {
	if f.walker != nil {
		return nil, ErrAlreadyRun
	}
	log := dsklog.WithPrefix("dfind")

	f.walker = dwalk.NewDWalker(f.roots, dwalk.Options{
		MinFileSize: f.cfg.MinFileSize,
		MaxFileSize: f.cfg.MaxFileSize,
		SkipHidden:  f.cfg.SkipHidden,
		OnDirectory: f.onDirectory,
	})
	log.Infof("Walking %d roots (min %d bytes, max %d bytes)",
		len(f.roots), f.cfg.MinFileSize, f.cfg.MaxFileSize)

	f.inodes = dmap.Consolidate(f.walker)
	ws := f.walker.Stats()
	log.Infof("Walk done: %d dirs expanded, %d unreadable, %d revisited, %d files",
		ws.DirsExpanded, ws.DirsUnreadable, ws.DirsRevisited, ws.FilesEmitted)

	f.buckets = dmap.NewSizeBuckets(f.inodes.Records())
	log.Infof("Bucketed %d files: %d candidate buckets, %d unique sizes",
		f.inodes.Len(), f.buckets.Len(), f.buckets.Singletons())

	opts := f.clusterOpts
	if f.cfg.QuickReject {
		opts = append([]dgroup.Option{dgroup.WithQuickReject()}, opts...)
	}
	f.clusterer = dgroup.NewClusterer(f.buckets, opts...)

	return f.clusterer, nil
}

// Collect runs the search to completion and returns every duplicate group.
func (f *Finder) Collect() ([]dgroup.Group, error) {
	c, err := f.Run()
	if err != nil {
		return nil, err
	}

	var groups []dgroup.Group
	for c.Next() {
		g := c.Group()
		f.groups++
		f.reclaimable += g.Reclaimable()
		groups = append(groups, g)
	}
	if err := c.Err(); err != nil {
		return groups, fmt.Errorf("clustering: %w", err)
	}

	dsklog.WithPrefix("dfind").Infof("Found %d duplicate groups after %d comparisons",
		f.groups, c.Comparisons())
	return groups, nil
}

// Summary describes a finished (or partially finished) run.
type Summary struct {
	PathsSeen   uint
	UniqueFiles int
	Singletons  int
	Buckets     int
	Comparisons int
	// Groups and Reclaimable are only counted by Collect.
	Groups      int
	Reclaimable uint64
}

// Summary reports the counters gathered so far.
func (f *Finder) Summary() Summary {
	var s Summary
	if f.inodes != nil {
		s.PathsSeen = f.inodes.PathCount()
		s.UniqueFiles = f.inodes.Len()
	}
	if f.buckets != nil {
		s.Singletons = f.buckets.Singletons()
		s.Buckets = f.buckets.Len()
	}
	if f.clusterer != nil {
		s.Comparisons = f.clusterer.Comparisons()
	}
	s.Groups = f.groups
	s.Reclaimable = f.reclaimable
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%s paths, %s files, %s duplicate groups, %s reclaimable (%s comparisons)",
		humanize.Comma(int64(s.PathsSeen)), // #nosec G115
		humanize.Comma(int64(s.UniqueFiles)),
		humanize.Comma(int64(s.Groups)),
		humanize.IBytes(s.Reclaimable),
		humanize.Comma(int64(s.Comparisons)))
}
