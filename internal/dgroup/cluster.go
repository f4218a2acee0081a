package dgroup

import (
	"github.com/jdefrancesco/finddupes/internal/dfs"
	"github.com/jdefrancesco/finddupes/internal/dsklog"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// BucketSource yields candidate buckets whose members share one size and are
// distinct physical files.
type BucketSource interface {
	Next() ([]*dfs.Dfile, bool)
}

// CompareFunc reports whether two files have identical content.
type CompareFunc func(a, b *dfs.Dfile) (bool, error)

// Option configures a Clusterer.
type Option func(*Clusterer)

// WithComparator replaces the byte-by-byte file comparison.
func WithComparator(cmp CompareFunc) Option {
	return func(c *Clusterer) { c.compare = cmp }
}

// WithChunkSize sets the read size of the default comparator.
func WithChunkSize(n int) Option {
	return func(c *Clusterer) { c.chunkSize = n }
}

// WithQuickReject checks a digest of each file's leading block before the full
// comparison, so files that differ early are rejected after one read each.
func WithQuickReject() Option {
	return func(c *Clusterer) { c.quickReject = true }
}

// Clusterer turns size buckets into content groups. Use it like a
// bufio.Scanner:
//
//	for c.Next() {
//		g := c.Group()
//	}
//	if err := c.Err(); err != nil { ... }
//
// A bucket is only requested from the source once every group of the previous
// bucket has been handed out.
type Clusterer struct {
	src         BucketSource
	compare     CompareFunc
	chunkSize   int
	quickReject bool

	pending []Group
	current Group
	err     error
	done    bool

	buckets     int
	comparisons int
}

// NewClusterer returns a Clusterer reading buckets from src.
func NewClusterer(src BucketSource, opts ...Option) *Clusterer {
	c := &Clusterer{src: src}
	for _, opt := range opts {
		opt(c)
	}

	if c.compare == nil {
		c.compare = dfs.NewComparer(c.chunkSize).SameFiles
	}
	if c.quickReject {
		c.compare = quickReject(dfs.NewHeadDigests(), c.compare)
	}
	return c
}

// Next advances to the next group. It returns false when the source is
// exhausted or a comparison failed; check Err to tell the two apart.
func (c *Clusterer) Next() bool {
	c.current = nil
	if c.err != nil || c.done {
		return false
	}

	for {
		if n := len(c.pending); n > 0 {
			c.current = c.pending[n-1]
			c.pending[n-1] = nil
			c.pending = c.pending[:n-1]
			return true
		}

		bucket, ok := c.src.Next()
		if !ok {
			c.done = true
			return false
		}
		c.buckets++

		groups, err := c.regroup(bucket)
		if err != nil {
			c.err = err
			return false
		}
		dsklog.Dlogger.Debugf("Bucket of %d files at %d bytes produced %d groups",
			len(bucket), bucket[0].FileSize(), len(groups))
		c.pending = groups
	}
}

// Group returns the group found by the last successful call to Next.
func (c *Clusterer) Group() Group { return c.current }

// Err returns the comparison failure that stopped the Clusterer, if any.
func (c *Clusterer) Err() error { return c.err }

// Buckets returns the number of buckets consumed so far.
func (c *Clusterer) Buckets() int { return c.buckets }

// Comparisons returns the number of pairwise comparisons performed so far.
func (c *Clusterer) Comparisons() int { return c.comparisons }

// regroup partitions one bucket into clusters of equal files. Each candidate
// is compared against the first member of every cluster found so far; equality
// is transitive, so one member speaks for the whole cluster.
func (c *Clusterer) regroup(candidates []*dfs.Dfile) ([]Group, error) {
	var clusters []Group

candidate:
	for len(candidates) > 0 {
		cand := candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]

		for i, cluster := range clusters {
			rep := cluster[0]
			if rep.FileSize() != cand.FileSize() {
				continue
			}

			c.comparisons++
			same, err := c.compare(cand, rep)
			if err != nil {
				return nil, errors.Wrapf(err, "comparing %s with %s", cand.FileName(), rep.FileName())
			}
			if same {
				clusters[i] = append(cluster, cand)
				continue candidate
			}
		}

		clusters = append(clusters, Group{cand})
	}

	return lo.Filter(clusters, func(g Group, _ int) bool {
		return len(g) >= 2
	}), nil
}

// quickReject runs next only for files whose head digests agree. Files no
// larger than one head block are compared directly since the digest would
// read them in full anyway.
func quickReject(digests *dfs.HeadDigests, next CompareFunc) CompareFunc {
	return func(a, b *dfs.Dfile) (bool, error) {
		if a.FileSize() > dfs.HeadBlockSize {
			differ, err := digests.Differ(a, b)
			if err != nil {
				return false, err
			}
			if differ {
				return false, nil
			}
		}
		return next(a, b)
	}
}
