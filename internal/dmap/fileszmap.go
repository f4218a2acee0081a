package dmap

import (
	"github.com/jdefrancesco/finddupes/internal/dfs"

	"github.com/samber/lo"
)

// SizeBuckets partitions consolidated files by exact size. Only buckets holding
// two or more files are handed out: a file without a size peer cannot have a
// duplicate.
type SizeBuckets struct {
	buckets    [][]*dfs.Dfile
	next       int
	singletons int
	candidates int
}

// NewSizeBuckets groups records by size. Bucket order follows the first
// appearance of each size in records.
func NewSizeBuckets(records []*dfs.Dfile) *SizeBuckets {
	b := &SizeBuckets{
		buckets: lo.PartitionBy(records, func(f *dfs.Dfile) uint64 {
			return f.FileSize()
		}),
	}

	for _, bucket := range b.buckets {
		if len(bucket) < 2 {
			b.singletons++
		} else {
			b.candidates++
		}
	}
	return b
}

// Next returns the next bucket with at least two files.
func (b *SizeBuckets) Next() ([]*dfs.Dfile, bool) {
	for b.next < len(b.buckets) {
		bucket := b.buckets[b.next]
		b.buckets[b.next] = nil
		b.next++
		if len(bucket) >= 2 {
			return bucket, true
		}
	}
	return nil, false
}

// Len returns the number of buckets with at least two files.
func (b *SizeBuckets) Len() int { return b.candidates }

// Singletons returns the number of files discarded for having a unique size.
func (b *SizeBuckets) Singletons() int { return b.singletons }
