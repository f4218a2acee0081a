package dfs

import (
	"github.com/pkg/errors"
	"lukechampine.com/blake3"
)

// HeadBlockSize is how much of each file HeadDigests hashes.
const HeadBlockSize = 64 * 1024

// HeadDigests caches a BLAKE3 digest of the leading block of each file. Files
// with different head digests cannot be equal; files with the same digest
// still need a full comparison.
type HeadDigests struct {
	sums map[FileID][32]byte
	buf  []byte
}

// NewHeadDigests returns an empty digest cache.
func NewHeadDigests() *HeadDigests {
	return &HeadDigests{
		sums: make(map[FileID][32]byte),
		buf:  make([]byte, HeadBlockSize),
	}
}

// Digest returns the head digest of f, reading the file at most once.
func (h *HeadDigests) Digest(f *Dfile) ([32]byte, error) {
	if sum, ok := h.sums[f.ID()]; ok {
		return sum, nil
	}

	fh, err := openForCompare(f.FileName())
	if err != nil {
		return [32]byte{}, err
	}
	defer closeQuietly(fh)

	n, err := readChunk(fh, h.buf)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "computing head digest")
	}

	sum := blake3.Sum256(h.buf[:n])
	h.sums[f.ID()] = sum
	return sum, nil
}

// Differ reports whether a and b are known to differ from their head digests alone.
func (h *HeadDigests) Differ(a, b *Dfile) (bool, error) {
	da, err := h.Digest(a)
	if err != nil {
		return false, err
	}
	db, err := h.Digest(b)
	if err != nil {
		return false, err
	}
	return da != db, nil
}

// Len returns the number of cached digests.
func (h *HeadDigests) Len() int { return len(h.sums) }
