package dfs

import (
	"bytes"
	"io"
	"os"

	"github.com/jdefrancesco/finddupes/internal/dsklog"

	"github.com/pkg/errors"
)

// ChunkSize is the number of bytes read from each file per comparison step.
const ChunkSize = 1 << 20

// Comparer compares file contents chunk by chunk. It owns exactly two chunk
// buffers, so peak memory is independent of file size. A Comparer is not safe
// for concurrent use.
type Comparer struct {
	bufA []byte
	bufB []byte
}

// NewComparer returns a Comparer reading chunkSize bytes at a time. A
// non-positive chunkSize selects ChunkSize.
func NewComparer(chunkSize int) *Comparer {
	if chunkSize <= 0 {
		chunkSize = ChunkSize
	}
	return &Comparer{
		bufA: make([]byte, chunkSize),
		bufB: make([]byte, chunkSize),
	}
}

// SameContent reports whether the files at pathA and pathB hold identical bytes.
func SameContent(pathA, pathB string) (bool, error) {
	return NewComparer(ChunkSize).Same(pathA, pathB)
}

// SameFiles compares the first path of each Dfile.
func (c *Comparer) SameFiles(a, b *Dfile) (bool, error) {
	return c.Same(a.FileName(), b.FileName())
}

// Same reads both files in lockstep and stops at the first chunk whose length
// or content differs. Both handles are closed before Same returns.
func (c *Comparer) Same(pathA, pathB string) (bool, error) {
	fa, err := openForCompare(pathA)
	if err != nil {
		return false, err
	}
	defer closeQuietly(fa)

	fb, err := openForCompare(pathB)
	if err != nil {
		return false, err
	}
	defer closeQuietly(fb)

	for {
		na, err := readChunk(fa, c.bufA)
		if err != nil {
			return false, err
		}
		nb, err := readChunk(fb, c.bufB)
		if err != nil {
			return false, err
		}

		if na != nb || !bytes.Equal(c.bufA[:na], c.bufB[:nb]) {
			return false, nil
		}

		// A short chunk on both sides means both reached EOF together.
		if na < len(c.bufA) {
			return true, nil
		}
	}
}

func openForCompare(path string) (*os.File, error) {
	// #nosec G304 -- paths come from our own directory walk
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s for comparison", path)
	}
	return f, nil
}

// readChunk fills buf as far as the file allows. EOF is not an error here;
// it shows up as a short count.
func readChunk(f *os.File, buf []byte) (int, error) {
	n, err := io.ReadFull(f, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	if err != nil {
		return n, errors.Wrapf(err, "reading %s", f.Name())
	}
	return n, nil
}

func closeQuietly(f *os.File) {
	if err := f.Close(); err != nil {
		dsklog.Dlogger.Debugf("Error closing %s: %v", f.Name(), err)
	}
}
