// This package contains benchmark related logic/tests.
package bench

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jdefrancesco/finddupes/internal/config"
	"github.com/jdefrancesco/finddupes/internal/dfind"
	"github.com/jdefrancesco/finddupes/internal/dfs"
	"github.com/jdefrancesco/finddupes/internal/dgroup"
	"github.com/jdefrancesco/finddupes/internal/dmap"
	"github.com/jdefrancesco/finddupes/internal/dsklog"
	"github.com/jdefrancesco/finddupes/internal/dwalk"
)

func TestMain(m *testing.M) {
	// Keep benchmark runs from creating log files.
	dsklog.InitializeDlogger(os.DevNull)
	os.Exit(m.Run())
}

// makeTree creates n pairs of duplicate files spread over a few nested
// directories, plus n files that share a size with nothing.
func makeTree(b *testing.B, n int) string {
	b.Helper()
	tmpDir := b.TempDir()

	for i := range n {
		subDir := filepath.Join(tmpDir, fmt.Sprintf("d%d", i%8), "level1", "level2")
		if err := os.MkdirAll(subDir, 0o755); err != nil {
			b.Fatal(err)
		}

		data := []byte(fmt.Sprintf("duplicated test data %06d", i))
		for _, name := range []string{"a", "b"} {
			path := filepath.Join(subDir, fmt.Sprintf("dup_%s_%d.txt", name, i))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				b.Fatal(err)
			}
		}

		unique := bytes.Repeat([]byte{'u'}, 100+i)
		if err := os.WriteFile(filepath.Join(subDir, fmt.Sprintf("unique_%d.txt", i)), unique, 0o644); err != nil {
			b.Fatal(err)
		}
	}
	return tmpDir
}

func BenchmarkDWalk(b *testing.B) {
	tmpDir := makeTree(b, 100)

	for b.Loop() {
		walker := dwalk.NewDWalker([]string{tmpDir}, dwalk.Options{})
		for range walker.Files() {
		}
	}
}

func BenchmarkConsolidate(b *testing.B) {
	tmpDir := makeTree(b, 100)

	for b.Loop() {
		m := dmap.Consolidate(dwalk.NewDWalker([]string{tmpDir}, dwalk.Options{}))
		_ = dmap.NewSizeBuckets(m.Records())
	}
}

// BenchmarkInodeMapAdd measures consolidation alone, without touching the disk.
func BenchmarkInodeMapAdd(b *testing.B) {
	var files []*dfs.Dfile
	for i := range 1000 {
		// Every fourth path is a hard link to the previous file.
		ino := uint64(i - i/4)
		files = append(files, dfs.NewDfile(fmt.Sprintf("/f%d", i), 4096, dfs.FileID{Device: 1, Inode: ino}, 1))
	}

	for b.Loop() {
		m := dmap.NewInodeMap()
		for _, f := range files {
			m.Add(f)
		}
		_ = m.Records()
	}
}

func BenchmarkCompare(b *testing.B) {
	dir := b.TempDir()
	data := bytes.Repeat([]byte("0123456789abcdef"), 1<<18)
	pathA := filepath.Join(dir, "a")
	pathB := filepath.Join(dir, "b")
	if err := os.WriteFile(pathA, data, 0o644); err != nil {
		b.Fatal(err)
	}
	if err := os.WriteFile(pathB, data, 0o644); err != nil {
		b.Fatal(err)
	}

	cmp := dfs.NewComparer(dfs.ChunkSize)
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		same, err := cmp.Same(pathA, pathB)
		if err != nil || !same {
			b.Fatalf("Same = %v, %v", same, err)
		}
	}
}

func BenchmarkPipeline(b *testing.B) {
	tmpDir := makeTree(b, 100)
	cfg := &config.Config{MinSize: "0"}
	if err := cfg.Resolve(); err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		groups, err := dfind.New([]string{tmpDir}, cfg).Collect()
		if err != nil {
			b.Fatal(err)
		}
		if len(groups) != 100 {
			b.Fatalf("expected 100 groups, got %d", len(groups))
		}
	}
}

func BenchmarkClusterAllDistinct(b *testing.B) {
	var bucket []*dfs.Dfile
	for i := range 64 {
		bucket = append(bucket, dfs.NewDfile(fmt.Sprintf("/f%d", i), 10, dfs.FileID{Device: 1, Inode: uint64(i)}, 1))
	}
	differ := func(a, b *dfs.Dfile) (bool, error) { return false, nil }

	for b.Loop() {
		src := &oneBucket{files: append([]*dfs.Dfile(nil), bucket...)}
		c := dgroup.NewClusterer(src, dgroup.WithComparator(differ))
		for c.Next() {
		}
	}
}

type oneBucket struct {
	files []*dfs.Dfile
	done  bool
}

func (o *oneBucket) Next() ([]*dfs.Dfile, bool) {
	if o.done {
		return nil, false
	}
	o.done = true
	return o.files, true
}
