//go:build tools
// +build tools

// genfiles builds a directory tree for trying finddupes by hand: exact
// duplicates, files that only differ near the end, hard links and symlinks.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var sizes = []int64{
	1024,             // 1KB
	1024 * 1024,      // 1MB
	10 * 1024 * 1024, // 10MB
}

type randReader struct {
	remaining int64
}

func (r *randReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := rand.Read(p)
	r.remaining -= int64(n)
	return n, err
}

func writeRandom(path string, size int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, &randReader{remaining: size}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// flipLastByte makes path differ from its source in the final byte only.
func flipLastByte(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return err
	}
	b := make([]byte, 1)
	if _, err := f.ReadAt(b, info.Size()-1); err != nil {
		return err
	}
	b[0] ^= 0xff
	_, err = f.WriteAt(b, info.Size()-1)
	return err
}

func createFiles(dir string, n int) error {
	fmt.Println("createFiles running...")
	for i := range n {
		sub := filepath.Join(dir, fmt.Sprintf("set_%d", i))
		if err := os.MkdirAll(filepath.Join(sub, "copies"), 0o755); err != nil {
			return err
		}

		orig := filepath.Join(sub, "orig.dat")
		fmt.Printf("Creating: %s\n", orig)
		if err := writeRandom(orig, sizes[i%len(sizes)]); err != nil {
			return err
		}

		// Exact duplicate in a subdirectory.
		if err := copyFile(orig, filepath.Join(sub, "copies", "dup.dat")); err != nil {
			return err
		}

		// Same size, different last byte.
		near := filepath.Join(sub, "near.dat")
		if err := copyFile(orig, near); err != nil {
			return err
		}
		if err := flipLastByte(near); err != nil {
			return err
		}

		// A hard link is the same file, not a duplicate.
		if err := os.Link(orig, filepath.Join(sub, "hardlink.dat")); err != nil {
			fmt.Fprintf(os.Stderr, "hard link skipped: %v\n", err)
		}

		// Symlinks are never followed.
		if err := os.Symlink(orig, filepath.Join(sub, "symlink.dat")); err != nil {
			fmt.Fprintf(os.Stderr, "symlink skipped: %v\n", err)
		}
	}

	// A directory loop for the walker to survive.
	if err := os.Symlink("..", filepath.Join(dir, "set_0", "loop")); err != nil {
		fmt.Fprintf(os.Stderr, "loop symlink skipped: %v\n", err)
	}
	return nil
}

func main() {
	dir := flag.String("dir", "./files", "Directory to populate")
	n := flag.Int("n", 10, "Number of file sets to create")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed: %v\n", err)
		os.Exit(1)
	}
	if err := createFiles(*dir, *n); err != nil {
		fmt.Fprintf(os.Stderr, "failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Created", *n, "file sets in", *dir)
}
