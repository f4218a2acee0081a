package dexport

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jdefrancesco/finddupes/internal/dgroup"
)

// WriteFile renders groups into the file at path, creating or truncating it
// with owner-only permissions.
func WriteFile(path string, format Format, groups []dgroup.Group) error {
	file, err := secureOutputFile(path)
	if err != nil {
		return err
	}

	if err := Write(file, format, groups); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file %s: %w", path, err)
	}
	return nil
}

func secureOutputFile(path string) (*os.File, error) {
	if path == "" {
		return nil, errors.New("output path is empty")
	}

	clean := filepath.Clean(path)
	abs, err := filepath.Abs(clean)
	if err != nil {
		return nil, fmt.Errorf("resolve output path %s: %w", path, err)
	}

	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return nil, fmt.Errorf("output path %s is a directory", abs)
	}

	return openFileSecure(abs, filepath.Dir(abs), filepath.Base(abs))
}
