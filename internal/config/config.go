// Package config collects the knobs controlling a finddupes run. Values are
// layered: built-in defaults, then an optional YAML file, then any flag the
// user set explicitly on the command line.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jdefrancesco/finddupes/pkg/utils"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/spf13/pflag"
)

// DefaultMinSize matches the walker's historic threshold of 100 kB.
const DefaultMinSize = "100000"

// Formats lists the accepted values of Format.
var Formats = []string{"json", "html", "csv", "tree", "tui"}

type Config struct {
	// Size limits as typed by the user, e.g. "10k" or "1GiB".
	MinSize string `koanf:"min-size"`
	MaxSize string `koanf:"max-size"`
	// SkipHidden controls whether hidden dotfiles and directories are skipped.
	SkipHidden bool `koanf:"skip-hidden"`
	// QuickReject compares head digests before full file contents.
	QuickReject bool `koanf:"quick-reject"`
	// Output selection.
	Format string `koanf:"format"`
	Output string `koanf:"output"`
	// Logging.
	LogFile  string `koanf:"log-file"`
	LogLevel string `koanf:"log-level"`
	Verbose  bool   `koanf:"verbose"`
	NoBanner bool   `koanf:"no-banner"`

	// Filled in by Resolve. A MaxFileSize of zero means no limit.
	MinFileSize uint64 `koanf:"-"`
	MaxFileSize uint64 `koanf:"-"`
}

// Defaults returns the configuration used when nothing else is given.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"min-size":     DefaultMinSize,
		"max-size":     "",
		"skip-hidden":  false,
		"quick-reject": false,
		"format":       "json",
		"output":       "",
		"log-file":     "",
		"log-level":    "",
		"verbose":      false,
		"no-banner":    false,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the flags in flags that were explicitly changed. flags
// may be nil. The result has already been through Resolve.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if flags != nil {
		// Keys already present only take the flag value when it was changed.
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve parses the size specs and validates the remaining fields.
func (c *Config) Resolve() error {
	var err error

	minSize := strings.TrimSpace(c.MinSize)
	if minSize == "" {
		minSize = DefaultMinSize
	}
	if c.MinFileSize, err = utils.ParseSizeSpec(minSize); err != nil {
		return fmt.Errorf("invalid min-size: %w", err)
	}

	c.MaxFileSize = 0
	if maxSize := strings.TrimSpace(c.MaxSize); maxSize != "" {
		if c.MaxFileSize, err = utils.ParseSizeSpec(maxSize); err != nil {
			return fmt.Errorf("invalid max-size: %w", err)
		}
		if c.MaxFileSize < c.MinFileSize {
			return fmt.Errorf("max-size %s is below min-size %s", c.MaxSize, minSize)
		}
	}

	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = "json"
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
	}

	return nil
}
