package utils

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

// Our size constants. SI prefixes are powers of ten, IEC prefixes powers of two.
const (
	KB uint64 = 1000
	MB        = KB * 1000
	GB        = MB * 1000
	TB        = GB * 1000

	KiB uint64 = 1 << 10
	MiB        = KiB << 10
	GiB        = MiB << 10
	TiB        = GiB << 10
)

var sizeSuffixMultipliers = map[string]uint64{
	"":    1,
	"k":   KB,
	"kb":  KB,
	"m":   MB,
	"mb":  MB,
	"g":   GB,
	"gb":  GB,
	"t":   TB,
	"tb":  TB,
	"ki":  KiB,
	"kib": KiB,
	"mi":  MiB,
	"mib": MiB,
	"gi":  GiB,
	"gib": GiB,
	"ti":  TiB,
	"tib": TiB,
}

// ParseSizeSpec converts a size such as "100000", "10k", "10kb", "10ki" or
// "10KiB" to bytes. Matching is case-insensitive; the magnitude must be a
// whole number.
func ParseSizeSpec(input string) (uint64, error) {
	spec := strings.ToLower(strings.TrimSpace(input))

	split := strings.IndexFunc(spec, unicode.IsLetter)
	numPart, suffix := spec, ""
	if split >= 0 {
		numPart, suffix = spec[:split], spec[split:]
	}

	multiplier, ok := sizeSuffixMultipliers[suffix]
	if !ok {
		return 0, fmt.Errorf("failed to parse file size (bad multiplier -- got %q)", input)
	}

	value, err := strconv.ParseUint(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse file size (bad number -- got %q): %w", input, err)
	}

	hi, product := bits.Mul64(value, multiplier)
	if hi != 0 {
		return 0, fmt.Errorf("file size %q overflows uint64", input)
	}

	return product, nil
}

// DisplaySize takes a number of bytes and returns a human-readable string
func DisplaySize(bytes uint64) string {
	return humanize.IBytes(bytes)
}
