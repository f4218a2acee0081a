// Package dexport renders duplicate groups for people and for other programs.
package dexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jdefrancesco/finddupes/internal/dfs"
	"github.com/jdefrancesco/finddupes/internal/dgroup"
	"github.com/jdefrancesco/finddupes/pkg/utils"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/samber/lo"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
	FormatTree Format = "tree"
)

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FormatJSON, FormatHTML, FormatCSV, FormatTree:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", name)
}

type exportFile struct {
	Paths  []string `json:"paths"`
	Size   uint64   `json:"size"`
	Device uint64   `json:"device"`
	Inode  uint64   `json:"inode"`
	Nlink  uint64   `json:"nlink"`
}

func toExport(groups []dgroup.Group) [][]exportFile {
	out := make([][]exportFile, 0, len(groups))
	for _, g := range groups {
		out = append(out, lo.Map(g, func(f *dfs.Dfile, _ int) exportFile {
			return exportFile{
				Paths:  f.Paths(),
				Size:   f.FileSize(),
				Device: f.ID().Device,
				Inode:  f.ID().Inode,
				Nlink:  f.Nlink(),
			}
		}))
	}
	return out
}

// Write renders groups to w in the given format.
func Write(w io.Writer, format Format, groups []dgroup.Group) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, groups)
	case FormatHTML:
		return WriteHTML(w, groups)
	case FormatCSV:
		return WriteCSV(w, groups)
	case FormatTree:
		return WriteTree(w, groups)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// WriteJSON writes groups as a single-line JSON array of arrays of records.
func WriteJSON(w io.Writer, groups []dgroup.Group) error {
	if err := json.NewEncoder(w).Encode(toExport(groups)); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// WriteCSV writes one row per path. Rows of the same group share the group
// number; rows of the same physical file share device and inode.
func WriteCSV(w io.Writer, groups []dgroup.Group) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"group", "size", "device", "inode", "nlink", "path"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for i, group := range toExport(groups) {
		num := strconv.Itoa(i + 1)
		for _, f := range group {
			for _, path := range f.Paths {
				row := []string{
					num,
					strconv.FormatUint(f.Size, 10),
					strconv.FormatUint(f.Device, 10),
					strconv.FormatUint(f.Inode, 10),
					strconv.FormatUint(f.Nlink, 10),
					path,
				}
				if err := writer.Write(row); err != nil {
					return fmt.Errorf("write CSV row: %w", err)
				}
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush CSV writer: %w", err)
	}
	return nil
}

// WriteTree draws groups as a terminal tree: one node per group, one child per
// physical file, and that file's other hard links beneath it.
func WriteTree(w io.Writer, groups []dgroup.Group) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "No duplicates found.")
		return err
	}

	var leveledList pterm.LeveledList
	for i, g := range groups {
		header := fmt.Sprintf("Group %d: %d files of %s (%s reclaimable)",
			i+1, len(g), utils.DisplaySize(g.Size()), utils.DisplaySize(g.Reclaimable()))
		leveledList = append(leveledList, pterm.LeveledListItem{Level: 0, Text: pterm.Green(header)})

		for _, f := range g {
			paths := f.Paths()
			leveledList = append(leveledList, pterm.LeveledListItem{Level: 1, Text: paths[0]})
			for _, link := range paths[1:] {
				leveledList = append(leveledList, pterm.LeveledListItem{Level: 2, Text: pterm.Gray(link)})
			}
		}
	}

	root := putils.TreeFromLeveledList(leveledList)
	out, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		return fmt.Errorf("render tree: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
