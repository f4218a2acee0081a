package main

import (
	"fmt"
	"os"

	"github.com/jdefrancesco/finddupes/internal/dfs"

	"github.com/spf13/cobra"
)

func FilesystemsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "filesystems [PATH...]",
		Short: "List mounted filesystems",
		Long: `List mounted filesystems with their usage. Given paths, print the
filesystem type each one lives on instead. Hard links never span filesystems.`,
		Example: `  finddupes filesystems
  finddupes filesystems ~/Pictures /mnt/backup`,
		SilenceUsage: true,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return dfs.ListFileSystems(os.Stdout)
		}

		for _, path := range args {
			fsType, err := dfs.FilesystemType(path)
			if err != nil {
				return fmt.Errorf("detecting filesystem of %s: %w", path, err)
			}
			fmt.Printf("%s\t%s\n", fsType, path)
		}
		return nil
	}

	return command
}
