package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jdefrancesco/finddupes/internal/config"
	"github.com/jdefrancesco/finddupes/internal/dexport"
	"github.com/jdefrancesco/finddupes/internal/dfind"
	"github.com/jdefrancesco/finddupes/internal/dgroup"
	"github.com/jdefrancesco/finddupes/internal/dsklog"
	"github.com/jdefrancesco/finddupes/internal/ui"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/cobra"
)

// progressInterval limits how often the spinner text is redrawn.
const progressInterval = 100 * time.Millisecond

var flagConfigFile string

func RootCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "finddupes [flags] PATH...",
		Short: "Identify duplicate files",
		Long: `Walk each PATH and report files whose contents are byte-for-byte identical.
Hard links to one file are reported together as a single file, never as duplicates.`,
		Example: `  finddupes ~/Pictures
  finddupes --min-size 1MiB --format html --output dupes.html /srv /backup`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := command.Flags()
	flags.String("min-size", config.DefaultMinSize, "Ignore files smaller than this (e.g. 100000, 10k, 4KiB)")
	flags.String("max-size", "", "Ignore files larger than this (no limit when empty)")
	flags.Bool("skip-hidden", false, "Skip dotfiles and dot directories")
	flags.Bool("quick-reject", false, "Compare a digest of each file's first block before full contents")
	flags.StringP("format", "f", "json", "Output format: json, html, csv, tree or tui")
	flags.StringP("output", "o", "", "Write results to this file instead of stdout")
	flags.String("log-file", "", "Write logs to this file")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error); defaults to $FINDDUPES_LOG_LEVEL or info")
	flags.BoolP("verbose", "v", false, "Mirror log output to stderr")
	flags.Bool("no-banner", false, "Do not show the banner")
	command.PersistentFlags().StringVarP(&flagConfigFile, "config", "c", "", "YAML config file")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfigFile, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)

		if !cfg.NoBanner {
			showHeader()
		}

		start := time.Now()
		groups, summary, err := search(args, cfg)
		if err != nil {
			return err
		}

		pterm.Success.WithWriter(os.Stderr).Println(
			summary.String() + " in " + pterm.LightWhite(time.Since(start).Round(time.Millisecond)))

		return emit(cfg, groups)
	}

	return command
}

func setupLogging(cfg *config.Config) {
	dsklog.InitializeDlogger(cfg.LogFile)
	if cfg.LogLevel != "" {
		if err := dsklog.SetLevel(cfg.LogLevel); err != nil {
			pterm.Warning.WithWriter(os.Stderr).Println(err)
		}
	}
	if cfg.Verbose {
		dsklog.EnableConsole(os.Stderr)
	}
	dsklog.Dlogger.Info("Logger initialized")
}

// search runs the finder behind a spinner on stderr.
func search(roots []string, cfg *config.Config) ([]dgroup.Group, dfind.Summary, error) {
	spinner, _ := pterm.DefaultSpinner.WithWriter(os.Stderr).Start("Walking...")

	var last time.Time
	finder := dfind.New(roots, cfg, dfind.WithProgress(func(dir string) {
		if now := time.Now(); now.Sub(last) >= progressInterval {
			last = now
			spinner.UpdateText("Walking " + dir)
		}
	}))

	clusterer, err := finder.Run()
	if err != nil {
		_ = spinner.Stop()
		return nil, dfind.Summary{}, err
	}

	spinner.UpdateText("Comparing candidates...")
	var groups []dgroup.Group
	for clusterer.Next() {
		groups = append(groups, clusterer.Group())
		spinner.UpdateText(fmt.Sprintf("Comparing candidates... %d groups so far", len(groups)))
	}
	_ = spinner.Stop()

	if err := clusterer.Err(); err != nil {
		return nil, dfind.Summary{}, fmt.Errorf("comparing files: %w", err)
	}

	summary := finder.Summary()
	summary.Groups = len(groups)
	for _, g := range groups {
		summary.Reclaimable += g.Reclaimable()
	}
	return groups, summary, nil
}

func emit(cfg *config.Config, groups []dgroup.Group) error {
	if cfg.Format == "tui" {
		return ui.LaunchTUI(groups)
	}

	format, err := dexport.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := dexport.WriteFile(cfg.Output, format, groups); err != nil {
			return err
		}
		pterm.Info.WithWriter(os.Stderr).Println("Results written to " + cfg.Output)
		return nil
	}
	return dexport.Write(os.Stdout, format, groups)
}

// showHeader prints colorful finddupes banner.
func showHeader() {
	fmt.Fprintln(os.Stderr, "")

	_ = pterm.DefaultBigText.WithWriter(os.Stderr).WithLetters(
		putils.LettersFromStringWithStyle("find", pterm.NewStyle(pterm.FgLightGreen)),
		putils.LettersFromStringWithStyle("dupes", pterm.NewStyle(pterm.FgLightWhite))).
		Render()
}
