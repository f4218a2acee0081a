package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jdefrancesco/finddupes/internal/dsklog"
)

// signalHandler exits on SIGINT. Nothing is written or deleted by a run, so
// stopping part way leaves nothing to clean up.
func signalHandler(sig os.Signal) {
	dsklog.Dlogger.Infoln("Signal received")

	switch sig {
	case syscall.SIGINT:
		// Put the cursor back in case the spinner hid it.
		fmt.Fprintf(os.Stderr, "\x1b[?25h\r[!] SIGINT! Quitting...\n")
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "\r[!] Unhandled/Unknown signal.\n")
		os.Exit(1)
	}
}

func main() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT)
	go func() {
		for sig := range sigChan {
			signalHandler(sig)
		}
	}()

	rootCmd := RootCommand()
	rootCmd.AddCommand(FilesystemsCommand())
	rootCmd.AddCommand(VersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
