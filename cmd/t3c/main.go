// Command t3c is the driver for the program-level parser pipeline:
// compile, symbols, watch, and repl subcommands built on cobra.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	fileFlag string
	debugFlag bool
)

func main() {
	root:= &cobra.Command{
		Use: "t3c",
		Short: "t3c compiles interactive-fiction source into a linker object file",
		Version: version,
	}
	root.PersistentFlags().StringVarP(&fileFlag, "file", "f", "", "project file or single source module")
	root.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "enable verbose parser diagnostics")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newSymbolsCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newReplCmd())

	if err:= root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level:= slog.LevelWarn
	if debugFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "err", err)
	_, _ = fmt.Fprintln(os.Stderr, msg+":", err)
	os.Exit(1)
}
