package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dr8co/t3c/objfile"
	"github.com/dr8co/t3c/symtab"
)

func newSymbolsCmd() *cobra.Command {
	cmd:= &cobra.Command{
		Use: "symbols <export-file> [more-export-files...]",
		Short: "merge symbol-export files and report what they contain",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger:= newLogger()
			syms:= symtab.New()
			for _, path:= range args {
				f, err:= os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				warnings, err:= objfile.ReadSymbols(f, syms)
				f.Close()
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				for _, w:= range warnings {
					logger.Warn("symbol import", "file", path, "symbol", w.Name, "message", w.Message)
				}
			}
			fmt.Printf("%d symbols loaded\n", syms.Len())
			syms.Enumerate(func(sym symtab.Symbol) {
				fmt.Printf("%-8s %s\n", sym.Kind(), sym.Name())
			})
			return nil
		},
	}
	return cmd
}
