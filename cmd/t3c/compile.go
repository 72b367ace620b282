package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dr8co/t3c/config"
	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/lexer"
	"github.com/dr8co/t3c/objfile"
	"github.com/dr8co/t3c/parser"
	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

func newCompileCmd() *cobra.Command {
	var output string
	cmd:= &cobra.Command{
		Use: "compile [modules...]",
		Short: "parse one or more modules and write an object file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger:= newLogger()
			proj, err:= loadProject(args, output)
			if err != nil {
				fatal(logger, "loading project", err)
			}

			prog, syms, p, errCount:= compileProject(proj)
			for _, d:= range p.Errs.Diagnostics() {
				logger.Warn("diagnostic", "severity", d.Severity.String(), "code", string(d.Code), "pos", d.Pos)
			}
			if errCount > 0 {
				return fmt.Errorf("compilation failed with %d error(s)", errCount)
			}

			out, err:= os.Create(proj.Output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer out.Close()

			cfg:= &objfile.BuildConfig{BuildID: uuid.New(), CompilerVersion: version}
			if err:= objfile.Write(out, prog, syms, p.ObjectStmt, cfg, nil, nil); err != nil {
				return fmt.Errorf("writing object file: %w", err)
			}
			logger.Info("compiled", "output", proj.Output, "symbols", syms.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "out.t3o", "object file output path")
	return cmd
}

func loadProject(args []string, output string) (*config.Project, error) {
	if fileFlag != "" {
		if looksLikeYAML(fileFlag) {
			return config.Load(fileFlag)
		}
		return config.FromFlags([]string{fileFlag}, output, debugFlag), nil
	}
	if len(args) > 0 {
		return config.FromFlags(args, output, debugFlag), nil
	}
	return nil, fmt.Errorf("no project file or module given (use -f or pass module paths)")
}

func looksLikeYAML(path string) bool {
	return len(path) > 5 && (path[len(path)-5:] == ".yaml" || path[len(path)-4:] == ".yml")
}

// compileProject parses every module in proj into one shared symbol table,
// in the order modules are listed, importing any symbolImports first.
func compileProject(proj *config.Project) (*ir.Program, *symtab.SymbolTable, *parser.Parser, int) {
	syms:= symtab.New()
	for _, path:= range proj.SymbolImports {
		f, err:= os.Open(path)
		if err != nil {
			continue
		}
		_, _ = objfile.ReadSymbols(f, syms)
		f.Close()
	}

	errs:= parser.NewErrorSink()
	var lastParser *parser.Parser
	merged:= &ir.Program{}

	for i, path:= range proj.Modules {
		content, err:= os.ReadFile(path)
		if err != nil {
			errs.Fatal(token.Pos{File: i}, parser.CodeUnexpectedEOF, path, err.Error())
			continue
		}
		lx:= lexer.New(string(content), i)
		ts:= parser.NewTokenSource(lx)
		p:= parser.New(ts, syms, errs, i)
		prog:= p.ParseProgram()
		merged.TopLevels = append(merged.TopLevels, prog.TopLevels...)
		lastParser = p
	}

	errCount:= 0
	for _, d:= range errs.Diagnostics() {
		if d.Severity >= parser.SevError {
			errCount++
		}
	}
	return merged, syms, lastParser, errCount
}
