package main

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dr8co/t3c/objfile"
)

func newWatchCmd() *cobra.Command {
	var output string
	cmd:= &cobra.Command{
		Use: "watch [modules...]",
		Short: "recompile on source-file change",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger:= newLogger()
			proj, err:= loadProject(args, output)
			if err != nil {
				fatal(logger, "loading project", err)
			}

			watcher, err:= fsnotify.NewWatcher()
			if err != nil {
				fatal(logger, "starting watcher", err)
			}
			defer watcher.Close()

			for _, path:= range proj.Modules {
				if err:= watcher.Add(filepath.Dir(path)); err != nil {
					fatal(logger, "watching "+path, err)
				}
			}

			build:= func() {
				prog, syms, p, errCount:= compileProject(proj)
				for _, d:= range p.Errs.Diagnostics() {
					logger.Warn("diagnostic", "severity", d.Severity.String(), "code", string(d.Code), "pos", d.Pos)
				}
				if errCount > 0 {
					logger.Error("build failed", "errors", errCount)
					return
				}
				out, err:= os.Create(proj.Output)
				if err != nil {
					logger.Error("creating output", "err", err)
					return
				}
				defer out.Close()
				cfg:= &objfile.BuildConfig{BuildID: uuid.New(), CompilerVersion: version}
				if err:= objfile.Write(out, prog, syms, p.ObjectStmt, cfg, nil, nil); err != nil {
					logger.Error("writing object file", "err", err)
					return
				}
				logger.Info("rebuilt", "output", proj.Output, "symbols", syms.Len())
			}

			build()
			for {
				select {
				case event, ok:= <-watcher.Events:
					if !ok {
						return nil
					}
					if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
						logger.Debug("change detected", "file", event.Name)
						build()
					}
				case err, ok:= <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn("watcher error", "err", err)
				}
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "out.t3o", "object file output path")
	return cmd
}
